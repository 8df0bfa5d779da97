package service

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/stockflow/internal/constants"
	"github.com/stockflow/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// validateStruct 执行结构体标签校验，并转换为 ValidationError
func validateStruct(input interface{}) error {
	err := inputValidator().Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = describeTag(fe)
	}
	return &ValidationError{Fields: fields}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	default:
		return "failed " + fe.Tag()
	}
}

// parseDate 校验 yyyy-mm-dd 日期
func parseDate(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	parsed, err := time.Parse(constants.DateLayout, trimmed)
	if err != nil {
		return "", newValidationError(field, "must be a date in yyyy-mm-dd format")
	}
	return parsed.Format(constants.DateLayout), nil
}

// monthKey 校验年月并生成 YYYY-MM
func monthKey(year, month int) (string, error) {
	if year < 1 || year > 9999 {
		return "", newValidationError("year", "must be between 1 and 9999")
	}
	if month < 1 || month > 12 {
		return "", newValidationError("month", "must be between 1 and 12")
	}
	return repository.MonthKey(year, month), nil
}

// validatePrices 原价与优惠价需同时提供，均不得为负，且优惠价低于原价
func validatePrices(original, discount *decimal.Decimal) error {
	if original == nil && discount == nil {
		return nil
	}
	if original == nil {
		return newValidationError("original_price", "is required when discount_price is set")
	}
	if discount == nil {
		return newValidationError("discount_price", "is required when original_price is set")
	}
	if original.IsNegative() {
		return newValidationError("original_price", "must not be negative")
	}
	if discount.IsNegative() {
		return newValidationError("discount_price", "must not be negative")
	}
	if !discount.LessThan(*original) {
		return newValidationError("discount_price", "must be less than original_price")
	}
	return nil
}

func normalizeRemarks(remarks *string) *string {
	if remarks == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*remarks)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
