package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation 输入校验失败，具体字段见 ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrNotFound 通用未找到
	ErrNotFound          = errors.New("not found")
	ErrBrandNotFound     = fmt.Errorf("brand %w", ErrNotFound)
	ErrItemNotFound      = fmt.Errorf("item %w", ErrNotFound)
	ErrPurchaseNotFound  = fmt.Errorf("purchase %w", ErrNotFound)
	ErrActivityNotFound  = fmt.Errorf("activity %w", ErrNotFound)
	ErrBrandExists       = errors.New("brand already exists")
	ErrItemBrandConflict = errors.New("item is bound to another brand")
)

// ValidationError 字段级校验错误，errors.Is(err, ErrValidation) 为真
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[key]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
