package service

import (
	"context"
	"time"

	"github.com/stockflow/internal/logger"
	"github.com/stockflow/internal/repository"
)

// 报表类型
const (
	ReportKindCompletion = "completion"
	ReportKindExpense    = "expense"
)

// ReportCache 报表缓存，未启用时 Get 返回 false
type ReportCache interface {
	Get(ctx context.Context, kind string, brandID uint, month string, dest interface{}) (bool, error)
	Set(ctx context.Context, kind string, brandID uint, month string, value interface{}) error
}

// ReportObserver 报表计算观测（指标上报）
type ReportObserver interface {
	ObserveReport(kind string, cacheHit bool, duration time.Duration)
}

// ReportService 活动完成与费用报表服务
type ReportService struct {
	brandRepo    repository.BrandRepository
	activityRepo repository.ActivityRepository
	reportRepo   repository.ReportRepository
	cache        ReportCache
	observer     ReportObserver
}

// NewReportService 创建报表服务；cache 与 observer 可为空
func NewReportService(
	brandRepo repository.BrandRepository,
	activityRepo repository.ActivityRepository,
	reportRepo repository.ReportRepository,
	cache ReportCache,
	observer ReportObserver,
) *ReportService {
	return &ReportService{
		brandRepo:    brandRepo,
		activityRepo: activityRepo,
		reportRepo:   reportRepo,
		cache:        cache,
		observer:     observer,
	}
}

// ComputeCompletion 品牌月度活动完成情况
func (s *ReportService) ComputeCompletion(ctx context.Context, brandID uint, year, month int) (*CompletionReport, error) {
	report, err := s.compute(ctx, ReportKindCompletion, brandID, year, month)
	if err != nil {
		return nil, err
	}
	return &report.CompletionReport, nil
}

// ComputeExpense 品牌月度费用（原始支出、返点、实际支出）
func (s *ReportService) ComputeExpense(ctx context.Context, brandID uint, year, month int) (*ExpenseReport, error) {
	return s.compute(ctx, ReportKindExpense, brandID, year, month)
}

func (s *ReportService) compute(ctx context.Context, kind string, brandID uint, year, month int) (*ExpenseReport, error) {
	key, err := monthKey(year, month)
	if err != nil {
		return nil, err
	}
	startedAt := time.Now()

	if s.cache != nil {
		var cached ExpenseReport
		hit, err := s.cache.Get(ctx, kind, brandID, key, &cached)
		if err != nil {
			logger.Warnw("report_cache_get_failed", "kind", kind, "brand_id", brandID, "month", key, "error", err)
		}
		if hit {
			s.observe(kind, true, startedAt)
			return &cached, nil
		}
	}

	report, err := s.evaluate(brandID, key)
	if err != nil {
		return nil, err
	}
	s.store(ctx, kind, brandID, key, report)
	s.observe(kind, false, startedAt)
	return report, nil
}

// Warm 跳过缓存读取，重新计算品牌月份报表并覆盖两类报表缓存
func (s *ReportService) Warm(ctx context.Context, brandID uint, year, month int) (*ExpenseReport, error) {
	key, err := monthKey(year, month)
	if err != nil {
		return nil, err
	}
	startedAt := time.Now()
	report, err := s.evaluate(brandID, key)
	if err != nil {
		return nil, err
	}
	for _, kind := range []string{ReportKindCompletion, ReportKindExpense} {
		s.store(ctx, kind, brandID, key, report)
	}
	s.observe(ReportKindExpense, false, startedAt)
	return report, nil
}

// evaluate 从库中读取品牌月份数据并计算报表
func (s *ReportService) evaluate(brandID uint, key string) (*ExpenseReport, error) {
	brand, err := s.brandRepo.GetByID(brandID)
	if err != nil {
		return nil, logStoreError("report_brand_get_failed", err, "brand_id", brandID)
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	totalTarget, err := s.activityRepo.GetTotalTarget(brandID, key)
	if err != nil {
		return nil, logStoreError("report_total_target_get_failed", err, "brand_id", brandID, "month", key)
	}
	activities, err := s.activityRepo.ListMonthly(brandID, key)
	if err != nil {
		return nil, logStoreError("report_activity_list_failed", err, "brand_id", brandID, "month", key)
	}
	totals, err := s.reportRepo.MonthlyItemTotals(brandID, key)
	if err != nil {
		return nil, logStoreError("report_item_totals_failed", err, "brand_id", brandID, "month", key)
	}

	report := Evaluate(EngineInput{
		BrandID:     brandID,
		Month:       key,
		TotalTarget: totalTarget,
		Activities:  activities,
		ItemTotals:  totals,
	})
	return &report, nil
}

func (s *ReportService) store(ctx context.Context, kind string, brandID uint, key string, report *ExpenseReport) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, kind, brandID, key, report); err != nil {
		logger.Warnw("report_cache_set_failed", "kind", kind, "brand_id", brandID, "month", key, "error", err)
	}
}

func (s *ReportService) observe(kind string, cacheHit bool, startedAt time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveReport(kind, cacheHit, time.Since(startedAt))
}
