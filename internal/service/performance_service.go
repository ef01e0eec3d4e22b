package service

import (
	"context"
	"io"

	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
	"drug-repurpose-go/pkg/chart"
)

// PerformanceService 定义了模型性能指标的查询与绘图接口。
type PerformanceService interface {
	// All 返回全量性能指标记录，保持源文件行序。
	All(ctx context.Context) ([]model.PerformanceRecord, error)
	// ForSelection 返回 final_selection 等于复合键的记录子集。
	// 没有匹配行时返回空切片，不视为错误。
	ForSelection(ctx context.Context, key string) ([]model.PerformanceRecord, error)
	// ChartPNG 渲染性能条形图。key 为空时绘制全量图（横轴为模型选择），
	// 否则绘制该选择的各项指标。
	ChartPNG(ctx context.Context, key string, w io.Writer) error
}

type performanceService struct {
	store repository.ArtifactStore
}

// NewPerformanceService 创建一个新的 PerformanceService 实例。
func NewPerformanceService(store repository.ArtifactStore) PerformanceService {
	return &performanceService{store: store}
}

func (s *performanceService) All(ctx context.Context) ([]model.PerformanceRecord, error) {
	return s.store.PerformanceRecords(ctx)
}

func (s *performanceService) ForSelection(ctx context.Context, key string) ([]model.PerformanceRecord, error) {
	records, err := s.store.PerformanceRecords(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByKey(records, key), nil
}

// FilterByKey 按 final_selection 等值过滤，保持原始行序。
func FilterByKey(records []model.PerformanceRecord, key string) []model.PerformanceRecord {
	filtered := make([]model.PerformanceRecord, 0)
	for _, r := range records {
		if r.FinalSelection == key {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (s *performanceService) ChartPNG(ctx context.Context, key string, w io.Writer) error {
	records, err := s.store.PerformanceRecords(ctx)
	if err != nil {
		return err
	}

	if key == "" {
		// 全量视图：每根柱是一个 疾病×模型 选择
		bars := make([]chart.Bar, 0, len(records))
		for _, r := range records {
			bars = append(bars, chart.Bar{Label: r.FinalSelection, Value: r.Value})
		}
		return chart.RenderBars("Performance Metrics of Embedding Models", "Value", bars, w)
	}

	filtered := FilterByKey(records, key)
	bars := make([]chart.Bar, 0, len(filtered))
	for _, r := range filtered {
		bars = append(bars, chart.Bar{Label: r.Measure, Value: r.Value})
	}
	return chart.RenderBars("Performance Metrics", "Value", bars, w)
}
