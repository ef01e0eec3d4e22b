// Package service 包含了应用的业务逻辑层。
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
)

// RecommendationResult 是一次推荐查询的完整结果。
type RecommendationResult struct {
	Key     string                       `json:"key"`
	Table   *model.RankingTable          `json:"table"`
	Records []model.RecommendationRecord `json:"records"`
}

// RecommendationService 定义了药物推荐查询的接口。
type RecommendationService interface {
	// Get 按 (疾病, 模型) 选择加载对应的排名工件。
	Get(ctx context.Context, d model.Disease, m model.EmbeddingModel) (*RecommendationResult, error)
	// DownloadCSV 返回推荐结果的下载文件名与 UTF-8 逗号分隔的 CSV 内容。
	DownloadCSV(ctx context.Context, d model.Disease, m model.EmbeddingModel) (string, []byte, error)
}

type recommendationService struct {
	store repository.ArtifactStore
}

// NewRecommendationService 创建一个新的 RecommendationService 实例。
func NewRecommendationService(store repository.ArtifactStore) RecommendationService {
	return &recommendationService{store: store}
}

func (s *recommendationService) Get(ctx context.Context, d model.Disease, m model.EmbeddingModel) (*RecommendationResult, error) {
	key := model.CompositeKey(d, m)
	table, err := s.store.RankingTable(ctx, key)
	if err != nil {
		return nil, err
	}
	return &RecommendationResult{
		Key:     key,
		Table:   table,
		Records: table.Records(),
	}, nil
}

func (s *recommendationService) DownloadCSV(ctx context.Context, d model.Disease, m model.EmbeddingModel) (string, []byte, error) {
	result, err := s.Get(ctx, d, m)
	if err != nil {
		return "", nil, err
	}

	// 从已加载的表重新编码，保留源文件的全部列与行序
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(result.Table.Columns); err != nil {
		return "", nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range result.Table.Rows {
		if err := w.Write(row); err != nil {
			return "", nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return model.RecommendationsDownloadName(result.Key), buf.Bytes(), nil
}
