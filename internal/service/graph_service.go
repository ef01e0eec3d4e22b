package service

import (
	"context"

	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
)

// GraphService 定义了知识图谱文档的访问接口。
// 图谱 HTML 是离线渲染好的自包含文档，这里只加载、嵌入和下载，从不解析。
type GraphService interface {
	Document(ctx context.Context, d model.Disease) ([]byte, error)
	Download(ctx context.Context, d model.Disease) (string, []byte, error)
}

type graphService struct {
	store repository.ArtifactStore
}

// NewGraphService 创建一个新的 GraphService 实例。
func NewGraphService(store repository.ArtifactStore) GraphService {
	return &graphService{store: store}
}

func (s *graphService) Document(ctx context.Context, d model.Disease) ([]byte, error) {
	return s.store.KnowledgeGraph(ctx, d)
}

func (s *graphService) Download(ctx context.Context, d model.Disease) (string, []byte, error) {
	data, err := s.store.KnowledgeGraph(ctx, d)
	if err != nil {
		return "", nil, err
	}
	return model.GraphDownloadName(d), data, nil
}
