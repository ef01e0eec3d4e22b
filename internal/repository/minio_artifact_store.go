package repository

import (
	"context"
	"fmt"
	"io"
	"path"

	"drug-repurpose-go/internal/model"

	"github.com/minio/minio-go/v7"
)

// minioArtifactStore 从 MinIO 存储桶读取工件，对象键与文件系统布局一致
// （embedding_models/... 与 graphs/... 前缀）。适用于工件由流水线直接
// 发布到对象存储的部署形态。
type minioArtifactStore struct {
	client *minio.Client
	bucket string
}

// NewMinioArtifactStore 创建一个基于 MinIO 的 ArtifactStore。
func NewMinioArtifactStore(client *minio.Client, bucket string) ArtifactStore {
	return &minioArtifactStore{client: client, bucket: bucket}
}

func (s *minioArtifactStore) RankingTable(ctx context.Context, key string) (*model.RankingTable, error) {
	obj, err := s.getObject(ctx, path.Join("embedding_models", model.RankingObject(key)))
	if err != nil {
		return nil, fmt.Errorf("ranking %q: %w", key, err)
	}
	defer obj.Close()
	return parseRankingTable(obj)
}

func (s *minioArtifactStore) PerformanceRecords(ctx context.Context) ([]model.PerformanceRecord, error) {
	obj, err := s.getObject(ctx, path.Join("embedding_models", performanceObject))
	if err != nil {
		return nil, fmt.Errorf("performance metrics: %w", err)
	}
	defer obj.Close()
	return parsePerformanceRecords(obj)
}

func (s *minioArtifactStore) KnowledgeGraph(ctx context.Context, d model.Disease) ([]byte, error) {
	obj, err := s.getObject(ctx, path.Join("graphs", model.GraphObject(d)))
	if err != nil {
		return nil, fmt.Errorf("graph for %q: %w", d, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph object: %w", err)
	}
	return data, nil
}

// getObject 打开对象并确认其存在；对象缺失统一归一为 ErrArtifactNotFound。
func (s *minioArtifactStore) getObject(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %q: %w", objectName, err)
	}
	// GetObject 是惰性的，Stat 才会真正触发请求并暴露 NoSuchKey
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to stat object %q: %w", objectName, err)
	}
	return obj, nil
}
