// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"drug-repurpose-go/internal/model"
)

// ErrArtifactNotFound 表示请求的工件（排名 CSV 或图谱 HTML）不存在。
// 调用方据此返回 404，而不是让文件错误直接穿透到用户。
var ErrArtifactNotFound = errors.New("artifact not found")

// performanceObject 是共享性能指标文件的对象名，对所有 疾病×模型 组合复用。
const performanceObject = "performance_metrics.csv"

// ArtifactStore 定义了对预计算工件的只读访问接口。
// 工件由离线流水线生成，本服务每次调用都重新读取，不做缓存。
type ArtifactStore interface {
	// RankingTable 按复合键加载排名表（逗号分隔 CSV）。
	RankingTable(ctx context.Context, key string) (*model.RankingTable, error)
	// PerformanceRecords 加载共享的性能指标表（分号分隔 CSV）。
	PerformanceRecords(ctx context.Context) ([]model.PerformanceRecord, error)
	// KnowledgeGraph 按疾病加载知识图谱 HTML 原始字节，内容对本系统不透明。
	KnowledgeGraph(ctx context.Context, d model.Disease) ([]byte, error)
}

// fsArtifactStore 从本地目录读取工件，目录布局与离线流水线的产出一致：
// <modelsDir>/<key>.csv、<modelsDir>/performance_metrics.csv、
// <graphsDir>/knowledge_graph_<Disease>.html。
type fsArtifactStore struct {
	modelsDir string
	graphsDir string
}

// NewFSArtifactStore 创建一个基于本地文件系统的 ArtifactStore。
func NewFSArtifactStore(modelsDir, graphsDir string) ArtifactStore {
	return &fsArtifactStore{modelsDir: modelsDir, graphsDir: graphsDir}
}

func (s *fsArtifactStore) RankingTable(ctx context.Context, key string) (*model.RankingTable, error) {
	f, err := os.Open(filepath.Join(s.modelsDir, model.RankingObject(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("ranking %q: %w", key, ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("failed to open ranking file: %w", err)
	}
	defer f.Close()
	return parseRankingTable(f)
}

func (s *fsArtifactStore) PerformanceRecords(ctx context.Context) ([]model.PerformanceRecord, error) {
	f, err := os.Open(filepath.Join(s.modelsDir, performanceObject))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("performance metrics: %w", ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("failed to open performance file: %w", err)
	}
	defer f.Close()
	return parsePerformanceRecords(f)
}

func (s *fsArtifactStore) KnowledgeGraph(ctx context.Context, d model.Disease) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.graphsDir, model.GraphObject(d)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("graph for %q: %w", d, ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return data, nil
}

// parseRankingTable 解析逗号分隔的排名 CSV，首行为列名，行序保持文件原序。
func parseRankingTable(r io.Reader) (*model.RankingTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 宽容处理列数不齐的行
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ranking csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ranking csv is empty")
	}
	return &model.RankingTable{Columns: rows[0], Rows: rows[1:]}, nil
}

// parsePerformanceRecords 解析分号分隔的性能指标 CSV。
// 必需列：final_selection、Measure、Value。
func parsePerformanceRecords(r io.Reader) ([]model.PerformanceRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse performance csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("performance csv is empty")
	}

	selIdx, measureIdx, valueIdx := -1, -1, -1
	for i, col := range rows[0] {
		switch strings.TrimSpace(col) {
		case "final_selection":
			selIdx = i
		case "Measure":
			measureIdx = i
		case "Value":
			valueIdx = i
		}
	}
	if selIdx == -1 || measureIdx == -1 || valueIdx == -1 {
		return nil, fmt.Errorf("performance csv missing required columns, got %v", rows[0])
	}

	records := make([]model.PerformanceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if selIdx >= len(row) || measureIdx >= len(row) || valueIdx >= len(row) {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[valueIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse performance value %q: %w", row[valueIdx], err)
		}
		records = append(records, model.PerformanceRecord{
			FinalSelection: strings.TrimSpace(row[selIdx]),
			Measure:        strings.TrimSpace(row[measureIdx]),
			Value:          value,
		})
	}
	return records, nil
}
