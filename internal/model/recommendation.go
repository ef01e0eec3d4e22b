package model

import (
	"strconv"
	"strings"
)

// RankingTable 是一张按行有序、按列命名的排名表。
// 为了下载时能原样还原源 CSV 的全部列，这里保留通用的表结构，
// 而 Records 提供面向展示的类型化视图。
type RankingTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// RecommendationRecord 是排名表中的一行：候选药物、模型相关的得分
// （不能直接当作概率解读）以及是否已在 ClinicalTrials.gov 登记。
type RecommendationRecord struct {
	Drug             string  `json:"drug"`
	Score            float64 `json:"score"`
	InClinicalTrials string  `json:"inClinicalTrials"`
}

// columnIndex 返回列名（忽略大小写）对应的下标，未找到返回 -1。
func (t *RankingTable) columnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// Records 将表转换为类型化的推荐记录列表，保持原始行序。
// 缺失的列取零值；score 解析失败同样取零值，不视为错误。
func (t *RankingTable) Records() []RecommendationRecord {
	drugIdx := t.columnIndex("drug")
	if drugIdx == -1 {
		// 兼容以化合物命名首列的排名文件
		drugIdx = 0
	}
	scoreIdx := t.columnIndex("score")
	trialsIdx := t.columnIndex("in_clinical_trials")

	records := make([]RecommendationRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		var rec RecommendationRecord
		if drugIdx >= 0 && drugIdx < len(row) {
			rec.Drug = row[drugIdx]
		}
		if scoreIdx >= 0 && scoreIdx < len(row) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[scoreIdx]), 64); err == nil {
				rec.Score = v
			}
		}
		if trialsIdx >= 0 && trialsIdx < len(row) {
			rec.InClinicalTrials = row[trialsIdx]
		}
		records = append(records, rec)
	}
	return records
}
