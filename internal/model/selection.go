// Package model 包含了应用的数据模型定义。
package model

import "fmt"

// Disease 是目标疾病的标识符，同时作为工件文件名的组成部分。
type Disease string

// EmbeddingModel 是知识图谱嵌入模型的标识符，作用同 Disease。
type EmbeddingModel string

// 项目聚焦的七种虫媒/寄生虫疾病。顺序即前端下拉框的展示顺序。
const (
	DiseaseDengue          Disease = "Dengue"
	DiseaseChagas          Disease = "Chagas"
	DiseaseMalaria         Disease = "Malaria"
	DiseaseYellowFever     Disease = "Yellow Fever"
	DiseaseLeishmaniasis   Disease = "Leishmaniasis"
	DiseaseFilariasis      Disease = "Filariasis"
	DiseaseSchistosomiasis Disease = "Schistosomiasis"
)

// 七种嵌入模型。排名 CSV 由这些模型离线生成，本服务只展示结果。
const (
	ModelTransE   EmbeddingModel = "TransE"
	ModelTransR   EmbeddingModel = "TransR"
	ModelTransH   EmbeddingModel = "TransH"
	ModelUM       EmbeddingModel = "UM"
	ModelDistMult EmbeddingModel = "DistMult"
	ModelRESCAL   EmbeddingModel = "RESCAL"
	ModelERMLP    EmbeddingModel = "ERMLP"
)

var diseases = []Disease{
	DiseaseDengue,
	DiseaseChagas,
	DiseaseMalaria,
	DiseaseYellowFever,
	DiseaseLeishmaniasis,
	DiseaseFilariasis,
	DiseaseSchistosomiasis,
}

var embeddingModels = []EmbeddingModel{
	ModelTransE,
	ModelTransR,
	ModelTransH,
	ModelUM,
	ModelDistMult,
	ModelRESCAL,
	ModelERMLP,
}

// Diseases 返回所有受支持疾病的有序列表。
func Diseases() []Disease {
	out := make([]Disease, len(diseases))
	copy(out, diseases)
	return out
}

// EmbeddingModels 返回所有受支持嵌入模型的有序列表。
func EmbeddingModels() []EmbeddingModel {
	out := make([]EmbeddingModel, len(embeddingModels))
	copy(out, embeddingModels)
	return out
}

// ParseDisease 校验用户输入是否为受支持的疾病。
func ParseDisease(s string) (Disease, error) {
	for _, d := range diseases {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("不支持的疾病: %q", s)
}

// ParseEmbeddingModel 校验用户输入是否为受支持的嵌入模型。
func ParseEmbeddingModel(s string) (EmbeddingModel, error) {
	for _, m := range embeddingModels {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("不支持的嵌入模型: %q", s)
}

// CompositeKey 将疾病与模型直接拼接（无分隔符），得到定位排名工件的复合键。
// 这是一个纯字符串操作，不校验对应工件是否存在；存在性由加载方判定。
func CompositeKey(d Disease, m EmbeddingModel) string {
	return string(d) + string(m)
}

// RankingObject 返回复合键对应的排名 CSV 的对象名（相对路径）。
func RankingObject(key string) string {
	return key + ".csv"
}

// GraphObject 返回疾病对应的知识图谱 HTML 的对象名（相对路径）。
func GraphObject(d Disease) string {
	return fmt.Sprintf("knowledge_graph_%s.html", d)
}

// RecommendationsDownloadName 返回推荐结果下载文件的用户可见文件名。
func RecommendationsDownloadName(key string) string {
	return key + "_recommendations.csv"
}

// GraphDownloadName 返回知识图谱下载文件的用户可见文件名。
func GraphDownloadName(d Disease) string {
	return fmt.Sprintf("%s_knowledge_graph.html", d)
}
