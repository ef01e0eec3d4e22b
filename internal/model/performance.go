package model

// PerformanceRecord 是性能指标表中的一行，描述某个 疾病×模型 组合
// 在一项评估指标上的取值。FinalSelection 与排名工件的复合键同构。
type PerformanceRecord struct {
	FinalSelection string  `json:"finalSelection"`
	Measure        string  `json:"measure"`
	Value          float64 `json:"value"`
}
