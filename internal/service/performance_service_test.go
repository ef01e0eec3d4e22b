package service

import (
	"context"
	"testing"

	"drug-repurpose-go/internal/model"
)

// fakeArtifactStore 以内存数据实现 ArtifactStore，供服务层测试使用。
type fakeArtifactStore struct {
	rankings    map[string]*model.RankingTable
	performance []model.PerformanceRecord
	graphs      map[model.Disease][]byte
	err         error
}

func (f *fakeArtifactStore) RankingTable(ctx context.Context, key string) (*model.RankingTable, error) {
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.rankings[key]; ok {
		return t, nil
	}
	return nil, errArtifactNotFoundForTest
}

func (f *fakeArtifactStore) PerformanceRecords(ctx context.Context) ([]model.PerformanceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.performance, nil
}

func (f *fakeArtifactStore) KnowledgeGraph(ctx context.Context, d model.Disease) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	if g, ok := f.graphs[d]; ok {
		return g, nil
	}
	return nil, errArtifactNotFoundForTest
}

func TestFilterByKeyNoMatches(t *testing.T) {
	records := []model.PerformanceRecord{
		{FinalSelection: "DengueTransE", Measure: "hits@10", Value: 0.35},
	}
	filtered := FilterByKey(records, "MalariaUM")
	if filtered == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(filtered) != 0 {
		t.Fatalf("expected 0 records, got %d", len(filtered))
	}
}

func TestFilterByKeySingleMatch(t *testing.T) {
	records := []model.PerformanceRecord{
		{FinalSelection: "DengueTransE", Measure: "hits@10", Value: 0.35},
		{FinalSelection: "MalariaUM", Measure: "hits@10", Value: 0.12},
	}
	filtered := FilterByKey(records, "MalariaUM")
	if len(filtered) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(filtered))
	}
	if filtered[0].Value != 0.12 {
		t.Fatalf("wrong record returned: %+v", filtered[0])
	}
}

func TestFilterByKeyPreservesOrder(t *testing.T) {
	records := []model.PerformanceRecord{
		{FinalSelection: "DengueTransE", Measure: "hits@1", Value: 0.1},
		{FinalSelection: "MalariaUM", Measure: "hits@10", Value: 0.5},
		{FinalSelection: "DengueTransE", Measure: "hits@10", Value: 0.3},
		{FinalSelection: "DengueTransE", Measure: "MRR", Value: 0.2},
	}
	filtered := FilterByKey(records, "DengueTransE")
	if len(filtered) != 3 {
		t.Fatalf("expected 3 records, got %d", len(filtered))
	}
	wantMeasures := []string{"hits@1", "hits@10", "MRR"}
	for i, m := range wantMeasures {
		if filtered[i].Measure != m {
			t.Fatalf("order not preserved at %d: got %q want %q", i, filtered[i].Measure, m)
		}
	}
}

func TestForSelection(t *testing.T) {
	store := &fakeArtifactStore{
		performance: []model.PerformanceRecord{
			{FinalSelection: "DengueTransE", Measure: "hits@10", Value: 0.35},
			{FinalSelection: "ChagasUM", Measure: "hits@10", Value: 0.18},
		},
	}
	svc := NewPerformanceService(store)

	records, err := svc.ForSelection(context.Background(), "ChagasUM")
	if err != nil {
		t.Fatalf("ForSelection: %v", err)
	}
	if len(records) != 1 || records[0].FinalSelection != "ChagasUM" {
		t.Fatalf("unexpected result: %+v", records)
	}
}
