package model

import "testing"

func TestRankingTableRecords(t *testing.T) {
	table := &RankingTable{
		Columns: []string{"drug", "score", "in_clinical_trials"},
		Rows: [][]string{
			{"Compound::DB00123", "0.87", "yes"},
			{"Compound::DB00456", "-1.52", "no"},
		},
	}
	records := table.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Drug != "Compound::DB00123" || records[0].Score != 0.87 || records[0].InClinicalTrials != "yes" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Score != -1.52 {
		t.Fatalf("expected negative score preserved, got %v", records[1].Score)
	}
}

func TestRankingTableRecordsWithUnknownColumns(t *testing.T) {
	// 缺少 drug 列时退回首列；未知的 score 取零值而不是报错
	table := &RankingTable{
		Columns: []string{"compound", "rank"},
		Rows:    [][]string{{"aspirin", "1"}},
	}
	records := table.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Drug != "aspirin" {
		t.Fatalf("expected first column as drug, got %q", records[0].Drug)
	}
	if records[0].Score != 0 {
		t.Fatalf("expected zero score, got %v", records[0].Score)
	}
}
