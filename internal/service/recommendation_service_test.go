package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
)

func newRecommendationFixture() RecommendationService {
	store := &fakeArtifactStore{
		rankings: map[string]*model.RankingTable{
			"DengueTransE": {
				Columns: []string{"drug", "score", "in_clinical_trials"},
				Rows: [][]string{
					{"Compound::DB00123", "0.91", "yes"},
					{"Compound::DB00456", "0.42", "no"},
				},
			},
		},
	}
	return NewRecommendationService(store)
}

func TestGetResolvesCompositeKey(t *testing.T) {
	svc := newRecommendationFixture()
	result, err := svc.Get(context.Background(), model.DiseaseDengue, model.ModelTransE)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if result.Key != "DengueTransE" {
		t.Fatalf("key = %q, want DengueTransE", result.Key)
	}
	if len(result.Records) != 2 || result.Records[0].Drug != "Compound::DB00123" {
		t.Fatalf("unexpected records: %+v", result.Records)
	}
}

func TestGetMissingArtifact(t *testing.T) {
	svc := newRecommendationFixture()
	_, err := svc.Get(context.Background(), model.DiseaseChagas, model.ModelUM)
	if !errors.Is(err, repository.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestDownloadCSVRoundTrip(t *testing.T) {
	svc := newRecommendationFixture()
	filename, data, err := svc.DownloadCSV(context.Background(), model.DiseaseDengue, model.ModelTransE)
	if err != nil {
		t.Fatalf("DownloadCSV: %v", err)
	}
	if filename != "DengueTransE_recommendations.csv" {
		t.Fatalf("filename = %q", filename)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "drug,score,in_clinical_trials" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "Compound::DB00123,0.91,yes" {
		t.Fatalf("first row = %q", lines[1])
	}
}
