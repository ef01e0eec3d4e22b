package model

import "testing"

func TestCompositeKeyIsPlainConcatenation(t *testing.T) {
	cases := []struct {
		disease Disease
		model   EmbeddingModel
		want    string
	}{
		{DiseaseDengue, ModelTransE, "DengueTransE"},
		{DiseaseChagas, ModelDistMult, "ChagasDistMult"},
		{DiseaseYellowFever, ModelRESCAL, "Yellow FeverRESCAL"},
		{DiseaseSchistosomiasis, ModelERMLP, "SchistosomiasisERMLP"},
	}
	for _, c := range cases {
		if got := CompositeKey(c.disease, c.model); got != c.want {
			t.Fatalf("CompositeKey(%q, %q) = %q, want %q", c.disease, c.model, got, c.want)
		}
	}
}

func TestCompositeKeyCoversAllPairs(t *testing.T) {
	// 复合键是纯字符串拼接，对任何合法输入都是全函数
	for _, d := range Diseases() {
		for _, m := range EmbeddingModels() {
			if got := CompositeKey(d, m); got != string(d)+string(m) {
				t.Fatalf("CompositeKey(%q, %q) = %q", d, m, got)
			}
		}
	}
}

func TestArtifactNames(t *testing.T) {
	if got := RankingObject("DengueTransE"); got != "DengueTransE.csv" {
		t.Fatalf("RankingObject = %q", got)
	}
	if got := GraphObject(DiseaseMalaria); got != "knowledge_graph_Malaria.html" {
		t.Fatalf("GraphObject = %q", got)
	}
	if got := RecommendationsDownloadName("DengueTransE"); got != "DengueTransE_recommendations.csv" {
		t.Fatalf("RecommendationsDownloadName = %q", got)
	}
	if got := GraphDownloadName(DiseaseDengue); got != "Dengue_knowledge_graph.html" {
		t.Fatalf("GraphDownloadName = %q", got)
	}
}

func TestParseDisease(t *testing.T) {
	d, err := ParseDisease("Yellow Fever")
	if err != nil {
		t.Fatalf("ParseDisease: %v", err)
	}
	if d != DiseaseYellowFever {
		t.Fatalf("ParseDisease = %q", d)
	}
	if _, err := ParseDisease("Influenza"); err == nil {
		t.Fatal("expected error for unsupported disease")
	}
	if _, err := ParseDisease(""); err == nil {
		t.Fatal("expected error for empty disease")
	}
}

func TestParseEmbeddingModel(t *testing.T) {
	m, err := ParseEmbeddingModel("TransE")
	if err != nil {
		t.Fatalf("ParseEmbeddingModel: %v", err)
	}
	if m != ModelTransE {
		t.Fatalf("ParseEmbeddingModel = %q", m)
	}
	if _, err := ParseEmbeddingModel("word2vec"); err == nil {
		t.Fatal("expected error for unsupported model")
	}
}

func TestEnumerationsAreFixedSize(t *testing.T) {
	if len(Diseases()) != 7 {
		t.Fatalf("expected 7 diseases, got %d", len(Diseases()))
	}
	if len(EmbeddingModels()) != 7 {
		t.Fatalf("expected 7 embedding models, got %d", len(EmbeddingModels()))
	}
}
