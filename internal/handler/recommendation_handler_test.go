package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecommendationsEndToEnd(t *testing.T) {
	r := newTestRouter(t, &fakeGateway{})

	// Dengue + TransE 必须解析到 embedding_models/DengueTransE.csv
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/recommendations?disease=Dengue&model=TransE", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Key     string `json:"key"`
			Records []struct {
				Drug             string  `json:"drug"`
				Score            float64 `json:"score"`
				InClinicalTrials string  `json:"inClinicalTrials"`
			} `json:"records"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Key != "DengueTransE" {
		t.Fatalf("key = %q", resp.Data.Key)
	}
	if len(resp.Data.Records) != 1 || resp.Data.Records[0].Drug != "Compound::DB00123" {
		t.Fatalf("records = %+v", resp.Data.Records)
	}
}

func TestRecommendationsMissingArtifactIs404(t *testing.T) {
	r := newTestRouter(t, &fakeGateway{})

	// Chagas + UM 的排名文件不在夹具中：缺失工件以 404 显式呈现
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/recommendations?disease=Chagas&model=UM", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRecommendationsInvalidSelection(t *testing.T) {
	r := newTestRouter(t, &fakeGateway{})

	for _, target := range []string{
		"/api/v1/recommendations?disease=Influenza&model=TransE",
		"/api/v1/recommendations?disease=Dengue&model=word2vec",
		"/api/v1/recommendations",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestRecommendationsDownload(t *testing.T) {
	r := newTestRouter(t, &fakeGateway{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/recommendations/download?disease=Dengue&model=TransE", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "DengueTransE_recommendations.csv") {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "drug,score,in_clinical_trials\n") {
		t.Fatalf("csv body = %q", body)
	}
}
