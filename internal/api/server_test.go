package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rolldepot/internal/xlsx"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(Config{})
}

func workbookUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	data, err := xlsx.Encode(xlsx.Workbook{Sheets: []xlsx.Sheet{{
		Name: "RIG",
		Rows: [][]string{
			{"Network point name", "Validity.in", "Train No.in", "Arrival", "Departure"},
			{"Riga", "2025-12-16", "101", "8:48", ""},
		},
	}}})
	if err != nil {
		t.Fatalf("encode workbook: %v", err)
	}

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "movements.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestImportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := workbookUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Summary struct {
			Records  int `json:"records"`
			Stations int `json:"stations"`
		} `json:"summary"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Summary.Records != 1 || response.Summary.Stations != 1 {
		t.Fatalf("unexpected summary: %+v", response.Summary)
	}
	if response.Message == "" {
		t.Fatalf("expected a human-readable message")
	}

	// The imported aggregate is visible through the read endpoints.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from stats, got %d", rec.Code)
	}
	var stats struct {
		Stations int `json:"stations"`
		Arrivals int `json:"arrivals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Stations != 1 || stats.Arrivals != 1 {
		t.Fatalf("unexpected stats after import: %+v", stats)
	}
}

func TestImportEndpointRejectsMissingFile(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(""))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a file, got %d", rec.Code)
	}
}

func TestImportEndpointRejectsUnsupportedExtension(t *testing.T) {
	router := newTestRouter(t)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "movements.csv")
	part.Write([]byte("a,b,c"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for csv upload, got %d", rec.Code)
	}
}

func TestRecordTrackPatch(t *testing.T) {
	router := newTestRouter(t)

	body, contentType := workbookUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import failed: %d", rec.Code)
	}

	patch := strings.NewReader(`{"track":"3"}`)
	req = httptest.NewRequest(http.MethodPatch, "/api/records/arr.RIG---1/track", patch)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from track patch, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/records/missing/track",
		strings.NewReader(`{"track":"3"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown record, got %d", rec.Code)
	}
}

func TestClipEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/clip/import", strings.NewReader("free text"))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported text, got %d", rec.Code)
	}

	block := strings.Join([]string{
		strings.Join([]string{
			"Vehicle working designation", "Date", "Departure date", "Arrival date",
			"Departure planned", "Arrival planned", "Departure trip number",
			"Arrival trip number", "Departure train number", "Arrival train number",
			"Starting location", "End location", "Vehicle name",
		}, "\t"),
		strings.Join([]string{
			"W-1", "2025-12-16", "2025-12-16", "2025-12-16", "08:48", "08:30",
			"T-101", "T-100", "101", "100", "LTE", "RIG", "620-010",
		}, "\t"),
	}, "\n")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/clip/import", strings.NewReader(block))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from clip import, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clip/depots", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from depots, got %d", rec.Code)
	}
	var depots struct {
		Depots []string `json:"depots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &depots); err != nil {
		t.Fatalf("decode depots: %v", err)
	}
	if len(depots.Depots) != 2 {
		t.Fatalf("expected 2 depots, got %v", depots.Depots)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/clip/records?depot=RIG&date=2025-12-16&range=day", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from filtered records, got %d", rec.Code)
	}
}

func TestFieldMappingsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/field-mappings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var response struct {
		Mappings map[string]string `json:"mappings"`
		Source   string            `json:"source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Source != "default" {
		t.Fatalf("expected default source without a database, got %q", response.Source)
	}
	if response.Mappings["Network point name"] != "networkPointName" {
		t.Fatalf("expected the built-in dictionary, got %d entries", len(response.Mappings))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "rolldepot_import_records_total") {
		t.Fatalf("expected import counter to be registered")
	}
}
