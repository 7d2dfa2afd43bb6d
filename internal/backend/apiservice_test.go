package backend

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/jo-hoe/eduboard/internal/backend/database"
	"github.com/jo-hoe/eduboard/internal/common"
	"github.com/jo-hoe/eduboard/internal/core"
	"github.com/labstack/echo/v4"
)

func newTestServer(t *testing.T) (*echo.Echo, *core.CoreService) {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Database = core.Database{Type: database.TypeSQLite, ConnectionString: ":memory:"}
	cfg.RandomSeed = 1

	coreService, err := core.NewCoreServiceFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewCoreServiceFromConfig error: %v", err)
	}
	t.Cleanup(func() { _ = coreService.Close() })

	e := echo.New()
	e.Validator = common.NewGenericEchoValidator()
	NewAPIService(coreService).SetRoutes(e)
	return e, coreService
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPI_Probe(t *testing.T) {
	e, coreService := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/probe", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	_ = coreService.Close()
	rec = doRequest(e, http.MethodGet, "/probe", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("closed store: expected 503, got %d", rec.Code)
	}
}

func TestAPI_Statistics(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/statistics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var overview core.Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &overview); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if overview.Summary.Mean != 50.5 || overview.Summary.Variance != 833.25 {
		t.Errorf("unexpected summary %+v", overview.Summary)
	}
}

func TestAPI_StudentCRUD(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/students",
		`{"firstName":"Ana","lastName":"Ruiz","age":16,"grade":8.5,"subject":"Arte"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created database.StudentRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if created.ID < 1 || created.FirstName != "Ana" {
		t.Fatalf("unexpected created student %+v", created)
	}

	rec = doRequest(e, http.MethodPut, "/api/students/"+strconv.FormatInt(created.ID, 10),
		`{"firstName":"Ana","lastName":"Ruiz","age":17,"grade":9,"subject":"Arte"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/api/students", "")
	var table core.StudentTable
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(table.Students) != 1 || table.Students[0].Age != 17 || table.Students[0].Grade != 9 {
		t.Fatalf("unexpected students after update: %+v", table.Students)
	}
	if len(table.GradesBySubject) != 1 || table.GradesBySubject[0].Average != 9 {
		t.Errorf("unexpected grade aggregation: %+v", table.GradesBySubject)
	}

	rec = doRequest(e, http.MethodDelete, "/api/students/"+strconv.FormatInt(created.ID, 10), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	// Deleting again is a silent no-op.
	rec = doRequest(e, http.MethodDelete, "/api/students/"+strconv.FormatInt(created.ID, 10), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("second delete: expected 204, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/api/students", "")
	if !strings.Contains(rec.Body.String(), `"students":[]`) {
		t.Errorf("expected empty students array, got %s", rec.Body.String())
	}
}

func TestAPI_StudentValidation(t *testing.T) {
	e, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"age above range", http.MethodPost, "/api/students", `{"age":121,"grade":5}`},
		{"grade above range", http.MethodPost, "/api/students", `{"age":20,"grade":10.1}`},
		{"id below one", http.MethodPut, "/api/students/0", `{"age":20,"grade":5}`},
		{"delete id below one", http.MethodDelete, "/api/students/0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAPI_Vector(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/vector?mode=manual&input=1,2,3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response struct {
		Source     []*float64 `json:"source"`
		Normalized []*float64 `json:"normalized"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(response.Normalized) != 3 || response.Normalized[1] == nil || *response.Normalized[1] != 0 {
		t.Errorf("unexpected normalization: %s", rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/api/vector?mode=manual&input=1,2,x", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("malformed input: expected 422, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/api/vector?mode=manual", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("blank input: expected 204, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/api/vector?mode=manual&input=4,4,4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("constant vector: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"normalized":[null,null,null]`) {
		t.Errorf("expected null z-scores for constant vector, got %s", rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/api/vector?mode=random", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("random: expected 200, got %d", rec.Code)
	}
}

func TestAPI_SaveVectorAndListSamples(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/vector", `{"values":[1.5,2.5]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(e, http.MethodPost, "/api/vector", `{"values":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty vector: expected 400, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/api/vector-samples", "")
	var samples []database.VectorSample
	if err := json.Unmarshal(rec.Body.Bytes(), &samples); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(samples) != 2 || samples[0].Value != 1.5 || samples[1].Value != 2.5 {
		t.Fatalf("unexpected samples %+v", samples)
	}
}

func TestVectorSampleResponses_NonFiniteAsNull(t *testing.T) {
	responses := newVectorSampleResponses([]database.VectorSample{
		{ID: 1, Value: math.Inf(1)},
		{ID: 2, Value: math.NaN()},
		{ID: 3, Value: 2},
	})
	data, err := json.Marshal(responses)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	want := `[{"id":1,"value":null},{"id":2,"value":null},{"id":3,"value":2}]`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestAPI_EmptyVectorSamples(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/api/vector-samples", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_ListCharts(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/api/charts", "")
	if !strings.Contains(rec.Body.String(), core.ChartGradesBySubject) {
		t.Errorf("expected chart names in response, got %s", rec.Body.String())
	}
}
