package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"autolyze/adapters/ingest"
	"autolyze/app"
	"autolyze/domain/core"
	"autolyze/domain/profile"
	"autolyze/internal/analysis"
	"autolyze/internal/cluster"
	"autolyze/ports"
)

type fakeRuns struct {
	reports map[core.RunID]*profile.Report
}

func (f *fakeRuns) Save(ctx context.Context, report *profile.Report) error {
	if f.reports == nil {
		f.reports = make(map[core.RunID]*profile.Report)
	}
	f.reports[report.RunID] = report
	return nil
}

func (f *fakeRuns) GetByID(ctx context.Context, id core.RunID) (*profile.Report, error) {
	if report, ok := f.reports[id]; ok {
		return report, nil
	}
	return nil, core.NewNotFoundError("profile run", id.String())
}

func (f *fakeRuns) List(ctx context.Context, limit, offset int) ([]ports.RunSummary, error) {
	summaries := make([]ports.RunSummary, 0, len(f.reports))
	for id, r := range f.reports {
		summaries = append(summaries, ports.RunSummary{ID: id, Source: r.Source})
	}
	return summaries, nil
}

func testServer(t *testing.T, runs ports.RunRepository) *Server {
	t.Helper()
	service := app.NewProfileService(app.Deps{
		Reader: ingest.NewFileReader(),
		Runner: analysis.NewRunner(analysis.Config{
			Density: cluster.DensityConfig{Epsilon: 0.5, MinPoints: 3},
		}),
		Runs: runs,
	})
	return NewServer(Config{Port: "0", OutputDir: t.TempDir()}, service, runs)
}

func TestHealthz(t *testing.T) {
	server := testServer(t, nil)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProfileUpload(t *testing.T) {
	runs := &fakeRuns{}
	server := testServer(t, runs)

	csv := "x,y\n0,0\n0.1,0\n0,0.1\n5,5\n5.1,5\n5,5.1\n"
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, uploadRequest(t, "points.csv", csv))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Report *profile.Report `json:"report"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Report == nil || payload.Report.Clusters == nil {
		t.Fatal("response missing report sections")
	}
	if payload.Report.Clusters.Clusters != 2 {
		t.Errorf("clusters = %d, want 2", payload.Report.Clusters.Clusters)
	}
	if len(runs.reports) != 1 {
		t.Errorf("run not persisted, store holds %d", len(runs.reports))
	}
}

func TestProfileUpload_MissingFileField(t *testing.T) {
	server := testServer(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProfileUpload_UnreadableDataset(t *testing.T) {
	server := testServer(t, nil)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, uploadRequest(t, "notes.txt", "not a table"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestRunsEndpoints_WithoutStore(t *testing.T) {
	server := testServer(t, nil)

	for _, path := range []string{"/api/runs", "/api/runs/some-id"} {
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotImplemented {
			t.Errorf("%s status = %d, want 501", path, rec.Code)
		}
	}
}

func TestGetRun(t *testing.T) {
	runs := &fakeRuns{}
	report := &profile.Report{RunID: core.RunID(core.NewID()), Source: "stored.csv"}
	if err := runs.Save(context.Background(), report); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	server := testServer(t, runs)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+report.RunID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got profile.Report
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Source != "stored.csv" {
		t.Errorf("source = %q, want stored.csv", got.Source)
	}

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/absent", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent run status = %d, want 404", rec.Code)
	}
}
