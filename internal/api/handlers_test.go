package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmrzaf/mockgen/internal/app"
	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/infra/repos/fixtures"
	"github.com/mmrzaf/mockgen/internal/infra/repos/schemas"
	"github.com/mmrzaf/mockgen/internal/logging"
	"github.com/mmrzaf/mockgen/internal/registry"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	schemasDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(schemasDir, "s1.yaml"), []byte(`
id: s1
name: schema1
version: "1"
types:
  - name: User
    fields:
      - name: id
        type: uuid
      - name: age
        type: int
      - name: tags
        type: list<string>
`), 0o644); err != nil {
		t.Fatal(err)
	}

	fixtureRepo := fixtures.NewSQLiteRepository(filepath.Join(t.TempDir(), "mockgen_api.db"))
	if err := fixtureRepo.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = fixtureRepo.Close() })

	svc := app.NewFixtureService(
		schemas.NewFileRepository(schemasDir),
		fixtureRepo,
		registry.DefaultGeneratorRegistry(),
		logging.NewLogger("error"),
		app.Options{ElementCount: 2},
	)
	return NewHandler(svc)
}

func postJSON(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCreateAndGetFixture(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(h.CreateFixture, "/api/v1/fixtures", `{"schema_id":"s1","type":"list<User>","element_count":3,"seed":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var created domain.Fixture
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Seed != 5 || created.ElementCount != 3 {
		t.Fatalf("unexpected fixture: %#v", created)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fixtures/"+created.ID, nil)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	h.GetFixture(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var got domain.Fixture
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	var users []map[string]interface{}
	if err := json.Unmarshal(got.Payload, &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if tags := users[0]["tags"].([]interface{}); len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/fixtures?schema_id=s1", nil)
	rec = httptest.NewRecorder()
	h.ListFixtures(rec, req)
	var list []*domain.Fixture
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 fixture, got %d", len(list))
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/fixtures/"+created.ID, nil)
	req.SetPathValue("id", created.ID)
	rec = httptest.NewRecorder()
	h.DeleteFixture(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.DeleteFixture(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestPreviewFixture_DoesNotStore(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(h.PreviewFixture, "/api/v1/fixtures/preview", `{"schema_id":"s1","type":"User"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var f domain.Fixture
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatal(err)
	}
	if f.ID != "" {
		t.Fatalf("expected unsaved preview, got id %q", f.ID)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fixtures", nil)
	rec = httptest.NewRecorder()
	h.ListFixtures(rec, req)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}

func TestCreateFixture_ErrorStatuses(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		body string
		code int
	}{
		{`not json`, http.StatusBadRequest},
		{`{"schema_id":"s1","type":"User","extra":1}`, http.StatusBadRequest},
		{`{"schema_id":"s1"}`, http.StatusBadRequest},
		{`{"schema_id":"nope","type":"User"}`, http.StatusNotFound},
		{`{"schema_id":"s1","type":"Ghost"}`, http.StatusUnprocessableEntity},
		{`{"schema_id":"s1","type":"set<User>"}`, http.StatusUnprocessableEntity},
		{`{"schema_id":"s1","type":"map<User>"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := postJSON(h.CreateFixture, "/api/v1/fixtures", tc.body)
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d body=%s", tc.body, tc.code, rec.Code, rec.Body.String())
		}
	}
}

func TestSchemasAndGenerators(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ListSchemas(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schemas", nil))
	var list []*domain.Schema
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "s1" {
		t.Fatalf("unexpected schemas: %s", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schemas/missing", nil)
	req.SetPathValue("id", "missing")
	rec = httptest.NewRecorder()
	h.GetSchema(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ListGenerators(rec, httptest.NewRequest(http.MethodGet, "/api/v1/generators", nil))
	var info app.GeneratorInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if len(info.Kinds) == 0 || len(info.Primitives) == 0 {
		t.Fatalf("unexpected generator info: %s", rec.Body.String())
	}
}
