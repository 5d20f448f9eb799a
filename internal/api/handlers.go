package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mmrzaf/mockgen/internal/app"
	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/infra/repos/fixtures"
	"github.com/mmrzaf/mockgen/internal/populator"
)

type Handler struct {
	fixtureService *app.FixtureService
}

func NewHandler(fixtureService *app.FixtureService) *Handler {
	return &Handler{fixtureService: fixtureService}
}

func (h *Handler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	list, err := h.fixtureService.ListSchemas()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sc, err := h.fixtureService.GetSchema(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, sc)
}

func (h *Handler) ListGenerators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.fixtureService.Generators())
}

// Fixtures

func (h *Handler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	req.Save = true
	res, err := h.fixtureService.Generate(&req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(res.Fixture)
}

// PreviewFixture generates without storing anything.
func (h *Handler) PreviewFixture(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	req.Save = false
	res, err := h.fixtureService.Generate(&req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, res.Fixture)
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	list, err := h.fixtureService.ListFixtures(limit, r.URL.Query().Get("schema_id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, list)
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, err := h.fixtureService.GetFixture(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, f)
}

func (h *Handler) DeleteFixture(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.fixtureService.DeleteFixture(id); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	var typeErr *populator.TypeError
	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrSchemaNotFound), errors.Is(err, fixtures.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &typeErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, app.ErrNoFixtureStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSONStrict(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
