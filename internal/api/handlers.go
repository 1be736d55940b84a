package api

import (
	"encoding/json"
	"net/http"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
	"github.com/tasnimchaouch0/APIBEAST/internal/server"
)

// maxBodyBytes caps inbound request bodies; OpenAPI documents can be large.
const maxBodyBytes = 10 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		server.Error(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// GenerateTests handles POST /api/generate-tests
func (h *Handler) GenerateTests(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decode(w, r, &req) {
		return
	}

	tests, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		h.logger.Error("test generation failed", "endpoint", req.Endpoint, "err", err)
		server.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tests == nil {
		tests = []model.TestCase{}
	}

	server.JSON(w, http.StatusOK, model.GenerateResponse{Success: true, Tests: tests})
}

// ExecuteTests handles POST /api/execute-tests
func (h *Handler) ExecuteTests(w http.ResponseWriter, r *http.Request) {
	var req model.ExecuteRequest
	if !decode(w, r, &req) {
		return
	}

	results := h.exec.Execute(r.Context(), req.Tests)
	if results == nil {
		results = []model.TestResult{}
	}

	h.logger.Info("executed tests", "count", len(results), "summary", countByStatus(results))
	server.JSON(w, http.StatusOK, model.ExecuteResponse{Success: true, Results: results})
}

// Health handles GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	server.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "APIBeast",
		"version": h.version,
	})
}

func countByStatus(results []model.TestResult) map[model.Status]int {
	counts := make(map[model.Status]int, 3)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
