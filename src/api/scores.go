package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dive-server/src/store"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
)

// ScoreHandler serves score submission and the public leaderboard.
type ScoreHandler struct {
	store    store.Store
	counters *Counters
	// OnStored runs after every successful insert.
	OnStored func(store.Score)
}

func NewScoreHandler(st store.Store, counters *Counters) *ScoreHandler {
	return &ScoreHandler{store: st, counters: counters}
}

// Routes registers score routes.
func (h *ScoreHandler) Routes(r chi.Router) {
	r.Post("/score", h.Submit)
	r.Get("/leaderboard", h.Leaderboard)
	r.Get("/schema/score", h.Schema)
}

type scoreRequest struct {
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Depth     json.RawMessage `json:"depth"`
	Character string          `json:"character"`
}

// parseDepth accepts a JSON number or a numeric string. Anything else is NaN
// and fails validation.
func parseDepth(raw json.RawMessage) float64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return math.NaN()
}

// Submit POST /score
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		h.counters.Rejected.Add(1)
		errorJSON(w, http.StatusBadRequest, "empty body")
		return
	}
	var in scoreRequest
	if err := json.Unmarshal(body, &in); err != nil {
		h.counters.Rejected.Add(1)
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	sub, err := store.Validate(store.Submission{
		Name:      in.Name,
		Phone:     in.Phone,
		Depth:     parseDepth(in.Depth),
		Character: in.Character,
	})
	if err != nil {
		h.counters.Rejected.Add(1)
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	score, err := h.store.Insert(ctx, sub)
	if err != nil {
		h.counters.Failed.Add(1)
		log.Printf("score insert error: %v", err)
		errorJSON(w, http.StatusInternalServerError, "DB error")
		return
	}
	h.counters.Stored.Add(1)
	if h.OnStored != nil {
		h.OnStored(score)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"id":         score.ID,
		"created_at": score.CreatedAt,
	})
}

// parseLimit defaults to store.DefaultLimit for a missing or non-numeric
// value and clamps everything else.
func parseLimit(raw string) int {
	if raw == "" {
		return store.DefaultLimit
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return store.DefaultLimit
	}
	return store.ClampLimit(int(math.Max(math.Min(f, store.MaxLimit), -1)))
}

// Leaderboard GET /leaderboard?limit=10
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, err := h.store.Top(ctx, limit)
	if err != nil {
		log.Printf("leaderboard query error: %v", err)
		errorJSON(w, http.StatusInternalServerError, "DB error")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": entries})
}

// Schema GET /schema/score returns the JSON schema of the submit payload.
func (h *ScoreHandler) Schema(w http.ResponseWriter, r *http.Request) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(&store.Submission{})
	schema.Title = "Dive score submission"
	writeJSON(w, http.StatusOK, schema)
}
