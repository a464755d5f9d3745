package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/best-combination/internal/knapsack"
	"github.com/eugenenazirov/best-combination/internal/solver"
	"github.com/eugenenazirov/best-combination/internal/validation"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const maxBodyBytes = 1 << 20

// Handler wires the solver and request validation into HTTP handlers.
type Handler struct {
	solver    solver.Solver
	validator *validation.Validator

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(s solver.Solver, v *validation.Validator, opts ...HandlerOption) *Handler {
	h := &Handler{
		solver:    s,
		validator: v,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleConstraints(w http.ResponseWriter, r *http.Request) {
	_ = r
	c := h.validator.Constraints()
	resp := constraintsResponse{
		WeightDecimals: c.WeightDecimals,
		MaxItems:       c.MaxItems,
		MaxItemWeight:  c.MaxItemWeight,
		MaxItemPrice:   c.MaxItemPrice,
		MaxBoxWeight:   c.MaxBoxWeight,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleBestCombination(w http.ResponseWriter, r *http.Request) {
	var req bestCombinationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Invalid request", "request body is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", strings.Join(validation.Messages(err), "; "))
		return
	}

	start := time.Now()
	result, err := h.solver.Solve(r.Context(), req.toSolverRequest())
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, knapsack.ErrTableTooLarge):
			writeError(w, http.StatusUnprocessableEntity, "Request too large", err.Error(),
				"Reduce max_weight or the number of items")
		case errors.Is(err, solver.ErrCanceled):
			writeError(w, http.StatusServiceUnavailable, "Request canceled", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	resp := bestCombinationResponse{
		Items:             result.IDs,
		TotalPrice:        result.TotalPrice,
		TotalWeight:       result.TotalWeight,
		Cached:            result.Cached,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type bestCombinationRequest struct {
	MaxWeight *decimal.Decimal `json:"max_weight"`
	Items     []itemRequest    `json:"items"`
}

type itemRequest struct {
	ID     *int             `json:"Item ID"`
	Weight *decimal.Decimal `json:"Weight"`
	Price  *decimal.Decimal `json:"Price"`
}

// toSolverRequest converts a validated request; pointer fields are non-nil.
func (r *bestCombinationRequest) toSolverRequest() solver.Request {
	items := make([]solver.Item, len(r.Items))
	for i, item := range r.Items {
		items[i] = solver.Item{
			ID:     *item.ID,
			Weight: *item.Weight,
			Price:  *item.Price,
		}
	}
	return solver.Request{
		MaxWeight: *r.MaxWeight,
		Items:     items,
	}
}

type bestCombinationResponse struct {
	Items             []int           `json:"items"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	TotalWeight       decimal.Decimal `json:"totalWeight"`
	Cached            bool            `json:"cached"`
	CalculationTimeMs int64           `json:"calculationTimeMs"`
}

type constraintsResponse struct {
	WeightDecimals int             `json:"weightDecimals"`
	MaxItems       int             `json:"maxItems"`
	MaxItemWeight  decimal.Decimal `json:"maxItemWeight"`
	MaxItemPrice   decimal.Decimal `json:"maxItemPrice"`
	MaxBoxWeight   decimal.Decimal `json:"maxBoxWeight"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
