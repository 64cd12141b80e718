package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/kitchen/internal/domain/content"
)

// RoundDependencies drives a round through its states.
type RoundDependencies interface {
	StartRound(ctx context.Context, player string, sources ...content.Source) (Round, error)
	Round(ctx context.Context, id string) (Round, error)
	Choose(ctx context.Context, id, label string) (Round, error)
	Submit(ctx context.Context, id string) (Round, error)
}

// RoundsHandler handles round requests.
type RoundsHandler struct {
	deps RoundDependencies
}

// NewRoundsHandler creates a new rounds handler.
func NewRoundsHandler(deps RoundDependencies) *RoundsHandler {
	return &RoundsHandler{deps: deps}
}

type startRoundRequest struct {
	Player string `json:"player"`
	inputRequest
}

type choiceRequest struct {
	Choice string `json:"choice"`
}

// HandleStartRound handles POST /rounds requests.
func (h *RoundsHandler) HandleStartRound(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_round"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req startRoundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Player) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing player")))
		return
	}
	sources, err := req.sources()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Text) != "" {
		sources = append([]content.Source{content.Text{Body: req.Text}}, sources...)
	}
	round, err := h.deps.StartRound(r.Context(), req.Player, sources...)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, round)
}

// HandleGetRound handles GET /rounds/{id} requests.
func (h *RoundsHandler) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_round"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	round, err := h.deps.Round(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// HandleChoose handles POST /rounds/{id}/choice requests.
func (h *RoundsHandler) HandleChoose(w http.ResponseWriter, r *http.Request) {
	const op = "api.choose"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req choiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	round, err := h.deps.Choose(r.Context(), r.PathValue("id"), req.Choice)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}

// HandleSubmit handles POST /rounds/{id}/submit requests.
func (h *RoundsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxBodyBytes))
	round, err := h.deps.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, round)
}
