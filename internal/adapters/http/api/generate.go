package api

import (
	"context"
	"net/http"

	"github.com/okian/kitchen/internal/domain/content"
)

// GenerateDependencies produces a recipe from user input.
type GenerateDependencies interface {
	Generate(ctx context.Context, text string, sources ...content.Source) (string, error)
}

// GenerateHandler handles recipe generation requests.
type GenerateHandler struct {
	deps GenerateDependencies
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(deps GenerateDependencies) *GenerateHandler {
	return &GenerateHandler{deps: deps}
}

type generateResponse struct {
	Text string `json:"text"`
}

// HandleGenerate handles POST /generate requests.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req inputRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sources, err := req.sources()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	text, err := h.deps.Generate(r.Context(), req.Text, sources...)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{Text: text})
}
