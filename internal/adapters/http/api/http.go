// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/kitchen/internal/domain/content"
	"github.com/okian/kitchen/internal/domain/types"
)

// maxBodyBytes bounds request bodies, which may carry a base64 image.
const maxBodyBytes = 16 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RoundDependencies
	LeaderboardDependencies
	RankDependencies
	GenerateDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Round mirrors the round view returned by round endpoints.
type Round = types.Round

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	roundsHandler      *RoundsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	generateHandler    *GenerateHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		roundsHandler:      NewRoundsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		rankHandler:        NewRankHandler(deps),
		generateHandler:    NewGenerateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/rounds", MetricsMiddleware(s.roundsHandler.HandleStartRound, "rounds"))
	mux.HandleFunc("/rounds/{id}", MetricsMiddleware(s.roundsHandler.HandleGetRound, "round"))
	mux.HandleFunc("/rounds/{id}/choice", MetricsMiddleware(s.roundsHandler.HandleChoose, "round_choice"))
	mux.HandleFunc("/rounds/{id}/submit", MetricsMiddleware(s.roundsHandler.HandleSubmit, "round_submit"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/{player}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/generate", MetricsMiddleware(s.generateHandler.HandleGenerate, "generate"))
}

// inputRequest carries the optional attachments shared by POST /rounds and POST /generate.
type inputRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
	ImageMIME   string `json:"image_mime"`
	CSV         string `json:"csv"`

	DocumentBase64 string `json:"document_base64"`
	DocumentName   string `json:"document_name"`
}

// sources converts the attachments into content sources. Text is excluded;
// callers decide where free text goes.
func (in inputRequest) sources() ([]content.Source, error) {
	var out []content.Source
	if in.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(in.ImageBase64)
		if err != nil {
			return nil, errors.New("image_base64 is not valid base64")
		}
		out = append(out, content.Image{Data: data, MIME: in.ImageMIME})
	}
	if strings.TrimSpace(in.CSV) != "" {
		out = append(out, content.CSV{Data: []byte(in.CSV), MaxRows: 200})
	}
	if in.DocumentBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(in.DocumentBase64)
		if err != nil {
			return nil, errors.New("document_base64 is not valid base64")
		}
		out = append(out, content.Document{Filename: in.DocumentName, Data: data, Extractor: content.PlainText{}})
	}
	return out, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
