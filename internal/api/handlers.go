package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"

	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/observability"
	"pokemon-assistant/internal/common/validation"
	"pokemon-assistant/internal/pokemon/battle"
	"pokemon-assistant/internal/pokemon/pokeapi"
	"pokemon-assistant/internal/pokemon/typechart"
)

const maxBodyBytes = 1 << 20

type battleResponse struct {
	Result *battle.Verdict `json:"result"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer    string  `json:"answer"`
	Reasoning *string `json:"reasoning"`
}

type compareResponse struct {
	Results []pokeapi.LookupResult `json:"results"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (s *Server) handleBattle(w http.ResponseWriter, r *http.Request) {
	nameA := strings.TrimSpace(r.URL.Query().Get("pokemon1"))
	nameB := strings.TrimSpace(r.URL.Query().Get("pokemon2"))
	if nameA == "" || nameB == "" {
		respondError(w, apperrors.NewInvalidRequestError(
			"pokemon1 and pokemon2 query parameters are required", ""))
		return
	}

	ctx, span := s.obs.StartSpan(r.Context(), "api.battle",
		attribute.String("project", s.obs.BattleProject()),
		attribute.String("request_id", middleware.GetReqID(r.Context())),
	)
	verdict, err := s.deps.Predictor.Predict(ctx, nameA, nameB)
	observability.EndSpan(span, err)
	if err != nil {
		s.logger.Warn("Battle request failed", map[string]interface{}{
			"pokemon1": nameA,
			"pokemon2": nameB,
			"error":    err.Error(),
		})
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, battleResponse{Result: verdict})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, apperrors.NewInvalidRequestError("could not read request body", err.Error()))
		return
	}

	if result := validation.ChatRequestSchema.ValidateBytes(body); !result.Valid {
		respondJSON(w, http.StatusBadRequest, errorBody{
			Error:   "invalid request body",
			Code:    string(apperrors.ErrCodeInvalidRequest),
			Details: result.Errors,
		})
		return
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, apperrors.NewInvalidRequestError("invalid request body", err.Error()))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, apperrors.NewInvalidRequestError("question must not be blank", ""))
		return
	}

	resp, err := s.deps.Asker.Route(r.Context(), req.Question)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{Answer: resp.Answer, Reasoning: resp.Reasoning})
}

func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Lookup.GetPokemon(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleComparePokemon(w http.ResponseWriter, r *http.Request) {
	names := splitList(r.URL.Query().Get("names"))
	if len(names) == 0 {
		respondError(w, apperrors.NewInvalidRequestError("names query parameter is required", ""))
		return
	}
	respondJSON(w, http.StatusOK, compareResponse{Results: s.deps.Lookup.ComparePokemon(r.Context(), names)})
}

func (s *Server) handleTypeEffectiveness(w http.ResponseWriter, r *http.Request) {
	attacking := strings.TrimSpace(r.URL.Query().Get("attacking"))
	defending := splitList(r.URL.Query().Get("defending"))
	if attacking == "" || len(defending) == 0 {
		respondError(w, apperrors.NewInvalidRequestError(
			"attacking and defending query parameters are required", ""))
		return
	}
	respondJSON(w, http.StatusOK, typechart.Effectiveness(attacking, defending))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
