package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/credal-io/credal/internal/domain"
	"github.com/credal-io/credal/internal/service"
	"github.com/go-chi/chi/v5"
)

type ReasonHandler struct {
	svc *service.ReasonerService
}

func NewReasonHandler(svc *service.ReasonerService) *ReasonHandler {
	return &ReasonHandler{svc: svc}
}

type reasonRequest struct {
	Worlds  []string              `json:"worlds"`
	Sources [][]domain.PieceInput `json:"sources,omitempty"`
	Basis   []domain.PieceInput   `json:"basis,omitempty"`
	Query   [][]string            `json:"query,omitempty"`
}

type queryResult struct {
	Worlds       []string `json:"worlds"`
	Belief       float64  `json:"belief"`
	Plausibility float64  `json:"plausibility"`
}

type reasonResponse struct {
	Model   string                `json:"model"`
	Worlds  []domain.World        `json:"worlds"`
	Beliefs []service.RankedEntry `json:"beliefs"`
	Query   []queryResult         `json:"query,omitempty"`
}

// Reason runs one of the three belief models over evidence supplied in the
// request body. Nothing is stored; identical requests always produce
// identical responses.
func (h *ReasonHandler) Reason(w http.ResponseWriter, r *http.Request) {
	model, err := service.ParseModel(chi.URLParam(r, "model"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	table, err := h.svc.EvaluateScenario(model, &domain.Scenario{
		Worlds:  req.Worlds,
		Sources: req.Sources,
		Basis:   req.Basis,
	})
	if err != nil {
		writeReasonError(w, err)
		return
	}

	resp := reasonResponse{
		Model:   string(model),
		Worlds:  table.Space().Worlds(),
		Beliefs: table.Ranked(),
	}

	for _, q := range req.Query {
		worlds := make([]domain.World, len(q))
		for i, name := range q {
			worlds[i] = domain.World(name)
		}
		bp, err := table.Query(worlds...)
		if err != nil {
			writeReasonError(w, err)
			return
		}
		resp.Query = append(resp.Query, queryResult{
			Worlds:       q,
			Belief:       bp.Belief,
			Plausibility: bp.Plausibility,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeReasonError maps reasoner failures onto HTTP statuses. Validation
// failures are the caller's fault; total conflict is a semantic conflict in
// the evidence itself.
func writeReasonError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTotalConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidDomain),
		errors.Is(err, domain.ErrInvalidFocalSet),
		errors.Is(err, domain.ErrInvalidProposition),
		errors.Is(err, domain.ErrMalformedMassFunction),
		errors.Is(err, domain.ErrInvalidStrength),
		errors.Is(err, domain.ErrSpaceTooLarge),
		errors.Is(err, domain.ErrEvidenceTooLarge),
		errors.Is(err, service.ErrUnknownModel),
		errors.Is(err, service.ErrWrongProfile):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "reasoning failed")
	}
}
