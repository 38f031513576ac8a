package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/credal-io/credal/internal/domain"
	"github.com/credal-io/credal/internal/service"
	"github.com/credal-io/credal/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ScenarioHandler struct {
	store domain.ScenarioStore
	svc   *service.ReasonerService
}

func NewScenarioHandler(store domain.ScenarioStore, svc *service.ReasonerService) *ScenarioHandler {
	return &ScenarioHandler{store: store, svc: svc}
}

type createScenarioRequest struct {
	Name    string                `json:"name"`
	Worlds  []string              `json:"worlds"`
	Sources [][]domain.PieceInput `json:"sources,omitempty"`
	Basis   []domain.PieceInput   `json:"basis,omitempty"`
}

func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Sources) == 0 && len(req.Basis) == 0 {
		writeError(w, http.StatusBadRequest, "sources or basis is required")
		return
	}

	// Reject malformed inputs at creation rather than at first evaluation.
	space, err := service.BuildSpace(req.Worlds)
	if err != nil {
		writeReasonError(w, err)
		return
	}
	if len(req.Sources) > 0 {
		if _, err := service.BuildMassEvidence(space, h.svc.MassTolerance, req.Sources); err != nil {
			writeReasonError(w, err)
			return
		}
	}
	if len(req.Basis) > 0 {
		if _, err := service.BuildBasisEvidence(space, req.Basis); err != nil {
			writeReasonError(w, err)
			return
		}
	}

	sc := &domain.Scenario{
		Name:    req.Name,
		Worlds:  req.Worlds,
		Sources: req.Sources,
		Basis:   req.Basis,
	}
	if err := h.store.Create(r.Context(), sc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create scenario")
		return
	}

	writeJSON(w, http.StatusCreated, sc)
}

func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scenarios")
		return
	}
	if scenarios == nil {
		scenarios = []domain.Scenario{}
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *ScenarioHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario id")
		return
	}

	sc, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get scenario")
		return
	}

	writeJSON(w, http.StatusOK, sc)
}

func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete scenario")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Beliefs recomputes the belief table for a stored scenario under the model
// named by the ?model= query parameter (default ds_int).
func (h *ScenarioHandler) Beliefs(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario id")
		return
	}

	modelName := r.URL.Query().Get("model")
	if modelName == "" {
		modelName = string(service.ModelDSInt)
	}
	model, err := service.ParseModel(modelName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sc, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get scenario")
		return
	}

	table, err := h.svc.EvaluateScenario(model, sc)
	if err != nil {
		writeReasonError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reasonResponse{
		Model:   string(model),
		Worlds:  table.Space().Worlds(),
		Beliefs: table.Ranked(),
	})
}
