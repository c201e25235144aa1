package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/campuskey/housing-service/internal/dtos"
	"github.com/campuskey/housing-service/internal/services"
	"github.com/campuskey/housing-service/internal/utils"
)

var occupantValidate = validator.New()

type OccupantsController struct {
	occupancyService *services.OccupancyService
}

func NewOccupantsController(os *services.OccupancyService) *OccupantsController {
	return &OccupantsController{occupancyService: os}
}

// ----------------------------------------------------------------
// GET /api/v1/housing/leases/{id}/occupants
// ----------------------------------------------------------------
func (c *OccupantsController) ListOccupantsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	occupants, err := c.occupancyService.ListOccupants(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to list occupants")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, occupants)
}

// ----------------------------------------------------------------
// POST /api/v1/housing/leases/{id}/occupants
// *** staff only
// ----------------------------------------------------------------
func (c *OccupantsController) AddOccupantHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var body dtos.AddOccupantRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for occupant payload", nil, err,
		)
		return
	}
	if err := occupantValidate.StructCtx(ctx, body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Occupant payload failed validation", err.Error(),
		)
		return
	}

	occ, err := c.occupancyService.AddOccupant(ctx, id, body)
	if err != nil {
		respondServiceError(w, err, "Failed to add occupant")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, occ)
}

// ----------------------------------------------------------------
// DELETE /api/v1/housing/leases/{id}/occupants/{occupantId}
// *** staff only
// ----------------------------------------------------------------
func (c *OccupantsController) RemoveOccupantHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leaseID, ok := pathID(w, vars["id"])
	if !ok {
		return
	}
	occupantID, ok := pathID(w, vars["occupantId"])
	if !ok {
		return
	}

	occ, err := c.occupancyService.RemoveOccupant(r.Context(), leaseID, occupantID)
	if err != nil {
		respondServiceError(w, err, "Failed to remove occupant")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, occ)
}
