package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/campuskey/housing-service/internal/dtos"
	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/services"
	"github.com/campuskey/housing-service/internal/utils"
)

var leaseValidate = validator.New()

type LeasesController struct {
	leaseService       *services.LeaseService
	applicationService *services.ApplicationService
}

func NewLeasesController(
	ls *services.LeaseService,
	as *services.ApplicationService,
) *LeasesController {
	return &LeasesController{
		leaseService:       ls,
		applicationService: as,
	}
}

// ----------------------------------------------------------------
// POST /api/v1/housing/leases
// *** staff only
// ----------------------------------------------------------------
func (c *LeasesController) AllocateLeaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body dtos.AllocateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for allocate-lease payload", nil, err,
		)
		return
	}
	if err := leaseValidate.StructCtx(ctx, body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Allocate-lease payload failed validation", err.Error(),
		)
		return
	}

	lease, err := c.leaseService.Allocate(ctx, body)
	if err != nil {
		respondServiceError(w, err, "Failed to allocate lease")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, lease)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/leases/my
// ----------------------------------------------------------------
func (c *LeasesController) ListMyLeasesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	leases, err := c.leaseService.ListMyLeases(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to list your leases")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, leases)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/leases?property_id=...
// *** staff only
// ----------------------------------------------------------------
func (c *LeasesController) ListLeasesHandler(w http.ResponseWriter, r *http.Request) {
	propID, err := uuid.Parse(r.URL.Query().Get("property_id"))
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid property_id query param", nil, err,
		)
		return
	}
	leases, err := c.leaseService.ListByProperty(r.Context(), propID)
	if err != nil {
		respondServiceError(w, err, "Failed to list leases")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, leases)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/leases/{id}
// ----------------------------------------------------------------
func (c *LeasesController) GetLeaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	lease, err := c.leaseService.GetLease(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to get lease")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lease)
}

// ----------------------------------------------------------------
// POST /api/v1/housing/leases/{id}/sign
// ----------------------------------------------------------------
func (c *LeasesController) SignLeaseHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	lease, err := c.leaseService.Sign(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, err, "Failed to sign lease")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lease)
}

// ----------------------------------------------------------------
// PATCH /api/v1/housing/leases/{id}/status
// *** staff only
// ----------------------------------------------------------------
func (c *LeasesController) SetLeaseStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var body dtos.SetLeaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for status payload", nil, err,
		)
		return
	}
	if err := leaseValidate.StructCtx(ctx, body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Status payload failed validation", err.Error(),
		)
		return
	}

	lease, err := c.leaseService.SetStatus(ctx, id, models.LeaseStatusType(body.Status))
	if err != nil {
		respondServiceError(w, err, "Failed to update lease status")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, lease)
}

// ----------------------------------------------------------------
// POST /api/v1/housing/leases/{id}/invite
// ----------------------------------------------------------------
func (c *LeasesController) InviteOccupantHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var body dtos.InviteOccupantRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for invite payload", nil, err,
		)
		return
	}
	if err := leaseValidate.StructCtx(ctx, body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Invite payload failed validation", err.Error(),
		)
		return
	}

	app, err := c.applicationService.InviteOccupant(ctx, id, userID, body)
	if err != nil {
		respondServiceError(w, err, "Failed to create invitation")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, app)
}
