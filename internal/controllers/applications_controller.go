package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/campuskey/housing-service/internal/dtos"
	"github.com/campuskey/housing-service/internal/models"
	"github.com/campuskey/housing-service/internal/services"
	"github.com/campuskey/housing-service/internal/utils"
)

var applicationValidate = validator.New()

type ApplicationsController struct {
	applicationService *services.ApplicationService
}

func NewApplicationsController(as *services.ApplicationService) *ApplicationsController {
	return &ApplicationsController{applicationService: as}
}

// ----------------------------------------------------------------
// POST /api/v1/housing/applications
// ----------------------------------------------------------------
func (c *ApplicationsController) SubmitApplicationHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}

	var body dtos.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for application payload", nil, err,
		)
		return
	}
	if err := applicationValidate.StructCtx(ctx, body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Application payload failed validation", err.Error(),
		)
		return
	}

	app, err := c.applicationService.Submit(ctx, userID, body)
	if err != nil {
		respondServiceError(w, err, "Failed to submit application")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, app)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/applications/my
// ----------------------------------------------------------------
func (c *ApplicationsController) ListMyApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	apps, err := c.applicationService.ListMyApplications(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Failed to list your applications")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apps)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/applications?term=...&status=...
// *** staff only
// ----------------------------------------------------------------
func (c *ApplicationsController) ListApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"term query param is required", nil,
		)
		return
	}

	var status *models.ApplicationStatusType
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := models.ApplicationStatusType(raw)
		status = &st
	}

	apps, err := c.applicationService.ListByTerm(r.Context(), term, status)
	if err != nil {
		respondServiceError(w, err, "Failed to list applications")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apps)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/applications/{id}
// ----------------------------------------------------------------
func (c *ApplicationsController) GetApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	app, err := c.applicationService.GetApplication(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to get application")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, app)
}

// ----------------------------------------------------------------
// PATCH /api/v1/housing/applications/{id}/status
// *** staff only
// ----------------------------------------------------------------
func (c *ApplicationsController) SetApplicationStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var body dtos.SetApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for status payload", nil, err,
		)
		return
	}
	if err := applicationValidate.StructCtx(ctx, body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Status payload failed validation", err.Error(),
		)
		return
	}

	app, err := c.applicationService.Decide(ctx, id, models.ApplicationStatusType(body.Status))
	if err != nil {
		respondServiceError(w, err, "Failed to update application status")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, app)
}

// ----------------------------------------------------------------
// POST /api/v1/housing/applications/{id}/accept
// ----------------------------------------------------------------
func (c *ApplicationsController) AcceptInviteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	app, occ, err := c.applicationService.AcceptInvite(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, err, "Failed to accept invitation")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"application": app,
		"occupant":    occ,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/housing/applications/{id}/decline
// ----------------------------------------------------------------
func (c *ApplicationsController) DeclineInviteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := c.applicationService.DeclineInvite(r.Context(), id, userID); err != nil {
		respondServiceError(w, err, "Failed to decline invitation")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}
