package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/campuskey/housing-service/internal/services"
	"github.com/campuskey/housing-service/internal/utils"
)

// PropertiesController serves the read-only inventory hierarchy and
// the availability listing.
type PropertiesController struct {
	inventoryService    *services.InventoryService
	availabilityService *services.AvailabilityService
}

func NewPropertiesController(
	is *services.InventoryService,
	as *services.AvailabilityService,
) *PropertiesController {
	return &PropertiesController{
		inventoryService:    is,
		availabilityService: as,
	}
}

// ----------------------------------------------------------------
// GET /api/v1/housing/properties
// ----------------------------------------------------------------
func (c *PropertiesController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	props, err := c.inventoryService.ListProperties(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to list properties")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, props)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/properties/{id}
// ----------------------------------------------------------------
func (c *PropertiesController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	prop, err := c.inventoryService.GetProperty(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to get property")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/properties/{id}/units
// ----------------------------------------------------------------
func (c *PropertiesController) ListUnitsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	units, err := c.inventoryService.ListUnits(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to list units")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, units)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/units/{id}/rooms
// ----------------------------------------------------------------
func (c *PropertiesController) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	rooms, err := c.inventoryService.ListRooms(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to list rooms")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rooms)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/rooms/{id}/beds
// ----------------------------------------------------------------
func (c *PropertiesController) ListBedsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	beds, err := c.inventoryService.ListBeds(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to list beds")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, beds)
}

// ----------------------------------------------------------------
// GET /api/v1/housing/properties/{id}/availability?unit_id=...
// ----------------------------------------------------------------
func (c *PropertiesController) ListAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var unitFilter *uuid.UUID
	if raw := r.URL.Query().Get("unit_id"); raw != "" {
		unitID, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
				"Invalid unit_id query param", nil, err,
			)
			return
		}
		unitFilter = &unitID
	}

	resources, err := c.availabilityService.ListAvailable(r.Context(), id, unitFilter)
	if err != nil {
		respondServiceError(w, err, "Failed to list availability")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resources)
}
