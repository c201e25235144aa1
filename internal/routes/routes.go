package routes

const (
	// Health
	Health = "/health"

	// Inventory (read-only hierarchy)
	Properties        = "/api/v1/housing/properties"
	Property          = "/api/v1/housing/properties/{id}"
	PropertyUnits     = "/api/v1/housing/properties/{id}/units"
	UnitRooms         = "/api/v1/housing/units/{id}/rooms"
	RoomBeds          = "/api/v1/housing/rooms/{id}/beds"
	PropertyAvailable = "/api/v1/housing/properties/{id}/availability"

	// Applications
	Applications       = "/api/v1/housing/applications"
	ApplicationsMy     = "/api/v1/housing/applications/my"
	Application        = "/api/v1/housing/applications/{id}"
	ApplicationStatus  = "/api/v1/housing/applications/{id}/status"
	ApplicationAccept  = "/api/v1/housing/applications/{id}/accept"
	ApplicationDecline = "/api/v1/housing/applications/{id}/decline"

	// Leases
	Leases         = "/api/v1/housing/leases"
	LeasesMy       = "/api/v1/housing/leases/my"
	Lease          = "/api/v1/housing/leases/{id}"
	LeaseSign      = "/api/v1/housing/leases/{id}/sign"
	LeaseStatus    = "/api/v1/housing/leases/{id}/status"
	LeaseInvite    = "/api/v1/housing/leases/{id}/invite"
	LeaseOccupants = "/api/v1/housing/leases/{id}/occupants"
	LeaseOccupant  = "/api/v1/housing/leases/{id}/occupants/{occupantId}"
)
