package model

// ==== Roles ====
const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"
)

// ==== Order Status ====
const (
	OrderStatusPending    = "pending"
	OrderStatusAccepted   = "accepted"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ==== Driver Verification Status ====
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// ==== Order Event Type ====
const (
	EventOrderCreated        = "ORDER_CREATED"
	EventOrderAccepted       = "ORDER_ACCEPTED"
	EventOrderStarted        = "ORDER_STARTED"
	EventOrderCompleted      = "ORDER_COMPLETED"
	EventOrderCancelled      = "ORDER_CANCELLED"
	EventLocationUpdated     = "LOCATION_UPDATED"
	EventVerificationUpdated = "VERIFICATION_UPDATED"
)
