package domain

import "time"

// Order is the delivery order entity.
type Order struct {
	ID                 string     `json:"id" db:"id"`
	CustomerID         string     `json:"customer_id" db:"customer_id"`
	DriverID           *string    `json:"driver_id,omitempty" db:"driver_id"`
	PickupLocation     string     `json:"pickup_location" db:"pickup_location"`
	PickupLat          *float64   `json:"pickup_lat,omitempty" db:"pickup_lat"`
	PickupLng          *float64   `json:"pickup_lng,omitempty" db:"pickup_lng"`
	DeliveryLocation   string     `json:"delivery_location" db:"delivery_location"`
	Details            string     `json:"details" db:"details"`
	RecipientPhone     string     `json:"recipient_phone" db:"recipient_phone"`
	Status             string     `json:"status" db:"status"`
	DriverLat          *float64   `json:"driver_lat,omitempty" db:"driver_lat"`
	DriverLng          *float64   `json:"driver_lng,omitempty" db:"driver_lng"`
	CancellationReason *string    `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether a driver is still working this order.
func (o *Order) IsActive() bool {
	return o.Status == "accepted" || o.Status == "in_progress"
}

// IsTerminal reports whether the order can never change state again.
func (o *Order) IsTerminal() bool {
	return o.Status == "completed" || o.Status == "cancelled"
}

// BelongsToCustomer checks read access for the customer surface.
func (o *Order) BelongsToCustomer(customerID string) bool {
	return o.CustomerID == customerID
}

// AssignedTo checks whether the order is held by the given driver.
func (o *Order) AssignedTo(driverID string) bool {
	return o.DriverID != nil && *o.DriverID == driverID
}
