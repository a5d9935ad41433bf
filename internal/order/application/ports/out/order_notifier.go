package out

// OrderNotifier pushes order events to connected clients over WebSocket.
type OrderNotifier interface {
	// NotifyCustomer sends a typed event to one customer's connections.
	NotifyCustomer(customerID, eventType string, data interface{}) error

	// NotifyDrivers sends a typed event to every connected driver.
	NotifyDrivers(eventType string, data interface{}) error
}
