package out_ws

import (
	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/shared/ws"
)

// OrderNotifier pushes order events to connected clients through the hub.
type OrderNotifier struct {
	hub *ws.Hub
}

func NewOrderNotifier(hub *ws.Hub) *OrderNotifier {
	return &OrderNotifier{hub: hub}
}

func (n *OrderNotifier) NotifyCustomer(customerID, eventType string, data interface{}) error {
	return n.hub.SendTypedMessage(customerID, eventType, data)
}

func (n *OrderNotifier) NotifyDrivers(eventType string, data interface{}) error {
	return n.hub.SendTypedToRole(model.RoleDriver, eventType, data)
}
