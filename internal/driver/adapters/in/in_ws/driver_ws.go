package in_ws

import (
	"encoding/json"
	"errors"

	"github.com/medehssane/tewsilty/internal/driver/application/ports/in"
	"github.com/medehssane/tewsilty/internal/driver/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"
	"github.com/medehssane/tewsilty/internal/shared/ws"
)

// DriverWSHandler handles messages drivers send over the socket. Currently
// that is just a stream of location fixes.
type DriverWSHandler struct {
	updateLocationUC in.UpdateLocationUseCase
	log              *logger.Logger
}

func NewDriverWSHandler(updateLocationUC in.UpdateLocationUseCase, log *logger.Logger) *DriverWSHandler {
	return &DriverWSHandler{
		updateLocationUC: updateLocationUC,
		log:              log,
	}
}

// Handle is installed on the hub as its MessageHandler.
func (h *DriverWSHandler) Handle(client *ws.Client, messageType string, data json.RawMessage) error {
	switch messageType {
	case "location_update":
		return h.handleLocationUpdate(client, data)
	case "ping":
		return client.Send(map[string]string{"type": "pong"})
	default:
		h.log.Warn(logger.Entry{
			Action:  "ws_unknown_message_type",
			Message: messageType,
			Additional: map[string]any{
				"user_id": client.UserID,
			},
		})
		return nil
	}
}

type locationUpdatePayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *DriverWSHandler) handleLocationUpdate(client *ws.Client, data json.RawMessage) error {
	var payload locationUpdatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return client.Send(map[string]string{"type": "error", "error": "invalid location payload"})
	}

	// tied to the connection: a fix from a torn-down socket is not persisted
	_, err := h.updateLocationUC.Execute(client.Context(), in.UpdateLocationInput{
		DriverID: client.UserID,
		Lat:      payload.Lat,
		Lng:      payload.Lng,
	})
	switch {
	case errors.Is(err, domain.ErrTooFrequent):
		// silently drop; the device is just sending too fast
		return nil
	case errors.Is(err, domain.ErrInvalidCoordinates):
		return client.Send(map[string]string{"type": "error", "error": "invalid coordinates"})
	case err != nil:
		return err
	}

	return nil
}
