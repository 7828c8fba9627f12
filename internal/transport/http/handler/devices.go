package handler

import (
	"net/http"

	"github.com/expo-push-api/internal/application/device"
	"github.com/expo-push-api/internal/domain"
)

// DeviceHandler handles push token registration.
type DeviceHandler struct {
	svc device.Service
}

func NewDeviceHandler(svc device.Service) *DeviceHandler { return &DeviceHandler{svc: svc} }

// RegisterToken godoc
// @Summary      Register a push token
// @Description  Stores an Expo push token for a device. Registering a known token returns the stored device unchanged.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RegisterTokenRequest  true  "Push token and platform"
// @Success      201      {object}  domain.Device
// @Failure      400      {object}  MessageEnvelope
// @Failure      429      {object}  MessageEnvelope
// @Router       /api/notifications/register-token [post]
func (h *DeviceHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, err)
		return
	}
	d, err := h.svc.RegisterToken(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}
