package handler

import (
	"net/http"

	"github.com/expo-push-api/internal/application/notification"
	"github.com/expo-push-api/internal/domain"
	"github.com/expo-push-api/internal/pkg/id"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler handles notification authoring and publishing.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// notificationID returns the {id} path param, writing a 400 when it is not a ULID.
func notificationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	nid := chi.URLParam(r, "id")
	if !id.Valid(nid) {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return "", false
	}
	return nid, true
}

// Create godoc
// @Summary      Create a notification
// @Description  Creates a notification in DRAFT status.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CreateNotificationRequest  true  "Notification content"
// @Success      201      {object}  domain.Notification
// @Failure      400      {object}  MessageEnvelope
// @Router       /api/notifications [post]
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, err)
		return
	}
	n, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// List godoc
// @Summary      List notifications
// @Description  Returns every notification, newest first.
// @Tags         notifications
// @Produce      json
// @Success      200  {array}   domain.Notification
// @Failure      500  {object}  MessageEnvelope
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// Get godoc
// @Summary      Get a notification
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID (ULID)"
// @Success      200  {object}  domain.Notification
// @Failure      400  {object}  MessageEnvelope
// @Failure      404  {object}  MessageEnvelope
// @Router       /api/notifications/{id} [get]
func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	nid, ok := notificationID(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Get(r.Context(), nid)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Update godoc
// @Summary      Update a draft notification
// @Description  Applies a partial update. Absent or null fields keep their stored value. Published notifications cannot be edited.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Notification ID (ULID)"
// @Param        request  body      domain.UpdateNotificationRequest  true  "Fields to change"
// @Success      200      {object}  domain.Notification
// @Failure      400      {object}  MessageEnvelope
// @Failure      404      {object}  MessageEnvelope
// @Failure      409      {object}  MessageEnvelope
// @Router       /api/notifications/{id} [put]
func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	nid, ok := notificationID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, err)
		return
	}
	n, err := h.svc.Update(r.Context(), nid, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Delete godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id   path      string  true  "Notification ID (ULID)"
// @Success      204
// @Failure      400  {object}  MessageEnvelope
// @Failure      404  {object}  MessageEnvelope
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	nid, ok := notificationID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), nid); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish godoc
// @Summary      Publish a notification
// @Description  Moves a DRAFT notification to PUBLISHED and pushes it to every registered device.
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID (ULID)"
// @Success      200  {object}  domain.Notification
// @Failure      400  {object}  MessageEnvelope
// @Failure      404  {object}  MessageEnvelope
// @Failure      409  {object}  MessageEnvelope
// @Router       /api/notifications/{id}/publish [put]
func (h *NotificationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	nid, ok := notificationID(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Publish(r.Context(), nid)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
