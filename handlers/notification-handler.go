package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MrSirThe1st/collaboration-sub001/services"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

type NotificationHandler struct {
	NotificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{NotificationService: notificationService}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	_, claims, ok := caller(w, r)
	if !ok {
		return
	}

	notifications, err := h.NotificationService.ListForUsername(claims.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "", "notifications", notifications)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	_, claims, ok := caller(w, r)
	if !ok {
		return
	}

	createdAt := r.URL.Query().Get("createdAt")
	if createdAt == "" {
		utils.WriteError(w, http.StatusBadRequest, "createdAt query parameter is required")
		return
	}

	if err := h.NotificationService.MarkAsRead(claims.Username, mux.Vars(r)["id"], createdAt); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Notification marked as read", "", nil)
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	_, claims, ok := caller(w, r)
	if !ok {
		return
	}

	createdAt := r.URL.Query().Get("createdAt")
	if createdAt == "" {
		utils.WriteError(w, http.StatusBadRequest, "createdAt query parameter is required")
		return
	}

	if err := h.NotificationService.Delete(claims.Username, mux.Vars(r)["id"], createdAt); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "Notification deleted", "", nil)
}
