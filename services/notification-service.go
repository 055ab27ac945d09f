package services

import (
	"time"

	"github.com/MrSirThe1st/collaboration-sub001/gateway"
	"github.com/MrSirThe1st/collaboration-sub001/logging"
	"github.com/MrSirThe1st/collaboration-sub001/models"
	"github.com/MrSirThe1st/collaboration-sub001/repositories"
)

type NotificationService struct {
	repo *repositories.NotificationRepo
	hub  *gateway.Hub
}

func NewNotificationService(repo *repositories.NotificationRepo, hub *gateway.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

// Notify persists a notification and pushes it to the recipient's room.
// The push is best-effort; the document is the source of truth.
func (s *NotificationService) Notify(userID, username, notifType, message, refType, refID string) error {
	notification := &models.Notification{
		UserID:    userID,
		Username:  username,
		Type:      notifType,
		Message:   message,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateNotification(notification); err != nil {
		return err
	}

	s.hub.EmitToUser(userID, gateway.EventNewNotification, notification)
	logging.Logger.Infof("Event ID: NOTIFICATION_SENT, Description: %s notification for %s", notifType, username)
	return nil
}

func (s *NotificationService) ListForUsername(username string) ([]models.Notification, error) {
	return s.repo.GetNotificationsByUsername(username)
}

func (s *NotificationService) MarkAsRead(username, notificationID, createdAt string) error {
	return s.repo.MarkNotificationAsRead(username, notificationID, createdAt)
}

func (s *NotificationService) Delete(username, notificationID, createdAt string) error {
	return s.repo.DeleteNotification(username, notificationID, createdAt)
}
