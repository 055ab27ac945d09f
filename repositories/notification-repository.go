package repositories

import (
	"os"
	"time"

	"github.com/gocql/gocql"
	"github.com/sirupsen/logrus"

	"github.com/MrSirThe1st/collaboration-sub001/models"
)

type NotificationRepo struct {
	session *gocql.Session
	logger  *logrus.Logger
}

// NewNotificationRepo connects to Cassandra and prepares the notifications
// keyspace.
func NewNotificationRepo(logger *logrus.Logger) (*NotificationRepo, error) {
	db := os.Getenv("CASS_DB")
	if db == "" {
		db = "127.0.0.1"
	}

	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.Errorf("Event ID: CASS_CONNECT_FAILED, Description: %v", err)
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		logger.Errorf("Event ID: CASS_KEYSPACE_FAILED, Description: failed to create keyspace: %v", err)
		return nil, err
	}
	session.Close()

	cluster.Keyspace = "notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.Errorf("Event ID: CASS_KEYSPACE_CONNECT_FAILED, Description: failed to connect to notifications keyspace: %v", err)
		return nil, err
	}

	logger.Info("Event ID: CASS_CONNECTED, Description: Connected to Cassandra notifications keyspace.")
	return &NotificationRepo{
		session: session,
		logger:  logger,
	}, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	nr.logger.Info("Event ID: CASS_SESSION_CLOSED, Description: Cassandra session closed.")
}

// CreateTable creates the notifications table if it does not exist.
// Clustering by created_at DESC returns the newest notifications first.
func (nr *NotificationRepo) CreateTable() {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			username TEXT,
			user_id TEXT,
			type TEXT,
			message TEXT,
			ref_type TEXT,
			ref_id TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((username), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		nr.logger.Errorf("Event ID: CASS_TABLE_FAILED, Description: failed to create notifications table: %v", err)
	} else {
		nr.logger.Info("Event ID: CASS_TABLE_READY, Description: Notifications table ready.")
	}
}

func (nr *NotificationRepo) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, username, user_id, type, message, ref_type, ref_id, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.Username, notification.UserID, notification.Type,
		notification.Message, notification.RefType, notification.RefID,
		notification.CreatedAt, notification.IsRead,
	).Exec()
	if err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_CREATE_FAILED, Description: %v", err)
		return err
	}

	return nil
}

func (nr *NotificationRepo) GetNotificationsByUsername(username string) ([]models.Notification, error) {
	query := `SELECT id, user_id, username, type, message, ref_type, ref_id, created_at, is_read
			  FROM notifications WHERE username = ?`

	iter := nr.session.Query(query, username).Iter()
	var notifications []models.Notification
	var notification models.Notification

	for iter.Scan(&notification.ID, &notification.UserID, &notification.Username,
		&notification.Type, &notification.Message, &notification.RefType,
		&notification.RefID, &notification.CreatedAt, &notification.IsRead) {
		notifications = append(notifications, notification)
	}

	if err := iter.Close(); err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_LIST_FAILED, Description: %v", err)
		return nil, err
	}

	return notifications, nil
}

func (nr *NotificationRepo) MarkNotificationAsRead(username, notificationID, createdAt string) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_BAD_UUID, Description: %v", err)
		return err
	}

	parsedCreatedAt, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_BAD_TIMESTAMP, Description: %v", err)
		return err
	}

	query := `UPDATE notifications SET is_read = true WHERE username = ? AND id = ? AND created_at = ?`
	err = nr.session.Query(query, username, uuid, parsedCreatedAt).Exec()
	if err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_MARK_READ_FAILED, Description: %v", err)
		return err
	}

	return nil
}

func (nr *NotificationRepo) DeleteNotification(username, notificationID, createdAt string) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_BAD_UUID, Description: %v", err)
		return err
	}

	parsedCreatedAt, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_BAD_TIMESTAMP, Description: %v", err)
		return err
	}

	query := `DELETE FROM notifications WHERE username = ? AND id = ? AND created_at = ?`
	err = nr.session.Query(query, username, uuid, parsedCreatedAt).Exec()
	if err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_DELETE_FAILED, Description: %v", err)
		return err
	}

	return nil
}
