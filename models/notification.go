package models

import "time"

// Notification lives in Cassandra, clustered by username and creation time
// so the newest entries come back first.
type Notification struct {
	ID        string    `cassandra:"id" json:"id"`
	UserID    string    `cassandra:"user_id" json:"userId"`
	Username  string    `cassandra:"username" json:"username"`
	Type      string    `cassandra:"type" json:"type"`
	Message   string    `cassandra:"message" json:"message"`
	RefType   string    `cassandra:"ref_type" json:"refType"`
	RefID     string    `cassandra:"ref_id" json:"refId"`
	CreatedAt time.Time `cassandra:"created_at" json:"createdAt"`
	IsRead    bool      `cassandra:"is_read" json:"isRead"`
}
