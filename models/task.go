package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID   `bson:"projectId" json:"projectId"`
	MilestoneID *primitive.ObjectID  `bson:"milestoneId,omitempty" json:"milestoneId,omitempty"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Status      TaskStatus           `bson:"status" json:"status"`
	Assignees   []primitive.ObjectID `bson:"assignees" json:"assignees"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}
