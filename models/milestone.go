package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

type Milestone struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"projectId" json:"projectId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	DueDate     time.Time          `bson:"dueDate" json:"dueDate"`
	Progress    int                `bson:"progress" json:"progress"`
	Status      MilestoneStatus    `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ComputeProgress derives the progress percentage from the milestone's
// current task set. A milestone with no tasks is at 0%.
func ComputeProgress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// ProgressStatus maps a percentage to the milestone status label.
func ProgressStatus(progress int) MilestoneStatus {
	switch {
	case progress == 0:
		return MilestonePending
	case progress >= 100:
		return MilestoneCompleted
	default:
		return MilestoneInProgress
	}
}
