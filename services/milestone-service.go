package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSirThe1st/collaboration-sub001/models"
)

type MilestoneService struct {
	MilestonesCollection *mongo.Collection
	TasksCollection      *mongo.Collection
}

func (s *MilestoneService) CreateMilestone(ctx context.Context, projectID primitive.ObjectID, name, description string, dueDate time.Time) (*models.Milestone, error) {
	if name == "" {
		return nil, fmt.Errorf("milestone name is required")
	}

	milestone := &models.Milestone{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		DueDate:     dueDate,
		Progress:    0,
		Status:      models.MilestonePending,
		CreatedAt:   time.Now(),
	}

	if _, err := s.MilestonesCollection.InsertOne(ctx, milestone); err != nil {
		return nil, fmt.Errorf("failed to create milestone: %v", err)
	}

	return milestone, nil
}

func (s *MilestoneService) GetMilestoneByID(ctx context.Context, milestoneID string) (*models.Milestone, error) {
	objectID, err := primitive.ObjectIDFromHex(milestoneID)
	if err != nil {
		return nil, fmt.Errorf("invalid milestone ID format")
	}

	var milestone models.Milestone
	err = s.MilestonesCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&milestone)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("milestone not found")
		}
		return nil, fmt.Errorf("error fetching milestone: %v", err)
	}

	return &milestone, nil
}

func (s *MilestoneService) ListMilestonesForProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Milestone, error) {
	cursor, err := s.MilestonesCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch milestones: %v", err)
	}
	defer cursor.Close(ctx)

	var milestones []models.Milestone
	if err := cursor.All(ctx, &milestones); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %v", err)
	}

	return milestones, nil
}

// RecomputeProgress rederives progress and status from the milestone's
// current task set. It only reads present state, so concurrent or repeated
// calls settle on the same value.
func (s *MilestoneService) RecomputeProgress(ctx context.Context, milestoneID primitive.ObjectID) error {
	total, err := s.TasksCollection.CountDocuments(ctx, bson.M{"milestoneId": milestoneID})
	if err != nil {
		return fmt.Errorf("failed to count milestone tasks: %v", err)
	}

	completed, err := s.TasksCollection.CountDocuments(ctx, bson.M{
		"milestoneId": milestoneID,
		"status":      models.StatusCompleted,
	})
	if err != nil {
		return fmt.Errorf("failed to count completed tasks: %v", err)
	}

	progress := models.ComputeProgress(int(completed), int(total))
	status := models.ProgressStatus(progress)

	result, err := s.MilestonesCollection.UpdateOne(ctx,
		bson.M{"_id": milestoneID},
		bson.M{"$set": bson.M{"progress": progress, "status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update milestone progress: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("milestone not found")
	}

	return nil
}

// DeleteMilestone removes the milestone and unlinks its tasks.
func (s *MilestoneService) DeleteMilestone(ctx context.Context, milestoneID primitive.ObjectID) error {
	result, err := s.MilestonesCollection.DeleteOne(ctx, bson.M{"_id": milestoneID})
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %v", err)
	}
	if result.DeletedCount == 0 {
		return errors.New("milestone not found")
	}

	if _, err := s.TasksCollection.UpdateMany(ctx,
		bson.M{"milestoneId": milestoneID},
		bson.M{"$unset": bson.M{"milestoneId": ""}},
	); err != nil {
		return fmt.Errorf("failed to unlink milestone tasks: %v", err)
	}

	return nil
}
