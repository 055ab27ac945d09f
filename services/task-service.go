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

type TaskService struct {
	TasksCollection  *mongo.Collection
	MilestoneService *MilestoneService
}

func (s *TaskService) CreateTask(ctx context.Context, projectID primitive.ObjectID, milestoneID *primitive.ObjectID, title, description string, status models.TaskStatus) (*models.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if status == "" {
		status = models.StatusPending
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		MilestoneID: milestoneID,
		Title:       title,
		Description: description,
		Status:      status,
		Assignees:   []primitive.ObjectID{},
		CreatedAt:   time.Now(),
	}

	if _, err := s.TasksCollection.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	if milestoneID != nil {
		if err := s.MilestoneService.RecomputeProgress(ctx, *milestoneID); err != nil {
			return nil, err
		}
	}

	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, fmt.Errorf("invalid task ID format")
	}

	var task models.Task
	err = s.TasksCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("task not found")
		}
		return nil, fmt.Errorf("error fetching task: %v", err)
	}

	return &task, nil
}

func (s *TaskService) ListTasksForProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	return tasks, nil
}

// ChangeTaskStatus updates the status and recomputes the owning
// milestone's progress.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	switch status {
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted:
	default:
		return nil, fmt.Errorf("invalid task status: %s", status)
	}

	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, errors.New("task not found")
	}

	result, err := s.TasksCollection.UpdateOne(ctx,
		bson.M{"_id": taskID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, errors.New("task not found")
	}

	if task.MilestoneID != nil {
		if err := s.MilestoneService.RecomputeProgress(ctx, *task.MilestoneID); err != nil {
			return nil, err
		}
	}

	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}

	return &task, nil
}

// SetMilestone relinks the task and recomputes both the old and the new
// milestone.
func (s *TaskService) SetMilestone(ctx context.Context, taskID primitive.ObjectID, milestoneID *primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, errors.New("task not found")
	}

	var update bson.M
	if milestoneID == nil {
		update = bson.M{"$unset": bson.M{"milestoneId": ""}}
	} else {
		update = bson.M{"$set": bson.M{"milestoneId": *milestoneID}}
	}
	if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		return nil, fmt.Errorf("failed to update task milestone: %v", err)
	}

	if task.MilestoneID != nil {
		if err := s.MilestoneService.RecomputeProgress(ctx, *task.MilestoneID); err != nil {
			return nil, err
		}
	}
	if milestoneID != nil {
		if err := s.MilestoneService.RecomputeProgress(ctx, *milestoneID); err != nil {
			return nil, err
		}
	}

	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}
	return &task, nil
}

// AddAssignee assigns a project member to the task.
func (s *TaskService) AddAssignee(ctx context.Context, taskID, userID primitive.ObjectID) error {
	result, err := s.TasksCollection.UpdateOne(ctx,
		bson.M{"_id": taskID},
		bson.M{"$addToSet": bson.M{"assignees": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add assignee: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("task not found")
	}
	return nil
}

func (s *TaskService) RemoveAssignee(ctx context.Context, taskID, userID primitive.ObjectID) error {
	result, err := s.TasksCollection.UpdateOne(ctx,
		bson.M{"_id": taskID},
		bson.M{"$pull": bson.M{"assignees": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove assignee: %v", err)
	}
	if result.ModifiedCount == 0 {
		return errors.New("assignee not found on task")
	}
	return nil
}

// DeleteTask removes the task and recomputes its milestone if it had one.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return errors.New("task not found")
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}

	if task.MilestoneID != nil {
		return s.MilestoneService.RecomputeProgress(ctx, *task.MilestoneID)
	}
	return nil
}
