package services

import (
	"context"
	"fmt"
	"html"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSirThe1st/collaboration-sub001/logging"
	"github.com/MrSirThe1st/collaboration-sub001/models"
)

type UserService struct {
	UserCollection *mongo.Collection
	TaskCollection *mongo.Collection
	ProjectService *ProjectService
}

func NewUserService(userCollection, taskCollection *mongo.Collection, projectService *ProjectService) *UserService {
	return &UserService{
		UserCollection: userCollection,
		TaskCollection: taskCollection,
		ProjectService: projectService,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid user ID format")
	}

	var user models.User
	err = s.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return models.User{}, fmt.Errorf("user not found")
	}

	user.Password = ""
	return user, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return models.User{}, fmt.Errorf("user not found")
	}

	user.Password = ""
	return user, nil
}

// UpdateProfile changes the caller's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, lastName, profession, bio, avatarURL string) (models.User, error) {
	update := bson.M{"$set": bson.M{
		"name":       html.EscapeString(name),
		"lastName":   html.EscapeString(lastName),
		"profession": html.EscapeString(profession),
		"bio":        html.EscapeString(bio),
		"avatarUrl":  avatarURL,
	}}

	result, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to update profile: %v", err)
	}
	if result.MatchedCount == 0 {
		return models.User{}, fmt.Errorf("user not found")
	}

	return s.GetUserByID(ctx, userID.Hex())
}

// GetAllUsers lists every active user without passwords.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.UserCollection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users: %v", err)
	}

	for i := range users {
		users[i].Password = ""
	}

	return users, nil
}

// DeleteAccount removes the user unless they still hold in-progress task
// assignments somewhere.
func (s *UserService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return fmt.Errorf("user not found")
	}

	count, err := s.TaskCollection.CountDocuments(ctx, bson.M{
		"assignees": userID,
		"status":    models.StatusInProgress,
	})
	if err != nil {
		return fmt.Errorf("failed to check task assignments: %v", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete account with in-progress task assignments")
	}

	// Drop the membership entries the user leaves behind.
	if err := s.ProjectService.RemoveUserEverywhere(ctx, userID); err != nil {
		return err
	}

	if _, err := s.UserCollection.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}

	logging.Logger.Infof("Event ID: ACCOUNT_DELETED, Description: account %s deleted", user.Username)
	return nil
}
