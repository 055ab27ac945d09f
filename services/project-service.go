package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSirThe1st/collaboration-sub001/logging"
	"github.com/MrSirThe1st/collaboration-sub001/models"
	"github.com/MrSirThe1st/collaboration-sub001/policy"
)

type ProjectService struct {
	Client                *mongo.Client
	ProjectsCollection    *mongo.Collection
	UsersCollection       *mongo.Collection
	ChannelsCollection    *mongo.Collection
	MessagesCollection    *mongo.Collection
	TasksCollection       *mongo.Collection
	MilestonesCollection  *mongo.Collection
	FilesCollection       *mongo.Collection
	FoldersCollection     *mongo.Collection
	InvitationsCollection *mongo.Collection
}

// CreateProject inserts the project with the owner as its first member and
// auto-creates the default channels with the owner as sole member.
func (s *ProjectService) CreateProject(ctx context.Context, name, description string, requiredRoles []string, groupID *primitive.ObjectID, owner models.User) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		OwnerID:     owner.ID,
		GroupID:     groupID,
		Members: []models.Member{{
			UserID:   owner.ID,
			Username: owner.Username,
			Name:     owner.Name,
			Role:     policy.AdminRole,
			JoinedAt: time.Now(),
		}},
		RequiredRoles: requiredRoles,
		Requests:      []models.Request{},
		CreatedAt:     time.Now(),
	}

	if _, err := s.ProjectsCollection.InsertOne(ctx, project); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("project with the same name already exists")
		}
		return nil, fmt.Errorf("failed to create project: %v", err)
	}

	for _, channelName := range models.DefaultChannelNames {
		channelType := models.ChannelDefault
		if channelName == "announcements" {
			channelType = models.ChannelAnnouncement
		}
		channel := models.Channel{
			ID:        primitive.NewObjectID(),
			ProjectID: project.ID,
			Name:      channelName,
			Type:      channelType,
			MemberIDs: []primitive.ObjectID{owner.ID},
			CreatedAt: time.Now(),
		}
		if _, err := s.ChannelsCollection.InsertOne(ctx, channel); err != nil {
			return nil, fmt.Errorf("failed to create default channel %q: %v", channelName, err)
		}
	}

	if _, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": owner.ID},
		bson.M{"$addToSet": bson.M{"projectIds": project.ID}},
	); err != nil {
		return nil, fmt.Errorf("failed to link project to owner: %v", err)
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: project %s created by %s", project.ID.Hex(), owner.Username)
	return project, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, projectID string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project ID format")
	}

	var project models.Project
	err = s.ProjectsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("error fetching project: %v", err)
	}

	return &project, nil
}

// ListProjectsForUser returns every project the user owns or belongs to.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"ownerId": userID},
		{"members.userId": userID},
	}}

	cursor, err := s.ProjectsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}

	return projects, nil
}

// AddMemberWithRole adds a user to the project and pulls them into every
// default channel.
func (s *ProjectService) AddMemberWithRole(ctx context.Context, projectID primitive.ObjectID, user models.User, role string) error {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return errors.New("project not found")
	}

	if project.MemberByID(user.ID) != nil {
		return errors.New("user is already a member of the project")
	}
	if len(project.RequiredRoles) > 0 && !project.HasRequiredRole(role) {
		return fmt.Errorf("invalid role %q for this project", role)
	}

	member := models.Member{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     role,
		JoinedAt: time.Now(),
	}

	if _, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$push": bson.M{"members": member}},
	); err != nil {
		return fmt.Errorf("failed to add member to project: %v", err)
	}

	if _, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$addToSet": bson.M{"projectIds": projectID}},
	); err != nil {
		return fmt.Errorf("failed to link project to user: %v", err)
	}

	return s.SyncDefaultChannels(ctx, projectID)
}

// SyncDefaultChannels makes every project member a member of every default
// channel. Announcement channels count as default here: all members read
// them, posting is restricted by policy instead.
func (s *ProjectService) SyncDefaultChannels(ctx context.Context, projectID primitive.ObjectID) error {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return errors.New("project not found")
	}

	memberIDs := make([]primitive.ObjectID, 0, len(project.Members))
	for _, m := range project.Members {
		memberIDs = append(memberIDs, m.UserID)
	}

	filter := bson.M{
		"projectId": projectID,
		"type":      bson.M{"$in": []models.ChannelType{models.ChannelDefault, models.ChannelAnnouncement}},
		"isDeleted": false,
	}
	update := bson.M{"$addToSet": bson.M{"memberIds": bson.M{"$each": memberIDs}}}

	if _, err := s.ChannelsCollection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to sync default channels: %v", err)
	}

	return nil
}

// RemoveMember drops a member unless they are assigned to an in-progress
// task on the project.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, memberID primitive.ObjectID) error {
	count, err := s.TasksCollection.CountDocuments(ctx, bson.M{
		"projectId": projectID,
		"status":    models.StatusInProgress,
		"assignees": memberID,
	})
	if err != nil {
		return errors.New("failed to check task assignments")
	}
	if count > 0 {
		return errors.New("cannot remove member assigned to an in-progress task")
	}

	result, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$pull": bson.M{"members": bson.M{"userId": memberID}}},
	)
	if err != nil {
		return errors.New("failed to remove member from project")
	}
	if result.ModifiedCount == 0 {
		return errors.New("member not found in project or already removed")
	}

	if _, err := s.ChannelsCollection.UpdateMany(ctx,
		bson.M{"projectId": projectID},
		bson.M{"$pull": bson.M{"memberIds": memberID}},
	); err != nil {
		return fmt.Errorf("failed to remove member from channels: %v", err)
	}

	if _, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": memberID},
		bson.M{"$pull": bson.M{"projectIds": projectID}},
	); err != nil {
		return fmt.Errorf("failed to unlink project from user: %v", err)
	}

	return nil
}

// CreateJoinRequest records a user's ask to join with a given role.
func (s *ProjectService) CreateJoinRequest(ctx context.Context, projectID primitive.ObjectID, user models.User, role string) error {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return errors.New("project not found")
	}
	if project.MemberByID(user.ID) != nil {
		return errors.New("user is already a member of the project")
	}
	for _, r := range project.Requests {
		if r.UserID == user.ID && r.Status == models.RequestThinking {
			return errors.New("request already pending")
		}
	}

	request := models.Request{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      role,
		Status:    models.RequestThinking,
		CreatedAt: time.Now(),
	}

	_, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$push": bson.M{"requests": request}},
	)
	if err != nil {
		return fmt.Errorf("failed to create join request: %v", err)
	}
	return nil
}

// RespondJoinRequest accepts or rejects a pending request. Accepting adds
// the requester as a member with the role they asked for.
func (s *ProjectService) RespondJoinRequest(ctx context.Context, projectID, requesterID primitive.ObjectID, accept bool) error {
	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		return errors.New("project not found")
	}

	var pending *models.Request
	for i := range project.Requests {
		if project.Requests[i].UserID == requesterID && project.Requests[i].Status == models.RequestThinking {
			pending = &project.Requests[i]
			break
		}
	}
	if pending == nil {
		return errors.New("no pending request for user")
	}

	status := models.RequestRejected
	if accept {
		status = models.RequestAccepted
	}

	_, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID, "requests.userId": requesterID, "requests.status": models.RequestThinking},
		bson.M{"$set": bson.M{"requests.$.status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %v", err)
	}

	if !accept {
		return nil
	}

	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": requesterID}).Decode(&user); err != nil {
		return errors.New("requesting user not found")
	}
	return s.AddMemberWithRole(ctx, projectID, user, pending.Role)
}

// DeleteProject cascade-deletes everything the project owns inside one
// transaction: channels, channel messages, tasks, milestones, files,
// folders, invitations, and the project id on every member's user record.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID primitive.ObjectID) error {
	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, s.CascadeDelete(sessCtx, projectID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: project %s cascade-deleted", projectID.Hex())
	return nil
}

// CascadeDelete removes a project and its dependents. It must run inside a
// session transaction; GroupService reuses it when deleting a group's
// projects.
func (s *ProjectService) CascadeDelete(sessCtx context.Context, projectID primitive.ObjectID) error {
	cursor, err := s.ChannelsCollection.Find(sessCtx, bson.M{"projectId": projectID})
	if err != nil {
		return fmt.Errorf("failed to list project channels: %v", err)
	}
	var channels []models.Channel
	if err := cursor.All(sessCtx, &channels); err != nil {
		return fmt.Errorf("failed to decode project channels: %v", err)
	}

	channelIDs := make([]primitive.ObjectID, 0, len(channels))
	for _, c := range channels {
		channelIDs = append(channelIDs, c.ID)
	}

	if len(channelIDs) > 0 {
		if _, err := s.MessagesCollection.DeleteMany(sessCtx, bson.M{"channelId": bson.M{"$in": channelIDs}}); err != nil {
			return fmt.Errorf("failed to delete channel messages: %v", err)
		}
	}

	deletions := []struct {
		coll   *mongo.Collection
		filter bson.M
	}{
		{s.ChannelsCollection, bson.M{"projectId": projectID}},
		{s.TasksCollection, bson.M{"projectId": projectID}},
		{s.MilestonesCollection, bson.M{"projectId": projectID}},
		{s.FilesCollection, bson.M{"projectId": projectID}},
		{s.FoldersCollection, bson.M{"projectId": projectID}},
		{s.InvitationsCollection, bson.M{"projectId": projectID}},
	}
	for _, d := range deletions {
		if _, err := d.coll.DeleteMany(sessCtx, d.filter); err != nil {
			return fmt.Errorf("failed to delete project dependents: %v", err)
		}
	}

	if _, err := s.UsersCollection.UpdateMany(sessCtx,
		bson.M{"projectIds": projectID},
		bson.M{"$pull": bson.M{"projectIds": projectID}},
	); err != nil {
		return fmt.Errorf("failed to unlink project from members: %v", err)
	}

	if _, err := s.ProjectsCollection.DeleteOne(sessCtx, bson.M{"_id": projectID}); err != nil {
		return fmt.Errorf("failed to delete project document: %v", err)
	}

	return nil
}

// RemoveUserEverywhere strips a departing user's membership entries across
// projects, channels, tasks, and groups.
func (s *ProjectService) RemoveUserEverywhere(ctx context.Context, userID primitive.ObjectID) error {
	if _, err := s.ProjectsCollection.UpdateMany(ctx,
		bson.M{"members.userId": userID},
		bson.M{"$pull": bson.M{"members": bson.M{"userId": userID}}},
	); err != nil {
		return fmt.Errorf("failed to remove user from projects: %v", err)
	}

	if _, err := s.ChannelsCollection.UpdateMany(ctx,
		bson.M{"memberIds": userID},
		bson.M{"$pull": bson.M{"memberIds": userID}},
	); err != nil {
		return fmt.Errorf("failed to remove user from channels: %v", err)
	}

	if _, err := s.TasksCollection.UpdateMany(ctx,
		bson.M{"assignees": userID},
		bson.M{"$pull": bson.M{"assignees": userID}},
	); err != nil {
		return fmt.Errorf("failed to remove user from tasks: %v", err)
	}

	return nil
}
