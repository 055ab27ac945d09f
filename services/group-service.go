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
)

type GroupService struct {
	Client             *mongo.Client
	GroupsCollection   *mongo.Collection
	UsersCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
	ProjectService     *ProjectService
}

func (s *GroupService) CreateGroup(ctx context.Context, name, description, coverImageURL string, owner models.User) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}

	group := &models.Group{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Description:   description,
		OwnerID:       owner.ID,
		MemberIDs:     []primitive.ObjectID{owner.ID},
		CoverImageURL: coverImageURL,
		CreatedAt:     time.Now(),
	}

	if _, err := s.GroupsCollection.InsertOne(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %v", err)
	}

	if _, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": owner.ID},
		bson.M{"$addToSet": bson.M{"groupIds": group.ID}},
	); err != nil {
		return nil, fmt.Errorf("failed to link group to owner: %v", err)
	}

	return group, nil
}

func (s *GroupService) GetGroupByID(ctx context.Context, groupID string) (*models.Group, error) {
	objectID, err := primitive.ObjectIDFromHex(groupID)
	if err != nil {
		return nil, fmt.Errorf("invalid group ID format")
	}

	var group models.Group
	err = s.GroupsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("group not found")
		}
		return nil, fmt.Errorf("error fetching group: %v", err)
	}

	return &group, nil
}

func (s *GroupService) ListGroupsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	cursor, err := s.GroupsCollection.Find(ctx, bson.M{"memberIds": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %v", err)
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode groups: %v", err)
	}

	return groups, nil
}

func (s *GroupService) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	result, err := s.GroupsCollection.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$addToSet": bson.M{"memberIds": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add member to group: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("group not found")
	}

	if _, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"groupIds": groupID}},
	); err != nil {
		return fmt.Errorf("failed to link group to user: %v", err)
	}

	return nil
}

func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	result, err := s.GroupsCollection.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$pull": bson.M{"memberIds": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove member from group: %v", err)
	}
	if result.ModifiedCount == 0 {
		return errors.New("member not found in group or already removed")
	}

	if _, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"groupIds": groupID}},
	); err != nil {
		return fmt.Errorf("failed to unlink group from user: %v", err)
	}

	return nil
}

// DeleteGroup removes the group and cascade-deletes every project linked
// to it, all inside one transaction.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID primitive.ObjectID) error {
	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		cursor, err := s.ProjectsCollection.Find(sessCtx, bson.M{"groupId": groupID})
		if err != nil {
			return nil, fmt.Errorf("failed to list group projects: %v", err)
		}
		var projects []models.Project
		if err := cursor.All(sessCtx, &projects); err != nil {
			return nil, fmt.Errorf("failed to decode group projects: %v", err)
		}

		for _, p := range projects {
			if err := s.ProjectService.CascadeDelete(sessCtx, p.ID); err != nil {
				return nil, err
			}
		}

		if _, err := s.UsersCollection.UpdateMany(sessCtx,
			bson.M{"groupIds": groupID},
			bson.M{"$pull": bson.M{"groupIds": groupID}},
		); err != nil {
			return nil, fmt.Errorf("failed to unlink group from members: %v", err)
		}

		if _, err := s.GroupsCollection.DeleteOne(sessCtx, bson.M{"_id": groupID}); err != nil {
			return nil, fmt.Errorf("failed to delete group document: %v", err)
		}

		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete group: %v", err)
	}

	logging.Logger.Infof("Event ID: GROUP_DELETED, Description: group %s cascade-deleted", groupID.Hex())
	return nil
}
