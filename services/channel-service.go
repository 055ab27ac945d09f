package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSirThe1st/collaboration-sub001/gateway"
	"github.com/MrSirThe1st/collaboration-sub001/models"
)

type ChannelService struct {
	ChannelsCollection *mongo.Collection
	MessagesCollection *mongo.Collection
	ProjectsCollection *mongo.Collection
	Hub                *gateway.Hub
}

// CreateChannel adds a channel to a project. Role-based channels start out
// with the members holding that role; other channels start with the
// creator only.
func (s *ChannelService) CreateChannel(ctx context.Context, project *models.Project, name string, channelType models.ChannelType, role string, creatorID primitive.ObjectID) (*models.Channel, error) {
	if name == "" {
		return nil, fmt.Errorf("channel name is required")
	}
	if channelType == models.ChannelRoleBased && role == "" {
		return nil, fmt.Errorf("role is required for role-based channels")
	}

	memberIDs := []primitive.ObjectID{creatorID}
	if channelType == models.ChannelRoleBased {
		for _, m := range project.Members {
			if m.Role == role && m.UserID != creatorID {
				memberIDs = append(memberIDs, m.UserID)
			}
		}
	}

	channel := &models.Channel{
		ID:        primitive.NewObjectID(),
		ProjectID: project.ID,
		Name:      name,
		Type:      channelType,
		Role:      role,
		MemberIDs: memberIDs,
		CreatedAt: time.Now(),
	}

	if _, err := s.ChannelsCollection.InsertOne(ctx, channel); err != nil {
		return nil, fmt.Errorf("failed to create channel: %v", err)
	}

	return channel, nil
}

// GetChannelByID returns the channel even when soft-deleted; listing is
// where the flag filters.
func (s *ChannelService) GetChannelByID(ctx context.Context, channelID string) (*models.Channel, error) {
	objectID, err := primitive.ObjectIDFromHex(channelID)
	if err != nil {
		return nil, fmt.Errorf("invalid channel ID format")
	}

	var channel models.Channel
	err = s.ChannelsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&channel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("channel not found")
		}
		return nil, fmt.Errorf("error fetching channel: %v", err)
	}

	return &channel, nil
}

// ListChannelsForProject returns the non-deleted channels the caller can
// see: the ones they are a member of.
func (s *ChannelService) ListChannelsForProject(ctx context.Context, projectID, callerID primitive.ObjectID) ([]models.Channel, error) {
	filter := bson.M{
		"projectId": projectID,
		"isDeleted": false,
		"memberIds": callerID,
	}

	cursor, err := s.ChannelsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %v", err)
	}
	defer cursor.Close(ctx)

	var channels []models.Channel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, fmt.Errorf("failed to decode channels: %v", err)
	}

	return channels, nil
}

// SoftDeleteChannel flips the flag; the record stays retrievable by id.
func (s *ChannelService) SoftDeleteChannel(ctx context.Context, channelID primitive.ObjectID) error {
	result, err := s.ChannelsCollection.UpdateOne(ctx,
		bson.M{"_id": channelID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("channel not found")
	}
	return nil
}

// PostAnnouncement writes a message into the project's announcement
// channel and fans it out. Authorization happens in the handler via policy.
func (s *ChannelService) PostAnnouncement(ctx context.Context, channel *models.Channel, sender models.User, content string) (*models.Message, error) {
	if channel.Type != models.ChannelAnnouncement {
		return nil, errors.New("channel is not an announcement channel")
	}
	if content == "" {
		return nil, fmt.Errorf("announcement content is required")
	}

	announcement := &models.Message{
		ID:             primitive.NewObjectID(),
		ChannelID:      channel.ID,
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		Content:        content,
		ReadBy:         []primitive.ObjectID{sender.ID},
		CreatedAt:      time.Now(),
	}

	if _, err := s.MessagesCollection.InsertOne(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to post announcement: %v", err)
	}

	s.Hub.EmitToRoom(channel.ID.Hex(), gateway.EventNewAnnouncement, announcement)
	return announcement, nil
}

// DeleteAnnouncement soft-deletes an announcement and notifies the room.
func (s *ChannelService) DeleteAnnouncement(ctx context.Context, channel *models.Channel, announcementID primitive.ObjectID) error {
	result, err := s.MessagesCollection.UpdateOne(ctx,
		bson.M{"_id": announcementID, "channelId": channel.ID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("announcement not found")
	}

	s.Hub.EmitToRoom(channel.ID.Hex(), gateway.EventAnnouncementDeleted, map[string]string{
		"announcementId": announcementID.Hex(),
		"channelId":      channel.ID.Hex(),
	})
	return nil
}
