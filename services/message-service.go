package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrSirThe1st/collaboration-sub001/gateway"
	"github.com/MrSirThe1st/collaboration-sub001/models"
)

type MessageService struct {
	MessagesCollection *mongo.Collection
	Hub                *gateway.Hub
}

// SendMessage persists a channel message and fans it out to the channel
// room. Membership is checked by the handler via policy before this runs.
func (s *MessageService) SendMessage(ctx context.Context, channelID primitive.ObjectID, sender models.User, content string, attachments []string) (*models.Message, error) {
	if content == "" && len(attachments) == 0 {
		return nil, fmt.Errorf("message content is required")
	}

	message := &models.Message{
		ID:             primitive.NewObjectID(),
		ChannelID:      channelID,
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		Content:        content,
		Attachments:    attachments,
		ReadBy:         []primitive.ObjectID{sender.ID},
		CreatedAt:      time.Now(),
	}

	if _, err := s.MessagesCollection.InsertOne(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %v", err)
	}

	s.Hub.EmitToRoom(channelID.Hex(), gateway.EventNewMessage, message)
	return message, nil
}

// ListMessages returns non-deleted messages for a channel, oldest first.
func (s *MessageService) ListMessages(ctx context.Context, channelID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"channelId": channelID, "isDeleted": false}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})

	cursor, err := s.MessagesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}

	return messages, nil
}

// GetMessageByID returns the message even when soft-deleted.
func (s *MessageService) GetMessageByID(ctx context.Context, messageID string) (*models.Message, error) {
	objectID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, fmt.Errorf("invalid message ID format")
	}

	var message models.Message
	err = s.MessagesCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("message not found")
		}
		return nil, fmt.Errorf("error fetching message: %v", err)
	}

	return &message, nil
}

// EditMessage replaces the content, keeping the previous revision. Only
// the sender may edit.
func (s *MessageService) EditMessage(ctx context.Context, messageID, callerID primitive.ObjectID, newContent string) (*models.Message, error) {
	var message models.Message
	if err := s.MessagesCollection.FindOne(ctx, bson.M{"_id": messageID, "isDeleted": false}).Decode(&message); err != nil {
		return nil, errors.New("message not found")
	}
	if message.SenderID != callerID {
		return nil, errors.New("only the sender can edit a message")
	}
	if newContent == "" {
		return nil, fmt.Errorf("message content is required")
	}

	revision := models.MessageRevision{Content: message.Content, EditedAt: time.Now()}
	update := bson.M{
		"$set":  bson.M{"content": newContent, "edited": true},
		"$push": bson.M{"editHistory": revision},
	}
	if _, err := s.MessagesCollection.UpdateOne(ctx, bson.M{"_id": messageID}, update); err != nil {
		return nil, fmt.Errorf("failed to edit message: %v", err)
	}

	if err := s.MessagesCollection.FindOne(ctx, bson.M{"_id": messageID}).Decode(&message); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated message: %v", err)
	}

	s.Hub.EmitToRoom(message.ChannelID.Hex(), gateway.EventMessageUpdate, message)
	return &message, nil
}

// SoftDeleteMessage flips the flag. The sender or a project admin may
// delete; the handler decides which via policy.
func (s *MessageService) SoftDeleteMessage(ctx context.Context, messageID primitive.ObjectID) error {
	var message models.Message
	if err := s.MessagesCollection.FindOne(ctx, bson.M{"_id": messageID}).Decode(&message); err != nil {
		return errors.New("message not found")
	}

	if _, err := s.MessagesCollection.UpdateOne(ctx,
		bson.M{"_id": messageID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	); err != nil {
		return fmt.Errorf("failed to delete message: %v", err)
	}

	s.Hub.EmitToRoom(message.ChannelID.Hex(), gateway.EventMessageDeleted, map[string]string{
		"messageId": messageID.Hex(),
		"channelId": message.ChannelID.Hex(),
	})
	return nil
}

// PinMessage sets or clears the pinned flag.
func (s *MessageService) PinMessage(ctx context.Context, messageID primitive.ObjectID, pinned bool) error {
	result, err := s.MessagesCollection.UpdateOne(ctx,
		bson.M{"_id": messageID, "isDeleted": false},
		bson.M{"$set": bson.M{"pinned": pinned}},
	)
	if err != nil {
		return fmt.Errorf("failed to update pin state: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("message not found")
	}
	return nil
}

// ListPinnedMessages returns the channel's pinned, non-deleted messages.
func (s *MessageService) ListPinnedMessages(ctx context.Context, channelID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"channelId": channelID, "pinned": true, "isDeleted": false}

	cursor, err := s.MessagesCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pinned messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode pinned messages: %v", err)
	}

	return messages, nil
}

// MarkRead records a read receipt for the caller on every unread message
// in the channel.
func (s *MessageService) MarkRead(ctx context.Context, channelID, readerID primitive.ObjectID) error {
	filter := bson.M{
		"channelId": channelID,
		"isDeleted": false,
		"readBy":    bson.M{"$ne": readerID},
	}
	update := bson.M{"$addToSet": bson.M{"readBy": readerID}}

	if _, err := s.MessagesCollection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark messages read: %v", err)
	}
	return nil
}
