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

type ConversationService struct {
	ConversationsCollection  *mongo.Collection
	DirectMessagesCollection *mongo.Collection
	Hub                      *gateway.Hub
}

// FindOrCreateConversation returns the two-party conversation, creating it
// on first contact.
func (s *ConversationService) FindOrCreateConversation(ctx context.Context, userA, userB primitive.ObjectID) (*models.Conversation, error) {
	if userA == userB {
		return nil, errors.New("cannot start a conversation with yourself")
	}

	filter := bson.M{"participants": bson.M{"$all": []primitive.ObjectID{userA, userB}}, "isDeleted": false}

	var conversation models.Conversation
	err := s.ConversationsCollection.FindOne(ctx, filter).Decode(&conversation)
	if err == nil {
		return &conversation, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("error fetching conversation: %v", err)
	}

	conversation = models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{userA, userB},
		CreatedAt:    time.Now(),
	}
	if _, err := s.ConversationsCollection.InsertOne(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %v", err)
	}

	return &conversation, nil
}

func (s *ConversationService) GetConversationByID(ctx context.Context, conversationID string) (*models.Conversation, error) {
	objectID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation ID format")
	}

	var conversation models.Conversation
	err = s.ConversationsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("conversation not found")
		}
		return nil, fmt.Errorf("error fetching conversation: %v", err)
	}

	return &conversation, nil
}

// ListConversations returns the caller's non-deleted conversations, most
// recently active first.
func (s *ConversationService) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	filter := bson.M{"participants": userID, "isDeleted": false}
	opts := options.Find().SetSort(bson.M{"lastMessageAt": -1})

	cursor, err := s.ConversationsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %v", err)
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %v", err)
	}

	return conversations, nil
}

// SendDirectMessage persists the DM, advances the conversation's
// last-message pointer, and fans out to the conversation room.
func (s *ConversationService) SendDirectMessage(ctx context.Context, conversation *models.Conversation, senderID primitive.ObjectID, content string, attachments []string) (*models.DirectMessage, error) {
	if !conversation.HasParticipant(senderID) {
		return nil, errors.New("caller is not a participant of the conversation")
	}
	if content == "" && len(attachments) == 0 {
		return nil, fmt.Errorf("message content is required")
	}

	message := &models.DirectMessage{
		ID:             primitive.NewObjectID(),
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        content,
		Attachments:    attachments,
		ReadBy:         []primitive.ObjectID{senderID},
		CreatedAt:      time.Now(),
	}

	if _, err := s.DirectMessagesCollection.InsertOne(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %v", err)
	}

	update := bson.M{"$set": bson.M{
		"lastMessageId": message.ID,
		"lastMessageAt": message.CreatedAt,
	}}
	if _, err := s.ConversationsCollection.UpdateOne(ctx, bson.M{"_id": conversation.ID}, update); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %v", err)
	}

	s.Hub.EmitToRoom(conversation.ID.Hex(), gateway.EventNewMessage, message)
	return message, nil
}

// ListDirectMessages returns the conversation's non-deleted messages and
// records a read receipt for the caller.
func (s *ConversationService) ListDirectMessages(ctx context.Context, conversation *models.Conversation, readerID primitive.ObjectID) ([]models.DirectMessage, error) {
	if !conversation.HasParticipant(readerID) {
		return nil, errors.New("caller is not a participant of the conversation")
	}

	filter := bson.M{"conversationId": conversation.ID, "isDeleted": false}
	opts := options.Find().SetSort(bson.M{"createdAt": 1})

	cursor, err := s.DirectMessagesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.DirectMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}

	readFilter := bson.M{
		"conversationId": conversation.ID,
		"isDeleted":      false,
		"readBy":         bson.M{"$ne": readerID},
	}
	if _, err := s.DirectMessagesCollection.UpdateMany(ctx, readFilter,
		bson.M{"$addToSet": bson.M{"readBy": readerID}},
	); err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %v", err)
	}

	return messages, nil
}

// SoftDeleteConversation hides the conversation and tells the peer.
func (s *ConversationService) SoftDeleteConversation(ctx context.Context, conversation *models.Conversation, callerID primitive.ObjectID) error {
	if !conversation.HasParticipant(callerID) {
		return errors.New("caller is not a participant of the conversation")
	}

	if _, err := s.ConversationsCollection.UpdateOne(ctx,
		bson.M{"_id": conversation.ID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	); err != nil {
		return fmt.Errorf("failed to delete conversation: %v", err)
	}

	for _, participant := range conversation.Participants {
		if participant == callerID {
			continue
		}
		s.Hub.EmitToUser(participant.Hex(), gateway.EventConversationDeleted, map[string]string{
			"conversationId": conversation.ID.Hex(),
		})
	}
	return nil
}
