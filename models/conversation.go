package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation groups direct messages between exactly two participants.
type Conversation struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants  []primitive.ObjectID `bson:"participants" json:"participants"`
	LastMessageID *primitive.ObjectID  `bson:"lastMessageId,omitempty" json:"lastMessageId,omitempty"`
	LastMessageAt time.Time            `bson:"lastMessageAt" json:"lastMessageAt"`
	IsDeleted     bool                 `bson:"isDeleted" json:"isDeleted"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
}

// HasParticipant reports whether the user is one of the two parties.
func (c *Conversation) HasParticipant(userID primitive.ObjectID) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

type DirectMessage struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID   `bson:"conversationId" json:"conversationId"`
	SenderID       primitive.ObjectID   `bson:"senderId" json:"senderId"`
	Content        string               `bson:"content" json:"content"`
	Attachments    []string             `bson:"attachments" json:"attachments"`
	ReadBy         []primitive.ObjectID `bson:"readBy" json:"readBy"`
	IsDeleted      bool                 `bson:"isDeleted" json:"isDeleted"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
}
