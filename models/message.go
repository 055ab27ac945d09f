package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageRevision keeps the previous content of an edited message.
type MessageRevision struct {
	Content  string    `bson:"content" json:"content"`
	EditedAt time.Time `bson:"editedAt" json:"editedAt"`
}

type Message struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ChannelID      primitive.ObjectID   `bson:"channelId" json:"channelId"`
	SenderID       primitive.ObjectID   `bson:"senderId" json:"senderId"`
	SenderUsername string               `bson:"senderUsername" json:"senderUsername"`
	Content        string               `bson:"content" json:"content"`
	Attachments    []string             `bson:"attachments" json:"attachments"`
	Pinned         bool                 `bson:"pinned" json:"pinned"`
	Edited         bool                 `bson:"edited" json:"edited"`
	EditHistory    []MessageRevision    `bson:"editHistory,omitempty" json:"editHistory,omitempty"`
	ReadBy         []primitive.ObjectID `bson:"readBy" json:"readBy"`
	IsDeleted      bool                 `bson:"isDeleted" json:"isDeleted"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
}
