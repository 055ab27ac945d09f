package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChannelType string

const (
	ChannelDefault      ChannelType = "default"
	ChannelAnnouncement ChannelType = "announcement"
	ChannelRoleBased    ChannelType = "role-based"
)

// DefaultChannelNames are created automatically for every new project.
var DefaultChannelNames = []string{"general", "announcements"}

type Channel struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID   `bson:"projectId" json:"projectId"`
	Name      string               `bson:"name" json:"name"`
	Type      ChannelType          `bson:"type" json:"type"`
	Role      string               `bson:"role,omitempty" json:"role,omitempty"`
	MemberIDs []primitive.ObjectID `bson:"memberIds" json:"memberIds"`
	IsDeleted bool                 `bson:"isDeleted" json:"isDeleted"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// HasMember reports whether the given user belongs to the channel.
func (c *Channel) HasMember(userID primitive.ObjectID) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
