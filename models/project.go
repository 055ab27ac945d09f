package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestThinking RequestStatus = "thinking"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Member is a user's membership entry inside a project, with the role
// they were assigned when they joined.
type Member struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Username string             `bson:"username" json:"username"`
	Name     string             `bson:"name" json:"name"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
}

// Request is a user-initiated ask to join a project.
type Request struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Username  string             `bson:"username" json:"username"`
	Role      string             `bson:"role" json:"role"`
	Status    RequestStatus      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Project struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name"`
	Description   string              `bson:"description" json:"description"`
	OwnerID       primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	GroupID       *primitive.ObjectID `bson:"groupId,omitempty" json:"groupId,omitempty"`
	Members       []Member            `bson:"members" json:"members"`
	RequiredRoles []string            `bson:"requiredRoles" json:"requiredRoles"`
	Requests      []Request           `bson:"requests" json:"requests"`
	CoverImageURL string              `bson:"coverImageUrl" json:"coverImageUrl"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}

// HasRequiredRole reports whether the role is one of the project's
// declared required roles.
func (p *Project) HasRequiredRole(role string) bool {
	for _, r := range p.RequiredRoles {
		if r == role {
			return true
		}
	}
	return false
}

// MemberByID returns the membership entry for the given user, if any.
func (p *Project) MemberByID(userID primitive.ObjectID) *Member {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return &p.Members[i]
		}
	}
	return nil
}
