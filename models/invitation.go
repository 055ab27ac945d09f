package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is a project-to-user offer to join with a given role.
type Invitation struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID         primitive.ObjectID `bson:"projectId" json:"projectId"`
	ProjectName       string             `bson:"projectName" json:"projectName"`
	SenderID          primitive.ObjectID `bson:"senderId" json:"senderId"`
	RecipientID       primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	RecipientUsername string             `bson:"recipientUsername" json:"recipientUsername"`
	Role              string             `bson:"role" json:"role"`
	Status            InvitationStatus   `bson:"status" json:"status"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
