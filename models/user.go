package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name               string               `bson:"name" json:"name"`
	LastName           string               `bson:"lastName" json:"lastName"`
	Username           string               `bson:"username" json:"username"`
	Password           string               `bson:"password" json:"-"`
	Email              string               `bson:"email" json:"email"`
	Profession         string               `bson:"profession" json:"profession"`
	Bio                string               `bson:"bio" json:"bio"`
	AvatarURL          string               `bson:"avatarUrl" json:"avatarUrl"`
	IsActive           bool                 `bson:"isActive" json:"isActive"`
	VerificationCode   string               `bson:"verificationCode,omitempty" json:"-"`
	VerificationExpiry time.Time            `bson:"verificationExpiry,omitempty" json:"-"`
	ResetTokenHash     string               `bson:"resetTokenHash,omitempty" json:"-"`
	ResetTokenExpiry   time.Time            `bson:"resetTokenExpiry,omitempty" json:"-"`
	ProjectIDs         []primitive.ObjectID `bson:"projectIds" json:"projectIds"`
	GroupIDs           []primitive.ObjectID `bson:"groupIds" json:"groupIds"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
}
