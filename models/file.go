package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Folder struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID  `bson:"projectId" json:"projectId"`
	ParentID  *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	Name      string              `bson:"name" json:"name"`
	// Path is derived from the parent chain when listing, not stored.
	Path      string    `bson:"-" json:"path,omitempty"`
	IsDeleted bool      `bson:"isDeleted" json:"isDeleted"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type File struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID  `bson:"projectId" json:"projectId"`
	FolderID    *primitive.ObjectID `bson:"folderId,omitempty" json:"folderId,omitempty"`
	Name        string              `bson:"name" json:"name"`
	URL         string              `bson:"url" json:"url"`
	Size        int64               `bson:"size" json:"size"`
	ContentType string              `bson:"contentType" json:"contentType"`
	UploaderID  primitive.ObjectID  `bson:"uploaderId" json:"uploaderId"`
	IsDeleted   bool                `bson:"isDeleted" json:"isDeleted"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}
