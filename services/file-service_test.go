package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrSirThe1st/collaboration-sub001/models"
)

func TestDeriveFolderPath(t *testing.T) {
	rootID := primitive.NewObjectID()
	docsID := primitive.NewObjectID()
	specsID := primitive.NewObjectID()

	root := &models.Folder{ID: rootID, Name: "assets"}
	docs := &models.Folder{ID: docsID, Name: "docs", ParentID: &rootID}
	specs := &models.Folder{ID: specsID, Name: "api", ParentID: &docsID}

	byID := map[primitive.ObjectID]*models.Folder{
		rootID:  root,
		docsID:  docs,
		specsID: specs,
	}

	assert.Equal(t, "/assets", DeriveFolderPath(root, byID))
	assert.Equal(t, "/assets/docs", DeriveFolderPath(docs, byID))
	assert.Equal(t, "/assets/docs/api", DeriveFolderPath(specs, byID))
}

func TestDeriveFolderPathMissingParent(t *testing.T) {
	orphanParent := primitive.NewObjectID()
	folder := &models.Folder{ID: primitive.NewObjectID(), Name: "detached", ParentID: &orphanParent}

	assert.Equal(t, "/detached", DeriveFolderPath(folder, map[primitive.ObjectID]*models.Folder{}))
}

func TestDeriveFolderPathBreaksCycles(t *testing.T) {
	aID := primitive.NewObjectID()
	bID := primitive.NewObjectID()

	a := &models.Folder{ID: aID, Name: "a", ParentID: &bID}
	b := &models.Folder{ID: bID, Name: "b", ParentID: &aID}

	byID := map[primitive.ObjectID]*models.Folder{aID: a, bID: b}

	assert.Equal(t, "/b/a", DeriveFolderPath(a, byID))
}
