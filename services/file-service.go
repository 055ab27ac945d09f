package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrSirThe1st/collaboration-sub001/models"
	"github.com/MrSirThe1st/collaboration-sub001/storage"
)

type FileService struct {
	FilesCollection   *mongo.Collection
	FoldersCollection *mongo.Collection
	Storage           *storage.Client
	StorageBreaker    *gobreaker.CircuitBreaker
}

func (s *FileService) CreateFolder(ctx context.Context, projectID primitive.ObjectID, parentID *primitive.ObjectID, name string) (*models.Folder, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	if parentID != nil {
		var parent models.Folder
		if err := s.FoldersCollection.FindOne(ctx, bson.M{"_id": *parentID, "projectId": projectID}).Decode(&parent); err != nil {
			return nil, errors.New("parent folder not found")
		}
	}

	folder := &models.Folder{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		ParentID:  parentID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	if _, err := s.FoldersCollection.InsertOne(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %v", err)
	}

	return folder, nil
}

// ListFolders returns the project's non-deleted folders with their derived
// paths filled in.
func (s *FileService) ListFolders(ctx context.Context, projectID primitive.ObjectID) ([]models.Folder, error) {
	cursor, err := s.FoldersCollection.Find(ctx, bson.M{"projectId": projectID, "isDeleted": false})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch folders: %v", err)
	}
	defer cursor.Close(ctx)

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders: %v", err)
	}

	byID := make(map[primitive.ObjectID]*models.Folder, len(folders))
	for i := range folders {
		byID[folders[i].ID] = &folders[i]
	}
	for i := range folders {
		folders[i].Path = DeriveFolderPath(&folders[i], byID)
	}

	return folders, nil
}

// DeriveFolderPath walks the parent chain and joins the names with
// slashes. A missing or cyclic parent chain stops the walk rather than
// spinning forever.
func DeriveFolderPath(folder *models.Folder, byID map[primitive.ObjectID]*models.Folder) string {
	path := folder.Name
	seen := map[primitive.ObjectID]bool{folder.ID: true}

	current := folder
	for current.ParentID != nil {
		parent, ok := byID[*current.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		path = parent.Name + "/" + path
		current = parent
	}

	return "/" + path
}

func (s *FileService) GetFolderByID(ctx context.Context, folderID string) (*models.Folder, error) {
	objectID, err := primitive.ObjectIDFromHex(folderID)
	if err != nil {
		return nil, fmt.Errorf("invalid folder ID format")
	}

	var folder models.Folder
	err = s.FoldersCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&folder)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("folder not found")
		}
		return nil, fmt.Errorf("error fetching folder: %v", err)
	}

	return &folder, nil
}

// SoftDeleteFolder hides the folder and everything directly inside it.
func (s *FileService) SoftDeleteFolder(ctx context.Context, folderID primitive.ObjectID) error {
	result, err := s.FoldersCollection.UpdateOne(ctx,
		bson.M{"_id": folderID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("folder not found")
	}

	if _, err := s.FilesCollection.UpdateMany(ctx,
		bson.M{"folderId": folderID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	); err != nil {
		return fmt.Errorf("failed to delete folder files: %v", err)
	}

	return nil
}

// UploadFile pushes the bytes to the object storage provider behind a
// circuit breaker and persists a document referencing the public URL. If
// the document insert fails there is no way to retract the provider
// upload; the orphan stays in the bucket.
func (s *FileService) UploadFile(ctx context.Context, projectID primitive.ObjectID, folderID *primitive.ObjectID, uploaderID primitive.ObjectID, name, contentType string, data []byte) (*models.File, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	url, err := s.StorageBreaker.Execute(func() (interface{}, error) {
		return s.Storage.Upload(projectID.Hex(), name, contentType, data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %v", err)
	}

	file := &models.File{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		FolderID:    folderID,
		Name:        name,
		URL:         url.(string),
		Size:        int64(len(data)),
		ContentType: contentType,
		UploaderID:  uploaderID,
		CreatedAt:   time.Now(),
	}

	if _, err := s.FilesCollection.InsertOne(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to save file record: %v", err)
	}

	return file, nil
}

func (s *FileService) ListFiles(ctx context.Context, projectID primitive.ObjectID, folderID *primitive.ObjectID) ([]models.File, error) {
	filter := bson.M{"projectId": projectID, "isDeleted": false}
	if folderID != nil {
		filter["folderId"] = *folderID
	}

	cursor, err := s.FilesCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch files: %v", err)
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %v", err)
	}

	return files, nil
}

func (s *FileService) GetFileByID(ctx context.Context, fileID string) (*models.File, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, fmt.Errorf("invalid file ID format")
	}

	var file models.File
	err = s.FilesCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&file)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("file not found")
		}
		return nil, fmt.Errorf("error fetching file: %v", err)
	}

	return &file, nil
}

func (s *FileService) SoftDeleteFile(ctx context.Context, fileID primitive.ObjectID) error {
	result, err := s.FilesCollection.UpdateOne(ctx,
		bson.M{"_id": fileID},
		bson.M{"$set": bson.M{"isDeleted": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("file not found")
	}
	return nil
}
