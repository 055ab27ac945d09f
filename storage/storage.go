// Package storage talks to the object storage provider. Uploaded files are
// referenced by their public URL; the documents in Mongo never hold bytes.
package storage

import (
	"bytes"
	"fmt"
	"os"

	storage_go "github.com/supabase-community/storage-go"
)

type Client struct {
	client  *storage_go.Client
	bucket  string
	baseURL string
}

func NewClient() (*Client, error) {
	baseURL := os.Getenv("SUPABASE_URL")
	serviceKey := os.Getenv("SUPABASE_SERVICE_KEY")
	bucket := os.Getenv("SUPABASE_BUCKET")
	if baseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_SERVICE_KEY not set")
	}
	if bucket == "" {
		bucket = "uploads"
	}
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}

	return &Client{
		client:  storage_go.NewClient(baseURL+"/storage/v1", serviceKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// Upload stores the bytes under projects/{projectID}/{filename} and returns
// the public URL.
func (c *Client) Upload(projectID, filename, contentType string, data []byte) (string, error) {
	storagePath := fmt.Sprintf("projects/%s/%s", projectID, filename)

	upsert := true
	_, err := c.client.UploadFile(c.bucket, storagePath, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return c.PublicURL(storagePath), nil
}

func (c *Client) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, storagePath)
}

func (c *Client) Delete(storagePath string) error {
	_, err := c.client.RemoveFile(c.bucket, []string{storagePath})
	return err
}
