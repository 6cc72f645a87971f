// Package assets uploads submission artifacts (signatures, payment receipts,
// rendered documents) to Cloudinary and returns stable public URLs.
package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// DefaultFolder groups all offer artifacts under one Cloudinary folder.
const DefaultFolder = "public_offer"

// IsDataURL reports whether value carries an inline-encoded payload.
func IsDataURL(value string) bool {
	return strings.HasPrefix(value, "data:")
}

// Client wraps a configured Cloudinary account.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// New builds a client from account credentials. folder may be empty, in
// which case DefaultFolder is used.
func New(cloudName, apiKey, apiSecret, folder string) (*Client, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary is not configured")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("initializing cloudinary: %w", err)
	}
	if folder == "" {
		folder = DefaultFolder
	}
	return &Client{cld: cld, folder: folder}, nil
}

// UploadDataURL uploads an inline-encoded artifact and returns its public
// retrieval URL. publicID may be empty; a random one is generated.
func (c *Client) UploadDataURL(ctx context.Context, dataURL, publicID string) (string, error) {
	if !IsDataURL(dataURL) {
		return "", fmt.Errorf("expected a data URL for upload")
	}
	if publicID == "" {
		publicID = uuid.NewString()
	}

	resp, err := c.cld.Upload.Upload(ctx, dataURL, uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("uploading artifact: %w", err)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("upload succeeded without a retrieval URL")
	}
	return resp.SecureURL, nil
}
