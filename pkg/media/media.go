// Package media is the upload collaborator for raw video and thumbnail
// assets: push a file, get back a public URL, plus a duration probe for
// the video metadata. Backed by Bunny Storage.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
)

// Service is the media collaborator contract the engine consumes.
type Service interface {
	UploadVideo(ctx context.Context, r io.Reader, filename, ownerID string) (string, error)
	UploadThumbnail(ctx context.Context, r io.Reader, filename, ownerID string) (string, error)
	ProbeDuration(r io.ReadSeeker) (int, error)
}

// BunnyStorage uploads assets to a Bunny Storage zone and serves them
// through its CDN hostname.
type BunnyStorage struct {
	zoneName   string
	password   string
	baseURL    string
	hostname   string
	httpClient *http.Client
}

// NewBunnyStorage creates a Bunny Storage media service.
func NewBunnyStorage(zoneName, password, baseURL, hostname string) *BunnyStorage {
	return &BunnyStorage{
		zoneName: zoneName,
		password: password,
		baseURL:  baseURL,
		hostname: hostname,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// UploadVideo stores a media file under the owner's video folder and
// returns its public URL.
func (c *BunnyStorage) UploadVideo(ctx context.Context, r io.Reader, filename, ownerID string) (string, error) {
	return c.upload(ctx, r, assetPath("videos", ownerID, filename), contentTypeFor(filename))
}

// UploadThumbnail stores a thumbnail under the owner's thumbnail folder
// and returns its public URL.
func (c *BunnyStorage) UploadThumbnail(ctx context.Context, r io.Reader, filename, ownerID string) (string, error) {
	return c.upload(ctx, r, assetPath("thumbnails", ownerID, filename), contentTypeFor(filename))
}

// ProbeDuration reports the media duration in whole seconds.
func (c *BunnyStorage) ProbeDuration(r io.ReadSeeker) (int, error) {
	return ProbeDuration(r)
}

func (c *BunnyStorage) upload(ctx context.Context, r io.Reader, remotePath, contentType string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.zoneName, remotePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, r)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("AccessKey", c.password)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("bunny storage error: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}

	return fmt.Sprintf("https://%s/%s", c.hostname, remotePath), nil
}

// assetPath namespaces uploads per owner with a timestamped name, so
// re-uploads never clobber earlier assets.
func assetPath(folder, ownerID, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%s/%d%s", folder, ownerID, time.Now().UnixNano(), ext)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
