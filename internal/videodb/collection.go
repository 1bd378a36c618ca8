package videodb

import (
	"context"
	"fmt"

	"github.com/videodb-stack/vdbctl/internal/errors"
)

// MediaType selects how the service treats an uploaded asset.
type MediaType string

const (
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
	MediaTypeImage MediaType = "image"
)

// Collection is a named group of videos.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	conn *Connection
}

// GetCollection fetches a collection; an empty id returns the account default.
func (c *Connection) GetCollection(ctx context.Context, id string) (*Collection, error) {
	path := "/collection"
	if id != "" {
		path = "/collection/" + id
	}

	var coll Collection
	if err := c.get(ctx, path, &coll); err != nil {
		return nil, err
	}
	coll.conn = c
	return &coll, nil
}

// ListCollections fetches all collections in the account.
func (c *Connection) ListCollections(ctx context.Context) ([]*Collection, error) {
	var payload struct {
		Collections []*Collection `json:"collections"`
	}
	if err := c.get(ctx, "/collection/all", &payload); err != nil {
		return nil, err
	}
	for _, coll := range payload.Collections {
		coll.conn = c
	}
	return payload.Collections, nil
}

// CreateCollection creates a new named collection.
func (c *Connection) CreateCollection(ctx context.Context, name, description string) (*Collection, error) {
	body := map[string]string{
		"name":        name,
		"description": description,
	}
	var coll Collection
	if err := c.post(ctx, "/collection", body, &coll); err != nil {
		return nil, err
	}
	coll.conn = c
	return &coll, nil
}

// FindOrCreateCollection returns the collection with the given name,
// creating it when absent.
func (c *Connection) FindOrCreateCollection(ctx context.Context, name string) (*Collection, bool, error) {
	existing, err := c.ListCollections(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, coll := range existing {
		if coll.Name == name {
			return coll, false, nil
		}
	}
	coll, err := c.CreateCollection(ctx, name, fmt.Sprintf("Batch upload: %s", name))
	if err != nil {
		return nil, false, err
	}
	return coll, true, nil
}

// ListVideos fetches all videos in the collection.
func (coll *Collection) ListVideos(ctx context.Context) ([]*Video, error) {
	var payload struct {
		Videos []*Video `json:"videos"`
	}
	if err := coll.conn.get(ctx, "/collection/"+coll.ID+"/video", &payload); err != nil {
		return nil, err
	}
	for _, v := range payload.Videos {
		v.conn = coll.conn
	}
	return payload.Videos, nil
}

// GetVideo fetches one video by id.
func (coll *Collection) GetVideo(ctx context.Context, id string) (*Video, error) {
	var video Video
	if err := coll.conn.get(ctx, "/collection/"+coll.ID+"/video/"+id, &video); err != nil {
		return nil, err
	}
	video.conn = coll.conn
	return &video, nil
}

// UploadRequest describes one asset to ingest. Exactly one of URL and
// FilePath must be set.
type UploadRequest struct {
	URL       string
	FilePath  string
	MediaType MediaType
	Name      string
}

// Upload ingests a remote URL or local file into the collection.
func (coll *Collection) Upload(ctx context.Context, req UploadRequest) (*Video, error) {
	path := "/collection/" + coll.ID + "/upload"

	var video Video
	switch {
	case req.URL != "" && req.FilePath != "":
		return nil, errors.InputBadTarget("provide a URL or a file path, not both")
	case req.URL != "":
		body := map[string]string{"url": req.URL}
		if req.MediaType != "" {
			body["media_type"] = string(req.MediaType)
		}
		if req.Name != "" {
			body["name"] = req.Name
		}
		if err := coll.conn.post(ctx, path, body, &video); err != nil {
			return nil, err
		}
	case req.FilePath != "":
		fields := map[string]string{
			"media_type": string(req.MediaType),
			"name":       req.Name,
		}
		if err := coll.conn.uploadFile(ctx, path, req.FilePath, fields, &video); err != nil {
			return nil, err
		}
	default:
		return nil, errors.InputBadTarget("upload needs a URL or a file path")
	}

	video.conn = coll.conn
	return &video, nil
}

// Search runs a collection-level search. The service only supports semantic
// search across a collection; other types are rejected client-side.
func (coll *Collection) Search(ctx context.Context, query string, searchType SearchType) (*SearchResults, error) {
	if searchType != SearchTypeSemantic {
		return nil, errors.APIUnsupported(string(searchType)+" search", "collection")
	}

	body := map[string]string{
		"query": query,
		"type":  string(searchType),
	}
	var payload searchPayload
	if err := coll.conn.post(ctx, "/collection/"+coll.ID+"/search", body, &payload); err != nil {
		return nil, err
	}
	return newSearchResults(coll.conn, payload), nil
}
