package videodb

import (
	"context"
	"fmt"
)

// RTStream is a live ingest the service is currently indexing.
type RTStream struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"` // "connected" or "stopped"
	SampleRate int    `json:"sample_rate"`

	conn *Connection
}

// ListRTStreams fetches the account's real-time streams.
func (c *Connection) ListRTStreams(ctx context.Context) ([]*RTStream, error) {
	var payload struct {
		Streams []*RTStream `json:"streams"`
	}
	if err := c.get(ctx, "/rtstream", &payload); err != nil {
		return nil, err
	}
	for _, s := range payload.Streams {
		s.conn = c
	}
	return payload.Streams, nil
}

// GetRTStream fetches one stream by id.
func (c *Connection) GetRTStream(ctx context.Context, id string) (*RTStream, error) {
	var stream RTStream
	if err := c.get(ctx, "/rtstream/"+id, &stream); err != nil {
		return nil, err
	}
	stream.conn = c
	return &stream, nil
}

// GenerateStream returns a playback URL for a time window of the live
// stream, bounded by unix timestamps.
func (s *RTStream) GenerateStream(ctx context.Context, start, end int64) (string, error) {
	path := fmt.Sprintf("/rtstream/%s/stream?start=%d&end=%d", s.ID, start, end)
	var payload struct {
		StreamURL string `json:"stream_url"`
	}
	if err := s.conn.get(ctx, path, &payload); err != nil {
		return "", err
	}
	return payload.StreamURL, nil
}
