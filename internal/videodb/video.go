package videodb

import (
	"context"
	"strings"
)

// Video is one media asset owned by a collection.
type Video struct {
	ID           string  `json:"id"`
	CollectionID string  `json:"collection_id"`
	Name         string  `json:"name"`
	Length       float64 `json:"length"` // Seconds
	StreamURL    string  `json:"stream_url,omitempty"`

	conn *Connection
}

// SceneExtractionType selects how the service segments scenes.
type SceneExtractionType string

const (
	SceneExtractionShotBased SceneExtractionType = "shot_based"
	SceneExtractionTimeBased SceneExtractionType = "time_based"
)

// GenerateStream composes a playable stream for the given timeline windows.
// A nil timeline streams the whole video.
func (v *Video) GenerateStream(ctx context.Context, timeline [][2]float64) (string, error) {
	body := map[string]any{}
	if len(timeline) > 0 {
		body["timeline"] = timeline
	}

	var payload struct {
		StreamURL string `json:"stream_url"`
	}
	if err := v.conn.post(ctx, "/video/"+v.ID+"/stream", body, &payload); err != nil {
		return "", err
	}
	return payload.StreamURL, nil
}

// IndexSpokenWords transcribes and indexes the spoken audio. Re-indexing an
// already indexed video is accepted by the service.
func (v *Video) IndexSpokenWords(ctx context.Context) error {
	body := map[string]string{"index_type": "spoken_word"}
	return v.conn.post(ctx, "/video/"+v.ID+"/index", body, nil)
}

// IndexScenes runs visual scene indexing with the given extraction strategy.
func (v *Video) IndexScenes(ctx context.Context, extraction SceneExtractionType, prompt string) error {
	body := map[string]string{
		"index_type":      "scene",
		"extraction_type": string(extraction),
		"prompt":          prompt,
	}
	return v.conn.post(ctx, "/video/"+v.ID+"/index", body, nil)
}

// TranscriptEntry is one timed span of transcribed speech.
type TranscriptEntry struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// GetTranscript fetches the timestamped transcript.
func (v *Video) GetTranscript(ctx context.Context) ([]TranscriptEntry, error) {
	var payload struct {
		WordTimestamps []TranscriptEntry `json:"word_timestamps"`
	}
	if err := v.conn.get(ctx, "/video/"+v.ID+"/transcript", &payload); err != nil {
		return nil, err
	}
	return payload.WordTimestamps, nil
}

// GetTranscriptText fetches the transcript as one plain string.
func (v *Video) GetTranscriptText(ctx context.Context) (string, error) {
	entries, err := v.GetTranscript(ctx)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Text != "" {
			parts = append(parts, e.Text)
		}
	}
	return strings.Join(parts, " "), nil
}

// Search runs a video-level search of the given type.
func (v *Video) Search(ctx context.Context, query string, searchType SearchType) (*SearchResults, error) {
	body := map[string]string{
		"query": query,
		"type":  string(searchType),
	}
	var payload searchPayload
	if err := v.conn.post(ctx, "/video/"+v.ID+"/search", body, &payload); err != nil {
		return nil, err
	}
	return newSearchResults(v.conn, payload), nil
}

// Delete removes the video from the service.
func (v *Video) Delete(ctx context.Context) error {
	return v.conn.delete(ctx, "/video/" + v.ID)
}
