package videodb

import (
	"context"

	"github.com/videodb-stack/vdbctl/internal/errors"
)

// VideoAsset is a trimmed slice of an uploaded video placed on a timeline.
type VideoAsset struct {
	AssetID string  `json:"asset_id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// TextStyle controls how an overlaid text asset is rendered.
type TextStyle struct {
	FontSize  int     `json:"fontsize,omitempty"`
	FontColor string  `json:"fontcolor,omitempty"`
	Font      string  `json:"font,omitempty"`
	Alpha     float64 `json:"alpha,omitempty"`
}

// TextAsset is a text overlay with a display duration in seconds.
type TextAsset struct {
	Text     string     `json:"text"`
	Duration float64    `json:"duration"`
	Style    *TextStyle `json:"style,omitempty"`
}

// timelineElement is one entry in the composition request.
type timelineElement struct {
	Kind  string      `json:"kind"` // "inline" or "overlay"
	At    float64     `json:"at,omitempty"`
	Video *VideoAsset `json:"video,omitempty"`
	Text  *TextAsset  `json:"text,omitempty"`
}

// Timeline composes inline clips and overlays into one stream.
type Timeline struct {
	conn     *Connection
	elements []timelineElement
}

// NewTimeline creates an empty timeline bound to a connection.
func NewTimeline(conn *Connection) *Timeline {
	return &Timeline{conn: conn}
}

// AddInline appends a video clip to the main track.
func (t *Timeline) AddInline(asset VideoAsset) *Timeline {
	t.elements = append(t.elements, timelineElement{Kind: "inline", Video: &asset})
	return t
}

// AddOverlay places a text asset at the given offset in seconds.
func (t *Timeline) AddOverlay(at float64, asset TextAsset) *Timeline {
	t.elements = append(t.elements, timelineElement{Kind: "overlay", At: at, Text: &asset})
	return t
}

// GenerateStream submits the composition and returns its stream URL.
func (t *Timeline) GenerateStream(ctx context.Context) (string, error) {
	if len(t.elements) == 0 {
		return "", errors.InputBadTarget("timeline has no elements")
	}

	body := map[string]any{
		"timeline": t.elements,
	}
	var payload struct {
		StreamURL string `json:"stream_url"`
	}
	if err := t.conn.post(ctx, "/timeline", body, &payload); err != nil {
		return "", err
	}
	return payload.StreamURL, nil
}
