package videodb

import (
	"context"
)

// SearchType selects the search index to query.
type SearchType string

const (
	SearchTypeSemantic SearchType = "semantic"
	SearchTypeKeyword  SearchType = "keyword"
	SearchTypeScene    SearchType = "scene"
)

// ParseSearchType validates an operator-supplied search type string.
func ParseSearchType(s string) (SearchType, bool) {
	switch SearchType(s) {
	case SearchTypeSemantic, SearchTypeKeyword, SearchTypeScene:
		return SearchType(s), true
	}
	return "", false
}

// Shot is one matching segment of a search.
type Shot struct {
	VideoID string  `json:"video_id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

// searchPayload is the wire shape of a search response.
type searchPayload struct {
	SearchID string `json:"search_id"`
	Shots    []Shot `json:"shots"`
}

// SearchResults holds the matches of one search. An empty Shots slice means
// the query found nothing; that is not an error.
type SearchResults struct {
	searchID string
	shots    []Shot
	conn     *Connection
}

func newSearchResults(conn *Connection, payload searchPayload) *SearchResults {
	return &SearchResults{
		searchID: payload.SearchID,
		shots:    payload.Shots,
		conn:     conn,
	}
}

// Shots returns the matching segments in relevance order.
func (r *SearchResults) Shots() []Shot {
	return r.shots
}

// Compile asks the service to stitch all matching segments into one stream.
func (r *SearchResults) Compile(ctx context.Context) (string, error) {
	body := map[string]any{
		"search_id": r.searchID,
	}
	var payload struct {
		StreamURL string `json:"stream_url"`
	}
	if err := r.conn.post(ctx, "/compile", body, &payload); err != nil {
		return "", err
	}
	return payload.StreamURL, nil
}
