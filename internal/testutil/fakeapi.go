// Package testutil provides a fake VideoDB service for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// DefaultAPIKey is accepted by the fake service unless overridden.
const DefaultAPIKey = "test-api-key-12345"

// FakeVideo is a canned video record.
type FakeVideo struct {
	ID           string  `json:"id"`
	CollectionID string  `json:"collection_id"`
	Name         string  `json:"name"`
	Length       float64 `json:"length"`
}

// FakeShot is a canned search match.
type FakeShot struct {
	VideoID string  `json:"video_id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

// FakeService is an in-process stand-in for the remote video service.
// Zero-value behavior: one default collection, no videos, empty search
// results. Mutate the exported fields before (or between) requests.
type FakeService struct {
	Server *httptest.Server

	APIKey string

	mu           sync.Mutex
	Collections  []map[string]string // id/name/description records
	Videos       []FakeVideo
	Shots        []FakeShot
	Transcript   []map[string]any
	RTStreams    []map[string]any
	Uploads      []map[string]string // recorded upload requests
	Deleted      []string            // ids of deleted videos
	IndexCalls   []string            // "<video-id>:<index_type>"
	CompileCalls int
	FailUploads  int // fail this many upcoming uploads with a 500
	uploadSeq    int
}

// NewFakeService starts a fake service; it is shut down with the test.
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()

	f := &FakeService{
		APIKey: DefaultAPIKey,
		Collections: []map[string]string{
			{"id": "c-default", "name": "default", "description": "Default collection"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", f.route)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the fake service endpoint.
func (f *FakeService) URL() string {
	return f.Server.URL
}

func (f *FakeService) route(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("x-access-token") != f.APIKey {
		f.fail(w, http.StatusUnauthorized, "invalid api key")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")

	switch {
	case path == "/collection" && r.Method == http.MethodGet:
		f.respond(w, f.Collections[0])

	case path == "/collection" && r.Method == http.MethodPost:
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		coll := map[string]string{
			"id":          fmt.Sprintf("c-%03d", len(f.Collections)),
			"name":        body["name"],
			"description": body["description"],
		}
		f.Collections = append(f.Collections, coll)
		f.respond(w, coll)

	case path == "/collection/all":
		f.respond(w, map[string]any{"collections": f.Collections})

	case len(parts) == 2 && parts[0] == "collection":
		for _, coll := range f.Collections {
			if coll["id"] == parts[1] {
				f.respond(w, coll)
				return
			}
		}
		f.fail(w, http.StatusNotFound, "collection not found: "+parts[1])

	case len(parts) == 3 && parts[0] == "collection" && parts[2] == "video":
		f.respond(w, map[string]any{"videos": f.Videos})

	case len(parts) == 4 && parts[0] == "collection" && parts[2] == "video":
		for _, v := range f.Videos {
			if v.ID == parts[3] {
				f.respond(w, v)
				return
			}
		}
		f.fail(w, http.StatusNotFound, "video not found: "+parts[3])

	case len(parts) == 3 && parts[0] == "collection" && parts[2] == "upload":
		f.handleUpload(w, r, parts[1])

	case len(parts) == 3 && parts[0] == "collection" && parts[2] == "search":
		f.respond(w, map[string]any{"search_id": "s-coll-1", "shots": f.Shots})

	case len(parts) == 3 && parts[0] == "video" && parts[2] == "stream":
		f.respond(w, map[string]string{
			"stream_url": fmt.Sprintf("https://stream.videodb.test/%s/manifest.m3u8", parts[1]),
		})

	case len(parts) == 3 && parts[0] == "video" && parts[2] == "index":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		f.IndexCalls = append(f.IndexCalls, parts[1]+":"+body["index_type"])
		f.respond(w, map[string]string{"status": "indexed"})

	case len(parts) == 3 && parts[0] == "video" && parts[2] == "transcript":
		f.respond(w, map[string]any{"word_timestamps": f.Transcript})

	case len(parts) == 3 && parts[0] == "video" && parts[2] == "search":
		f.respond(w, map[string]any{"search_id": "s-video-1", "shots": f.Shots})

	case len(parts) == 2 && parts[0] == "video" && r.Method == http.MethodDelete:
		f.Deleted = append(f.Deleted, parts[1])
		f.respond(w, map[string]string{"status": "deleted"})

	case path == "/compile":
		f.CompileCalls++
		f.respond(w, map[string]string{
			"stream_url": "https://stream.videodb.test/compiled/manifest.m3u8",
		})

	case path == "/timeline":
		f.respond(w, map[string]string{
			"stream_url": "https://stream.videodb.test/timeline/manifest.m3u8",
		})

	case path == "/rtstream":
		f.respond(w, map[string]any{"streams": f.RTStreams})

	case len(parts) == 2 && parts[0] == "rtstream":
		for _, s := range f.RTStreams {
			if s["id"] == parts[1] {
				f.respond(w, s)
				return
			}
		}
		f.fail(w, http.StatusNotFound, "rtstream not found: "+parts[1])

	case len(parts) == 3 && parts[0] == "rtstream" && parts[2] == "stream":
		f.respond(w, map[string]string{
			"stream_url": fmt.Sprintf("https://stream.videodb.test/rt/%s/manifest.m3u8", parts[1]),
		})

	default:
		f.fail(w, http.StatusNotFound, "no route for "+r.Method+" "+path)
	}
}

func (f *FakeService) handleUpload(w http.ResponseWriter, r *http.Request, collID string) {
	if f.FailUploads > 0 {
		f.FailUploads--
		f.fail(w, http.StatusInternalServerError, "ingest pipeline unavailable")
		return
	}

	record := map[string]string{"collection_id": collID}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			f.fail(w, http.StatusBadRequest, "bad multipart body")
			return
		}
		record["kind"] = "file"
		record["media_type"] = r.FormValue("media_type")
		if _, header, err := r.FormFile("file"); err == nil {
			record["filename"] = header.Filename
		}
	} else {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		record["kind"] = "url"
		record["url"] = body["url"]
		record["media_type"] = body["media_type"]
	}

	f.uploadSeq++
	f.Uploads = append(f.Uploads, record)

	name := record["url"]
	if name == "" {
		name = record["filename"]
	}
	video := FakeVideo{
		ID:           fmt.Sprintf("m-%03d", f.uploadSeq),
		CollectionID: collID,
		Name:         name,
		Length:       212.5,
	}
	f.Videos = append(f.Videos, video)
	f.respond(w, video)
}

func (f *FakeService) respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"data":   data,
	})
}

func (f *FakeService) fail(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
	})
}
