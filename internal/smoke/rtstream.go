package smoke

import (
	"context"
	"fmt"
	"time"

	"github.com/videodb-stack/vdbctl/internal/videodb"
)

// RTStream validates stream generation operations: whole-video and segment
// streams, timeline composition, search-result compilation, and playback
// windows for any connected real-time streams.
func (r *Runner) RTStream(ctx context.Context) (*Report, error) {
	report := &Report{Workflow: "rtstream"}

	video, err := r.uploadFixture(ctx, report)
	if err != nil {
		return report, err
	}
	defer r.cleanup(ctx, report, video)

	r.step(report, "Basic stream URL", func() (string, error) {
		url, err := video.GenerateStream(ctx, nil)
		if err != nil {
			return "", err
		}
		return "Stream URL: " + url, assertStreamURL(url)
	})

	r.step(report, "Segment stream", func() (string, error) {
		segEnd := min(10.0, video.Length)
		url, err := video.GenerateStream(ctx, [][2]float64{{0, segEnd}})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Stream URL (0-%.1fs): %s", segEnd, url), assertStreamURL(url)
	})

	r.step(report, "Timeline composition stream", func() (string, error) {
		mid := video.Length / 2
		tl := videodb.NewTimeline(r.Conn)
		tl.AddInline(videodb.VideoAsset{AssetID: video.ID, Start: 0, End: min(5, mid)})
		tl.AddInline(videodb.VideoAsset{AssetID: video.ID, Start: mid, End: min(mid+5, video.Length)})
		url, err := tl.GenerateStream(ctx)
		if err != nil {
			return "", err
		}
		return "Composed stream URL: " + url, assertStreamURL(url)
	})

	r.step(report, "Search result compilation", func() (string, error) {
		if err := video.IndexSpokenWords(ctx); err != nil {
			return "", err
		}
		results, err := video.Search(ctx, "never gonna", videodb.SearchTypeSemantic)
		if err != nil {
			return "", err
		}
		shots := results.Shots()
		if len(shots) == 0 {
			return "No search results to compile (skipped)", nil
		}
		url, err := results.Compile(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Found %d shots, compiled: %s", len(shots), url), assertStreamURL(url)
	})

	r.step(report, "Live stream playback window", func() (string, error) {
		streams, err := r.Conn.ListRTStreams(ctx)
		if err != nil {
			return "", err
		}
		if len(streams) == 0 {
			return "No real-time streams configured (skipped)", nil
		}

		now := time.Now().Unix()
		for _, s := range streams {
			if s.Status != "connected" {
				continue
			}
			url, err := s.GenerateStream(ctx, now-600, now)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Stream %s playback: %s", s.ID, url), assertStreamURL(url)
		}
		return fmt.Sprintf("%d stream(s), none connected (skipped)", len(streams)), nil
	})

	return r.finish(report), nil
}
