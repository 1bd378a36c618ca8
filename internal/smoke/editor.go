package smoke

import (
	"context"
	"fmt"

	"github.com/videodb-stack/vdbctl/internal/videodb"
)

// Editor validates timeline editing operations: trimmed inline clips, text
// overlays with styling, and multi-clip composition.
func (r *Runner) Editor(ctx context.Context) (*Report, error) {
	report := &Report{Workflow: "editor"}

	video, err := r.uploadFixture(ctx, report)
	if err != nil {
		return report, err
	}
	defer r.cleanup(ctx, report, video)

	trimEnd := min(10.0, video.Length)

	r.step(report, "Timeline with trimmed video asset", func() (string, error) {
		tl := videodb.NewTimeline(r.Conn)
		tl.AddInline(videodb.VideoAsset{AssetID: video.ID, Start: 0, End: trimEnd})
		url, err := tl.GenerateStream(ctx)
		if err != nil {
			return "", err
		}
		return "Stream URL: " + url, assertStreamURL(url)
	})

	r.step(report, "Text overlay with style", func() (string, error) {
		tl := videodb.NewTimeline(r.Conn)
		tl.AddInline(videodb.VideoAsset{AssetID: video.ID, Start: 0, End: trimEnd})
		tl.AddOverlay(0, videodb.TextAsset{
			Text:     "Editor Test",
			Duration: 3,
			Style: &videodb.TextStyle{
				FontSize:  36,
				FontColor: "white",
				Alpha:     0.8,
				Font:      "Arial",
			},
		})
		url, err := tl.GenerateStream(ctx)
		if err != nil {
			return "", err
		}
		return "Stream URL: " + url, assertStreamURL(url)
	})

	r.step(report, "Multi-clip inline timeline", func() (string, error) {
		mid := video.Length / 2
		tl := videodb.NewTimeline(r.Conn)
		tl.AddInline(videodb.VideoAsset{AssetID: video.ID, Start: 0, End: min(5, mid)})
		tl.AddInline(videodb.VideoAsset{AssetID: video.ID, Start: mid, End: min(mid+5, video.Length)})
		url, err := tl.GenerateStream(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Stream URL: %s", url), assertStreamURL(url)
	})

	return r.finish(report), nil
}
