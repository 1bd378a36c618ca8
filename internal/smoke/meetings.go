package smoke

import (
	"context"
	"fmt"

	"github.com/videodb-stack/vdbctl/internal/videodb"
)

// Meetings validates meeting analysis operations: spoken-word indexing,
// timestamped and plain transcripts, and semantic search within a recording.
func (r *Runner) Meetings(ctx context.Context) (*Report, error) {
	report := &Report{Workflow: "meetings"}

	meeting, err := r.uploadFixture(ctx, report)
	if err != nil {
		return report, err
	}
	defer r.cleanup(ctx, report, meeting)

	indexed := r.step(report, "Index spoken words", func() (string, error) {
		return "", meeting.IndexSpokenWords(ctx)
	})
	if !indexed {
		// Transcript and search depend on the index; report and stop here.
		return r.finish(report), nil
	}

	r.step(report, "Timestamped transcript", func() (string, error) {
		entries, err := meeting.GetTranscript(ctx)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", fmt.Errorf("expected non-empty transcript")
		}
		for i, e := range entries {
			if i >= 3 {
				break
			}
			fmt.Fprintf(r.Out, "  [%.1fs - %.1fs] %s\n", e.Start, e.End, truncate(e.Text, 80))
		}
		return fmt.Sprintf("Total entries: %d", len(entries)), nil
	})

	r.step(report, "Plain text transcript", func() (string, error) {
		text, err := meeting.GetTranscriptText(ctx)
		if err != nil {
			return "", err
		}
		if text == "" {
			return "", fmt.Errorf("expected non-empty transcript text")
		}
		return fmt.Sprintf("Length: %d chars, preview: %s", len(text), truncate(text, 120)), nil
	})

	r.step(report, "Semantic search within meeting", func() (string, error) {
		results, err := meeting.Search(ctx, "never gonna give you up", videodb.SearchTypeSemantic)
		if err != nil {
			return "", err
		}
		shots := results.Shots()
		for i, shot := range shots {
			if i >= 3 {
				break
			}
			fmt.Fprintf(r.Out, "  [%.1fs - %.1fs] %s\n", shot.Start, shot.End, truncate(shot.Text, 80))
		}
		// An empty result set is a graceful pass: the service indexed the
		// recording but found no match.
		return fmt.Sprintf("Found %d matching segment(s)", len(shots)), nil
	})

	return r.finish(report), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
