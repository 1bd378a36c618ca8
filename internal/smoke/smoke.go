// Package smoke runs scripted end-to-end checks of the documented skill
// workflows (editor, meetings, realtime-stream) against the live service.
package smoke

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/videodb-stack/vdbctl/internal/videodb"
)

// DefaultSampleURL is a short public video with speech, used as the upload
// fixture for every workflow.
const DefaultSampleURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// StepResult records one step of a workflow run.
type StepResult struct {
	Name   string
	Passed bool
	Detail string
	Err    error
}

// Report is the outcome of one workflow run.
type Report struct {
	Workflow string
	Steps    []StepResult
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if !s.Passed {
			return true
		}
	}
	return false
}

// Runner executes smoke workflows.
type Runner struct {
	Conn      *videodb.Connection
	Out       io.Writer
	SampleURL string
	Log       *slog.Logger
}

// NewRunner creates a Runner with default settings.
func NewRunner(conn *videodb.Connection, log *slog.Logger) *Runner {
	return &Runner{
		Conn:      conn,
		Out:       os.Stdout,
		SampleURL: DefaultSampleURL,
		Log:       log,
	}
}

// step runs one named check and records the result.
func (r *Runner) step(report *Report, name string, fn func() (string, error)) bool {
	fmt.Fprintf(r.Out, "\n[%s] %s\n", report.Workflow, name)

	detail, err := fn()
	result := StepResult{Name: name, Detail: detail, Err: err}
	if err != nil {
		fmt.Fprintf(r.Out, "  FAIL: %v\n", err)
		r.Log.Error("smoke step failed", "workflow", report.Workflow, "step", name, "err", err)
	} else {
		result.Passed = true
		if detail != "" {
			fmt.Fprintf(r.Out, "  %s\n", detail)
		}
		fmt.Fprintln(r.Out, "  PASS")
	}
	report.Steps = append(report.Steps, result)
	return result.Passed
}

// uploadFixture uploads the sample video into the default collection.
func (r *Runner) uploadFixture(ctx context.Context, report *Report) (*videodb.Video, error) {
	coll, err := r.Conn.GetCollection(ctx, "")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(r.Out, "[%s] Collection: %s\n", report.Workflow, coll.ID)

	fmt.Fprintf(r.Out, "[%s] Uploading sample video...\n", report.Workflow)
	video, err := coll.Upload(ctx, videodb.UploadRequest{URL: r.SampleURL})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(r.Out, "[%s] Uploaded: %s (id=%s, length=%.1fs)\n", report.Workflow, video.Name, video.ID, video.Length)
	return video, nil
}

// cleanup deletes the fixture; failures are reported but never change the
// run's outcome.
func (r *Runner) cleanup(ctx context.Context, report *Report, video *videodb.Video) {
	if video == nil {
		return
	}
	fmt.Fprintf(r.Out, "\n[%s] Cleaning up: deleting video %s\n", report.Workflow, video.ID)
	if err := video.Delete(ctx); err != nil {
		fmt.Fprintf(r.Out, "[%s] WARNING: cleanup failed: %v\n", report.Workflow, err)
		r.Log.Warn("cleanup failed", "workflow", report.Workflow, "video_id", video.ID, "err", err)
	}
}

// assertStreamURL validates a generated URL the way every workflow does.
func assertStreamURL(url string) error {
	if url == "" {
		return fmt.Errorf("expected a stream URL, got empty string")
	}
	if len(url) < 4 || url[:4] != "http" {
		return fmt.Errorf("expected an http(s) stream URL, got %q", url)
	}
	return nil
}

func (r *Runner) finish(report *Report) *Report {
	if report.Failed() {
		fmt.Fprintf(r.Out, "\n[%s] FAILED.\n", report.Workflow)
	} else {
		fmt.Fprintf(r.Out, "\n[%s] All %s tests PASSED.\n", report.Workflow, report.Workflow)
	}
	return report
}
