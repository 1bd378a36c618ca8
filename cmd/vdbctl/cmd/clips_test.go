package cmd

import (
	"strings"
	"testing"

	"github.com/videodb-stack/vdbctl/internal/errors"
	"github.com/videodb-stack/vdbctl/internal/testutil"
)

func resetClipsFlags(t *testing.T) {
	t.Helper()
	prevID, prevTS, prevCompile := clipsVideoID, clipsTimestamps, clipsCompile
	t.Cleanup(func() {
		clipsVideoID, clipsTimestamps, clipsCompile = prevID, prevTS, prevCompile
	})
	clipsVideoID = ""
	clipsTimestamps = ""
	clipsCompile = false
}

func seedVideo(f *testutil.FakeService) {
	f.Videos = append(f.Videos, testutil.FakeVideo{
		ID: "v-1", CollectionID: "c-default", Name: "keynote.mp4", Length: 120,
	})
}

func TestClipsStreamPerRange(t *testing.T) {
	f, _ := withFake(t)
	seedVideo(f)
	resetClipsFlags(t)
	clipsVideoID = "v-1"
	clipsTimestamps = "10-25,45-60"
	c, buf := newTestCmd(t)

	if err := runClips(c, nil); err != nil {
		t.Fatalf("runClips failed: %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, "https://stream.videodb.test/v-1/"); got != 2 {
		t.Errorf("got %d stream URLs, want 2:\n%s", got, out)
	}
}

func TestClipsCompile(t *testing.T) {
	f, _ := withFake(t)
	seedVideo(f)
	resetClipsFlags(t)
	clipsVideoID = "v-1"
	clipsTimestamps = "10-25,45-60"
	clipsCompile = true
	c, buf := newTestCmd(t)

	if err := runClips(c, nil); err != nil {
		t.Fatalf("runClips failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Compiled 2 clip(s):") {
		t.Errorf("expected compiled stream line, got:\n%s", buf.String())
	}
}

func TestClipsSkipsMalformedRanges(t *testing.T) {
	f, _ := withFake(t)
	seedVideo(f)
	resetClipsFlags(t)
	clipsVideoID = "v-1"
	clipsTimestamps = "garbage,30-20,5-15"
	c, buf := newTestCmd(t)

	if err := runClips(c, nil); err != nil {
		t.Fatalf("runClips failed: %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, "WARNING:"); got != 2 {
		t.Errorf("got %d warnings, want 2:\n%s", got, out)
	}
	if got := strings.Count(out, "https://stream.videodb.test/v-1/"); got != 1 {
		t.Errorf("got %d stream URLs, want 1:\n%s", got, out)
	}
}

func TestClipsNoValidRanges(t *testing.T) {
	f, _ := withFake(t)
	seedVideo(f)
	resetClipsFlags(t)
	clipsVideoID = "v-1"
	clipsTimestamps = "garbage,30-20"
	c, _ := newTestCmd(t)

	err := runClips(c, nil)
	if !errors.HasCode(err, errors.CodeInputBadTimestamp) {
		t.Fatalf("expected %s, got: %v", errors.CodeInputBadTimestamp, err)
	}
}
