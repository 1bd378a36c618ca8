package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/videodb-stack/vdbctl/internal/config"
	"github.com/videodb-stack/vdbctl/internal/testutil"
)

// withFake points the command layer at a fake service: credential and
// endpoint via environment, skill root at a temp directory.
func withFake(t *testing.T) (*testutil.FakeService, string) {
	t.Helper()

	f := testutil.NewFakeService(t)
	t.Setenv(config.APIKeyEnvVar, testutil.DefaultAPIKey)
	t.Setenv(config.BaseURLEnvVar, f.URL())

	dir := t.TempDir()
	prev := skillRoot
	skillRoot = dir
	t.Cleanup(func() { skillRoot = prev })

	return f, dir
}

// newTestCmd builds a throwaway command whose output lands in a buffer.
func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetContext(context.Background())
	c.SetOut(&buf)
	c.SetErr(&buf)
	return c, &buf
}
