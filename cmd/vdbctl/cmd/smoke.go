package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/videodb-stack/vdbctl/internal/smoke"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run scripted workflow checks against the live service",
	Long: `Run end-to-end checks of the documented skill workflows against the
live service. Each workflow uploads a sample fixture, exercises a set of
operations with assertions, and deletes the fixture afterwards.`,
}

var smokeSampleURL string

func init() {
	smokeCmd.PersistentFlags().StringVar(&smokeSampleURL, "sample-url", smoke.DefaultSampleURL, "video URL used as the upload fixture")

	smokeCmd.AddCommand(&cobra.Command{
		Use:   "editor",
		Short: "Timeline editing: trims, text overlays, multi-clip composition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(cmd, func(ctx context.Context, r *smoke.Runner) (*smoke.Report, error) {
				return r.Editor(ctx)
			})
		},
	})
	smokeCmd.AddCommand(&cobra.Command{
		Use:   "meetings",
		Short: "Meeting analysis: indexing, transcripts, semantic search",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(cmd, func(ctx context.Context, r *smoke.Runner) (*smoke.Report, error) {
				return r.Meetings(ctx)
			})
		},
	})
	smokeCmd.AddCommand(&cobra.Command{
		Use:   "rtstream",
		Short: "Stream generation: segments, compositions, live playback",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(cmd, func(ctx context.Context, r *smoke.Runner) (*smoke.Report, error) {
				return r.RTStream(ctx)
			})
		},
	})

	rootCmd.AddCommand(smokeCmd)
}

func runSmoke(cmd *cobra.Command, workflow func(context.Context, *smoke.Runner) (*smoke.Report, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := connect(cfg)
	if err != nil {
		return err
	}

	runner := smoke.NewRunner(conn, newLogger("smoke"))
	runner.Out = cmd.OutOrStdout()
	runner.SampleURL = smokeSampleURL

	report, err := workflow(cmd.Context(), runner)
	if err != nil {
		return err
	}
	if report.Failed() {
		var failed int
		for _, s := range report.Steps {
			if !s.Passed {
				failed++
			}
		}
		return fmt.Errorf("%s workflow: %d of %d step(s) failed", report.Workflow, failed, len(report.Steps))
	}
	return nil
}
