package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/videodb-stack/vdbctl/internal/errors"
	"github.com/videodb-stack/vdbctl/internal/timestamps"
)

var clipsCmd = &cobra.Command{
	Use:   "clips",
	Short: "Extract timestamp clips from a video",
	Long: `Generate stream URLs for timestamp ranges of an uploaded video.

Ranges are given as "start-end" pairs in seconds, comma separated, e.g.
--timestamps "10.0-25.0,45.0-60.0". Malformed or inverted ranges are
skipped with a warning; having no valid range is an error. With --compile
all ranges are stitched into a single stream instead of one per clip.`,
	RunE: runClips,
}

var (
	clipsVideoID    string
	clipsTimestamps string
	clipsCompile    bool
)

func init() {
	clipsCmd.Flags().StringVar(&clipsVideoID, "video-id", "", "id of the video to clip (required)")
	clipsCmd.Flags().StringVar(&clipsTimestamps, "timestamps", "", `ranges in seconds, e.g. "10-25,45-60" (required)`)
	clipsCmd.Flags().BoolVar(&clipsCompile, "compile", false, "stitch all ranges into one stream")
	clipsCmd.MarkFlagRequired("video-id")
	clipsCmd.MarkFlagRequired("timestamps")
	rootCmd.AddCommand(clipsCmd)
}

func runClips(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ranges, warnings := timestamps.Parse(clipsTimestamps)
	for _, w := range warnings {
		fmt.Fprintf(out, "WARNING: %s\n", w)
	}
	if len(ranges) == 0 {
		return errors.InputBadTimestamp(clipsTimestamps)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := connect(cfg)
	if err != nil {
		return err
	}
	coll, err := defaultCollection(cmd, conn, cfg)
	if err != nil {
		return err
	}
	video, err := coll.GetVideo(cmd.Context(), clipsVideoID)
	if err != nil {
		return err
	}

	if clipsCompile {
		url, err := video.GenerateStream(cmd.Context(), timestamps.Pairs(ranges))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Compiled %d clip(s): %s\n", len(ranges), url)
		return nil
	}

	for _, r := range ranges {
		url, err := video.GenerateStream(cmd.Context(), [][2]float64{{r.Start, r.End}})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n", r, url)
	}
	return nil
}
