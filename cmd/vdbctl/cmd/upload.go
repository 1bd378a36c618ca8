package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/videodb-stack/vdbctl/internal/errors"
	"github.com/videodb-stack/vdbctl/internal/upload"
	"github.com/videodb-stack/vdbctl/internal/videodb"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Batch-upload media to the service",
	Long: `Upload media from URLs, local files, or a YAML manifest.

Sources come from any combination of --urls (a text file with one URL per
line, # comments allowed), --files, and --manifest. Individual upload
failures are reported and skipped; the command only fails when there is
nothing to upload or the service cannot be reached.`,
	RunE: runUpload,
}

var (
	uploadURLsFile   string
	uploadFiles      []string
	uploadManifest   string
	uploadCollection string
	uploadMediaType  string
)

func init() {
	uploadCmd.Flags().StringVar(&uploadURLsFile, "urls", "", "text file of URLs to upload")
	uploadCmd.Flags().StringSliceVar(&uploadFiles, "files", nil, "local files to upload")
	uploadCmd.Flags().StringVar(&uploadManifest, "manifest", "", "YAML batch job file")
	uploadCmd.Flags().StringVar(&uploadCollection, "collection", "", "target collection name (created if missing)")
	uploadCmd.Flags().StringVar(&uploadMediaType, "media-type", "video", "media type: video, audio, or image")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	log := newLogger("upload")

	switch videodb.MediaType(uploadMediaType) {
	case videodb.MediaTypeVideo, videodb.MediaTypeAudio, videodb.MediaTypeImage:
	default:
		return errors.InputBadTarget("media type must be video, audio, or image: " + uploadMediaType)
	}

	sources, warnings, manifest, err := upload.Gather(upload.Inputs{
		URLsFile:     uploadURLsFile,
		Files:        uploadFiles,
		ManifestFile: uploadManifest,
	})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "WARNING: %s\n", w)
	}
	if len(sources) == 0 {
		return errors.InputMissingSource()
	}

	// Flags win over manifest settings.
	collectionName := uploadCollection
	if collectionName == "" && manifest != nil {
		collectionName = manifest.Collection
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := connect(cfg)
	if err != nil {
		return err
	}

	var coll *videodb.Collection
	if collectionName != "" {
		var created bool
		coll, created, err = conn.FindOrCreateCollection(cmd.Context(), collectionName)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "Created collection %q (id=%s)\n", collectionName, coll.ID)
		}
	} else {
		coll, err = defaultCollection(cmd, conn, cfg)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Uploading %d source(s) to collection %s\n", len(sources), coll.ID)

	bar := progressbar.NewOptions(len(sources),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("uploading"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var failed int
	for _, src := range sources {
		bar.Describe(src.Label())

		req := videodb.UploadRequest{
			MediaType: videodb.MediaType(uploadMediaType),
			Name:      src.Name,
		}
		if src.MediaType != "" {
			req.MediaType = videodb.MediaType(src.MediaType)
		}
		if src.Kind == upload.SourceURL {
			req.URL = src.Value
		} else {
			req.FilePath = src.Value
		}

		video, err := coll.Upload(cmd.Context(), req)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAILED  %s: %v\n", src.Label(), err)
			log.Warn("upload failed", "source", src.Label(), "err", err)
		} else {
			fmt.Fprintf(out, "OK      %s (id=%s)\n", src.Label(), video.ID)
		}
		bar.Add(1)
	}
	bar.Finish()

	fmt.Fprintf(out, "\nUploaded %d/%d source(s)", len(sources)-failed, len(sources))
	if failed > 0 {
		fmt.Fprintf(out, " (%d failed)", failed)
	}
	fmt.Fprintln(out)

	// Per-source failures do not fail the batch.
	return nil
}
