package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/videodb-stack/vdbctl/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the service connection",
	Long: `Verify that the VideoDB service is reachable with the configured
credential: connects, fetches the default collection, and reports the
video count. Exits non-zero when the API key is absent or rejected.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := config.APIKey()
	fmt.Fprintf(out, "API key: %s\n", config.MaskKey(key))
	fmt.Fprintf(out, "Endpoint: %s\n", cfg.ResolveBaseURL())

	conn, err := connect(cfg)
	if err != nil {
		return err
	}

	coll, err := conn.GetCollection(cmd.Context(), "")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected. Default collection: %s (id=%s)\n", coll.Name, coll.ID)

	videos, err := coll.ListVideos(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Videos in collection: %d\n", len(videos))

	colls, err := conn.ListCollections(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Collections: %d\n", len(colls))
	for _, c := range colls {
		fmt.Fprintf(out, "  %s  %s\n", c.ID, c.Name)
	}

	return nil
}
