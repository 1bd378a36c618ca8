package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/videodb-stack/vdbctl/internal/config"
	"github.com/videodb-stack/vdbctl/internal/errors"
	"github.com/videodb-stack/vdbctl/internal/logging"
	"github.com/videodb-stack/vdbctl/internal/videodb"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"

	// Global flags
	verbose   bool
	skillRoot string
)

var rootCmd = &cobra.Command{
	Use:   "vdbctl",
	Short: "Operator CLI for the VideoDB skill",
	Long: `vdbctl manages the VideoDB skill environment and exercises the
video service it talks to.

Commands cover the full operator surface: provisioning the skill's Python
environment, verifying the service connection, batch-uploading media,
extracting timestamp clips, searching and compiling results, and running
the scripted smoke workflows.

Credentials come from the VIDEO_DB_API_KEY environment variable or a .env
file in the skill root.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&skillRoot, "root", ".", "skill root directory")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("vdbctl {{.Version}}\n")
}

// loadConfig loads the .env file and the TOML config from the skill root.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(skillRoot); err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromRoot(skillRoot)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger; --verbose lowers the level to debug.
func newLogger(command string) *slog.Logger {
	var log *slog.Logger
	if verbose {
		log = logging.NewWithLevel(slog.LevelDebug)
	} else {
		log = logging.NewDefault()
	}
	return logging.WithCommand(log, command)
}

// connect resolves the credential and opens a service connection.
func connect(cfg *config.Config) (*videodb.Connection, error) {
	key := config.APIKey()
	if key == "" {
		return nil, errors.APIKeyMissing(config.APIKeyEnvVar)
	}
	return videodb.Connect(key,
		videodb.WithBaseURL(cfg.ResolveBaseURL()),
		videodb.WithTimeout(cfg.Service.RequestTimeout),
	)
}

// defaultCollection fetches the configured collection, or the account
// default when none is configured.
func defaultCollection(cmd *cobra.Command, conn *videodb.Connection, cfg *config.Config) (*videodb.Collection, error) {
	if cfg.Service.DefaultCollection != "" {
		coll, _, err := conn.FindOrCreateCollection(cmd.Context(), cfg.Service.DefaultCollection)
		return coll, err
	}
	return conn.GetCollection(cmd.Context(), "")
}
