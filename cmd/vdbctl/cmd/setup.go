package cmd

import (
	"github.com/spf13/cobra"
	"github.com/videodb-stack/vdbctl/internal/config"
	"github.com/videodb-stack/vdbctl/internal/venv"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the skill's Python environment",
	Long: `Provision the skill's Python virtual environment under <root>/.venv.

The procedure is idempotent: a healthy environment is detected and left
alone, a corrupt one is removed and rebuilt. Dependencies come from
<root>/requirements.txt when present. A missing API key is reported but
never blocks provisioning.`,
	RunE: runSetup,
}

var setupPython string

func init() {
	setupCmd.Flags().StringVar(&setupPython, "python", "python3", "base interpreter used to create the environment")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	// Load .env so the credential check sees file-provided keys too.
	if err := config.LoadEnvFile(skillRoot); err != nil {
		return err
	}

	p := venv.New(skillRoot, newLogger("setup"))
	p.BasePython = setupPython
	p.Out = cmd.OutOrStdout()

	_, err := p.Provision(cmd.Context())
	return err
}
