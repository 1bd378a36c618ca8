package venv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/videodb-stack/vdbctl/internal/config"
	"github.com/videodb-stack/vdbctl/internal/errors"
	"github.com/videodb-stack/vdbctl/internal/executor"
)

// importProbe is executed inside the environment to confirm the SDK is
// importable and report its version.
const importProbe = "import videodb; from videodb.__about__ import __version__; print(f'videodb {__version__}')"

// Policy classifies what a step failure means for the whole procedure.
type Policy int

const (
	// Fatal failures abort provisioning; the process must exit non-zero.
	Fatal Policy = iota
	// Advisory failures are logged and execution continues.
	Advisory
)

// step is one bounded provisioning action. Modeling every action this way
// keeps the fatal/advisory classification in one place instead of repeated
// per call site.
type step struct {
	name    string
	timeout time.Duration
	policy  Policy
	argv    []string
}

// Outcome reports what one provisioning run actually did.
type Outcome struct {
	Created        bool
	DepsInstalled  bool
	ImportVerified bool
	APIKeyPresent  bool
	Interpreter    string
}

// Timeouts bounds each provisioning step.
type Timeouts struct {
	Probe   time.Duration
	Create  time.Duration
	Upgrade time.Duration
	Install time.Duration
	Verify  time.Duration
}

// DefaultTimeouts returns the standard step bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Probe:   ProbeTimeout,
		Create:  CreateTimeout,
		Upgrade: UpgradeTimeout,
		Install: InstallTimeout,
		Verify:  VerifyTimeout,
	}
}

// Provisioner runs the idempotent environment setup procedure.
type Provisioner struct {
	// BasePython is the host interpreter used to create the environment.
	BasePython string
	// Out receives human-facing progress lines.
	Out io.Writer
	// Timeouts bounds each step; defaults from DefaultTimeouts.
	Timeouts Timeouts

	desc   Descriptor
	runner *executor.Runner
	log    *slog.Logger
}

// New creates a Provisioner for the given skill root.
func New(skillRoot string, log *slog.Logger) *Provisioner {
	return &Provisioner{
		BasePython: "python3",
		Out:        os.Stdout,
		Timeouts:   DefaultTimeouts(),
		desc:       ResolvePaths(skillRoot),
		runner:     executor.NewRunner(),
		log:        log,
	}
}

// Descriptor returns the resolved environment paths.
func (p *Provisioner) Descriptor() Descriptor {
	return p.desc
}

// Provision ensures a working environment exists. Already-valid environments
// short-circuit creation and installation entirely; import verification and
// the credential check run on every invocation to surface drift.
func (p *Provisioner) Provision(ctx context.Context) (*Outcome, error) {
	outcome := &Outcome{Interpreter: p.desc.Interpreter}

	fmt.Fprintf(p.Out, "[setup] Venv path: %s\n", p.desc.Root)

	if IsValid(ctx, p.runner, p.desc, p.Timeouts.Probe) {
		fmt.Fprintln(p.Out, "[setup] Virtual environment already exists and is valid. Skipping creation.")
		fmt.Fprintln(p.Out, "[setup] Skipping dependency installation (venv already provisioned).")
	} else {
		if _, err := os.Stat(p.desc.Root); err == nil {
			// Present but failed the probe: treat as corrupt and rebuild.
			fmt.Fprintf(p.Out, "[setup] %s exists but is corrupt or incomplete. Recreating...\n", EnvDirName)
			if err := os.RemoveAll(p.desc.Root); err != nil {
				return outcome, errors.SetupCreateFailed(p.desc.Root, err)
			}
		}

		if err := p.runFatal(ctx, p.createStep()); err != nil {
			return outcome, err
		}
		outcome.Created = true

		// Best effort: an outdated installer can usually still install.
		p.runAdvisory(ctx, p.upgradeStep(), "pip upgrade failed (continuing anyway)")

		installed, err := p.installDependencies(ctx)
		if err != nil {
			return outcome, err
		}
		outcome.DepsInstalled = installed
	}

	outcome.ImportVerified = p.verifyImport(ctx)
	outcome.APIKeyPresent = p.checkAPIKey()

	fmt.Fprintf(p.Out, "\n[setup] Setup complete.\n")
	fmt.Fprintf(p.Out, "[setup] Python: %s\n", p.desc.Interpreter)
	fmt.Fprintf(p.Out, "[setup] Activate: %s\n", p.desc.ActivationHint())

	return outcome, nil
}

func (p *Provisioner) createStep() step {
	return step{
		name:    "create",
		timeout: p.Timeouts.Create,
		policy:  Fatal,
		argv:    []string{p.BasePython, "-m", "venv", p.desc.Root},
	}
}

func (p *Provisioner) upgradeStep() step {
	return step{
		name:    "pip-upgrade",
		timeout: p.Timeouts.Upgrade,
		policy:  Advisory,
		argv:    []string{p.desc.Interpreter, "-m", "pip", "install", "--upgrade", "pip"},
	}
}

func (p *Provisioner) installStep() step {
	return step{
		name:    "install",
		timeout: p.Timeouts.Install,
		policy:  Fatal,
		argv:    []string{p.desc.Interpreter, "-m", "pip", "install", "-r", p.desc.Manifest},
	}
}

func (p *Provisioner) verifyStep() step {
	return step{
		name:    "verify-import",
		timeout: p.Timeouts.Verify,
		policy:  Advisory,
		argv:    []string{p.desc.Interpreter, "-c", importProbe},
	}
}

// runFatal executes a fatal step: non-zero exit, timeout, and spawn errors
// all become a classified error the caller must treat as terminal.
func (p *Provisioner) runFatal(ctx context.Context, s step) error {
	fmt.Fprintf(p.Out, "[setup] Running %s...\n", s.name)

	result, err := p.runner.Run(ctx, s.timeout, s.argv...)
	if err != nil {
		return p.classify(s, nil, err)
	}
	if result.TimedOut {
		return p.classify(s, result, nil)
	}
	if result.ExitCode != 0 {
		fmt.Fprintf(p.Out, "[setup] ERROR: %s failed.\n", s.name)
		if out := strings.TrimSpace(result.Stdout); out != "" {
			fmt.Fprintf(p.Out, "  stdout: %s\n", out)
		}
		if errOut := strings.TrimSpace(result.Stderr); errOut != "" {
			fmt.Fprintf(p.Out, "  stderr: %s\n", errOut)
		}
		return p.classify(s, result, nil)
	}
	return nil
}

// runAdvisory executes an advisory step: failures are logged and swallowed.
func (p *Provisioner) runAdvisory(ctx context.Context, s step, warning string) *executor.Result {
	result, err := p.runner.Run(ctx, s.timeout, s.argv...)
	if err != nil || !result.Ok() {
		fmt.Fprintf(p.Out, "[setup] WARNING: %s\n", warning)
		p.log.Warn("advisory step failed", "step", s.name, "err", err)
		return nil
	}
	return result
}

// classify maps a failed fatal step to its error code.
func (p *Provisioner) classify(s step, result *executor.Result, spawnErr error) error {
	if result != nil && result.TimedOut {
		return errors.SetupTimeout(s.name)
	}

	cause := spawnErr
	if cause == nil && result != nil {
		cause = fmt.Errorf("exit status %d", result.ExitCode)
	}

	switch s.name {
	case "install":
		return errors.SetupInstallFailed(p.desc.Manifest, cause)
	default:
		return errors.SetupCreateFailed(p.desc.Root, cause)
	}
}

// installDependencies installs the manifest into the environment. An absent
// manifest is tolerated with a warning; anything else failing is fatal.
func (p *Provisioner) installDependencies(ctx context.Context) (bool, error) {
	if _, err := os.Stat(p.desc.Manifest); err != nil {
		fmt.Fprintf(p.Out, "[setup] WARNING: %s not found. Skipping dependency install.\n", p.desc.Manifest)
		return false, nil
	}

	fmt.Fprintf(p.Out, "[setup] Installing dependencies from: %s\n", p.desc.Manifest)
	if err := p.runFatal(ctx, p.installStep()); err != nil {
		return false, err
	}
	fmt.Fprintln(p.Out, "[setup] Dependencies installed successfully.")
	return true, nil
}

// verifyImport checks the SDK is importable inside the environment. Failure
// here never aborts: the environment itself was built, the operator can
// resolve an import problem manually.
func (p *Provisioner) verifyImport(ctx context.Context) bool {
	result := p.runAdvisory(ctx, p.verifyStep(), "Could not import videodb. You may need to install manually.")
	if result == nil {
		return false
	}
	fmt.Fprintf(p.Out, "[setup] Verified: %s\n", strings.TrimSpace(result.Stdout))
	return true
}

// checkAPIKey reports credential presence. Informational only; the key
// value never appears unmasked in output.
func (p *Provisioner) checkAPIKey() bool {
	key := config.APIKey()
	if key != "" {
		fmt.Fprintf(p.Out, "[setup] API key found: %s\n", config.MaskKey(key))
		return true
	}
	fmt.Fprintf(p.Out, "[setup] WARNING: %s is not set.\n", config.APIKeyEnvVar)
	fmt.Fprintf(p.Out, "  Set it with: export %s=\"your-api-key\"\n", config.APIKeyEnvVar)
	fmt.Fprintln(p.Out, "  Get a key from: https://console.videodb.io")
	return false
}
