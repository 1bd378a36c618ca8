// Package venv provisions the isolated Python runtime environment the
// VideoDB skill scripts run in. Provisioning is idempotent: a valid
// existing environment is left untouched, a corrupt one is rebuilt.
package venv

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/videodb-stack/vdbctl/internal/executor"
)

// EnvDirName is the environment root, relative to the skill root.
const EnvDirName = ".venv"

// ManifestName is the dependency manifest, relative to the skill root.
const ManifestName = "requirements.txt"

// Step bounds. A timeout is classified exactly like a non-zero exit.
const (
	ProbeTimeout   = 15 * time.Second
	CreateTimeout  = 60 * time.Second
	UpgradeTimeout = 120 * time.Second
	InstallTimeout = 300 * time.Second
	VerifyTimeout  = 15 * time.Second
)

// Descriptor locates the pieces of an environment on disk. It is recomputed
// on every invocation and never persisted.
type Descriptor struct {
	Root        string // environment directory (<skill root>/.venv)
	Interpreter string // python binary inside the environment
	Manifest    string // dependency manifest (<skill root>/requirements.txt)
}

// ResolvePaths computes the descriptor for a skill root. Pure: no
// filesystem access, no failure mode.
func ResolvePaths(skillRoot string) Descriptor {
	root := filepath.Join(skillRoot, EnvDirName)
	return Descriptor{
		Root:        root,
		Interpreter: interpreterPath(root),
		Manifest:    filepath.Join(skillRoot, ManifestName),
	}
}

// interpreterPath returns the platform-dependent python subpath.
func interpreterPath(envRoot string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envRoot, "Scripts", "python.exe")
	}
	return filepath.Join(envRoot, "bin", "python")
}

// ActivationHint returns the platform-appropriate activation command.
func (d Descriptor) ActivationHint() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(d.Root, "Scripts", "activate")
	}
	return "source " + filepath.Join(d.Root, "bin", "activate")
}

// IsValid reports whether the environment is usable: the interpreter file
// must exist and answer a version query with exit 0 within the probe bound.
// Directory presence alone is not sufficient. Never returns an error - any
// probe failure, timeout included, means invalid.
func IsValid(ctx context.Context, runner *executor.Runner, d Descriptor, timeout time.Duration) bool {
	info, err := os.Stat(d.Interpreter)
	if err != nil || info.IsDir() {
		return false
	}

	result, err := runner.Run(ctx, timeout, d.Interpreter, "--version")
	if err != nil {
		return false
	}
	return result.Ok()
}
