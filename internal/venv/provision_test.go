package venv

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/videodb-stack/vdbctl/internal/errors"
	"github.com/videodb-stack/vdbctl/internal/executor"
	"github.com/videodb-stack/vdbctl/internal/logging"
)

// writeScript writes an executable shell script.
func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
}

// interpreterBody is a fake venv python that answers the probe, pip
// invocations, and the import check. Invocations append to logFile.
func interpreterBody(logFile string) string {
	return fmt.Sprintf(`case "$1" in
  --version) echo "Python 3.11.0"; exit 0 ;;
  -m) echo "pip $*" >> %q; exit 0 ;;
  -c) echo "videodb 0.2.0"; exit 0 ;;
esac
exit 0
`, logFile)
}

// fakeHost builds a fake host python whose "-m venv <dir>" creates a working
// fake environment interpreter. Creations append to logFile.
func fakeHost(t *testing.T, dir, logFile string) string {
	t.Helper()
	interp := filepath.Join(dir, "interp-template")
	writeScript(t, interp, interpreterBody(logFile))

	host := filepath.Join(dir, "fake-python3")
	writeScript(t, host, fmt.Sprintf(`if [ "$1" = "-m" ] && [ "$2" = "venv" ]; then
  mkdir -p "$3/bin"
  cp %q "$3/bin/python"
  chmod +x "$3/bin/python"
  echo "create $3" >> %q
  exit 0
fi
exit 1
`, interp, logFile))
	return host
}

func newTestProvisioner(t *testing.T, skillRoot, host string) (*Provisioner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	p := New(skillRoot, logging.NewForTest())
	p.BasePython = host
	p.Out = &buf
	return p, &buf
}

func countLines(t *testing.T, logFile, prefix string) int {
	t.Helper()
	data, err := os.ReadFile(logFile)
	if err != nil {
		return 0
	}
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestResolvePaths(t *testing.T) {
	d := ResolvePaths("/skill")
	if d.Root != filepath.Join("/skill", ".venv") {
		t.Errorf("Root = %s, want /skill/.venv", d.Root)
	}
	if d.Manifest != filepath.Join("/skill", "requirements.txt") {
		t.Errorf("Manifest = %s, want /skill/requirements.txt", d.Manifest)
	}
	if !strings.HasPrefix(d.Interpreter, d.Root) {
		t.Errorf("Interpreter %s should live under Root %s", d.Interpreter, d.Root)
	}
}

func TestIsValid_MissingInterpreter(t *testing.T) {
	d := ResolvePaths(t.TempDir())
	if IsValid(context.Background(), executor.NewRunner(), d, time.Second) {
		t.Error("missing interpreter should be invalid")
	}
}

func TestIsValid_DirectoryAloneInsufficient(t *testing.T) {
	root := t.TempDir()
	d := ResolvePaths(root)
	// Environment directory exists, interpreter does not.
	os.MkdirAll(d.Root, 0755)
	if IsValid(context.Background(), executor.NewRunner(), d, time.Second) {
		t.Error("directory without interpreter should be invalid")
	}
}

func TestIsValid_NonZeroExit(t *testing.T) {
	root := t.TempDir()
	d := ResolvePaths(root)
	writeScript(t, d.Interpreter, "exit 2\n")
	if IsValid(context.Background(), executor.NewRunner(), d, 5*time.Second) {
		t.Error("non-zero probe exit should be invalid")
	}
}

func TestIsValid_TimeoutClassifiedAsInvalid(t *testing.T) {
	root := t.TempDir()
	d := ResolvePaths(root)
	writeScript(t, d.Interpreter, "sleep 30\n")

	start := time.Now()
	valid := IsValid(context.Background(), executor.NewRunner(), d, 200*time.Millisecond)
	if valid {
		t.Error("hanging probe should be invalid")
	}
	if time.Since(start) > 15*time.Second {
		t.Errorf("probe did not respect its bound, took %v", time.Since(start))
	}
}

func TestProvision_CreatesFreshEnvironment(t *testing.T) {
	skillRoot := t.TempDir()
	logFile := filepath.Join(skillRoot, "calls.log")
	host := fakeHost(t, t.TempDir(), logFile)
	os.WriteFile(filepath.Join(skillRoot, ManifestName), []byte("videodb>=0.2.0\n"), 0644)

	p, out := newTestProvisioner(t, skillRoot, host)
	outcome, err := p.Provision(context.Background())
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if !outcome.Created {
		t.Error("Created = false, want true")
	}
	if !outcome.DepsInstalled {
		t.Error("DepsInstalled = false, want true")
	}
	if !outcome.ImportVerified {
		t.Error("ImportVerified = false, want true")
	}
	if _, err := os.Stat(p.Descriptor().Interpreter); err != nil {
		t.Errorf("interpreter missing after provision: %v", err)
	}
	if !strings.Contains(out.String(), "Setup complete") {
		t.Errorf("output missing completion line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Activate:") {
		t.Errorf("output missing activation hint:\n%s", out.String())
	}
}

func TestProvision_Idempotent(t *testing.T) {
	skillRoot := t.TempDir()
	logFile := filepath.Join(skillRoot, "calls.log")
	host := fakeHost(t, t.TempDir(), logFile)
	os.WriteFile(filepath.Join(skillRoot, ManifestName), []byte("videodb\n"), 0644)

	p, _ := newTestProvisioner(t, skillRoot, host)
	if _, err := p.Provision(context.Background()); err != nil {
		t.Fatalf("first Provision() error = %v", err)
	}

	p2, out2 := newTestProvisioner(t, skillRoot, host)
	outcome2, err := p2.Provision(context.Background())
	if err != nil {
		t.Fatalf("second Provision() error = %v", err)
	}

	if outcome2.Created {
		t.Error("second run should not create")
	}
	if outcome2.DepsInstalled {
		t.Error("second run should not install dependencies")
	}
	if got := countLines(t, logFile, "create "); got != 1 {
		t.Errorf("environment created %d times, want 1", got)
	}
	if !strings.Contains(out2.String(), "already exists and is valid") {
		t.Errorf("second run should report validity:\n%s", out2.String())
	}
}

func TestProvision_CorruptionRecovery(t *testing.T) {
	skillRoot := t.TempDir()
	logFile := filepath.Join(skillRoot, "calls.log")
	host := fakeHost(t, t.TempDir(), logFile)

	// Root exists, interpreter missing: must be treated as corrupt.
	d := ResolvePaths(skillRoot)
	os.MkdirAll(filepath.Join(d.Root, "lib"), 0755)
	stale := filepath.Join(d.Root, "lib", "stale.txt")
	os.WriteFile(stale, []byte("leftover"), 0644)

	p, out := newTestProvisioner(t, skillRoot, host)
	outcome, err := p.Provision(context.Background())
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if !outcome.Created {
		t.Error("corrupt root should trigger recreation")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale content should be removed before recreation")
	}
	if !strings.Contains(out.String(), "corrupt or incomplete") {
		t.Errorf("output should report corruption:\n%s", out.String())
	}
}

func TestProvision_ManifestAbsentTolerated(t *testing.T) {
	skillRoot := t.TempDir()
	logFile := filepath.Join(skillRoot, "calls.log")
	host := fakeHost(t, t.TempDir(), logFile)
	// No requirements.txt on purpose.

	p, out := newTestProvisioner(t, skillRoot, host)
	outcome, err := p.Provision(context.Background())
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if !outcome.Created {
		t.Error("Created = false, want true")
	}
	if outcome.DepsInstalled {
		t.Error("DepsInstalled = true, want false when manifest absent")
	}
	if !strings.Contains(out.String(), "Skipping dependency install") {
		t.Errorf("output should warn about missing manifest:\n%s", out.String())
	}
}

func TestProvision_CreateFailureIsFatal(t *testing.T) {
	skillRoot := t.TempDir()
	host := filepath.Join(t.TempDir(), "broken-python3")
	writeScript(t, host, "echo 'no venv module' >&2\nexit 1\n")

	p, _ := newTestProvisioner(t, skillRoot, host)
	_, err := p.Provision(context.Background())
	if err == nil {
		t.Fatal("expected fatal error from failed creation")
	}
	if !errors.HasCode(err, errors.CodeSetupCreateFailed) {
		t.Errorf("error code = %s, want %s", errors.Code(err), errors.CodeSetupCreateFailed)
	}
}

func TestProvision_InstallTimeoutIsFatal(t *testing.T) {
	skillRoot := t.TempDir()
	logFile := filepath.Join(skillRoot, "calls.log")
	os.WriteFile(filepath.Join(skillRoot, ManifestName), []byte("videodb\n"), 0644)

	// Host creates an interpreter whose pip install hangs.
	dir := t.TempDir()
	interp := filepath.Join(dir, "interp-template")
	writeScript(t, interp, `case "$1" in
  --version) exit 0 ;;
  -m)
    if [ "$3" = "--upgrade" ]; then exit 0; fi
    sleep 30 ;;
  -c) exit 0 ;;
esac
exit 0
`)
	host := filepath.Join(dir, "fake-python3")
	writeScript(t, host, fmt.Sprintf(`mkdir -p "$3/bin"
cp %q "$3/bin/python"
chmod +x "$3/bin/python"
echo "create $3" >> %q
exit 0
`, interp, logFile))

	p, _ := newTestProvisioner(t, skillRoot, host)
	p.Timeouts.Install = 300 * time.Millisecond

	_, err := p.Provision(context.Background())
	if err == nil {
		t.Fatal("expected fatal error from install timeout")
	}
	if !errors.HasCode(err, errors.CodeSetupTimeout) {
		t.Errorf("error code = %s, want %s", errors.Code(err), errors.CodeSetupTimeout)
	}
}

func TestProvision_PipUpgradeFailureIsAdvisory(t *testing.T) {
	skillRoot := t.TempDir()
	logFile := filepath.Join(skillRoot, "calls.log")
	os.WriteFile(filepath.Join(skillRoot, ManifestName), []byte("videodb\n"), 0644)

	dir := t.TempDir()
	interp := filepath.Join(dir, "interp-template")
	writeScript(t, interp, fmt.Sprintf(`case "$1" in
  --version) exit 0 ;;
  -m)
    if [ "$3" = "--upgrade" ]; then exit 1; fi
    echo "pip $*" >> %q
    exit 0 ;;
  -c) echo "videodb 0.2.0"; exit 0 ;;
esac
exit 0
`, logFile))
	host := filepath.Join(dir, "fake-python3")
	writeScript(t, host, fmt.Sprintf(`mkdir -p "$3/bin"
cp %q "$3/bin/python"
chmod +x "$3/bin/python"
exit 0
`, interp))

	p, out := newTestProvisioner(t, skillRoot, host)
	outcome, err := p.Provision(context.Background())
	if err != nil {
		t.Fatalf("pip upgrade failure must not be fatal, got %v", err)
	}
	if !outcome.DepsInstalled {
		t.Error("install should still run after advisory upgrade failure")
	}
	if !strings.Contains(out.String(), "WARNING") {
		t.Errorf("advisory failure should be reported:\n%s", out.String())
	}
}

func TestProvision_ReportsMaskedKey(t *testing.T) {
	skillRoot := t.TempDir()
	logFile := filepath.Join(skillRoot, "calls.log")
	host := fakeHost(t, t.TempDir(), logFile)

	key := "sk-verysecretvalue99"
	os.Setenv("VIDEO_DB_API_KEY", key)
	defer os.Unsetenv("VIDEO_DB_API_KEY")

	p, out := newTestProvisioner(t, skillRoot, host)
	outcome, err := p.Provision(context.Background())
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if !outcome.APIKeyPresent {
		t.Error("APIKeyPresent = false, want true")
	}
	if strings.Contains(out.String(), key) {
		t.Error("full credential must never appear in output")
	}
	if !strings.Contains(out.String(), "sk-v...ue99") {
		t.Errorf("masked preview missing from output:\n%s", out.String())
	}
}
