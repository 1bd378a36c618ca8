package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakePython builds a host interpreter whose "-m venv <dir>" creates a
// minimal working environment interpreter.
func fakePython(t *testing.T, dir string) string {
	t.Helper()

	interp := filepath.Join(dir, "interp-template")
	writeScript(t, interp, `case "$1" in
  --version) echo "Python 3.11.0"; exit 0 ;;
  -c) echo "videodb 0.2.0"; exit 0 ;;
esac
exit 0
`)

	host := filepath.Join(dir, "fake-python3")
	writeScript(t, host, fmt.Sprintf(`if [ "$1" = "-m" ] && [ "$2" = "venv" ]; then
  mkdir -p "$3/bin"
  cp %q "$3/bin/python"
  chmod +x "$3/bin/python"
  exit 0
fi
exit 1
`, interp))
	return host
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
}

func TestSetupProvisionsEnvironment(t *testing.T) {
	_, dir := withFake(t)

	prev := setupPython
	setupPython = fakePython(t, t.TempDir())
	t.Cleanup(func() { setupPython = prev })

	c, buf := newTestCmd(t)
	if err := runSetup(c, nil); err != nil {
		t.Fatalf("runSetup failed: %v", err)
	}

	interpreter := filepath.Join(dir, ".venv", "bin", "python")
	if _, err := os.Stat(interpreter); err != nil {
		t.Fatalf("expected interpreter at %s: %v", interpreter, err)
	}
	if !strings.Contains(buf.String(), interpreter) {
		t.Errorf("expected interpreter path in output:\n%s", buf.String())
	}
}
