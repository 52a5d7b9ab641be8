package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it; used because runScript's interp.New() echoes
// directly to os.Stdout (spec.md's print/println dual-echo).
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestRunScriptFileWithStdoutBanner(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.lox")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(`println("hello from a script file");`); err != nil {
		t.Fatal(err)
	}
	f.Close()

	stdoutFlag = true
	defer func() { stdoutFlag = false }()

	out := captureStdout(t, func() {
		if err := runScript(nil, []string{f.Name()}); err != nil {
			t.Fatal(err)
		}
	})

	snaps.MatchSnapshot(t, out)
}

func TestRunScriptFileReportsMissingFile(t *testing.T) {
	stdoutFlag = false
	err := runScript(nil, []string{"/nonexistent/path/does-not-exist.lox"})
	if err == nil {
		t.Fatal("expected an error for a missing script file")
	}
}

func TestRunScriptFileReturnsRuntimeError(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.lox")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(`print(undefinedVariable);`); err != nil {
		t.Fatal(err)
	}
	f.Close()

	stdoutFlag = false
	// spec.md requires a nonzero exit on a runtime error; runScript reports
	// the error to stderr itself and also returns it non-nil so main.go can
	// exit non-zero.
	if err := runScript(nil, []string{f.Name()}); err == nil {
		t.Fatal("expected runScript to return the runtime error")
	}
}
