package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pithecene-io/hookchain/cli/config"
)

func TestReadOnlyFlags_IncludesTUI(t *testing.T) {
	hasTUI := false
	for _, f := range ReadOnlyFlags() {
		if f.Names()[0] == "tui" {
			hasTUI = true
			break
		}
	}

	if !hasTUI {
		t.Error("ReadOnlyFlags should include --tui flag for explicit error handling")
	}
}

func TestJournalFlags_IncludesJournalDir(t *testing.T) {
	hasDir := false
	for _, f := range JournalFlags() {
		if f.Names()[0] == "journal-dir" {
			hasDir = true
			break
		}
	}

	if !hasDir {
		t.Error("JournalFlags should include --journal-dir")
	}
}

func TestIsStderrTTY(_ *testing.T) {
	// Documents the function exists and can be called. Actual TTY behavior
	// depends on the runtime environment.
	_ = isStderrTTY()
}

func TestDefaultJournalDir(t *testing.T) {
	dir := DefaultJournalDir()
	if dir == "" {
		t.Fatal("default journal dir should not be empty")
	}
	if filepath.Base(dir) != "journal" {
		t.Errorf("expected a journal subdirectory, got %s", dir)
	}
}

func TestChainDetail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hookchain.yaml")
	content := `
chains:
  deploy:
    sequence: [lint, build]
    stop_on_failure: true
hooks:
  build:
    timeout_seconds: 120
    retries: 2
    critical: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	detail := chainDetail(cfg, "deploy")
	if detail == nil {
		t.Fatal("expected chain detail")
	}
	if !detail.StopOnFailure || !detail.Enabled {
		t.Errorf("unexpected chain flags: %+v", detail)
	}
	if len(detail.Sequence) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(detail.Sequence))
	}

	lint := detail.Sequence[0]
	if lint.Hook != "lint" || lint.MaxAttempts != 1 || lint.TimeoutSeconds != 30 {
		t.Errorf("lint should carry defaults: %+v", lint)
	}

	build := detail.Sequence[1]
	if build.MaxAttempts != 3 || build.TimeoutSeconds != 120 || !build.Critical {
		t.Errorf("build should carry configured values: %+v", build)
	}

	if chainDetail(cfg, "ghost") != nil {
		t.Error("unknown chain should yield nil detail")
	}
}
