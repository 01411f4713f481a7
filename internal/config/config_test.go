package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("FIGSHARE_API_TOKEN", "env-token")

	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Figshare.APIToken != "env-token" {
		t.Fatalf("expected env token, got %q", cfg.Figshare.APIToken)
	}
	if got := cfg.Figshare.PageSize; got != 1000 {
		t.Fatalf("expected default page size, got %d", got)
	}
	if len(cfg.Stages.Names) != 3 || cfg.Stages.Names[0] != "1.ToDo" {
		t.Fatalf("unexpected default stages: %v", cfg.Stages.Names)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
workspace_dir = "` + dir + `/ws"
log_dir = "` + dir + `/logs"

[figshare]
api_token = " tok "
page_size = 5000

[accounts]
exclude_emails = [" admin@example.edu ", ""]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q %v", resolved, exists)
	}
	if cfg.Figshare.APIToken != "tok" {
		t.Fatalf("token not trimmed: %q", cfg.Figshare.APIToken)
	}
	if cfg.Figshare.PageSize != 1000 {
		t.Fatalf("page size not capped: %d", cfg.Figshare.PageSize)
	}
	if len(cfg.Accounts.ExcludeEmails) != 1 || cfg.Accounts.ExcludeEmails[0] != "admin@example.edu" {
		t.Fatalf("exclusions not trimmed: %v", cfg.Accounts.ExcludeEmails)
	}
}

func TestValidateRejectsBadStages(t *testing.T) {
	cfg := Default()
	cfg.Figshare.APIToken = "tok"
	cfg.Stages.Names = []string{"only-one"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for single stage")
	}

	cfg.Stages.Names = []string{"a", "a"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for duplicate stage")
	}

	cfg.Stages.Names = []string{"a/b", "c"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for path separator in stage")
	}
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := Default()
	cfg.Figshare.APIToken = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "figshare.api_token") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestStageRootsOrdered(t *testing.T) {
	cfg := Default()
	cfg.Paths.WorkspaceDir = "/ws"
	roots := cfg.StageRoots()
	if len(roots) != 3 || roots[1] != filepath.Join("/ws", "2.UnderReview") {
		t.Fatalf("unexpected roots: %v", roots)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	t.Setenv("FIGSHARE_API_TOKEN", "tok")
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
