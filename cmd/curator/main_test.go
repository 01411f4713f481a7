package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
workspace_dir = %q
log_dir = %q

[figshare]
api_token = "test-token"
base_url = %q

[history]
enabled = false
`, filepath.Join(base, "curation"), filepath.Join(base, "logs"), baseURL)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// Re-running without --overwrite refuses to clobber the file.
	if _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config file")
	}
}

func TestLocateCommand(t *testing.T) {
	configPath := writeTestConfig(t, "http://127.0.0.1:1")

	out, err := runCLI(t, configPath, "locate", "Doe_101")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	requireContains(t, out, "not present in any stage")

	// Drop the folder into the second stage and locate it again.
	base := filepath.Dir(configPath)
	target := filepath.Join(base, "curation", "2.UnderReview", "Doe_101")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, configPath, "locate", "Doe_101")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	requireContains(t, out, "2.UnderReview")
}

func TestDOICommandReservesWithYes(t *testing.T) {
	var mints int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/reserve_doi"):
			mints++
			json.NewEncoder(w).Encode(map[string]string{"doi": "10.25422/azu.data.101"})
		case strings.HasSuffix(r.URL.Path, "/articles/101"):
			json.NewEncoder(w).Encode(map[string]any{"id": 101, "doi": ""})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	configPath := writeTestConfig(t, server.URL)
	out, err := runCLI(t, configPath, "doi", "101", "--yes")
	if err != nil {
		t.Fatalf("doi: %v", err)
	}
	requireContains(t, out, "Reserved 10.25422/azu.data.101")
	if mints != 1 {
		t.Fatalf("expected one reservation call, got %d", mints)
	}
}

func TestAdvanceCommandTerminalStage(t *testing.T) {
	configPath := writeTestConfig(t, "http://127.0.0.1:1")
	base := filepath.Dir(configPath)
	target := filepath.Join(base, "curation", "3.Published", "Doe_101")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, configPath, "advance", "Doe_101", "--yes")
	if err == nil || !strings.Contains(err.Error(), "terminal stage") {
		t.Fatalf("expected terminal stage error, got %v", err)
	}
}
