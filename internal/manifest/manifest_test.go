package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"curator/internal/config"
	"curator/internal/confirm"
	"curator/internal/deposit"
	"curator/internal/figshare"
	"curator/internal/logging"
)

func sampleDetail() *figshare.CurationDetail {
	return &figshare.CurationDetail{
		Item: figshare.ArticleDetail{
			Article: figshare.Article{
				ID:    101,
				Title: "Soil Moisture Observations",
				DOI:   "10.25422/azu.data.101",
			},
			Description: "<p>Weekly <b>soil moisture</b> readings.</p>",
			Citation:    "Doe, Jane (2026): Soil Moisture Observations. University Repository. Dataset. https://doi.org/10.25422/azu.data.101",
			License:     figshare.License{Name: "CC BY 4.0"},
			Authors:     []figshare.Author{{FullName: "Jane Doe"}, {FullName: "Sam Roe"}},
			References:  []string{"https://example.edu/project"},
		},
	}
}

func sampleName() deposit.Name {
	return deposit.Name{Surname: "Doe", FirstName: "Jane", Email: "jdoe@example.edu"}
}

func TestBuildFlattensSnapshot(t *testing.T) {
	data, err := Build(sampleDetail(), sampleName(), "10.25422/azu.data.[DOI_NUMBER]")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if data.Title != "Soil Moisture Observations" {
		t.Fatalf("unexpected title %q", data.Title)
	}
	if data.FirstAuthor != "Jane Doe" {
		t.Fatalf("unexpected first author %q", data.FirstAuthor)
	}
	if data.License != "CC BY 4.0" {
		t.Fatalf("unexpected license %q", data.License)
	}
	if strings.Contains(data.Description, "<p>") || !strings.Contains(data.Description, "soil moisture") {
		t.Fatalf("description not converted: %q", data.Description)
	}
	if data.DOI != "10.25422/azu.data.101" {
		t.Fatalf("unexpected DOI %q", data.DOI)
	}
}

func TestBuildUsesPlaceholderWithoutDOI(t *testing.T) {
	detail := sampleDetail()
	detail.Item.DOI = ""
	data, err := Build(detail, sampleName(), "10.25422/azu.data.[DOI_NUMBER]")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if data.DOI != "10.25422/azu.data.[DOI_NUMBER]" {
		t.Fatalf("expected placeholder DOI, got %q", data.DOI)
	}
}

func TestSplitCitation(t *testing.T) {
	got := SplitCitation("Doe, Jane (2026): Title. Repo. Dataset. https://doi.org/10.25422/x")
	want := []string{
		"Doe, Jane (2026).",
		"Title.",
		"Repo.",
		"Dataset. https://doi.org/10.25422/x.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected rows:\n got %q\nwant %q", got, want)
	}
}

func TestSplitCitationEmpty(t *testing.T) {
	if rows := SplitCitation("  "); rows != nil {
		t.Fatalf("expected nil rows, got %q", rows)
	}
}

func newWriterConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	return &cfg
}

func TestRenderWritesDefaultTemplate(t *testing.T) {
	cfg := newWriterConfig(t)
	writer := NewWriter(cfg, confirm.NewScripted(), logging.NewNop())
	dataDir := t.TempDir()

	data, err := Build(sampleDetail(), sampleName(), cfg.Manifest.DOIPlaceholder)
	if err != nil {
		t.Fatal(err)
	}
	path, err := writer.Render(dataDir, dataDir, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	for _, want := range []string{"Soil Moisture Observations", "jdoe@example.edu", "CC BY 4.0", "https://doi.org/10.25422/azu.data.101"} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered output missing %q:\n%s", want, text)
		}
	}
}

func TestRenderNeverOverwrites(t *testing.T) {
	cfg := newWriterConfig(t)
	writer := NewWriter(cfg, confirm.NewScripted(), logging.NewNop())
	dataDir := t.TempDir()
	existing := writer.OutputPath(dataDir)
	if err := os.WriteFile(existing, []byte("curator edits"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := Build(sampleDetail(), sampleName(), cfg.Manifest.DOIPlaceholder)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := writer.Render(dataDir, dataDir, data); err != nil {
		t.Fatalf("render: %v", err)
	}
	content, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "curator edits" {
		t.Fatal("existing manifest must not be overwritten")
	}
}

func TestRenderUsesDepositorTemplateWhenConfirmed(t *testing.T) {
	cfg := newWriterConfig(t)
	confirmer := confirm.NewScripted(true)
	writer := NewWriter(cfg, confirmer, logging.NewNop())
	dataDir := t.TempDir()
	userTemplate := filepath.Join(dataDir, cfg.Manifest.TemplateName)
	if err := os.WriteFile(userTemplate, []byte("CUSTOM: {{ .Title }}"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := Build(sampleDetail(), sampleName(), cfg.Manifest.DOIPlaceholder)
	if err != nil {
		t.Fatal(err)
	}
	path, err := writer.Render(dataDir, dataDir, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "CUSTOM: Soil Moisture Observations" {
		t.Fatalf("unexpected depositor render: %q", content)
	}
	if len(confirmer.Prompts) != 1 {
		t.Fatalf("expected one template prompt, got %d", len(confirmer.Prompts))
	}
}

func TestRenderDeclinedTemplateFallsBack(t *testing.T) {
	cfg := newWriterConfig(t)
	writer := NewWriter(cfg, confirm.NewScripted(false), logging.NewNop())
	dataDir := t.TempDir()
	userTemplate := filepath.Join(dataDir, cfg.Manifest.TemplateName)
	if err := os.WriteFile(userTemplate, []byte("CUSTOM: {{ .Title }}"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := Build(sampleDetail(), sampleName(), cfg.Manifest.DOIPlaceholder)
	if err != nil {
		t.Fatal(err)
	}
	path, err := writer.Render(dataDir, dataDir, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(content), "CUSTOM:") {
		t.Fatal("declined template must not be used")
	}
}

func TestWalkthroughFindsStrayReadmes(t *testing.T) {
	cfg := newWriterConfig(t)
	writer := NewWriter(cfg, confirm.NewScripted(), logging.NewNop())
	dataDir := t.TempDir()
	nested := filepath.Join(dataDir, "docs")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	stray := filepath.Join(nested, "readme.md")
	if err := os.WriteFile(stray, []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A depositor file named like the rendered output is still a stray
	// inside the data folder.
	shadow := filepath.Join(dataDir, cfg.Manifest.OutputName)
	if err := os.WriteFile(shadow, []byte("depositor copy"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := writer.Walkthrough(dataDir)
	if err != nil {
		t.Fatalf("walkthrough: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("unexpected findings: %q", found)
	}
	hits := map[string]bool{found[0]: true, found[1]: true}
	if !hits[stray] || !hits[shadow] {
		t.Fatalf("expected %q and %q, got %q", stray, shadow, found)
	}
}
