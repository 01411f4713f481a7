package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"curator/internal/config"
	"curator/internal/confirm"
	"curator/internal/logging"
	"curator/internal/services"
)

//go:embed readme_template.txt
var defaultTemplate string

// Writer renders the README document for a deposit. A depositor-supplied
// template found in the data folder may be used instead of the built-in one,
// gated by operator confirmation.
type Writer struct {
	templateName string
	outputName   string
	confirmer    confirm.Confirmer
	logger       *slog.Logger
}

// NewWriter builds a Writer from configuration.
func NewWriter(cfg *config.Config, confirmer confirm.Confirmer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{
		templateName: cfg.Manifest.TemplateName,
		outputName:   cfg.Manifest.OutputName,
		confirmer:    confirmer,
		logger:       logger.With(logging.String(logging.FieldComponent, "manifest")),
	}
}

// OutputPath returns where the rendered README lives for the given data
// folder.
func (w *Writer) OutputPath(dataDir string) string {
	return filepath.Join(dataDir, w.outputName)
}

// Render writes the README into outputDir and returns its path. An existing
// README is never overwritten. When the depositor shipped their own template
// inside the data folder the operator chooses which one to render from.
func (w *Writer) Render(dataDir, outputDir string, data Data) (string, error) {
	outputPath := w.OutputPath(outputDir)
	if _, err := os.Stat(outputPath); err == nil {
		w.logger.Info("manifest already present, not overwriting", logging.String("path", outputPath))
		return outputPath, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", services.Wrap(services.ErrTransport, "manifest", "render", "inspect output", err)
	}

	tmpl, source, err := w.selectTemplate(dataDir)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	if err := tmpl.Execute(&builder, data); err != nil {
		return "", services.Wrap(services.ErrValidation, "manifest", "render",
			fmt.Sprintf("execute %s template", source), err)
	}
	if err := os.WriteFile(outputPath, []byte(builder.String()), 0o644); err != nil {
		return "", services.Wrap(services.ErrTransport, "manifest", "render", "write output", err)
	}
	w.logger.Info("manifest written",
		logging.String("path", outputPath),
		logging.String("template", source))
	return outputPath, nil
}

func (w *Writer) selectTemplate(dataDir string) (*template.Template, string, error) {
	userPath := filepath.Join(dataDir, w.templateName)
	if _, err := os.Stat(userPath); err == nil {
		ok, err := w.confirmer.Confirm(fmt.Sprintf("%s found in the data folder. Use it instead of the default template?", w.templateName))
		if err != nil {
			return nil, "", services.Wrap(services.ErrTransport, "manifest", "render", "confirm template choice", err)
		}
		if ok {
			tmpl, err := template.ParseFiles(userPath)
			if err != nil {
				return nil, "", services.Wrap(services.ErrValidation, "manifest", "render", "parse depositor template", err)
			}
			return tmpl, "depositor", nil
		}
		w.logger.Info("depositor template declined, using default")
	}

	tmpl, err := template.New("readme").Parse(defaultTemplate)
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "manifest", "render", "parse default template", err)
	}
	return tmpl, "default", nil
}

// Walkthrough scans the data folder for README-like files, so stray
// depositor-provided copies are surfaced to the operator instead of silently
// coexisting with the rendered manifest. The rendered output lives outside
// the data folder, so every hit here is depositor-supplied.
func (w *Writer) Walkthrough(dataDir string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dataDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.Contains(strings.ToUpper(entry.Name()), "README") {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "manifest", "walkthrough", "scan data folder", err)
	}
	for _, path := range found {
		w.logger.Warn("additional manifest file found", logging.String("path", path))
	}
	return found, nil
}
