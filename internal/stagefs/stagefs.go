// Package stagefs manages deposit folders across the ordered curation stage
// directories. The filesystem is the single source of truth for a deposit's
// stage: a deposit is "in" whichever stage directory contains its folder.
package stagefs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"curator/internal/config"
	"curator/internal/fileutil"
	"curator/internal/logging"
	"curator/internal/services"
)

// Location identifies where a deposit folder currently lives.
type Location struct {
	Stage string // stage directory name, e.g. "1.ToDo"
	Index int    // position of the stage in the configured order
	Path  string // absolute path of the deposit folder
}

// Manager moves deposit folders through the configured stage sequence.
type Manager struct {
	workspace      string
	stages         []string
	dataFolder     string
	metadataFolder string
	logger         *slog.Logger
}

// New builds a stage manager from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		workspace:      cfg.Paths.WorkspaceDir,
		stages:         append([]string(nil), cfg.Stages.Names...),
		dataFolder:     cfg.Stages.DataFolder,
		metadataFolder: cfg.Stages.MetadataFolder,
		logger:         logger.With(logging.String(logging.FieldComponent, "stagefs")),
	}
}

// Stages returns the configured stage names in order.
func (m *Manager) Stages() []string {
	return append([]string(nil), m.stages...)
}

// StageRoot returns the absolute path of the named stage directory.
func (m *Manager) StageRoot(stage string) string {
	return filepath.Join(m.workspace, stage)
}

// DataDir returns the data subfolder for a deposit at the given location.
func (m *Manager) DataDir(loc Location) string {
	return filepath.Join(loc.Path, m.dataFolder)
}

// MetadataDir returns the metadata subfolder for a deposit at the given
// location.
func (m *Manager) MetadataDir(loc Location) string {
	return filepath.Join(loc.Path, m.metadataFolder)
}

// Locate scans every stage directory for the named deposit folder. The
// second return value reports whether the folder was found at all; a deposit
// present under more than one stage is a corrupted workspace and returns an
// ambiguous-state error naming every hit.
func (m *Manager) Locate(folderName string) (Location, bool, error) {
	if folderName == "" || strings.ContainsRune(folderName, os.PathSeparator) {
		return Location{}, false, services.Wrap(services.ErrValidation, "stagefs", "locate",
			fmt.Sprintf("invalid deposit folder name %q", folderName), nil)
	}

	var hits []Location
	for i, stage := range m.stages {
		candidate := filepath.Join(m.StageRoot(stage), folderName)
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Location{}, false, services.Wrap(services.ErrTransport, "stagefs", "locate",
				fmt.Sprintf("inspect %s", candidate), err)
		}
		if !info.IsDir() {
			continue
		}
		hits = append(hits, Location{Stage: stage, Index: i, Path: candidate})
	}

	switch len(hits) {
	case 0:
		return Location{}, false, nil
	case 1:
		return hits[0], true, nil
	default:
		paths := make([]string, 0, len(hits))
		for _, hit := range hits {
			paths = append(paths, hit.Path)
		}
		return Location{}, false, services.Wrap(services.ErrAmbiguousState, "stagefs", "locate",
			fmt.Sprintf("deposit %s present in multiple stages: %s", folderName, strings.Join(paths, ", ")), nil)
	}
}

// CreateDepositFolders creates the deposit folder in the first stage along
// with its data and metadata subfolders. The folders are created writable;
// the fetcher locks the data folder down after retrieval. Existing folders
// are left untouched.
func (m *Manager) CreateDepositFolders(folderName string) (Location, error) {
	if len(m.stages) == 0 {
		return Location{}, services.Wrap(services.ErrConfiguration, "stagefs", "create", "no stages configured", nil)
	}
	loc := Location{Stage: m.stages[0], Index: 0, Path: filepath.Join(m.StageRoot(m.stages[0]), folderName)}
	for _, dir := range []string{m.DataDir(loc), m.MetadataDir(loc)} {
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return Location{}, services.Wrap(services.ErrTransport, "stagefs", "create",
				fmt.Sprintf("create %s", dir), err)
		}
	}
	m.logger.Info("deposit folders ready",
		logging.String(logging.FieldFolder, folderName),
		logging.String(logging.FieldStage, loc.Stage))
	return loc, nil
}

// Advance moves the named deposit folder from its current stage to the next
// one. Advancing from the terminal stage is refused without touching the
// filesystem. The move is atomic where the workspace allows it; across
// filesystem boundaries the tree is copied with checksum verification before
// the source is removed.
func (m *Manager) Advance(folderName string) (Location, error) {
	current, found, err := m.Locate(folderName)
	if err != nil {
		return Location{}, err
	}
	if !found {
		return Location{}, services.Wrap(services.ErrNotFound, "stagefs", "advance",
			fmt.Sprintf("deposit %s not present in any stage", folderName), nil)
	}
	if current.Index >= len(m.stages)-1 {
		return Location{}, services.Wrap(services.ErrInvalidTransition, "stagefs", "advance",
			fmt.Sprintf("deposit %s already in terminal stage %s", folderName, current.Stage), nil)
	}

	next := Location{
		Stage: m.stages[current.Index+1],
		Index: current.Index + 1,
		Path:  filepath.Join(m.StageRoot(m.stages[current.Index+1]), folderName),
	}
	if err := os.MkdirAll(m.StageRoot(next.Stage), 0o755); err != nil {
		return Location{}, services.Wrap(services.ErrTransport, "stagefs", "advance",
			fmt.Sprintf("create stage root %s", next.Stage), err)
	}
	if _, err := os.Stat(next.Path); err == nil {
		return Location{}, services.Wrap(services.ErrAmbiguousState, "stagefs", "advance",
			fmt.Sprintf("destination %s already exists", next.Path), nil)
	}

	if err := m.move(current.Path, next.Path); err != nil {
		return Location{}, err
	}
	m.logger.Info("deposit advanced",
		logging.String(logging.FieldFolder, folderName),
		logging.String("from", current.Stage),
		logging.String("to", next.Stage))
	return next, nil
}

func (m *Manager) move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return services.Wrap(services.ErrTransport, "stagefs", "advance",
			fmt.Sprintf("move %s to %s", src, dst), err)
	}

	m.logger.Debug("rename crossed filesystems, falling back to verified copy",
		logging.String("source", src), logging.String("destination", dst))
	if err := fileutil.CopyTreeVerified(src, dst); err != nil {
		// Leave the source intact; a partial destination is removed so a
		// retry starts clean.
		os.RemoveAll(dst)
		return services.Wrap(services.ErrTransport, "stagefs", "advance",
			fmt.Sprintf("copy %s to %s", src, dst), err)
	}
	if err := removeTree(src); err != nil {
		return services.Wrap(services.ErrTransport, "stagefs", "advance",
			fmt.Sprintf("remove source %s after copy", src), err)
	}
	return nil
}

// removeTree deletes a tree that may contain read-only locked folders.
func removeTree(root string) error {
	// Best effort: a failed chmod surfaces as the RemoveAll error.
	_ = fileutil.UnlockTree(root, 0o755)
	return os.RemoveAll(root)
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return errors.Is(err, syscall.EXDEV)
}
