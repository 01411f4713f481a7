package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteDataFile drops a deposit payload file at the target path, creating
// parent directories as needed. The content is a deterministic CSV-shaped
// body of the requested number of rows so size-sensitive assertions stay
// stable across runs.
func WriteDataFile(t testing.TB, path string, rows int) {
	t.Helper()

	if rows <= 0 {
		rows = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	var body strings.Builder
	body.WriteString("id,value\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&body, "%d,%d\n", i+1, (i+1)*10)
	}
	if err := os.WriteFile(path, []byte(body.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
