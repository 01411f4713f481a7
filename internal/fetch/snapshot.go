package fetch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"curator/internal/figshare"
)

// snapshotPrefix names the file-list snapshot written before downloads begin.
const snapshotPrefix = "file_list_original"

// WriteSnapshot records the remote file list as both JSON and CSV in the
// metadata directory, preserving what the service reported before any
// retrieval was attempted.
func WriteSnapshot(files []figshare.FileEntry, metadataDir string) error {
	if err := os.MkdirAll(metadataDir, 0o777); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}

	jsonPath := filepath.Join(metadataDir, snapshotPrefix+".json")
	payload, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return fmt.Errorf("encode file list: %w", err)
	}
	if err := os.WriteFile(jsonPath, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", jsonPath, err)
	}

	csvPath := filepath.Join(metadataDir, snapshotPrefix+".csv")
	out, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("write %q: %w", csvPath, err)
	}
	defer out.Close()

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"id", "name", "size", "download_url", "computed_md5"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, file := range files {
		row := []string{
			strconv.FormatInt(file.ID, 10),
			file.Name,
			strconv.FormatInt(file.Size, 10),
			file.DownloadURL,
			file.ComputedMD5,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return out.Close()
}
