package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"universal-harvester/harvesters"
)

// Manifest describes one export of harvested records for downstream
// adapters (screenplay/video/prompt consumers).
type Manifest struct {
	ExportedAt string `json:"exported_at"`
	Files      []File `json:"files"`
}

type File struct {
	RelativePath string `json:"relative_path"`
	Source       string `json:"source"`
	Records      int    `json:"records"`
	SizeBytes    int64  `json:"size_bytes"`
	SHA256       string `json:"sha256"`
}

// WriteRecords groups records by source, writes one JSON file per source
// plus a manifest.json, and returns the manifest.
func WriteRecords(dir string, records []harvesters.Record) (Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, err
	}

	grouped := map[harvesters.Source][]harvesters.Record{}
	var order []harvesters.Source
	for _, rec := range records {
		if _, seen := grouped[rec.Source]; !seen {
			order = append(order, rec.Source)
		}
		grouped[rec.Source] = append(grouped[rec.Source], rec)
	}

	m := Manifest{ExportedAt: time.Now().UTC().Format(time.RFC3339Nano)}
	for _, src := range order {
		rel := fmt.Sprintf("%s.json", src)
		path := filepath.Join(dir, rel)

		b, err := json.MarshalIndent(grouped[src], "", "  ")
		if err != nil {
			return Manifest{}, err
		}
		if err := writeFileAtomic(path, b, 0o600); err != nil {
			return Manifest{}, err
		}

		sum := sha256.Sum256(b)
		m.Files = append(m.Files, File{
			RelativePath: rel,
			Source:       string(src),
			Records:      len(grouped[src]),
			SizeBytes:    int64(len(b)),
			SHA256:       hex.EncodeToString(sum[:]),
		})
	}

	mb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Manifest{}, err
	}
	if err := writeFileAtomic(filepath.Join(dir, "manifest.json"), mb, 0o600); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
