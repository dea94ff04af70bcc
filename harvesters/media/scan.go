package media

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

type scanResult struct {
	Count      int
	TotalBytes int64
	ByExt      map[string]int
}

func scanDir(ctx context.Context, dir string, exts map[string]bool) (scanResult, error) {
	res := scanResult{ByExt: map[string]int{}}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !exts[ext] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		res.Count++
		res.TotalBytes += info.Size()
		res.ByExt[ext]++
		return nil
	})
	if err != nil {
		return scanResult{}, err
	}
	return res, nil
}
