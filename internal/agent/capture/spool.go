package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/filex"
)

// SpoolAdapter fulfils capture requests from a spool directory the device
// shell writes finished captures into. Each request claims the oldest file
// under <dir>/<kind>/ by moving it into <dir>/claimed/ and returns its path.
// When no file is present the adapter polls until the context is cancelled,
// which is reported as ErrCancelled.
type SpoolAdapter struct {
	dir  string
	poll time.Duration
}

func NewSpoolAdapter(dir string) *SpoolAdapter {
	return &SpoolAdapter{dir: dir, poll: 200 * time.Millisecond}
}

func (a *SpoolAdapter) Capture(ctx context.Context, kind Kind) (*models.AssetRef, error) {
	kindDir, err := filex.EnsureSubDir(a.dir, string(kind))
	if err != nil {
		return nil, err
	}
	claimedDir, err := filex.EnsureSubDir(a.dir, "claimed")
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(a.poll)
	defer ticker.Stop()

	for {
		ref, err := a.claimOldest(kindDir, claimedDir)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			return ref, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ErrCancelled
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *SpoolAdapter) claimOldest(kindDir, claimedDir string) (*models.AssetRef, error) {
	entries, err := os.ReadDir(kindDir)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		name string
		mod  time.Time
	}
	var files []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{name: e.Name(), mod: info.ModTime()})
	}
	if len(files) == 0 {
		return nil, nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].mod.Before(files[j].mod) })

	src := filepath.Join(kindDir, files[0].name)
	dst := filepath.Join(claimedDir, files[0].name)
	if err := os.Rename(src, dst); err != nil {
		return nil, err
	}

	return &models.AssetRef{
		Path:        dst,
		ContentType: contentTypeFor(dst),
		CapturedAt:  time.Now(),
	}, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}
