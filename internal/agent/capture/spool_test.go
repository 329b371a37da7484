package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpoolAdapterClaimsFile(t *testing.T) {
	dir := t.TempDir()
	kindDir := filepath.Join(dir, "photo")
	require.NoError(t, os.MkdirAll(kindDir, 0o770))
	require.NoError(t, os.WriteFile(filepath.Join(kindDir, "shot.png"), []byte{1, 2, 3}, 0o660))

	a := NewSpoolAdapter(dir)
	ref, err := a.Capture(context.Background(), KindPhoto)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ref.ContentType)
	assert.FileExists(t, ref.Path)

	// the spool entry was claimed, not copied
	_, err = os.Stat(filepath.Join(kindDir, "shot.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSpoolAdapterCancelled(t *testing.T) {
	a := NewSpoolAdapter(t.TempDir())
	a.poll = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := a.Capture(ctx, KindPhoto)
	assert.ErrorIs(t, err, ErrCancelled)
}
