package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/logging"
)

func TestEarlySaveSuccess(t *testing.T) {
	stubReadFile(t)
	st := newFakeStorage()
	d := NewDocumentSaver(st, logging.NewNop())

	url := d.SaveFirstPage(context.Background(), "m1", "doc1", models.AssetRef{Path: "p0.jpg", ContentType: "image/jpeg"})
	assert.Contains(t, url, "drafts/m1-doc1-page0.jpg")
}

func TestEarlySaveRetriesThenSucceeds(t *testing.T) {
	stubReadFile(t)

	calls := 0
	d := NewDocumentSaver(failTwice{calls: &calls}, logging.NewNop())
	d.backoff = time.Millisecond

	url := d.SaveFirstPage(context.Background(), "m1", "doc1", models.AssetRef{Path: "p0.jpg", ContentType: "image/jpeg"})
	assert.NotEmpty(t, url)
	assert.Equal(t, 3, calls)
}

func TestEarlySaveGivesUp(t *testing.T) {
	stubReadFile(t)
	st := newFakeStorage()
	st.failFor[".*"] = errors.New("offline")
	d := NewDocumentSaver(st, logging.NewNop())
	d.backoff = time.Millisecond

	url := d.SaveFirstPage(context.Background(), "m1", "doc1", models.AssetRef{Path: "p0.jpg", ContentType: "image/jpeg"})
	assert.Empty(t, url, "early save is best-effort")
}

func TestEarlySaveUnreadablePage(t *testing.T) {
	d := NewDocumentSaver(newFakeStorage(), logging.NewNop())
	url := d.SaveFirstPage(context.Background(), "m1", "doc1", models.AssetRef{Path: "/nonexistent/p0.jpg"})
	assert.Empty(t, url)
}

type failTwice struct {
	calls *int
}

func (f failTwice) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	*f.calls++
	if *f.calls < 3 {
		return "", errors.New("flaky network")
	}
	return "https://cdn.example/" + key, nil
}
