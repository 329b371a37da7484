package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/agent/storage"
	"convoyinspect/internal/logging"
)

// DocumentSaver opportunistically uploads the first page of a scanned
// document as soon as it is captured. It is a best-effort early save: a few
// backoff retries, failures logged and forgotten. The final commit uploads
// every page again regardless.
type DocumentSaver struct {
	storage  storage.ObjectStorage
	log      logging.Logger
	attempts uint64
	backoff  time.Duration
}

func NewDocumentSaver(st storage.ObjectStorage, log logging.Logger) *DocumentSaver {
	return &DocumentSaver{storage: st, log: log, attempts: 3, backoff: 500 * time.Millisecond}
}

// SaveFirstPage uploads the page under a draft namespace and returns its
// URL, or an empty string when every attempt failed.
func (d *DocumentSaver) SaveFirstPage(ctx context.Context, missionID, docID string, page models.AssetRef) string {
	data, err := readFile(page.Path)
	if err != nil {
		d.log.Warn(ctx, "early save skipped, page unreadable", "document", docID, "error", err)
		return ""
	}

	key := fmt.Sprintf("drafts/%s-%s-page0%s", missionID, docID, page.Ext())

	var url string
	b := retry.WithMaxRetries(d.attempts, retry.NewExponential(d.backoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		var putErr error
		url, putErr = d.storage.Put(ctx, key, data, page.ContentType)
		if putErr != nil {
			return retry.RetryableError(putErr)
		}
		return nil
	})
	if err != nil {
		d.log.Warn(ctx, "early save failed", "document", docID, "error", err)
		return ""
	}

	d.log.Debug(ctx, "document first page early-saved", "document", docID, "url", url)
	return url
}
