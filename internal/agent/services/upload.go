package services

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/agent/remote"
	"convoyinspect/internal/agent/storage"
	"convoyinspect/internal/logging"
	"convoyinspect/internal/shared"
)

// readFile is hoisted for tests.
var readFile = os.ReadFile

// UploadOrchestrator fans captured assets out to object storage and registers
// a metadata record for each successful transfer. Assets are dispatched all
// at once and settle independently; one failure never cancels or delays the
// others. Run returns only after every transfer has settled.
type UploadOrchestrator struct {
	storage storage.ObjectStorage
	remote  remote.Client
	log     logging.Logger
}

func NewUploadOrchestrator(st storage.ObjectStorage, rc remote.Client, log logging.Logger) *UploadOrchestrator {
	return &UploadOrchestrator{storage: st, remote: rc, log: log}
}

// Run uploads every asset under the inspection's namespace and returns one
// result per asset, in input order.
func (o *UploadOrchestrator) Run(ctx context.Context, inspectionID string, assets []models.Asset) models.UploadSummary {
	results := make([]models.UploadResult, len(assets))

	var wg sync.WaitGroup
	for i := range assets {
		wg.Add(1)
		go func(i int, a models.Asset) {
			defer wg.Done()
			results[i] = o.uploadOne(ctx, inspectionID, a)
		}(i, assets[i])
	}
	wg.Wait()

	summary := models.UploadSummary{Results: results}
	for _, r := range results {
		if r.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
			o.log.Warn(ctx, "asset upload failed", "key", r.AssetKey, "error", r.Err)
		}
	}

	o.log.Info(ctx, "asset uploads settled",
		"inspection", inspectionID, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary
}

func (o *UploadOrchestrator) uploadOne(ctx context.Context, inspectionID string, a models.Asset) models.UploadResult {
	data := a.Data
	if data == nil {
		var err error
		data, err = readFile(a.Ref.Path)
		if err != nil {
			return models.UploadResult{AssetKey: a.Key, Err: fmt.Errorf("read local asset: %w", err)}
		}
	}

	url, err := o.storage.Put(ctx, RemotePath(inspectionID, a), data, a.Ref.ContentType)
	if err != nil {
		return models.UploadResult{AssetKey: a.Key, Err: err}
	}

	rec := &remote.AssetRecord{
		InspectionID: inspectionID,
		AssetKey:     a.Key,
		Category:     a.Category,
		Kind:         a.Kind,
		URL:          url,
	}
	if err := o.remote.CreateInspectionAsset(ctx, rec); err != nil {
		return models.UploadResult{AssetKey: a.Key, Err: fmt.Errorf("register asset record: %w", err)}
	}

	return models.UploadResult{AssetKey: a.Key, Success: true, RemoteURL: url}
}

// RemotePath names an object so retried commits can never collide:
// {category}/{inspectionID}-{kind}-{timestamp}-{rand}.{ext}
func RemotePath(inspectionID string, a models.Asset) string {
	suffix, err := shared.MakeRandHexString(4)
	if err != nil {
		suffix = uuid.NewString()[:8]
	}
	return fmt.Sprintf("%s/%s-%s-%d-%s%s",
		a.Category, inspectionID, a.Kind, time.Now().Unix(), suffix, a.Ref.Ext())
}
