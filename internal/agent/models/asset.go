// Package models defines the domain types of the inspection capture engine:
// sessions, capture slots, scanned documents, expenses, progress snapshots
// and upload results.
package models

import (
	"path/filepath"
	"time"
)

// AssetRef points at a binary asset captured by the device during the
// current process lifetime. Refs are never persisted: a camera or scanner
// path is not guaranteed to exist after a restart.
type AssetRef struct {
	Path        string
	ContentType string
	CapturedAt  time.Time
}

// Ext returns the file extension of the local path, defaulting to .jpg
// when the capture layer produced a bare path.
func (r AssetRef) Ext() string {
	if ext := filepath.Ext(r.Path); ext != "" {
		return ext
	}
	return ".jpg"
}

// AssetCategory namespaces remote object paths by what the asset documents.
type AssetCategory string

const (
	CategoryPhoto     AssetCategory = "photos"
	CategoryDamage    AssetCategory = "damages"
	CategoryDocument  AssetCategory = "documents"
	CategoryReceipt   AssetCategory = "receipts"
	CategorySignature AssetCategory = "signatures"
)

// Asset is one unit of work for the upload pipeline: a captured binary
// plus the naming metadata needed to place it remotely.
type Asset struct {
	// Key identifies the asset in upload results, e.g. "photo:front" or
	// "document:3f2a…:page:0".
	Key      string
	Category AssetCategory
	// Kind is the slot or document type used in the remote object name.
	Kind string
	Ref  AssetRef
	// Data carries in-memory payloads (signatures); when nil the payload is
	// read from Ref.Path instead.
	Data []byte
}

// UploadResult records the outcome of one asset transfer. Results are never
// persisted; they exist only for commit reporting.
type UploadResult struct {
	AssetKey  string
	Success   bool
	RemoteURL string
	Err       error
}

// UploadSummary aggregates the results of one orchestrator run.
type UploadSummary struct {
	Results   []UploadResult
	Succeeded int
	Failed    int
}

// Failures returns the subset of results that did not succeed.
func (s UploadSummary) Failures() []UploadResult {
	var out []UploadResult
	for _, r := range s.Results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
