package session

import (
	"fmt"

	"convoyinspect/internal/agent/models"
)

// CapturedAssets builds the upload manifest: every captured binary in the
// session, keyed so commit reporting can name the ones that fail.
func (s *Session) CapturedAssets() []models.Asset {
	var out []models.Asset

	for _, slot := range s.required {
		if slot.Captured && slot.Asset != nil {
			out = append(out, models.Asset{
				Key:      "photo:" + slot.Type,
				Category: models.CategoryPhoto,
				Kind:     slot.Type,
				Ref:      *slot.Asset,
			})
		}
	}
	for _, slot := range s.optional {
		if slot.Captured && slot.Asset != nil {
			out = append(out, models.Asset{
				Key:      "photo:" + slot.Type,
				Category: models.CategoryPhoto,
				Kind:     slot.Type,
				Ref:      *slot.Asset,
			})
		}
	}
	for i, slot := range s.damage {
		if slot.Captured && slot.Asset != nil {
			out = append(out, models.Asset{
				Key:      fmt.Sprintf("damage:%d", i),
				Category: models.CategoryDamage,
				Kind:     "damage",
				Ref:      *slot.Asset,
			})
		}
	}
	for _, doc := range s.documents {
		for i, page := range doc.Pages {
			out = append(out, models.Asset{
				Key:      fmt.Sprintf("document:%s:page:%d", doc.ID, i),
				Category: models.CategoryDocument,
				Kind:     "document",
				Ref:      page,
			})
		}
	}
	for _, e := range s.expenses {
		if e.Receipt != nil {
			out = append(out, models.Asset{
				Key:      "receipt:" + e.ID,
				Category: models.CategoryReceipt,
				Kind:     string(e.Category),
				Ref:      *e.Receipt,
			})
		}
	}
	if s.clientSig != nil && len(s.clientSig.Data) > 0 {
		out = append(out, models.Asset{
			Key:      "signature:client",
			Category: models.CategorySignature,
			Kind:     "client",
			Ref:      models.AssetRef{Path: "client.png", ContentType: "image/png", CapturedAt: s.clientSig.SignedAt},
			Data:     s.clientSig.Data,
		})
	}
	if s.driverSig != nil && len(s.driverSig.Data) > 0 {
		out = append(out, models.Asset{
			Key:      "signature:driver",
			Category: models.CategorySignature,
			Kind:     "driver",
			Ref:      models.AssetRef{Path: "driver.png", ContentType: "image/png", CapturedAt: s.driverSig.SignedAt},
			Data:     s.driverSig.Data,
		})
	}

	return out
}
