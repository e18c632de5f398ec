package core

import (
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/schema"
)

// SessionVariant returns the explicit variant, falling back to the one recorded in the session.
func SessionVariant(variant string, s *iocache.Session) string {
	if variant != "" {
		return variant
	}
	return s.Meta.Get(schema.FieldVariant)
}

// BuildScoreReport scores a session and wraps the result for display.
func BuildScoreReport(cat *schema.Catalog, variant string, s *iocache.Session) schema.ScoreReport {
	variant = SessionVariant(variant, s)
	result := Score(cat, variant, s.Responses, s.Images)
	return schema.ScoreReport{
		Checklist:   cat.Type,
		Title:       cat.Title,
		Variant:     variant,
		StoreID:     s.Meta.Selection.StoreID,
		StoreName:   s.Meta.Selection.StoreName,
		Label:       schema.GetPlainLabel(float64(result.Percent)),
		Progress:    GetProgress(cat, variant, s.Responses),
		ScoreResult: result,
	}
}
