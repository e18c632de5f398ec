package core

import (
	"math"

	"github.com/huangsam/storecheck/core/algo"
	"github.com/huangsam/storecheck/schema"
)

// Score computes per-section and total scores of a checklist for one scoresheet variant.
// An empty variant scores every section.
func Score(cat *schema.Catalog, variant string, responses schema.ResponseMap, images schema.ImageMap) schema.ScoreResult {
	result := schema.ScoreResult{BucketScores: make(map[string]float64)}
	for _, sec := range cat.ActiveSections(variant) {
		var s schema.SectionScore
		if sec.Bucketed {
			s = scoreBucketedSection(cat, sec, responses)
			result.BucketScores[sec.ID] = s.Earned
		} else {
			s = scoreWeightedSection(cat, sec, responses, images)
		}
		result.Sections = append(result.Sections, s)
		result.Total += s.Earned
		result.Max += s.Max
	}
	result.Percent = algo.SafePercent(result.Total, result.Max)
	return result
}

// scoreWeightedSection sums item weights according to each item's kind and answer.
func scoreWeightedSection(cat *schema.Catalog, sec schema.ChecklistSection, responses schema.ResponseMap, images schema.ImageMap) schema.SectionScore {
	s := schema.SectionScore{ID: sec.ID, Title: sec.Title}
	for _, item := range sec.Items {
		if !item.Scored() {
			continue
		}
		s.Items++
		raw := responses[cat.ResponseKey(sec.ID, item.ID)]
		if responses.Answered(cat.ResponseKey(sec.ID, item.ID)) {
			s.Answered++
		}
		earned, possible := scoreItem(item, raw, images.Count(sec.ID) > 0)
		s.Earned += earned
		s.Max += possible
	}
	s.Percent = algo.SafePercent(s.Earned, s.Max)
	return s
}

// scoreItem returns the earned and possible points of a single scored item.
func scoreItem(item schema.ChecklistItem, raw string, hasImages bool) (earned, possible float64) {
	switch item.EffectiveKind() {
	case schema.ImageItem:
		// Image presence decides the points; the answer itself is ignored.
		if hasImages {
			earned = item.Weight
		}
		return earned, math.Abs(item.Weight)
	case schema.ChoiceItem:
		score, _ := item.ChoiceScore(raw)
		return score, item.MaxChoiceScore()
	}

	switch schema.NormalizeAnswer(raw) {
	case schema.AnswerYes:
		return item.Weight, math.Abs(item.Weight)
	case schema.AnswerNo:
		return item.NoWeight(), math.Abs(item.Weight)
	case schema.AnswerNA:
		return 0, 0
	default:
		return 0, math.Abs(item.Weight)
	}
}

// scoreBucketedSection applies the 85/75 rubric to the share of correct answers.
func scoreBucketedSection(cat *schema.Catalog, sec schema.ChecklistSection, responses schema.ResponseMap) schema.SectionScore {
	s := schema.SectionScore{ID: sec.ID, Title: sec.Title, Bucketed: true, Max: schema.BucketMaxPoints}
	correct := 0
	counted := 0
	for _, item := range sec.Items {
		if !item.Scored() {
			continue
		}
		s.Items++
		answer := schema.NormalizeAnswer(responses[cat.ResponseKey(sec.ID, item.ID)])
		if answer == "" {
			continue
		}
		s.Answered++
		if answer == schema.AnswerNA {
			continue
		}
		counted++
		if answer == schema.AnswerYes {
			correct++
		}
	}
	if counted > 0 {
		s.Earned = algo.BucketPoints(algo.RawPercent(correct, counted))
	}
	s.Percent = algo.SafePercent(s.Earned, s.Max)
	return s
}

// GetProgress returns the form completion stat. A bucketed section counts as one unit
// that is complete once any of its items is answered; other sections count each scored item.
func GetProgress(cat *schema.Catalog, variant string, responses schema.ResponseMap) schema.Progress {
	var p schema.Progress
	for _, sec := range cat.ActiveSections(variant) {
		if sec.Bucketed {
			p.Total++
			for _, item := range sec.Items {
				if responses.Answered(cat.ResponseKey(sec.ID, item.ID)) {
					p.Completed++
					break
				}
			}
			continue
		}
		for _, item := range sec.Items {
			if !item.Scored() {
				continue
			}
			p.Total++
			if responses.Answered(cat.ResponseKey(sec.ID, item.ID)) {
				p.Completed++
			}
		}
	}
	p.Percent = algo.SafePercent(float64(p.Completed), float64(p.Total))
	return p
}
