package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/schema"
	"go.uber.org/zap"
)

// Submitter turns the draft of one checklist into a delivered submission.
type Submitter struct {
	Catalog  *schema.Catalog
	Variant  string
	Drafts   contract.DraftStore
	History  contract.HistoryStore // nil disables history
	Sink     contract.Sink
	Strict   bool
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger
}

// SubmitResult is the outcome of one submit attempt.
type SubmitResult struct {
	Record  schema.SubmissionRecord
	Payload schema.SubmissionPayload
	Score   schema.ScoreResult
}

// Prepare validates a session and builds its score and payload without sending anything.
func Prepare(cat *schema.Catalog, variant string, s *iocache.Session, strict bool, now time.Time, loc *time.Location) (schema.ScoreResult, schema.SubmissionPayload, error) {
	variant = SessionVariant(variant, s)
	if err := ValidateMetadata(cat, s.Meta); err != nil {
		return schema.ScoreResult{}, schema.SubmissionPayload{}, err
	}
	if strict {
		if err := ValidateComplete(cat, variant, s.Responses); err != nil {
			return schema.ScoreResult{}, schema.SubmissionPayload{}, err
		}
	}
	if err := ValidateResponses(cat, s.Responses); err != nil {
		return schema.ScoreResult{}, schema.SubmissionPayload{}, fmt.Errorf("invalid responses: %w", err)
	}
	score := Score(cat, variant, s.Responses, s.Images)
	payload, err := Encode(Submission{
		Catalog:   cat,
		Responses: s.Responses,
		Remarks:   s.Remarks,
		Images:    s.Images,
		Score:     score,
		Meta:      s.Meta,
		Now:       now,
		Location:  loc,
	})
	if err != nil {
		return schema.ScoreResult{}, schema.SubmissionPayload{}, err
	}
	return score, payload, nil
}

// Submit loads the draft, validates, scores, encodes and posts it. A dry run stops before
// posting. A failed post keeps the draft; a successful one clears the checklist's keys.
// Every attempt that reaches the sink, or a dry run, is recorded in history.
func (sub *Submitter) Submit(ctx context.Context, dryRun bool) (SubmitResult, error) {
	logger := sub.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if sub.Now != nil {
		now = sub.Now
	}

	session, err := iocache.LoadSession(sub.Drafts, sub.Catalog)
	if err != nil {
		return SubmitResult{}, err
	}
	at := now()
	score, payload, err := Prepare(sub.Catalog, sub.Variant, session, sub.Strict, at, sub.Location)
	if err != nil {
		return SubmitResult{}, err
	}

	sel := session.Meta.Selection
	result := SubmitResult{
		Payload: payload,
		Score:   score,
		Record: schema.SubmissionRecord{
			ID:            uuid.NewString(),
			ChecklistType: sub.Catalog.Type,
			StoreID:       sel.StoreID,
			TrainerID:     sel.TrainerID,
			AMID:          sel.AMID,
			Total:         score.Total,
			Max:           score.Max,
			Percent:       score.Percent,
			FieldCount:    payload.Len(),
			SubmittedAt:   at.UTC(),
		},
	}

	if dryRun {
		result.Record.Status = schema.DryRunStatus
		sub.record(logger, result)
		return result, nil
	}

	result.Record.Endpoints = len(sub.Sink.Endpoints())
	if err := sub.Sink.Submit(ctx, payload); err != nil {
		result.Record.Status = schema.FailedStatus
		result.Record.Error = err.Error()
		sub.record(logger, result)
		return result, fmt.Errorf("submission failed, draft kept: %w", err)
	}

	result.Record.Status = schema.SubmittedStatus
	sub.record(logger, result)
	if err := iocache.ResetSession(sub.Drafts, sub.Catalog); err != nil {
		return result, fmt.Errorf("submitted but failed to clear draft: %w", err)
	}
	logger.Info("submission delivered",
		zap.String("submission_id", result.Record.ID),
		zap.String("checklist", string(sub.Catalog.Type)),
		zap.Int("endpoints", result.Record.Endpoints))
	return result, nil
}

// record writes the attempt to history. A history failure never changes the submit outcome.
func (sub *Submitter) record(logger *zap.Logger, result SubmitResult) {
	if sub.History == nil {
		return
	}
	if err := sub.History.RecordSubmission(result.Record, result.Payload); err != nil {
		logger.Warn("failed to record submission history",
			zap.String("submission_id", result.Record.ID), zap.Error(err))
	}
}
