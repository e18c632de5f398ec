package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/internal/sink"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// submitCmd validates, scores, encodes and posts the draft of the selected checklist.
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the draft of the selected checklist to every endpoint",
	Long: `Validate the draft, score it, encode it in the exact column order of the receiving
sheet and post it to every endpoint concurrently. Requests are spaced by --min-request-gap
and each one is bounded by --submit-timeout.

The submission succeeds only when every endpoint accepts it. On success the draft of this
checklist is cleared; on failure it is kept so nothing typed is lost. With a history backend
every attempt, including dry runs, is recorded.

Examples:
  # Preview the payload without posting
  storecheck submit --dry-run

  # Post to two sheets, requiring every question to be answered
  storecheck submit --strict --endpoints https://a.example/exec,https://b.example/exec`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dryRun := viper.GetBool("dry-run")
		if !dryRun && len(cfg.Endpoints) == 0 {
			return fmt.Errorf("%w: pass --endpoints or set STORECHECK_ENDPOINTS", sink.ErrNoEndpoints)
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		submitter := &core.Submitter{
			Catalog: cat,
			Variant: cfg.Variant,
			Drafts:  iocache.Manager.GetDraftStore(),
			History: iocache.Manager.GetHistoryStore(),
			Sink: sink.New(sink.Options{
				Endpoints: cfg.Endpoints,
				Timeout:   cfg.SubmitTimeout,
				Opaque:    cfg.Opaque,
				Queue:     sink.NewQueue(cfg.MinRequestGap),
				Logger:    logger,
			}),
			Strict:   cfg.Strict,
			Location: cfg.Location,
			Now:      cfg.Now,
			Logger:   logger,
		}

		result, err := submitter.Submit(rootCtx, dryRun)
		if err != nil {
			if errors.Is(err, sink.ErrRejected) {
				logger.Warn("an endpoint rejected the submission", zap.Error(err))
			}
			return err
		}
		if dryRun {
			return writer.WritePayload(result.Payload.Entries(), cfg)
		}
		cmd.Printf("✅ Submitted %s for %s: %s/%s (%d%%) to %d endpoint(s)\n",
			cat.Type, describe(result.Record.StoreID, ""),
			formatScore(result.Score.Total), formatScore(result.Score.Max),
			result.Score.Percent, result.Record.Endpoints)
		return nil
	},
}

// formatScore renders a score with the configured precision.
func formatScore(v float64) string {
	return fmt.Sprintf("%.*f", cfg.Precision, v)
}
