package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/schema"
	"github.com/spf13/cobra"
)

// scoreCmd scores the draft or a response file.
var scoreCmd = &cobra.Command{
	Use:   "score [responses.json]",
	Short: "Score the current draft or a JSON response file",
	Long: `Compute section and total scores for a checklist.

Without arguments the local draft of the selected checklist is scored. With a file
argument, the file must hold a JSON object of response key to answer.

Training TSA sections are bucketed: 85% or more correct earns 10 points, 75% or more
earns 5, anything lower earns 0.

Examples:
  # Score the current training draft
  storecheck score

  # Score a saved response file as the Brew League sensory sheet
  storecheck score answers.json --checklist brew-league-am --variant sensory --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		cat, session, err := loadSession()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			responses, err := readResponses(args[0])
			if err != nil {
				return err
			}
			session.Responses = responses
		}
		if err := core.ValidateResponses(cat, session.Responses); err != nil {
			return fmt.Errorf("invalid responses: %w", err)
		}
		return writer.WriteScore(core.BuildScoreReport(cat, cfg.Variant, session), cfg)
	},
}

// progressCmd prints completion stats of the draft.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show how much of the current draft is answered",
	Long: `Show the completion of the current draft. Each scored question counts once;
a bucketed TSA section counts as a single unit once any of its questions is answered.

Examples:
  storecheck progress
  storecheck progress --checklist hr --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, session, err := loadSession()
		if err != nil {
			return err
		}
		p := core.GetProgress(cat, core.SessionVariant(cfg.Variant, session), session.Responses)
		if cfg.Output == schema.JSONOut {
			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		}
		cmd.Printf("%s: %d/%d answered (%d%%)\n", cat.Title, p.Completed, p.Total, p.Percent)
		return nil
	},
}

// readResponses loads a JSON response map from a file.
func readResponses(path string) (schema.ResponseMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}
	responses := schema.ResponseMap{}
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, fmt.Errorf("responses file %s must be a JSON object of strings: %w", path, err)
	}
	return responses, nil
}

// saveSession persists the session of a catalog to the configured draft store.
func saveSession(cat *schema.Catalog, s *iocache.Session) error {
	return iocache.SaveSession(iocache.Manager.GetDraftStore(), cat, s)
}
