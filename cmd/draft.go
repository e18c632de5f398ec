package cmd

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/schema"
	"github.com/spf13/cobra"
)

// maxImageBytes caps a single attached image.
const maxImageBytes = 5 << 20

// draftCmd focused on the local draft of the selected checklist.
var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect and edit the local checklist draft",
	Long: `Manage the local draft of the selected checklist.

Each checklist keeps its answers, metadata, remarks and images under its own fixed
draft keys, so drafts of different checklists never interfere. A failed submission
leaves the draft untouched; a successful one clears exactly these keys.

Supported backends: SQLite (default), MySQL, PostgreSQL, File (JSON document) or None

Subcommands:
  show   - Print the draft in payload order
  set    - Set a metadata field (e.g. mod, region, scoresheetType)
  answer - Answer a question
  remark - Set remarks for a section
  image  - Attach an image to a section
  clear  - Delete the draft of this checklist
  status - Show draft store statistics`,
}

var draftShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the metadata and answers of the draft in catalog order",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		cat, session, err := loadSession()
		if err != nil {
			return err
		}
		return writer.WritePayload(draftEntries(cat, session), cfg)
	},
}

var draftSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a metadata field; an empty value clears it",
	Long: `Set a free-text metadata field of the draft, such as mod, region or
scoresheetType. Trainer, area manager and store are set with 'storecheck resolve select'.

Examples:
  storecheck draft set mod "Priya S"
  storecheck draft set scoresheetType sensory --checklist brew-league-am`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		field, value := args[0], args[1]
		if schema.IsSelectionField(field) {
			return fmt.Errorf("%s is part of the selection: use 'storecheck resolve select'", field)
		}
		cat, session, err := loadSession()
		if err != nil {
			return err
		}
		session.Meta.Set(field, value)
		if err := saveSession(cat, session); err != nil {
			return err
		}
		cmd.Printf("%s = %q\n", field, session.Meta.Get(field))
		return nil
	},
}

var draftAnswerCmd = &cobra.Command{
	Use:   "answer <key> <value>",
	Short: "Answer a question; an empty value clears the answer",
	Long: `Record an answer under its response key (see 'storecheck catalog show').
Checks take yes, no or na; choices take one of their labels; times take HH:MM:SS.

Examples:
  storecheck draft answer TrainingMaterials_TM_1 yes
  storecheck draft answer Timing_Start 10:05:00 --checklist brew-league-am`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], strings.TrimSpace(args[1])
		cat, session, err := loadSession()
		if err != nil {
			return err
		}
		if _, item, ok := cat.FindItem(key); ok && item.EffectiveKind() == schema.CheckItem {
			value = string(schema.NormalizeAnswer(value))
		}
		if err := core.ValidateResponses(cat, schema.ResponseMap{key: value}); err != nil {
			return err
		}
		if value == "" {
			delete(session.Responses, key)
		} else {
			session.Responses[key] = value
		}
		if err := saveSession(cat, session); err != nil {
			return err
		}
		p := core.GetProgress(cat, core.SessionVariant(cfg.Variant, session), session.Responses)
		cmd.Printf("%s = %q (%d/%d answered)\n", key, value, p.Completed, p.Total)
		return nil
	},
}

var draftRemarkCmd = &cobra.Command{
	Use:     "remark <section-id> <text>",
	Short:   "Set the remarks of a section; empty text clears them",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, session, err := loadSession()
		if err != nil {
			return err
		}
		sectionID, text := args[0], strings.TrimSpace(args[1])
		if _, ok := cat.Section(sectionID); !ok {
			return fmt.Errorf("unknown section %q", sectionID)
		}
		if text == "" {
			delete(session.Remarks, sectionID)
		} else {
			session.Remarks[sectionID] = text
		}
		if err := saveSession(cat, session); err != nil {
			return err
		}
		cmd.Printf("Remarks for %s saved.\n", sectionID)
		return nil
	},
}

var draftImageCmd = &cobra.Command{
	Use:   "image <section-id> <file>...",
	Short: "Attach images to a section",
	Long: `Attach one or more images to a section as data URIs. Image questions of that
section score full points once any image is attached. Only image counts are submitted.

Examples:
  storecheck draft image Sensory cup.jpg --checklist brew-league-am`,
	Args:    cobra.MinimumNArgs(2),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, session, err := loadSession()
		if err != nil {
			return err
		}
		if cat.Storage.Images == "" {
			return fmt.Errorf("checklist %s does not store images", cat.Type)
		}
		sectionID := args[0]
		if _, ok := cat.Section(sectionID); !ok {
			return fmt.Errorf("unknown section %q", sectionID)
		}
		for _, path := range args[1:] {
			uri, err := imageDataURI(path)
			if err != nil {
				return err
			}
			session.Images[sectionID] = append(session.Images[sectionID], uri)
		}
		if err := saveSession(cat, session); err != nil {
			return err
		}
		cmd.Printf("%s now has %d image(s).\n", sectionID, session.Images.Count(sectionID))
		return nil
	},
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the draft of the selected checklist",
	Long: `Delete the answers, metadata, remarks and images of the selected checklist.
Drafts of other checklists are kept.

Use --all to remove the whole draft store instead.
For SQLite and File: Deletes the file
For MySQL/PostgreSQL: Drops the draft table`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return configSetupWrapper(cmd, args)
		}
		return sharedSetupWrapper(cmd, args)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			path := iocache.GetDraftDBFilePath()
			if cfg.DraftBackend == schema.FileBackend {
				path = iocache.GetDraftJSONFilePath()
			}
			if cfg.DraftDBConnect != "" {
				path = cfg.DraftDBConnect
			}
			if err := iocache.ClearDrafts(cfg.DraftBackend, path, cfg.DraftDBConnect); err != nil {
				return fmt.Errorf("failed to clear drafts: %w", err)
			}
			cmd.Println("All drafts cleared successfully.")
			return nil
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		if err := iocache.ResetSession(iocache.Manager.GetDraftStore(), cat); err != nil {
			return err
		}
		cmd.Printf("Draft of %s cleared.\n", cat.Type)
		return nil
	},
}

var draftStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display draft store statistics and connection details",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := iocache.Manager.GetDraftStore().GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get draft status: %w", err)
		}
		iocache.PrintDraftStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

func init() {
	draftClearCmd.Flags().Bool("all", false, "Remove the whole draft store")
}

// draftEntries lists metadata fields followed by every question in catalog order.
func draftEntries(cat *schema.Catalog, s *iocache.Session) []schema.PayloadEntry {
	sel := s.Meta.Selection
	entries := []schema.PayloadEntry{
		{Key: schema.FieldTrainerID, Value: sel.TrainerID},
		{Key: schema.FieldTrainerName, Value: sel.TrainerName},
		{Key: schema.FieldAMID, Value: sel.AMID},
		{Key: schema.FieldAMName, Value: sel.AMName},
		{Key: schema.FieldStoreID, Value: sel.StoreID},
		{Key: schema.FieldStoreName, Value: sel.StoreName},
	}
	fields := make([]string, 0, len(s.Meta.Fields))
	for k := range s.Meta.Fields {
		fields = append(fields, k)
	}
	slices.Sort(fields)
	for _, k := range fields {
		entries = append(entries, schema.PayloadEntry{Key: k, Value: s.Meta.Fields[k]})
	}
	for _, sec := range cat.Sections {
		for _, item := range sec.Items {
			key := cat.ResponseKey(sec.ID, item.ID)
			entries = append(entries, schema.PayloadEntry{Key: key, Value: s.Responses[key]})
		}
		if r := s.Remarks[sec.ID]; r != "" {
			entries = append(entries, schema.PayloadEntry{Key: sec.ID + " remarks", Value: r})
		}
		if n := s.Images.Count(sec.ID); n > 0 {
			entries = append(entries, schema.PayloadEntry{Key: sec.ID + " images", Value: fmt.Sprint(n)})
		}
	}
	return entries
}

// imageDataURI reads an image file into a base64 data URI.
func imageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("image %s is larger than %d bytes", path, maxImageBytes)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (detected %s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
