package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/storecheck/core"
	"github.com/huangsam/storecheck/internal/iocache"
	"github.com/huangsam/storecheck/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveCmd focused on the cascading Trainer -> AM -> Store selection.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Browse and select trainers, area managers and stores",
	Long: `Browse the store mapping and set the selection stored in the draft.

The selection cascades: choosing a trainer clears the area manager and store,
choosing an area manager clears the store, and choosing a store fills in its
area manager and first trainer from the mapping.

Requires: --mapping (file path or http(s) URL)

Subcommands:
  trainers - List every trainer in the mapping
  ams      - List area managers under the selected trainer
  stores   - List stores under the current selection
  hr       - List stores covered by an HR id
  select   - Update the selection in the draft

Examples:
  storecheck resolve stores --mapping stores.json --search kora
  storecheck resolve select --mapping stores.json --trainer T1 --store S002`,
}

var resolveTrainersCmd = &cobra.Command{
	Use:     "trainers",
	Short:   "List every trainer across all trainer slots",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		_, r, err := loadMapping(rootCtx)
		if err != nil {
			return err
		}
		return writer.WriteTrainers(r.Trainers(), cfg)
	},
}

var resolveAMsCmd = &cobra.Command{
	Use:     "ams",
	Short:   "List area managers under the selected trainer, busiest first",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		r, _, _, err := rehydratedResolver()
		if err != nil {
			return err
		}
		return writer.WriteAreaManagers(r.AreaManagers(), cfg)
	},
}

var resolveStoresCmd = &cobra.Command{
	Use:     "stores",
	Short:   "List stores under the current selection",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		r, _, _, err := rehydratedResolver()
		if err != nil {
			return err
		}
		return writer.WriteStores(r.Stores(viper.GetString("search")), cfg)
	},
}

var resolveHRCmd = &cobra.Command{
	Use:     "hr <hr-id>",
	Short:   "List stores where the id is an HRBP, regional HR or HR head",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		_, r, err := loadMapping(rootCtx)
		if err != nil {
			return err
		}
		return writer.WriteStores(r.StoresForHR(args[0]), cfg)
	},
}

var resolveSelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Set the trainer, area manager or store of the draft",
	Long: `Apply cascade writes to the draft selection, in order: trainer, area manager, store.
An empty value clears that level and everything below it. A store can be given by id,
by number (7 finds S007) or by part of its name.

Examples:
  storecheck resolve select --trainer T1
  storecheck resolve select --am AM2
  storecheck resolve select --store 12`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, cat, session, err := rehydratedResolver()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("trainer") {
			id, _ := flags.GetString("trainer")
			r.SetTrainer(id)
		}
		if flags.Changed("am") {
			id, _ := flags.GetString("am")
			if err := r.SetAM(id); err != nil {
				if errors.Is(err, core.ErrNotCandidate) {
					return fmt.Errorf("%w (run 'storecheck resolve ams' for candidates)", err)
				}
				return err
			}
		}
		if flags.Changed("store") {
			query, _ := flags.GetString("store")
			id := query
			if rec, ok := r.LookupStore(query); ok {
				id = rec.StoreID
			}
			if !r.SelectStore(id) {
				return fmt.Errorf("store %q not found in the store mapping", query)
			}
		}

		session.Meta.Selection = r.State()
		if err := saveSession(cat, session); err != nil {
			return err
		}
		printSelection(cmd, session.Meta.Selection)
		return nil
	},
}

func init() {
	resolveSelectCmd.Flags().String("trainer", "", "Trainer id")
	resolveSelectCmd.Flags().String("am", "", "Area manager id")
	resolveSelectCmd.Flags().String("store", "", "Store id, number or name")
}

// rehydratedResolver loads the mapping and applies the selection persisted in the draft.
func rehydratedResolver() (*core.Resolver, *schema.Catalog, *iocache.Session, error) {
	_, r, err := loadMapping(rootCtx)
	if err != nil {
		return nil, nil, nil, err
	}
	cat, session, err := loadSession()
	if err != nil {
		return nil, nil, nil, err
	}
	r.Rehydrate(session.Meta.Selection)
	return r, cat, session, nil
}

func printSelection(cmd *cobra.Command, sel schema.SelectionState) {
	cmd.Printf("Trainer: %s\n", describe(sel.TrainerID, sel.TrainerName))
	cmd.Printf("Area Manager: %s\n", describe(sel.AMID, sel.AMName))
	cmd.Printf("Store: %s\n", describe(sel.StoreID, sel.StoreName))
	if sel.Region != "" {
		cmd.Printf("Region: %s\n", sel.Region)
	}
}

func describe(id, name string) string {
	switch {
	case id == "":
		return "-"
	case name == "":
		return id
	default:
		return fmt.Sprintf("%s (%s)", name, id)
	}
}
