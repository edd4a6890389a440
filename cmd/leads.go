package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/sme-crm/internal/lead"
)

var (
	leadsSeed     string
	leadsCategory string
	leadsStatus   string
	leadsJSON     bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect the lead list",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads, optionally filtered by category or status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("leads"); err != nil {
			return err
		}
		store, err := initStore(seedPathFlag(leadsSeed, cfg))
		if err != nil {
			return err
		}

		leads := store.Find(lead.ListOpts{
			Category: lead.Category(leadsCategory),
			Status:   lead.Status(leadsStatus),
		})
		if leadsJSON {
			return writeIndentedJSON(os.Stdout, leads)
		}
		formatLeads(os.Stdout, leads)
		return nil
	},
}

var leadsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pipeline totals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("leads"); err != nil {
			return err
		}
		store, err := initStore(seedPathFlag(leadsSeed, cfg))
		if err != nil {
			return err
		}

		sum := store.Summary(lead.SummaryOpts{ConversionRate: cfg.Stats.ConversionRate})
		if leadsJSON {
			return writeIndentedJSON(os.Stdout, sum)
		}
		formatSummary(os.Stdout, sum)
		return nil
	},
}

func init() {
	leadsCmd.PersistentFlags().StringVar(&leadsSeed, "seed", "", "YAML lead seed file (default from config)")
	leadsCmd.PersistentFlags().BoolVar(&leadsJSON, "json", false, "print JSON")
	leadsListCmd.Flags().StringVar(&leadsCategory, "category", "", "only leads in this category")
	leadsListCmd.Flags().StringVar(&leadsStatus, "status", "", "only leads with this status")
	leadsCmd.AddCommand(leadsListCmd, leadsStatsCmd)
	rootCmd.AddCommand(leadsCmd)
}

func writeIndentedJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatLeads(out io.Writer, leads []lead.Lead) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSTATUS\tRATING\tLAST CONTACT")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t------\t------\t------------")

	for _, l := range leads {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\t%s\n",
			l.ID,
			truncate(l.Name, 40),
			l.Category,
			l.Status,
			l.Rating,
			l.LastContact,
		)
	}
	_ = w.Flush()
}

func formatSummary(out io.Writer, sum lead.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total leads\t%d\n", sum.Total)
	for _, s := range lead.Statuses() {
		_, _ = fmt.Fprintf(w, "  %s\t%d\n", s, sum.ByStatus[s])
	}
	_, _ = fmt.Fprintf(w, "Qualified\t%d\n", sum.Qualified)
	_, _ = fmt.Fprintf(w, "New this period\t%d\n", sum.NewThisPeriod)
	if sum.ConversionRate != nil {
		_, _ = fmt.Fprintf(w, "Conversion rate\t%.1f%%\n", *sum.ConversionRate*100)
	} else {
		_, _ = fmt.Fprintln(w, "Conversion rate\tnot tracked")
	}
	_ = w.Flush()
}
