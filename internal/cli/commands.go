package cli

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/invitegen/internal/extract"
	"github.com/pfrederiksen/invitegen/internal/formspec"
	"github.com/pfrederiksen/invitegen/internal/storage"
	"github.com/spf13/cobra"
)

// newExtractCmd parses text into an event without touching a browser.
func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [text]",
		Short: "Parse event text and print the structured event",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger()

			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			text, err := inputText(args)
			if err != nil {
				return err
			}

			evt, err := extract.Extract(text, extract.Options{
				DefaultTimezone: cfg.DefaultTimezone,
				DefaultDuration: cfg.DefaultDuration,
			})
			if err != nil {
				return writeExtractError(os.Stdout, err, format)
			}
			return WriteEvent(os.Stdout, evt, format)
		},
	}
}

// newAuditCmd checks the active selectors against the live creation page or
// a saved HTML copy.
func newAuditCmd() *cobra.Command {
	var auditURL, auditFile string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check form selectors against the creation page",
		Long: `Fetches the creation page (or reads a saved HTML copy) and reports how
many elements each configured selector matches, so markup drift shows up
before a run fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger()

			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			forms := formspec.Defaults()
			if cfg.SelectorsFile != "" {
				forms, err = formspec.Load(cfg.SelectorsFile)
				if err != nil {
					return err
				}
			}

			var results []formspec.AuditResult
			switch {
			case auditFile != "":
				f, err := os.Open(auditFile)
				if err != nil {
					return fmt.Errorf("opening html file: %w", err)
				}
				defer f.Close()
				results, err = formspec.Audit(f, forms)
				if err != nil {
					return err
				}
			default:
				target := auditURL
				if target == "" {
					target = forms.CreateURLs[0]
				}
				results, err = formspec.AuditURL(target, forms)
				if err != nil {
					return err
				}
			}
			return WriteAudit(os.Stdout, results, format)
		},
	}

	cmd.Flags().StringVar(&auditURL, "url", "", "Page URL to audit (default: first create URL)")
	cmd.Flags().StringVar(&auditFile, "file", "", "Audit a saved HTML file instead of fetching")
	return cmd
}

// newHistoryCmd lists past runs.
func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past draft runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger()

			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return err
			}
			records, err := store.Recent(limit)
			if err != nil {
				return err
			}
			return WriteHistory(os.Stdout, records, format)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show")
	return cmd
}
