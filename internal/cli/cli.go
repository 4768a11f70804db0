package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/invitegen/internal/browser"
	"github.com/pfrederiksen/invitegen/internal/calendar"
	"github.com/pfrederiksen/invitegen/internal/config"
	"github.com/pfrederiksen/invitegen/internal/driver"
	"github.com/pfrederiksen/invitegen/internal/extract"
	"github.com/pfrederiksen/invitegen/internal/formspec"
	"github.com/pfrederiksen/invitegen/internal/logger"
	"github.com/pfrederiksen/invitegen/internal/mapper"
	"github.com/pfrederiksen/invitegen/internal/notifier"
	"github.com/pfrederiksen/invitegen/internal/schema"
	"github.com/pfrederiksen/invitegen/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitWarnings = 2
)

var (
	flagConfig     string
	flagTZ         string
	flagDuration   time.Duration
	flagCoverImage string
	flagDryRun     bool
	flagHeadless   bool
	flagProfileDir string
	flagSelectors  string
	flagDataDir    string
	flagFormat     string
	flagICS        string
	flagAnnounce   bool
	flagNoHold     bool
	flagVerbose    bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invitegen [text]",
		Short: "Turn a plain-text event description into a draft invite",
		Long: `Parses a free-text event description into a structured event, opens the
event site's creation form in a browser, and fills it in. The draft is
left open for review; publishing is always a manual human action.`,
		Args: cobra.ArbitraryArgs,
		RunE: runPipeline,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to JSON config file")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flagTZ, "tz", "", "Default IANA timezone when the text has no cue")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for run history")

	cmd.Flags().DurationVar(&flagDuration, "duration", 0, "Default event duration when no end time is given")
	cmd.Flags().StringVar(&flagCoverImage, "cover-image", "", "Path to a local cover image to upload")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the planned actions without opening a browser")
	cmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run the browser without a window")
	cmd.Flags().StringVar(&flagProfileDir, "profile-dir", "", "Browser profile directory (keeps logins across runs)")
	cmd.Flags().StringVar(&flagSelectors, "selectors", "", "JSON file overriding the built-in form selectors")
	cmd.Flags().StringVar(&flagICS, "ics", "", "Also write an .ics calendar file to this path")
	cmd.Flags().BoolVar(&flagAnnounce, "announce", false, "Offer to tweet the invite after you publish it")
	cmd.Flags().BoolVar(&flagNoHold, "no-hold", false, "Do not wait for Enter before closing the browser")

	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newAuditCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// loadConfig merges the config file/env with command flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagTZ != "" {
		cfg.DefaultTimezone = flagTZ
	}
	if flagDuration > 0 {
		cfg.DefaultDuration = flagDuration
	}
	if flagHeadless {
		cfg.Headless = true
	}
	if flagProfileDir != "" {
		cfg.ProfileDir = flagProfileDir
	}
	if flagSelectors != "" {
		cfg.SelectorsFile = flagSelectors
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	return cfg, nil
}

func setupLogger() {
	level := logger.LevelWarn
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))
}

// inputText joins the positional args, or reads stdin when there are none.
func inputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		var b strings.Builder
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			b.WriteString(scanner.Text())
			b.WriteString("\n")
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("no event text given (pass it as arguments or on stdin)")
}

// runPipeline is the root command: extract, plan, fill, report.
func runPipeline(cmd *cobra.Command, args []string) error {
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

	if flagCoverImage != "" {
		if _, err := os.Stat(flagCoverImage); err != nil {
			return fmt.Errorf("cover image: %w", err)
		}
		evt.CoverImagePath = flagCoverImage
	}

	if format == FormatText {
		fmt.Printf("Parsed: %s\n\n", evt.Human())
	}

	actions := mapper.Plan(evt)

	if flagICS != "" {
		if err := os.WriteFile(flagICS, []byte(calendar.GenerateICS(evt)), 0644); err != nil {
			return fmt.Errorf("writing ics file: %w", err)
		}
		if format == FormatText {
			fmt.Printf("Wrote calendar file: %s\n", flagICS)
		}
	}

	if flagDryRun {
		return WriteDryRun(os.Stdout, evt, actions, format)
	}

	forms := formspec.Defaults()
	if cfg.SelectorsFile != "" {
		forms, err = formspec.Load(cfg.SelectorsFile)
		if err != nil {
			return err
		}
	}

	session, err := browser.Launch(browser.Options{
		Headless:   cfg.Headless,
		ProfileDir: cfg.ProfileDir,
	})
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	defer session.Close()

	drvCfg := driver.DefaultConfig()
	if cfg.Retry != nil {
		drvCfg.Retry = *cfg.Retry
	}
	drv, err := driver.New(session, forms, drvCfg, logger.Default())
	if err != nil {
		return err
	}

	report, err := drv.Run(actions)
	if err != nil {
		return err
	}

	if err := WriteReport(os.Stdout, evt, report, format); err != nil {
		return err
	}

	if store, err := storage.New(cfg.DataDir); err == nil {
		if err := store.SaveRun(evt.Human(), report); err != nil {
			logger.Warn("saving run history", logger.Fields{"error": err.Error()})
		}
	} else {
		logger.Warn("opening run history", logger.Fields{"error": err.Error()})
	}

	if !flagNoHold {
		holdForReview(os.Stdin, os.Stdout, evt)
	}

	if report.State == driver.StateReviewWithWarnings {
		_ = session.Close()
		os.Exit(ExitWarnings)
	}
	return nil
}

// holdForReview keeps the browser open until the host finishes reviewing,
// then optionally announces the published invite.
func holdForReview(in *os.File, out *os.File, evt *schema.Event) {
	fmt.Fprintln(out, "\nBrowser left open for review. Publish manually when ready.")
	fmt.Fprint(out, "Press Enter to close the browser... ")

	reader := bufio.NewReader(in)
	_, _ = reader.ReadString('\n')

	if !flagAnnounce {
		return
	}

	fmt.Fprint(out, "Did you publish? Paste the invite URL to announce it (empty to skip): ")
	line, _ := reader.ReadString('\n')
	inviteURL := strings.TrimSpace(line)
	if inviteURL == "" {
		return
	}

	n, err := notifier.NewTwitterNotifier()
	if err != nil {
		fmt.Fprintf(out, "Announce skipped: %v\n", err)
		fmt.Fprintln(out, "Dry run instead:")
		_ = notifier.NewDryRunNotifier(out).Announce(evt, inviteURL)
		return
	}
	if err := n.Announce(evt, inviteURL); err != nil {
		fmt.Fprintf(out, "Announce failed: %v\n", err)
		return
	}
	fmt.Fprintln(out, "Announced.")
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
