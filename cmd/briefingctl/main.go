package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/traininggrounds/internal/briefing"
	"github.com/2beens/traininggrounds/pkg"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var version = "dev"

func main() {
	if err := newRootCmd(clockwork.NewRealClock()).Execute(); err != nil {
		os.Exit(1)
	}
}

type selectOptions struct {
	reportsPath  string
	workoutsPath string
	now          string
	output       string
}

func newRootCmd(clock clockwork.Clock) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "briefingctl",
		Short:        "Inspect briefing card decisions",
		Long:         "briefingctl runs the briefing insight source selection over local reports and workouts files.",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newSelectCmd(clock))
	return rootCmd
}

func newSelectCmd(clock clockwork.Clock) *cobra.Command {
	opts := &selectOptions{}
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select the insight source for the briefing card",
		Example: `  briefingctl select --reports reports.json --workouts workouts.yaml --now 2024-01-09
  briefingctl select --workouts workouts.json --output text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd.OutOrStdout(), clock, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.reportsPath, "reports", "r", "", "JSON or YAML file with weekly reports, most recent first")
	cmd.Flags().StringVarP(&opts.workoutsPath, "workouts", "w", "", "JSON or YAML file with workouts, most recent first")
	cmd.Flags().StringVar(&opts.now, "now", "", "evaluation time, RFC3339 or YYYY-MM-DD (default: current time)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "json", "output format: json, yaml or text")
	return cmd
}

func runSelect(out io.Writer, clock clockwork.Clock, opts *selectOptions) error {
	now := clock.Now()
	if opts.now != "" {
		parsed, ok := pkg.ParseDate(opts.now)
		if !ok {
			return fmt.Errorf("invalid --now value: %s", opts.now)
		}
		now = parsed
	}

	reports, err := loadReports(opts.reportsPath)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}
	workouts, err := loadWorkouts(opts.workoutsPath)
	if err != nil {
		return fmt.Errorf("load workouts: %w", err)
	}

	card := briefing.Compose(reports, workouts, now)
	return writeCard(out, card, opts.output, now)
}

func writeCard(out io.Writer, card briefing.Card, format string, now time.Time) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(card)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(card); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		_, err := io.WriteString(out, cardText(card, now))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func cardText(card briefing.Card, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "kind:    %s\n", card.Kind)
	fmt.Fprintf(&sb, "warning: %t\n", card.Warning)
	if r := card.Report; r != nil {
		age := "unknown"
		if days, known := briefing.AgeDays(r, now); known {
			age = fmt.Sprintf("%dd", days)
		}
		fmt.Fprintf(&sb, "report:  %s (age %s)\n", r.WeekID, age)
		fmt.Fprintf(&sb, "  top priority: %s\n", r.TopPriority())
		for _, win := range r.QuickWins() {
			fmt.Fprintf(&sb, "  quick win:    %s\n", win)
		}
	}
	if w := card.Workout; w != nil {
		name := w.WorkoutName
		if name == "" {
			name = w.WorkoutID
		}
		fmt.Fprintf(&sb, "workout: %s\n", name)
		fmt.Fprintf(&sb, "  summary: %s\n", strings.TrimSpace(w.Summary))
	}
	if !card.Render() {
		sb.WriteString("nothing to show\n")
	}
	return sb.String()
}
