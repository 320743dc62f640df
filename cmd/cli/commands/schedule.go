package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattdrummond/netroster/pkg/core/roster"
	"github.com/mattdrummond/netroster/pkg/core/services"
)

// ScheduleCmd creates the schedule command
func ScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <template_id>",
		Short: "Show the computed NCS schedule for a net template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			months, _ := cmd.Flags().GetInt("months")

			result, err := services.GetSchedule(app.Ctx, app.Database, app.Logger, args[0], months)
			if err != nil {
				return err
			}

			if len(result.Schedule) == 0 {
				fmt.Println("No scheduled nets in range.")
				return nil
			}

			fmt.Printf("\nSchedule for the next %d month(s):\n\n", months)
			for _, entry := range result.Schedule {
				fmt.Println(formatEntry(entry))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("months", 6, "How many months ahead to compute")

	return cmd
}

// NextCmd creates the next command
func NextCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next <template_id>",
		Short: "Show who has NCS duty for the next scheduled net",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := services.GetNext(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			if entry == nil {
				fmt.Println("No upcoming nets scheduled.")
				return nil
			}

			fmt.Println(formatEntry(*entry))
			return nil
		},
	}
}

func formatEntry(entry roster.Entry) string {
	date := entry.Date.Format("2006-01-02 15:04 (Mon)")

	switch {
	case entry.IsCancelled:
		reason := entry.OverrideReason
		if reason == "" {
			reason = "no reason given"
		}
		return fmt.Sprintf("  %s  CANCELLED (%s)", date, reason)
	case entry.UserID == nil:
		return fmt.Sprintf("  %s  (unassigned)", date)
	default:
		who := entry.UserName
		if entry.UserCallsign != "" {
			who += " " + entry.UserCallsign
		}
		if entry.IsOverride {
			return fmt.Sprintf("  %s  %s  [swap: %s]", date, who, entry.OverrideReason)
		}
		return fmt.Sprintf("  %s  %s", date, who)
	}
}
