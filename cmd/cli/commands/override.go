package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattdrummond/netroster/pkg/core/services"
)

const overrideDateLayout = "2006-01-02T15:04"

// OverrideCmd creates the override command group
func OverrideCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override",
		Short: "Manage date-specific swaps and cancellations",
	}

	cmd.AddCommand(setOverrideCmd(app))
	cmd.AddCommand(deleteOverrideCmd(app))
	cmd.AddCommand(listOverridesCmd(app))

	return cmd
}

func setOverrideCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <template_id> <scheduled_date>",
		Short: "Swap or cancel one occurrence (date format 2006-01-02T15:04)",
		Long: `Swap the assigned NCS for one occurrence, or cancel the net on that date.
Without --replacement the net is cancelled and notices go out to the
scheduled NCS and all subscribers.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduledDate, err := time.ParseInLocation(overrideDateLayout, args[1], time.Local)
			if err != nil {
				return fmt.Errorf("invalid scheduled date %q: %w", args[1], err)
			}

			replacement, _ := cmd.Flags().GetString("replacement")
			reason, _ := cmd.Flags().GetString("reason")
			actor, _ := cmd.Flags().GetString("actor")

			if err := services.EnsureCanManage(app.Ctx, app.Database, actor, args[0]); err != nil {
				return err
			}

			req := services.OverrideRequest{
				ScheduledDate: scheduledDate,
				Reason:        reason,
				CreatedByID:   actor,
			}
			if replacement != "" {
				req.ReplacementUserID = &replacement
			}

			override, err := services.CreateOrUpdateOverride(
				app.Ctx, app.Database, app.GmailClient, app.Logger,
				args[0], req, app.Cfg.SchedulerURL())
			if err != nil {
				return err
			}

			if override.ReplacementUserID == nil {
				fmt.Printf("Net cancelled on %s\n", scheduledDate.Format(overrideDateLayout))
			} else {
				fmt.Printf("NCS swapped on %s\n", scheduledDate.Format(overrideDateLayout))
			}
			return nil
		},
	}

	cmd.Flags().String("replacement", "", "Replacement user id (omit to cancel the net)")
	cmd.Flags().String("reason", "", "Reason shown on the schedule and in notices")
	addActorFlag(cmd)

	return cmd
}

func deleteOverrideCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <template_id> <override_id>",
		Short: "Delete an override, reverting to the base rotation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, _ := cmd.Flags().GetString("actor")
			if err := services.EnsureCanManage(app.Ctx, app.Database, actor, args[0]); err != nil {
				return err
			}

			if err := services.DeleteOverride(app.Ctx, app.Database, app.Logger, args[0], args[1]); err != nil {
				return err
			}

			fmt.Println("Override deleted.")
			return nil
		},
	}

	addActorFlag(cmd)
	return cmd
}

func listOverridesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <template_id>",
		Short: "List all overrides for a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := services.ListOverrides(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			if len(overrides) == 0 {
				fmt.Println("No overrides.")
				return nil
			}

			fmt.Printf("\n%d override(s):\n\n", len(overrides))
			for _, o := range overrides {
				date := o.ScheduledDate.Format(overrideDateLayout)
				if o.ReplacementUserID == nil {
					fmt.Printf("  %s  CANCELLED  %s  (%s)\n", date, o.Reason, o.ID)
				} else {
					fmt.Printf("  %s  -> %s %s  %s  (%s)\n", date, o.ReplacementName, o.ReplacementCallsign, o.Reason, o.ID)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
