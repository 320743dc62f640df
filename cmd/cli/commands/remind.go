package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattdrummond/netroster/pkg/reminder"
)

// RemindCmd creates the remind command, which runs the reminder daemon
// until interrupted
func RemindCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the NCS reminder daemon",
		Long: `Run the background loop that scans active rotations and emails NCS
operators 24 hours and 1 hour before their scheduled nets. Runs until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduler := reminder.New(app.Database, app.GmailClient, app.Logger, app.Cfg.SchedulerURL())
			if app.Cfg.ReminderIntervalMinutes > 0 {
				scheduler.SetInterval(time.Duration(app.Cfg.ReminderIntervalMinutes) * time.Minute)
			}

			scheduler.Start()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			fmt.Println("\nShutting down...")
			scheduler.Stop()

			return nil
		},
	}
}
