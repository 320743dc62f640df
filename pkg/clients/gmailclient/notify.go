package gmailclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattdrummond/netroster/pkg/core/services"
	"github.com/mattdrummond/netroster/pkg/reminder"
)

// SendDutyReminder emails an operator ahead of their scheduled NCS duty
func (c *Client) SendDutyReminder(ctx context.Context, r reminder.DutyReminder) error {
	var lead string
	if r.HoursUntil == 1 {
		lead = "in about an hour"
	} else {
		lead = fmt.Sprintf("in %d hours", r.HoursUntil)
	}

	subject := fmt.Sprintf("NCS Reminder: %s %s", r.NetName, lead)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", r.Name)
	fmt.Fprintf(&b, "You are scheduled as Net Control Station for %s.\n\n", r.NetName)
	fmt.Fprintf(&b, "Date: %s\n", r.NetDate)
	fmt.Fprintf(&b, "Time: %s\n", r.NetTime)
	if len(r.Channels) > 0 {
		fmt.Fprintf(&b, "Frequencies: %s\n", strings.Join(r.Channels, ", "))
	}
	if r.SchedulerURL != "" {
		fmt.Fprintf(&b, "\nView the full schedule or arrange a swap:\n%s\n", r.SchedulerURL)
	}
	fmt.Fprintf(&b, "\n73\n")

	return c.SendEmail(r.Email, subject, b.String())
}

// SendNetCancellation emails a cancellation notice to the scheduled NCS or
// a subscriber
func (c *Client) SendNetCancellation(ctx context.Context, n services.CancellationNotice) error {
	subject := fmt.Sprintf("Net Cancelled: %s on %s", n.NetName, n.NetDate)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", n.Name)
	if n.IsNCS {
		fmt.Fprintf(&b, "Your NCS duty for %s has been cancelled.\n\n", n.NetName)
	} else {
		fmt.Fprintf(&b, "%s has been cancelled.\n\n", n.NetName)
	}
	fmt.Fprintf(&b, "Date: %s\n", n.NetDate)
	fmt.Fprintf(&b, "Time: %s\n", n.NetTime)
	if n.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", n.Reason)
	}
	if n.SchedulerURL != "" {
		fmt.Fprintf(&b, "\nView the schedule:\n%s\n", n.SchedulerURL)
	}
	fmt.Fprintf(&b, "\n73\n")

	return c.SendEmail(n.Email, subject, b.String())
}
