package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattdrummond/netroster/pkg/core/services"
)

// MembersCmd creates the members command group
func MembersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage a template's NCS rotation members",
	}

	cmd.AddCommand(listMembersCmd(app))
	cmd.AddCommand(addMemberCmd(app))
	cmd.AddCommand(removeMemberCmd(app))
	cmd.AddCommand(reorderMembersCmd(app))

	return cmd
}

func listMembersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <template_id>",
		Short: "List the rotation in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := services.ListMembers(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			if len(members) == 0 {
				fmt.Println("No rotation members.")
				return nil
			}

			fmt.Printf("\n%d rotation member(s):\n\n", len(members))
			for _, m := range members {
				status := ""
				if !m.IsActive {
					status = " (inactive)"
				}
				fmt.Printf("  %2d. %s %s (%s)%s\n", m.Position, m.UserName, m.UserCallsign, m.ID, status)
			}
			fmt.Println()

			return nil
		},
	}
}

func addMemberCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <template_id> <user_id>",
		Short: "Append a user to the end of the rotation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, _ := cmd.Flags().GetString("actor")
			if err := services.EnsureCanManage(app.Ctx, app.Database, actor, args[0]); err != nil {
				return err
			}

			member, err := services.AddMember(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("Added %s %s at position %d\n", member.UserName, member.UserCallsign, member.Position)
			return nil
		},
	}

	addActorFlag(cmd)
	return cmd
}

func removeMemberCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <template_id> <member_id>",
		Short: "Remove a member from the rotation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, _ := cmd.Flags().GetString("actor")
			if err := services.EnsureCanManage(app.Ctx, app.Database, actor, args[0]); err != nil {
				return err
			}

			if err := services.RemoveMember(app.Ctx, app.Database, app.Logger, args[0], args[1]); err != nil {
				return err
			}

			fmt.Println("Member removed.")
			return nil
		},
	}

	addActorFlag(cmd)
	return cmd
}

func reorderMembersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder <template_id> <member_id>...",
		Short: "Reassign rotation positions following the given member order",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, _ := cmd.Flags().GetString("actor")
			if err := services.EnsureCanManage(app.Ctx, app.Database, actor, args[0]); err != nil {
				return err
			}

			members, err := services.ReorderMembers(app.Ctx, app.Database, app.Logger, args[0], args[1:])
			if err != nil {
				return err
			}

			fmt.Println("\nNew rotation order:")
			for _, m := range members {
				fmt.Printf("  %2d. %s %s\n", m.Position, m.UserName, m.UserCallsign)
			}
			fmt.Println()

			return nil
		},
	}

	addActorFlag(cmd)
	return cmd
}

// addActorFlag attaches the required acting-user flag shared by every
// mutating command
func addActorFlag(cmd *cobra.Command) {
	cmd.Flags().String("actor", "", "User id performing the change")
	cmd.MarkFlagRequired("actor")
}
