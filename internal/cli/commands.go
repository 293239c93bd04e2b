package cli

import (
	"fmt"
	"strconv"
	"strings"

	fridgedomain "fridge-app-go/internal/domain/fridge"
	"github.com/spf13/cobra"
)

func newMeCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current user, creating one on first run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := s.service.GetCurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			return s.printUser(cmd, *user)
		},
	}
}

func newLoginCommand(s *session) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login <user-id> <name>",
		Short: "Switch the current user on this device",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			user := fridgedomain.User{ID: id, Name: args[1]}
			if email = strings.TrimSpace(email); email != "" {
				user.Email = &email
			}
			result, err := s.service.SetCurrentUser(cmd.Context(), user)
			if err != nil {
				return err
			}
			return s.printUser(cmd, *result)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address stored in the profile")
	return cmd
}

func newCreateCommand(s *session) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a refrigerator owned by the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}
			fridge, err := s.service.CreateFridge(cmd.Context(), args[0], desc)
			if err != nil {
				return err
			}
			return s.printFridge(cmd, *fridge)
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "optional description")
	return cmd
}

func newJoinCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "join <invite-code>",
		Short: "Join a refrigerator with its invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fridge, err := s.service.JoinFridge(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.printFridge(cmd, *fridge)
		},
	}
}

func newLeaveCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <fridge-id>",
		Short: "Leave a refrigerator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "fridge id")
			if err != nil {
				return err
			}
			if err := s.service.LeaveFridge(cmd.Context(), id); err != nil {
				return err
			}
			if s.output == "json" {
				return writeJSON(out(cmd), map[string]int{"left": id})
			}
			fmt.Fprintf(out(cmd), "Left refrigerator %d\n", id)
			return nil
		},
	}
}

func newListCommand(s *session) *cobra.Command {
	var userID int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the refrigerators a user belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				user, err := s.service.GetCurrentUser(cmd.Context())
				if err != nil {
					return err
				}
				userID = user.ID
			}
			fridges, err := s.service.GetUserFridges(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return s.printUserFridges(cmd, fridges)
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "user id (defaults to the current user)")
	return cmd
}

func newShowCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <fridge-id|invite-code>",
		Short: "Show one refrigerator by id or invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				fridge *fridgedomain.Refrigerator
				err    error
			)
			if id, convErr := strconv.Atoi(args[0]); convErr == nil {
				fridge, err = s.service.GetFridgeByID(cmd.Context(), id)
			} else {
				fridge, err = s.service.GetFridgeByInviteCode(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if fridge == nil {
				return fridgedomain.ErrFridgeNotFound
			}
			return s.printFridge(cmd, *fridge)
		},
	}
}

func newMembersCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "members <fridge-id>",
		Short: "List the active members of a refrigerator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "fridge id")
			if err != nil {
				return err
			}
			members, err := s.service.ListMembers(cmd.Context(), id)
			if err != nil {
				return err
			}
			return s.printMembers(cmd, members)
		},
	}
}

func newResetCommand(s *session) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all refrigerators, memberships and profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all membership data; pass --yes to confirm")
			}
			if err := s.service.ResetAllData(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "All membership data removed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func parseID(value, name string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return id, nil
}
