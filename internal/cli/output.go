package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	fridgedomain "fridge-app-go/internal/domain/fridge"
	"github.com/spf13/cobra"
)

func writeJSON(w io.Writer, payload interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func (s *session) printUser(cmd *cobra.Command, user fridgedomain.User) error {
	if s.output == "json" {
		return writeJSON(out(cmd), user)
	}
	fmt.Fprintf(out(cmd), "User %d: %s\n", user.ID, user.Name)
	if user.Email != nil {
		fmt.Fprintf(out(cmd), "Email: %s\n", *user.Email)
	}
	return nil
}

func (s *session) printFridge(cmd *cobra.Command, fridge fridgedomain.Refrigerator) error {
	if s.output == "json" {
		return writeJSON(out(cmd), fridge)
	}
	w := out(cmd)
	fmt.Fprintf(w, "Refrigerator %d: %s\n", fridge.ID, fridge.Name)
	if fridge.Description != nil {
		fmt.Fprintf(w, "Description: %s\n", *fridge.Description)
	}
	fmt.Fprintf(w, "Owner: %d\n", fridge.OwnerID)
	fmt.Fprintf(w, "Invite code: %s\n", fridge.InviteCode)
	fmt.Fprintf(w, "Members: %d\n", fridge.MemberCount)
	return nil
}

func (s *session) printUserFridges(cmd *cobra.Command, fridges []fridgedomain.UserFridge) error {
	if s.output == "json" {
		return writeJSON(out(cmd), fridges)
	}
	if len(fridges) == 0 {
		fmt.Fprintln(out(cmd), "No refrigerators")
		return nil
	}
	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tROLE\tMEMBERS\tCODE\tJOINED")
	for _, item := range fridges {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			item.Fridge.ID, item.Fridge.Name, item.Role, item.Fridge.MemberCount,
			item.Fridge.InviteCode, item.JoinedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}

func (s *session) printMembers(cmd *cobra.Command, members []fridgedomain.Member) error {
	if s.output == "json" {
		return writeJSON(out(cmd), members)
	}
	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tROLE\tJOINED")
	for _, m := range members {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.User.ID, m.User.Name, m.Role, m.JoinedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}
