package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"remedia/internal/bootstrap"
	"remedia/internal/bootstrap/logging"
	"remedia/internal/domain/lifecycle"
	"remedia/internal/errs"
	"remedia/internal/ports"
	"remedia/internal/usecase/transition"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue (compliance finding) lifecycle commands",
}

var issueTransitionsCmd = &cobra.Command{
	Use:   "transitions <status>",
	Short: "Print statuses reachable from the given Issue status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := lifecycle.IssueStatus(strings.ToUpper(strings.TrimSpace(args[0])))
		next := lifecycle.IssueTransitions(status)
		if len(next) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "(none)")
			return errs.Wrap(err, "write transitions output")
		}
		for _, s := range next {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
				return errs.Wrap(err, "write transitions output")
			}
		}
		return nil
	},
}

var issueStatusCmd = &cobra.Command{
	Use:   "status <issue-id>",
	Short: "Transition an Issue to a new status",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("tenant")
		target, _ := cmd.Flags().GetString("to")
		reason, _ := cmd.Flags().GetString("reason")
		userID, _ := cmd.Flags().GetString("user")

		updated, err := svcs.Transition.UpdateIssueStatus(ctx, tenantID, cmd.Flags().Arg(0), transition.StatusChangeInput{
			Status: target,
			Reason: reason,
		}, userID)
		if err != nil {
			return err
		}

		logging.Info(ctx, "issue status updated",
			slog.String("issue_id", updated.IssueID),
			slog.String("status", string(updated.Status)),
		)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "issue %s -> %s\n", updated.IssueID, updated.Status); err != nil {
			return errs.Wrap(err, "write status output")
		}
		return nil
	}),
}

var issueHistoryCmd = &cobra.Command{
	Use:   "history <issue-id>",
	Short: "Print the status audit trail of an Issue, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("tenant")

		rows, err := svcs.Transition.StatusHistory(ctx, tenantID, ports.EntityTypeIssue, cmd.Flags().Arg(0))
		if err != nil {
			return err
		}
		return printHistory(cmd, rows)
	}),
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.AddCommand(issueTransitionsCmd)
	issueCmd.AddCommand(issueStatusCmd)
	issueCmd.AddCommand(issueHistoryCmd)

	issueStatusCmd.Flags().String("tenant", "", "Tenant identifier")
	issueStatusCmd.Flags().String("to", "", "Target status")
	issueStatusCmd.Flags().String("reason", "", "Optional change reason")
	issueStatusCmd.Flags().String("user", "", "Acting user identifier")
	_ = issueStatusCmd.MarkFlagRequired("tenant")
	_ = issueStatusCmd.MarkFlagRequired("to")
	_ = issueStatusCmd.MarkFlagRequired("user")

	issueHistoryCmd.Flags().String("tenant", "", "Tenant identifier")
	_ = issueHistoryCmd.MarkFlagRequired("tenant")
}
