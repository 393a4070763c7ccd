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

var capaCmd = &cobra.Command{
	Use:   "capa",
	Short: "CAPA lifecycle commands",
}

var capaTransitionsCmd = &cobra.Command{
	Use:   "transitions <status>",
	Short: "Print statuses reachable from the given CAPA status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := lifecycle.CapaStatus(strings.ToUpper(strings.TrimSpace(args[0])))
		next := lifecycle.CapaTransitions(status)
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

var capaStatusCmd = &cobra.Command{
	Use:   "status <capa-id>",
	Short: "Transition a CAPA to a new status",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("tenant")
		target, _ := cmd.Flags().GetString("to")
		reason, _ := cmd.Flags().GetString("reason")
		userID, _ := cmd.Flags().GetString("user")

		updated, err := svcs.Transition.UpdateCapaStatus(ctx, tenantID, cmd.Flags().Arg(0), transition.StatusChangeInput{
			Status: target,
			Reason: reason,
		}, userID)
		if err != nil {
			return err
		}

		logging.Info(ctx, "capa status updated",
			slog.String("capa_id", updated.CapaID),
			slog.String("status", string(updated.Status)),
		)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "capa %s -> %s\n", updated.CapaID, updated.Status); err != nil {
			return errs.Wrap(err, "write status output")
		}
		return nil
	}),
}

var capaCascadeCmd = &cobra.Command{
	Use:   "cascade <capa-id>",
	Short: "Close a CAPA if all of its tasks are terminal",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("tenant")
		userID, _ := cmd.Flags().GetString("user")

		updated, err := svcs.Transition.CheckAndCascadeCapaClose(ctx, tenantID, cmd.Flags().Arg(0), userID)
		if err != nil {
			return err
		}
		if updated == nil {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "cascade not applicable")
			return errs.Wrap(err, "write cascade output")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "capa %s -> %s\n", updated.CapaID, updated.Status); err != nil {
			return errs.Wrap(err, "write cascade output")
		}
		return nil
	}),
}

var capaHistoryCmd = &cobra.Command{
	Use:   "history <capa-id>",
	Short: "Print the status audit trail of a CAPA, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("tenant")

		rows, err := svcs.Transition.StatusHistory(ctx, tenantID, ports.EntityTypeCapa, cmd.Flags().Arg(0))
		if err != nil {
			return err
		}
		return printHistory(cmd, rows)
	}),
}

func printHistory(cmd *cobra.Command, rows []ports.StatusHistory) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "(no history)")
		return errs.Wrap(err, "write history output")
	}
	for _, row := range rows {
		previous := "-"
		if row.PreviousStatus != nil {
			previous = *row.PreviousStatus
		}
		reason := ""
		if row.ChangeReason != nil {
			reason = " reason=" + *row.ChangeReason
		}
		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"%s  %s -> %s  by=%s source=%s%s\n",
			row.CreatedAt,
			previous,
			row.NewStatus,
			row.ChangedByUserID,
			row.Source,
			reason,
		); err != nil {
			return errs.Wrap(err, "write history output")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(capaCmd)
	capaCmd.AddCommand(capaTransitionsCmd)
	capaCmd.AddCommand(capaStatusCmd)
	capaCmd.AddCommand(capaCascadeCmd)
	capaCmd.AddCommand(capaHistoryCmd)

	capaStatusCmd.Flags().String("tenant", "", "Tenant identifier")
	capaStatusCmd.Flags().String("to", "", "Target status")
	capaStatusCmd.Flags().String("reason", "", "Optional change reason")
	capaStatusCmd.Flags().String("user", "", "Acting user identifier")
	_ = capaStatusCmd.MarkFlagRequired("tenant")
	_ = capaStatusCmd.MarkFlagRequired("to")
	_ = capaStatusCmd.MarkFlagRequired("user")

	capaCascadeCmd.Flags().String("tenant", "", "Tenant identifier")
	capaCascadeCmd.Flags().String("user", "", "Acting user identifier")
	_ = capaCascadeCmd.MarkFlagRequired("tenant")
	_ = capaCascadeCmd.MarkFlagRequired("user")

	capaHistoryCmd.Flags().String("tenant", "", "Tenant identifier")
	_ = capaHistoryCmd.MarkFlagRequired("tenant")
}
