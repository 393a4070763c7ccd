package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"remedia/internal/bootstrap"
	"remedia/internal/bootstrap/logging"
	"remedia/internal/errs"
	"remedia/internal/usecase/board"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the CAPA review board for one tenant",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("tenant")
		actor, _ := cmd.Flags().GetString("user")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 5 * time.Second
		}

		model := board.NewBoardModel(ctx, svcs.Transition, board.Options{
			TenantID:        tenantID,
			Actor:           actor,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run review board")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().String("tenant", "", "Tenant identifier")
	consoleCmd.Flags().String("user", "console", "Acting user recorded on transitions")
	consoleCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
	_ = consoleCmd.MarkFlagRequired("tenant")
}
