package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"remedia/internal/bootstrap"
	"remedia/internal/bootstrap/logging"
	"remedia/internal/errs"
	"remedia/internal/usecase/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo tenant records from a TOML file",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		seedFile, _ := cmd.Flags().GetString("file")

		file, err := seed.LoadFile(seedFile)
		if err != nil {
			return errs.Wrap(err, "load seed file")
		}

		result, err := svcs.Seed.Apply(ctx, file)
		if err != nil {
			return errs.Wrap(err, "apply seed file")
		}

		logging.Info(ctx, "seed applied",
			slog.String("tenant", file.Tenant),
			slog.Int("issues", result.Issues),
			slog.Int("capas", result.Capas),
			slog.Int("tasks", result.Tasks),
		)
		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"seeded tenant %s: issues=%d capas=%d tasks=%d\n",
			file.Tenant,
			result.Issues,
			result.Capas,
			result.Tasks,
		); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("file", "seed.toml", "Path to seed TOML file")
}
