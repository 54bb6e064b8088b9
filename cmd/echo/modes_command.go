package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newModesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modes <platform-id> <membership-id>",
		Short: "Show the activity modes a membership is currently playing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequirePlatformCredential(); err != nil {
				return err
			}

			platformID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("platform id must be numeric (1 xbox, 2 psn, 3 steam): %w", err)
			}

			client, err := ctx.platformClient(defaultClientOptions()...)
			if err != nil {
				return err
			}

			modes, err := client.CurrentActivityModes(cmd.Context(), platformID, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(modes) == 0 {
				fmt.Fprintln(out, "No current activity.")
				return nil
			}

			rows := make([][]string, 0, len(modes))
			for _, mode := range modes {
				rows = append(rows, []string{strconv.Itoa(int(mode)), mode.String()})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"MODE", "NAME"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}

	return cmd
}
