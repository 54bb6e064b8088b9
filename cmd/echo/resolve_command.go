package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"echo/internal/bungie"
	"echo/internal/identity"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var engineFlag string
	var openFlag bool
	var cardsFlag bool

	cmd := &cobra.Command{
		Use:   "resolve <bungie-id | image-path>",
		Short: "Resolve a bungie id or a screenshot to its canonical account",
		Long: `Resolve takes either a full bungie id (NAME#1234) or the path to a
screenshot, and prints the canonical membership it belongs to along with the
report URL. With --open the report page is opened in the default browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("engine") {
				cfg.Extraction.Engine = engineFlag
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			target := args[0]
			id := identity.Parse(target)
			fromImage := !id.IsValid()
			if fromImage {
				if _, err := os.Stat(target); err != nil {
					return fmt.Errorf("%q is neither a full bungie id nor a readable image file", target)
				}
				if err := cfg.RequireCredentials(); err != nil {
					return err
				}
			} else if err := cfg.RequirePlatformCredential(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.platformClient()
			if err != nil {
				return err
			}

			if fromImage {
				id, err = extractFromImage(cmd, ctx, target)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()

			if cardsFlag {
				cards, err := client.SearchPlayer(cmd.Context(), id)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(cards))
				for _, card := range cards {
					rows = append(rows, []string{
						card.MembershipID,
						bungie.PlatformName(card.MembershipType),
						strconv.Itoa(card.CrossSaveOverride),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"MEMBERSHIP ID", "PLATFORM", "CROSS-SAVE OVERRIDE"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
			}

			member, err := client.ResolveMember(cmd.Context(), id)
			if err != nil {
				return err
			}
			if member == nil {
				return fmt.Errorf("no account found for %s", id)
			}

			launcher := newLauncher(cfg, logger)
			fmt.Fprintf(out, "%s resolved to membership %s on %s\n", id, member.MembershipID, bungie.PlatformName(member.PlatformID))
			fmt.Fprintln(out, launcher.URL(*member))

			if openFlag {
				return launcher.Launch(cmd.Context(), *member)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&engineFlag, "engine", "", "Extraction engine to use for image targets (ocr or vision)")
	cmd.Flags().BoolVar(&openFlag, "open", false, "Open the report page in the default browser")
	cmd.Flags().BoolVar(&cardsFlag, "cards", false, "Also list every membership card the search returned")

	return cmd
}

// extractFromImage runs the configured extraction engine once against the
// image at path and parses the result. Unlike the watch loop it does not
// fall back to the other engine: a one-shot command should report exactly
// what the chosen engine saw.
func extractFromImage(cmd *cobra.Command, ctx *commandContext, path string) (identity.BungieID, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return identity.BungieID{}, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return identity.BungieID{}, err
	}

	strategies := buildStrategies(cfg, logger)
	strategy, ok := strategies[cfg.Engine()]
	if !ok {
		return identity.BungieID{}, fmt.Errorf("extraction engine %q is not available", cfg.Extraction.Engine)
	}

	workPath, err := normalizeImage(cfg, path)
	if err != nil {
		return identity.BungieID{}, fmt.Errorf("prepare image: %w", err)
	}
	defer os.Remove(workPath)

	result, err := strategy.Extract(cmd.Context(), workPath)
	if err != nil {
		return identity.BungieID{}, fmt.Errorf("extract bungie id: %w", err)
	}

	id := identity.Parse(result.IDString)
	if !id.IsValid() {
		return identity.BungieID{}, fmt.Errorf("could not parse a bungie id from %q", result.IDString)
	}
	logger.Debug("extracted bungie id",
		"id", id.String(),
		"confidence", result.Confidence,
		"engine", strategy.Name(),
	)
	return id, nil
}
