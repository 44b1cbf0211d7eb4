package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidpub/internal/deps"
	"vidpub/internal/preflight"
	"vidpub/internal/services/catalog"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check external tools, paths, credentials and catalog access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return errors.New("configuration not loaded")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			failed := 0
			rows := make([][]string, 0)
			for _, status := range deps.CheckWithVersion(cmd.Context(), deps.Requirements(cfg)) {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					} else {
						failed++
					}
				}
				rows = append(rows, []string{status.Name, state, status.Detail})
			}

			auth, err := ctx.authorizer()
			if err != nil {
				return err
			}
			var probe preflight.CatalogProbe
			if !offline && auth.Validate() == nil {
				client, err := catalog.NewClient(catalog.NewSessionFromConfig(cfg, auth, logger))
				if err != nil {
					return err
				}
				probe = client
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg, auth, probe) {
				state := "ok"
				if !result.Passed {
					state = "failed"
					failed++
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the catalog reachability check")
	return cmd
}
