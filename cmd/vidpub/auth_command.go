package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidpub/internal/services/credentials"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the catalog access token",
	}
	cmd.AddCommand(newAuthSetTokenCommand(ctx))
	cmd.AddCommand(newAuthStatusCommand(ctx))
	return cmd
}

func newAuthSetTokenCommand(ctx *commandContext) *cobra.Command {
	var (
		token     string
		tokenType string
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Store an access token obtained from the provider's consent flow",
		Long: "Store an OAuth access token in the credential file. Pass --token - to read\n" +
			"it from stdin. The " + credentials.EnvAccessToken + " environment variable overrides the stored token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.TrimSpace(token)
			if value == "-" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token from stdin: %w", err)
				}
				value = strings.TrimSpace(line)
			}
			if value == "" {
				return errors.New("--token is required")
			}
			if expiresIn < 0 {
				return errors.New("--expires-in must not be negative")
			}

			auth, err := ctx.authorizer()
			if err != nil {
				return err
			}
			state := credentials.State{AccessToken: value, TokenType: strings.TrimSpace(tokenType)}
			if expiresIn > 0 {
				state.ExpiresAt = time.Now().Add(expiresIn).UTC()
			}
			if err := auth.Save(state); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", ctx.configValue().Paths.CredentialsPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token, or - to read it from stdin")
	cmd.Flags().StringVar(&tokenType, "token-type", "Bearer", "Authorization scheme sent with the token")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "Token lifetime, e.g. 1h (0 means unknown)")
	return cmd
}

func newAuthStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a usable access token is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := ctx.authorizer()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Credential file: %s\n", ctx.configValue().Paths.CredentialsPath)
			state, err := auth.State()
			if err != nil {
				fmt.Fprintf(out, "Token usable: no (%v)\n", err)
				return nil
			}
			fmt.Fprintln(out, "Token usable: yes")
			if !state.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Expires at: %s\n", state.ExpiresAt.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}
