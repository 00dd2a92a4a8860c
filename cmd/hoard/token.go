package main

import (
	"github.com/spf13/cobra"

	"github.com/lovrom/hoard/internal/store"
)

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <hostname> <token>",
		Short: "Store a bearer token for a hostname",
		Long: `Store a bearer token used for downloads from the given hostname.

The token is attached as an Authorization header to requests whose URL
matches the hostname exactly, and is never forwarded across a redirect
to a different host.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			hostname, token := args[0], args[1]

			cfg, err := loadConfig()
			if err != nil {
				return &usageError{err: err}
			}

			st, err := store.Open(ctx, cfg.StoreURL)
			if err != nil {
				return err
			}
			defer st.Close()

			tokens, err := st.LoadTokens(ctx)
			if err != nil {
				return err
			}
			tokens[hostname] = token
			if err := st.SaveTokens(ctx, tokens); err != nil {
				return err
			}

			logger.Info("stored token", "hostname", hostname)
			return nil
		},
	}
}
