package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lovrom/hoard/internal/store"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list token|dl|group",
		Short: "List registered tokens, resources, or groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return &usageError{err: err}
			}

			st, err := store.Open(ctx, cfg.StoreURL)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()

			switch kind {
			case "token":
				tokens, err := st.LoadTokens(ctx)
				if err != nil {
					return err
				}
				hostnames := make([]string, 0, len(tokens))
				for h := range tokens {
					hostnames = append(hostnames, h)
				}
				sort.Strings(hostnames)
				// Token values are never printed.
				for _, h := range hostnames {
					fmt.Fprintln(out, h)
				}

			case "dl":
				ix, err := st.LoadIndex(ctx)
				if err != nil {
					return err
				}
				for _, name := range ix.ModelNames() {
					m := ix.Models[name]
					fmt.Fprintf(out, "%s\t%s\tunzip=%t\n", name, m.Subdirectory, m.Unzip)
				}

			case "group":
				ix, err := st.LoadIndex(ctx)
				if err != nil {
					return err
				}
				for _, name := range ix.GroupNames() {
					fmt.Fprintf(out, "%s\t%s\n", name, strings.Join(ix.Groups[name], " "))
				}

			default:
				return usageErrorf("unknown list kind %q (want token, dl, or group)", kind)
			}

			return nil
		},
	}
}
