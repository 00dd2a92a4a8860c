package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lovrom/hoard/internal/store"
)

func groupCmd() *cobra.Command {
	var groupName string

	cmd := &cobra.Command{
		Use:   "group -g <name> [members...]",
		Short: "Save or delete a named group of resources",
		Long: `Save a group as an ordered list of resource or group names, or delete
a group by passing no members.

Members must be known resources or groups at save time; nesting resolves
lazily when the group is downloaded.

Examples:
  hoard group -g llama llama-7b llama-13b
  hoard group -g everything llama bert
  hoard group -g llama`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return &usageError{err: err}
			}

			st, err := store.Open(ctx, cfg.StoreURL)
			if err != nil {
				return err
			}
			defer st.Close()

			ix, err := st.LoadIndex(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				if err := ix.DeleteGroup(groupName); err != nil {
					return &usageError{err: err}
				}
				if err := st.SaveIndex(ctx, ix); err != nil {
					return err
				}
				logger.Info("deleted group", "group", groupName)
				return nil
			}

			if err := ix.SaveGroup(groupName, args); err != nil {
				return &usageError{err: err}
			}
			if err := st.SaveIndex(ctx, ix); err != nil {
				return err
			}

			logger.Info("saved group", "group", groupName, "members", strings.Join(args, " "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&groupName, "group", "g", "", "Group name (required)")
	cmd.MarkFlagRequired("group")

	return cmd
}
