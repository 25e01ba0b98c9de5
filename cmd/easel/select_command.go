package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"easel/internal/api"
	"easel/internal/ipc"
	"easel/internal/manager"
)

func newSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Refresh one record and load its result onto the canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueue(func(client *ipc.Client, mgr *manager.Manager) error {
				var item ipc.QueueItem
				if client != nil {
					resp, err := client.Select(args[0])
					if err != nil {
						return err
					}
					item = resp.Item
				} else {
					if err := mgr.Select(cmd.Context(), args[0]); err != nil {
						return err
					}
					entry, err := mgr.Get(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					if entry == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "Record %s not found\n", args[0])
						return nil
					}
					item = api.FromEntry(entry)
				}
				printQueueItem(cmd, item)
				return nil
			})
		},
	}
}
