package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"easel/internal/api"
	"easel/internal/ipc"
	"easel/internal/manager"
	"easel/internal/queue"
)

var queueListHeaders = []string{"ID", "Kind", "Status", "Prompt", "Created", "Progress"}

var queueListAlignments = []columnAlignment{
	alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight,
}

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the job queue",
	}

	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueClearFailedCommand(ctx))
	queueCmd.AddCommand(newQueueRefreshCommand(ctx))

	return queueCmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueue(func(client *ipc.Client, mgr *manager.Manager) error {
				var stats map[string]int
				if client != nil {
					status, err := client.Status()
					if err != nil {
						return err
					}
					stats = status.QueueStats
				} else {
					entries, err := mgr.ListAll(cmd.Context())
					if err != nil {
						return err
					}
					stats = api.CountByStatus(entries)
				}

				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, status := range listStatuses {
				if !queue.Status(status).IsValid() {
					return fmt.Errorf("unknown status %q", status)
				}
			}
			return ctx.withQueue(func(client *ipc.Client, mgr *manager.Manager) error {
				var items []ipc.QueueItem
				if client != nil {
					resp, err := client.QueueList(listStatuses)
					if err != nil {
						return err
					}
					items = resp.Items
				} else {
					entries, err := mgr.ListAll(cmd.Context())
					if err != nil {
						return err
					}
					items = api.FromEntries(filterEntries(entries, listStatuses))
				}

				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable(queueListHeaders, buildQueueListRows(items), queueListAlignments)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by status (repeatable)")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one queue record in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueue(func(client *ipc.Client, mgr *manager.Manager) error {
				var item ipc.QueueItem
				if client != nil {
					resp, err := client.QueueDescribe(args[0])
					if err != nil {
						return err
					}
					item = resp.Item
				} else {
					entry, err := mgr.Get(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					if entry == nil {
						return fmt.Errorf("queue record %s not found", args[0])
					}
					item = api.FromEntry(entry)
				}
				printQueueItem(cmd, item)
				return nil
			})
		},
	}
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a queue record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueue(func(client *ipc.Client, mgr *manager.Manager) error {
				if client != nil {
					if _, err := client.QueueRemove(args[0]); err != nil {
						return err
					}
				} else if err := mgr.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newQueueClearFailedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-failed",
		Short: "Remove failed queue records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueue(func(client *ipc.Client, mgr *manager.Manager) error {
				var removed int
				if client != nil {
					resp, err := client.QueueClearFailed()
					if err != nil {
						return err
					}
					removed = resp.Removed
				} else {
					entries, err := mgr.ListAll(cmd.Context())
					if err != nil {
						return err
					}
					for _, entry := range entries {
						if entry.EntryStatus() != queue.StatusFailed {
							continue
						}
						if err := mgr.Delete(cmd.Context(), entry.EntryID()); err != nil {
							return err
						}
						removed++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d failed records\n", removed)
				return nil
			})
		},
	}
}

func newQueueRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Poll the remote service for every non-terminal record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueue(func(client *ipc.Client, mgr *manager.Manager) error {
				var items []ipc.QueueItem
				if client != nil {
					resp, err := client.RefreshAll()
					if err != nil {
						return err
					}
					items = resp.Items
				} else {
					entries, err := mgr.RefreshAll(cmd.Context())
					if err != nil {
						return err
					}
					items = api.FromEntries(entries)
				}

				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable(queueListHeaders, buildQueueListRows(items), queueListAlignments)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func filterEntries(entries []queue.Entry, statuses []string) []queue.Entry {
	if len(statuses) == 0 {
		return entries
	}
	wanted := make(map[queue.Status]bool, len(statuses))
	for _, status := range statuses {
		wanted[queue.Status(status)] = true
	}
	filtered := entries[:0:0]
	for _, entry := range entries {
		if wanted[entry.EntryStatus()] {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func printQueueItem(cmd *cobra.Command, item ipc.QueueItem) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", item.ID)
	fmt.Fprintf(out, "Kind:      %s\n", formatStatusLabel(item.Kind))
	fmt.Fprintf(out, "Status:    %s\n", formatStatusLabel(item.Status))
	fmt.Fprintf(out, "Prompt:    %s\n", item.Prompt)
	if item.RemoteName != "" {
		fmt.Fprintf(out, "Remote:    %s\n", item.RemoteName)
	}
	if item.ProgressPercent > 0 {
		fmt.Fprintf(out, "Progress:  %.0f%%\n", item.ProgressPercent)
	}
	if item.ResultCount > 0 {
		fmt.Fprintf(out, "Results:   %d\n", item.ResultCount)
	}
	if item.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:     %s\n", item.ErrorMessage)
	}
	fmt.Fprintf(out, "Created:   %s\n", formatDisplayTime(item.CreatedAt))
	if item.SubmittedAt != "" {
		fmt.Fprintf(out, "Submitted: %s\n", formatDisplayTime(item.SubmittedAt))
	}
	if item.CompletedAt != "" {
		fmt.Fprintf(out, "Completed: %s\n", formatDisplayTime(item.CompletedAt))
	}
}
