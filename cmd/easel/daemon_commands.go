package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"easel/internal/ipc"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Inspect and control the easel daemon",
	}

	daemonCmd.AddCommand(newDaemonStatusCommand(ctx))
	daemonCmd.AddCommand(newDaemonStopCommand(ctx))

	return daemonCmd
}

func newDaemonStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Running:  %v\n", status.Running)
				fmt.Fprintf(out, "PID:      %d\n", status.PID)
				fmt.Fprintf(out, "Store:    %s\n", status.StorePath)
				fmt.Fprintf(out, "Lock:     %s\n", status.LockPath)
				if status.RefreshInterval != "" {
					fmt.Fprintf(out, "Refresh:  %s\n", status.RefreshInterval)
				}
				fmt.Fprintln(out)

				rows := buildQueueStatusRows(status.QueueStats)
				if len(rows) == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(out, table)
				return nil
			})
		},
	}
}

func newDaemonStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the easel daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				if resp.Stopped {
					fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Stop request sent")
				}
				return nil
			})
		},
	}
}
