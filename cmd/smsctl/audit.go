package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sms-gateway/backend/internal/client"
)

func newAuditCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the audit log",
	}
	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				logs, err := c.ListAudit(ctx, limit, offset)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tACTOR\tKIND\tACTION\tRESOURCE\tIP")
				for _, l := range logs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", l.CreatedAt.Format(time.RFC3339),
						l.Actor, l.Kind, l.Action, l.Resource, l.IP)
				}
				return tw.Flush()
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 50, "page size (max 500)")
	list.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	cmd.AddCommand(list)
	return cmd
}
