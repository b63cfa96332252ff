package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sms-gateway/backend/internal/client"
)

func newUsersCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage dashboard accounts",
	}
	cmd.AddCommand(
		newUsersListCmd(s),
		newUsersCreateCmd(s),
		newUsersGetCmd(s),
		newUsersUpdateCmd(s),
		newUsersDeleteCmd(s),
		newUsersStatsCmd(s),
		newUsersPurgeCmd(s),
	)
	return cmd
}

func newUsersListCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				users, err := c.ListUsers(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSERNAME\tVALID UPTO\tDEVICES\tMESSAGES\tDATA")
				for _, u := range users {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n", u.ID, u.Username,
						u.ValidUpto.Format(time.DateOnly), u.TotalDevices, u.TotalMessages, u.TotalData)
				}
				return tw.Flush()
			})
		},
	}
}

func userFlags(cmd *cobra.Command, in *client.UserInput) {
	cmd.Flags().StringVar(&in.Username, "username", "", "login name")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	cmd.Flags().StringVar(&in.ValidUpto, "valid-upto", "", "subscription end, RFC3339 or YYYY-MM-DD")
}

func newUsersCreateCmd(s *settings) *cobra.Command {
	var in client.UserInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				u, err := c.CreateUser(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), u)
			})
		},
	}
	userFlags(cmd, &in)
	return cmd
}

func newUsersGetCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				u, err := c.GetUser(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), u)
			})
		},
	}
}

func newUsersUpdateCmd(s *settings) *cobra.Command {
	var in client.UserInput
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change username, password or subscription end; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				if err := c.UpdateUser(ctx, args[0], in); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "updated", args[0])
				return nil
			})
		},
	}
	userFlags(cmd, &in)
	return cmd
}

func newUsersDeleteCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an account (its devices, messages and entries are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				if err := c.DeleteUser(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
				return nil
			})
		},
	}
}

func newUsersStatsCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "stats ID",
		Short: "Show an account's counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				st, err := c.UserStats(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), st)
			})
		},
	}
}

func newUsersPurgeCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-messages ID",
		Short: "Delete every inbound message of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				n, err := c.PurgeMessages(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d messages\n", n)
				return nil
			})
		},
	}
}
