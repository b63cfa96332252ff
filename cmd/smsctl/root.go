package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sms-gateway/backend/internal/client"
)

const defaultServer = "http://localhost:5000"

// settings resolves --server and --token from flags first, then SMSCTL_SERVER and SMSCTL_TOKEN.
type settings struct {
	v *viper.Viper
}

func (s *settings) client() (*client.Client, error) {
	server := strings.TrimSpace(s.v.GetString("server"))
	if server == "" {
		return nil, fmt.Errorf("no server configured; pass --server or set SMSCTL_SERVER")
	}
	return client.New(server, s.v.GetString("token")), nil
}

func (s *settings) timeout() time.Duration {
	return s.v.GetDuration("timeout")
}

func newRootCmd() *cobra.Command {
	s := &settings{v: viper.New()}
	s.v.SetEnvPrefix("SMSCTL")
	s.v.AutomaticEnv()
	s.v.SetDefault("server", defaultServer)
	s.v.SetDefault("timeout", 30*time.Second)

	root := &cobra.Command{
		Use:           "smsctl",
		Short:         "Manage SMS gateway accounts and read the audit log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("server", defaultServer, "API base URL (env SMSCTL_SERVER)")
	root.PersistentFlags().String("token", "", "bearer token printed by login (env SMSCTL_TOKEN)")
	root.PersistentFlags().Duration("timeout", 30*time.Second, "request timeout (env SMSCTL_TIMEOUT)")
	_ = s.v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = s.v.BindPFlag("token", root.PersistentFlags().Lookup("token"))
	_ = s.v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(newLoginCmd(s), newUsersCmd(s), newAuditCmd(s))
	return root
}

// withClient runs fn with a configured client and a context bounded by --timeout.
func withClient(cmd *cobra.Command, s *settings, fn func(ctx context.Context, c *client.Client) error) error {
	c, err := s.client()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), s.timeout())
	defer cancel()
	return fn(ctx, c)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLoginCmd(s *settings) *cobra.Command {
	var (
		username string
		password string
		asUser   bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a token for SMSCTL_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}
			return withClient(cmd, s, func(ctx context.Context, c *client.Client) error {
				res, err := c.Login(ctx, username, password, !asUser)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "export SMSCTL_TOKEN=%s\n", res.Token)
				if !res.ExpiresAt.IsZero() {
					fmt.Fprintf(cmd.ErrOrStderr(), "# role %s, expires %s\n", res.Role, res.ExpiresAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&asUser, "user", false, "log in as a dashboard user instead of the admin")
	return cmd
}
