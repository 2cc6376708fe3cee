package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maxviazov/campaign-site/internal/logger"
	"github.com/maxviazov/campaign-site/pkg/client"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds what every subcommand needs; it is filled in PersistentPreRunE.
type app struct {
	v      *viper.Viper
	log    zerolog.Logger
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Browse and moderate the campaign site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.client != nil {
				_ = a.client.Close()
			}
		},
	}

	f := root.PersistentFlags()
	f.String("base-url", "http://localhost:8080/api/v1", "API base URL including the version prefix")
	f.String("token", "", "bearer token (admin commands need one)")
	f.Duration("timeout", 10*time.Second, "per-request timeout")
	f.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	f.String("state-file", defaultStateFile(), "where this device remembers it was counted")

	a.v.SetEnvPrefix("SITECTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlags(f)

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newLandingCmd(a),
		newVisitCmd(a),
		newContactCmd(a),
		newAdminCmd(a),
	)
	return root
}

func (a *app) init() error {
	log, err := logger.New(&logger.LoggerConfig{
		Level:        a.v.GetString("log-level"),
		Format:       "console",
		OutputTarget: "stderr",
		Env:          "prod",
		ServiceName:  "sitectl",
	})
	if err != nil {
		return err
	}
	a.log = log

	var opts []client.Option
	if tok := a.v.GetString("token"); tok != "" {
		opts = append(opts, client.WithTokenSource(client.StaticToken(tok)))
	}
	c, err := client.New(client.Config{
		BaseURL: a.v.GetString("base-url"),
		Timeout: a.v.GetDuration("timeout"),
	}, log, opts...)
	if err != nil {
		return err
	}
	a.client = c
	return nil
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sitectl-state.json"
	}
	return filepath.Join(dir, "sitectl", "state.json")
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
