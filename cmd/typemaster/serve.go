package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/api"
	"github.com/verte-zerg/typemaster/internal/config"
)

var serveAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only HTTP view of the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()
	applyStringConfig(cmd, "addr", &serveAddr, env.fileCfg.Server.Addr)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logErrf("serving on %s (logs: %s)\n", serveAddr, config.DefaultLogPath())
	return api.ListenAndServe(ctx, serveAddr, api.NewServer(env.accounts).Router())
}
