package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/filament-ui/filament/pkg/live"
)

func serveCmd() *cobra.Command {
	var (
		addr          string
		frameInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built-in demo app over websockets",
		Long: `Start a live server rendering the built-in demo application.
Each connected client gets its own session; updates stream as binary
patch frames.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()
			info("listening on %s", addr)
			info("websocket endpoint: /live")
			info("metrics endpoint:   /metrics")

			cfg := live.DefaultConfig()
			cfg.Address = addr
			cfg.FrameInterval = frameInterval

			server := live.New(cfg, demoApp)

			ctx, stop := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().DurationVar(&frameInterval, "frame-interval", 16*time.Millisecond,
		"Scheduler flush interval")

	return cmd
}
