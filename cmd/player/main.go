package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zaqqye/signage_backend/internal/client"
	"github.com/zaqqye/signage_backend/internal/display"
	xlog "github.com/zaqqye/signage_backend/internal/log"
)

type options struct {
	server            string
	device            string
	analyticsInterval time.Duration
	logLevel          string
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "signage-player",
		Short: "Headless display player for a signage device",
		Long: "Plays the combined playlist of one device, reports exposure and\n" +
			"analytics to the server and reloads when the server pushes a change.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8080", "signage server base URL")
	cmd.Flags().StringVar(&opts.device, "device", "", "device id to play")
	cmd.Flags().DurationVar(&opts.analyticsInterval, "analytics-interval", display.DefaultAnalyticsInterval, "how often to report an analytics snapshot")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level")
	_ = cmd.MarkFlagRequired("device")
	return cmd
}

func run(ctx context.Context, opts options) error {
	xlog.Configure(xlog.Config{Level: opts.logLevel, Service: "signage-player"})
	logger := xlog.WithComponent("player")

	api, err := client.New(opts.server, xlog.WithComponent("client"))
	if err != nil {
		return err
	}
	player, err := display.NewPlayer(display.Config{
		DeviceID:          opts.device,
		AnalyticsInterval: opts.analyticsInterval,
		Source:            api,
		Reporter:          api,
		Renderer:          display.LogRenderer{Logger: xlog.WithComponent("render")},
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return player.Run(ctx) })
	g.Go(func() error { return api.Subscribe(ctx, opts.device, player.Reload) })
	return g.Wait()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
