package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"seo-monitor/internal/app"
	"seo-monitor/internal/handler"
	"seo-monitor/pkg/render"
)

type options struct {
	configPath string
	debug      bool
	period     string
	interval   time.Duration
}

func main() {
	// Global panic recovery to prevent application crash
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: application panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "seo-monitor",
		Short:        "SEO metrics dashboard for a list of monitored domains",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file path")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	root.AddCommand(newRenderCommand(opts), newWatchCommand(opts), newServeCommand(opts))
	return root
}

func newRenderCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the dashboard cards once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(opts.configPath, opts.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			return renderOnce(cmd, a, opts.period)
		},
	}
	cmd.Flags().StringVar(&opts.period, "period", "", "Comparison period (Month or Year)")
	return cmd
}

func newWatchCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the dashboard cards on an interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}

			a, err := app.New(opts.configPath, opts.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			ticker := time.NewTicker(opts.interval)
			defer ticker.Stop()

			for {
				if err := renderOnce(cmd, a, opts.period); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := a.Dashboard.Warm(ctx); err != nil && ctx.Err() == nil {
						a.Log.WithError(err).Warn("Refresh failed")
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&opts.period, "period", "", "Comparison period (Month or Year)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 5*time.Minute, "Refresh interval")
	return cmd
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTML dashboard, JSON API and Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(opts.configPath, opts.debug)
			if err != nil {
				return err
			}
			defer a.Close()

			server, err := handler.NewServer(a.Config, a.Dashboard)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}
}

func renderOnce(cmd *cobra.Command, a *app.Application, value string) error {
	period, err := a.Dashboard.ResolvePeriod(value)
	if err != nil {
		return err
	}

	page := a.Dashboard.Page(cmd.Context(), period)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), render.NewTerminal().Render(page))
	return err
}
