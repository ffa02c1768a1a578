// Command chatmend repairs and analyzes chat export files: it walks an
// input directory, reverses mojibake corruption, tallies reactions and
// emoji, and writes a report.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/arianv/chatmend/internal/adapters/source"
	"github.com/arianv/chatmend/internal/adapters/writer"
	"github.com/arianv/chatmend/internal/app"
	"github.com/arianv/chatmend/internal/config"
	"github.com/arianv/chatmend/pkg/logger"
	"github.com/arianv/chatmend/pkg/metrics"
)

const (
	metricsReadHeaderTimeout = 5 * time.Second
	outputFilePermission     = 0o644
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		inputDir      string
		output        string
		format        string
		topEmoji      int
		topWords      int
		ignoreSenders []string
		startDate     string
		endDate       string
		metricsAddr   string
		logLevel      string
	)

	cmd := &cobra.Command{
		Use:           "chatmend [flags]",
		Short:         "Repair and analyze chat exports",
		Long:          "chatmend walks a directory of chat export files, repairs mojibake-corrupted text, tallies reactions and emoji, and writes a report.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}

			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}

			// Explicitly set flags win over file and env config.
			changed := cmd.Flags().Changed
			if changed("input") {
				cfg.InputDir = inputDir
			}
			if changed("output") {
				cfg.Output = output
			}
			if changed("format") {
				cfg.Format = format
			}
			if changed("top-emoji") {
				cfg.TopEmoji = topEmoji
			}
			if changed("top-words") {
				cfg.TopWords = topWords
			}
			if changed("ignore-sender") {
				cfg.IgnoreSenders = ignoreSenders
			}
			if changed("start-date") {
				cfg.StartDate = startDate
			}
			if changed("end-date") {
				cfg.EndDate = endDate
			}
			if changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory containing chat export files")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Report destination path, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: json or text")
	cmd.Flags().IntVar(&topEmoji, "top-emoji", 0, "Emoji ranking depth")
	cmd.Flags().IntVar(&topWords, "top-words", 0, "Word ranking depth")
	cmd.Flags().StringSliceVar(&ignoreSenders, "ignore-sender", nil, "Sender names to exclude (repeatable)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "First day to analyze (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Last day to analyze, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log verbosity: debug, info, warn, error")

	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Get().Named("main")

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
	}

	start, end, err := analysisWindow(cfg)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithTopEmoji(cfg.TopEmoji),
		app.WithTopWords(cfg.TopWords),
		app.WithIgnoreSenders(cfg.IgnoreSenders),
		app.WithDateRange(start, end),
	)

	rep, err := svc.Run(ctx, source.NewDir(cfg.InputDir))
	if err != nil {
		return err
	}

	w, err := writer.New(cfg.Format)
	if err != nil {
		return err
	}

	if cfg.Output == "" || cfg.Output == "-" {
		return w.Write(os.Stdout, rep)
	}

	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	if err := w.Write(f, rep); err != nil {
		return err
	}
	log.Info(ctx, "report written",
		logger.String("path", cfg.Output),
		logger.String("format", cfg.Format),
	)
	return nil
}

// analysisWindow converts the configured dates into the half-open range the
// service filters on. The end date is inclusive, so the upper bound is the
// start of the following day.
func analysisWindow(cfg *config.Config) (time.Time, time.Time, error) {
	var start, end time.Time
	if cfg.StartDate != "" {
		t, err := time.Parse(time.DateOnly, cfg.StartDate)
		if err != nil {
			return start, end, fmt.Errorf("parse start date: %w", err)
		}
		start = t.UTC()
	}
	if cfg.EndDate != "" {
		t, err := time.Parse(time.DateOnly, cfg.EndDate)
		if err != nil {
			return start, end, fmt.Errorf("parse end date: %w", err)
		}
		end = t.UTC().Add(24 * time.Hour)
	}
	return start, end, nil
}

func serveMetrics(ctx context.Context, addr string) {
	log := logger.Get().Named("metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn(ctx, "metrics server stopped", logger.Error(err))
	}
}
