package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/league-history/internal/app"
	"github.com/riskibarqy/league-history/internal/config"
	"github.com/riskibarqy/league-history/internal/observability"
	"github.com/riskibarqy/league-history/internal/platform/logging"
	"github.com/riskibarqy/league-history/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logging.SetDefault(logger)

	cmd := "refresh"
	if len(os.Args) > 1 {
		cmd = strings.ToLower(strings.TrimSpace(os.Args[1]))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, logger, cmd)
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, cfg config.Config, logger *logging.Logger, cmd string) int {
	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	ctx, span := otel.Tracer("league-history/cmd/history").Start(ctx, "history."+cmd)
	defer span.End()

	a, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "bootstrap failed", "error", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	var out any
	switch cmd {
	case "refresh":
		result, err := a.Refresh(ctx)
		if pushErr := a.PushMetrics(ctx); pushErr != nil {
			logger.WarnContext(ctx, "push metrics failed", "error", pushErr)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "refresh failed", "error", err, "failed_years", len(result.FailedYears))
			return 1
		}
		out = newRefreshSummary(result)
	case "snapshot":
		snap, err := a.Stats.Snapshot(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "snapshot failed", "error", err)
			return 1
		}
		out = snap
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [refresh|snapshot]\n", os.Args[0])
		return 2
	}

	enc := sonic.ConfigStd.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.ErrorContext(ctx, "write output", "error", err)
		return 1
	}
	return 0
}

type failureSummary struct {
	Year   int    `json:"year,omitempty"`
	Source string `json:"source"`
	Error  string `json:"error"`
}

type refreshSummary struct {
	RunID       string           `json:"runId"`
	Seasons     int              `json:"seasons"`
	Owners      int              `json:"owners"`
	FirstYear   int              `json:"firstYear"`
	LastYear    int              `json:"lastYear"`
	FailedYears []failureSummary `json:"failedYears"`
	Duration    string           `json:"duration"`
}

func newRefreshSummary(result usecase.RefreshResult) refreshSummary {
	out := refreshSummary{
		RunID:       result.RunID,
		Seasons:     len(result.Seasons),
		Owners:      len(result.Owners),
		FailedYears: make([]failureSummary, 0, len(result.FailedYears)),
		Duration:    result.Duration.Round(time.Millisecond).String(),
	}
	if n := len(result.Seasons); n > 0 {
		out.FirstYear = result.Seasons[0].Year
		out.LastYear = result.Seasons[n-1].Year
	}
	for _, f := range result.FailedYears {
		out.FailedYears = append(out.FailedYears, failureSummary{
			Year:   f.Year,
			Source: f.Source,
			Error:  f.Err.Error(),
		})
	}
	return out
}
