// -- cmd/record.go --
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tuberec/internal/browser"
	"github.com/xkilldash9x/tuberec/internal/capture"
	"github.com/xkilldash9x/tuberec/internal/observability"
	"github.com/xkilldash9x/tuberec/internal/youtube"
)

// recordCmd drives the whole pipeline: launch browser, seed consent cookies,
// navigate, wait for playback readiness, then capture frames.
var recordCmd = &cobra.Command{
	Use:   "record <watch-url>",
	Short: "Record a YouTube video to a sequence of frames.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecord,
}

func init() {
	recordCmd.Flags().Duration("duration", 30*time.Second, "how long to record once playback is ready")
	recordCmd.Flags().Duration("ready-timeout", 90*time.Second, "total budget for consent, ads and playback start")
	recordCmd.Flags().String("output", "recordings", "directory to write frame sequences into")
	recordCmd.Flags().Bool("headless", true, "run the browser headless")

	_ = viper.BindPFlag("capture.duration", recordCmd.Flags().Lookup("duration"))
	_ = viper.BindPFlag("player.ready_timeout", recordCmd.Flags().Lookup("ready-timeout"))
	_ = viper.BindPFlag("capture.output_dir", recordCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("browser.headless", recordCmd.Flags().Lookup("headless"))

	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	targetURL := args[0]
	logger := observability.GetLogger()

	// Interrupts stop the run; the readiness deadline itself is handled
	// inside the sequencer, not through this context.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager, err := browser.NewManager(ctx, appCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create browser manager: %w", err)
	}
	defer manager.Close()

	tab, err := manager.NewTab(ctx)
	if err != nil {
		return err
	}
	defer tab.Close()

	resolver := youtube.NewResolver(tab, logger)

	// Seeding before navigation beats the consent check to the punch; the
	// sequencer re-checks after navigation for the variants seeding misses.
	if err := resolver.SeedCookies(ctx); err != nil {
		return err
	}

	logger.Info("Navigating to target.", zap.String("url", targetURL))
	if err := tab.Navigate(ctx, targetURL); err != nil {
		return err
	}

	readyTimeout := appCfg.Player.ReadyTimeout
	deadline := time.Now().Add(readyTimeout)

	sequencer := youtube.NewSequencer(tab, logger)
	if err := sequencer.Prepare(ctx, deadline, readyTimeout, targetURL); err != nil {
		return fmt.Errorf("player never became ready: %w", err)
	}

	recorder, err := capture.NewRecorder(appCfg.Capture, logger)
	if err != nil {
		return err
	}

	stats, err := recorder.Record(ctx, tab, appCfg.Capture.Duration)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("recording interrupted: %w", context.Cause(ctx))
		}
		return fmt.Errorf("recording failed: %w", err)
	}

	logger.Info("Done.",
		zap.Int("frames", stats.Frames),
		zap.String("output", stats.Dir),
		zap.Duration("recorded", stats.Elapsed))
	return nil
}
