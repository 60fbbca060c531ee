package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"
)

// InterruptHandler cancels the serve context on SIGINT, SIGTERM or
// SIGQUIT so the operator, the outputs API, and the health server shut
// down together. The cancel cause stays context.Canceled for signals,
// which the serve loop treats as a clean exit.
func InterruptHandler(ctx context.Context, cancelCtx context.CancelCauseFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		defer signal.Stop(sigs)

		select {
		// Something else already tore the serve context down
		case <-ctx.Done():
			return

		case sig := <-sigs:
			switch sig {
			case syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT:
				otelzap.L().Debug("Received shutdown signal, stopping share services...",
					zap.String("signal", sig.String()),
				)
				cancelCtx(context.Canceled)
			default:
				otelzap.L().WarnContext(ctx, "Received unknown signal", zap.String("signal", sig.String()))
			}
		}
	}()
}
