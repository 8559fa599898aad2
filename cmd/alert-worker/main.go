// Command alert-worker consumes finance alerts from the broker and logs
// them. It is the delivery tail of the alerting pipeline; notification
// channels (mail, push) hook in here.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patrimonio/internal/amqp"
	"patrimonio/internal/cli"
	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to broker", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	logger.Info("alert worker started", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	go func() {
		err := client.ConsumeAlerts(ctx, func(msg *amqp.AlertMessage) error {
			logger.Info("finance alert",
				applog.FieldAlertKind, msg.Kind,
				applog.FieldOwner, msg.Owner,
				"subject", msg.Subject,
				applog.FieldAmountCents, msg.AmountCents,
				"amount", core.FormatCents(msg.AmountCents),
				applog.FieldMonths, msg.Month,
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("alert consumption failed", applog.FieldError, err)
		}
		cancel()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	cancel()

	// Give the consumer a moment to ack in-flight deliveries.
	time.Sleep(2 * time.Second)
	logger.Info("alert worker stopped")
}
