package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/events"
	"github.com/rthunborg/Masterdata-sub001/internal/messaging/kafka/consumer"
	"github.com/rthunborg/Masterdata-sub001/internal/notify"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/connection"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer rdb.Close()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.EmployeeChangedTopic,
		GroupID:        "masterdata-notify",
		CommitInterval: 0,
		StartOffset:    kafkago.LastOffset,
	})
	defer reader.Close()

	registry := notify.NewSessionRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ListenSessionUpdates(ctx, rdb, registry, logger)
	go consumer.ConsumeEmployeeChanges(ctx, reader, registry, rdb, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
