// Package kafka provides the record-ingest task queue.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"supportmatch-go/internal/config"
	"supportmatch-go/pkg/database"
	"supportmatch-go/pkg/log"
	"supportmatch-go/pkg/tasks"

	"github.com/segmentio/kafka-go"
)

// TaskProcessor defines the interface for any service that can process an
// ingest task. This decouples the consumer from the concrete pipeline
// implementation.
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.RecordIngestTask) error
}

var producer *kafka.Writer

// InitProducer initializes the Kafka producer.
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka producer initialized successfully")
}

// ProduceIngestTask sends one record-ingest task to Kafka.
func ProduceIngestTask(task tasks.RecordIngestTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}

	err = producer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(task.ConversationID),
			Value: taskBytes,
		},
	)
	return err
}

// StartConsumer starts a Kafka consumer loop over ingest tasks.
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "supportmatch-go-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka consumer started, listening on topic '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("failed to read message from Kafka", err)
			break
		}

		log.Infof("received Kafka message: offset %d", m.Offset)

		var task tasks.RecordIngestTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("failed to unmarshal Kafka message: %v, value: %s", err, string(m.Value))
			// Malformed message: commit immediately so it does not block the
			// partition.
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("failed to commit malformed message: %v", err)
			}
			continue
		}

		log.Infof("processing ingest task: conversation=%s, reason=%s", task.ConversationID, task.Reason)
		if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("failed to process ingest task: conversation=%s, error: %v", task.ConversationID, err)
			// Count failures in Redis; commit the offset once the retry
			// budget is exhausted so the partition keeps moving.
			attemptsKey := fmt.Sprintf("kafka:attempts:%s", task.ConversationID)
			attempts, incErr := database.RDB.Incr(context.Background(), attemptsKey).Result()
			if incErr == nil {
				_ = database.RDB.Expire(context.Background(), attemptsKey, 24*time.Hour).Err()
			}
			if incErr != nil {
				// Redis is unavailable: leave the offset uncommitted so
				// Kafka retries.
				continue
			}
			if attempts >= 3 {
				log.Errorf("ingest task failed %d times, committing offset to stop retrying: conversation=%s", attempts, task.ConversationID)
				if err := r.CommitMessages(context.Background(), m); err != nil {
					log.Errorf("failed to commit Kafka offset: %v", err)
				}
			}
		} else {
			log.Infof("ingest task processed successfully: conversation=%s", task.ConversationID)
			_ = database.RDB.Del(context.Background(), fmt.Sprintf("kafka:attempts:%s", task.ConversationID)).Err()
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("failed to commit Kafka offset: %v", err)
			}
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("failed to close Kafka consumer: %v", err)
	}
}
