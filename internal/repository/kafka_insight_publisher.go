package repository

import (
	"context"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/domain/repository"
	pkgkafka "SalesPulse/pkg/kafka"
)

// KafkaInsightPublisher implements InsightPublisher for Kafka.
type KafkaInsightPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaInsightPublisher creates Kafka publisher for insight events.
func NewKafkaInsightPublisher(producer *pkgkafka.Producer, topic string) repository.InsightPublisher {
	return &KafkaInsightPublisher{producer: producer, topic: topic}
}

func (p *KafkaInsightPublisher) PublishSummary(ctx context.Context, summary *models.InsightSummary) error {
	return p.producer.Publish(ctx, p.topic, []byte("summary"), summary)
}

func (p *KafkaInsightPublisher) PublishAnomalies(ctx context.Context, report models.AnomalyReport) error {
	if len(report) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(report))
	for series, anomalies := range report {
		msgs = append(msgs, pkgkafka.Message{
			Key: []byte(series),
			Value: map[string]interface{}{
				"series":    series,
				"anomalies": anomalies,
			},
		})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

// PublishMessage satisfies the log collector sink interface.
func (p *KafkaInsightPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaInsightPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
