// Package anomaly delivers view count anomalies to operators.
package anomaly

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"campaign-earnings/internal/core/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes every anomaly as a JSON message keyed by link id,
// so all anomalies of one link land on the same partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}, nil
}

type anomalyMessage struct {
	LinkID        uuid.UUID `json:"link_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	Platform      string    `json:"platform"`
	URL           string    `json:"url"`
	TrackedViews  int64     `json:"tracked_views"`
	ReportedViews int64     `json:"reported_views"`
	DetectedAt    time.Time `json:"detected_at"`
}

func (p *KafkaPublisher) Report(ctx context.Context, a domain.ViewAnomaly) error {
	payload, err := json.Marshal(anomalyMessage{
		LinkID:        a.LinkID,
		ApplicationID: a.ApplicationID,
		CampaignID:    a.CampaignID,
		CreatorID:     a.CreatorID,
		Platform:      string(a.Platform),
		URL:           a.URL,
		TrackedViews:  a.TrackedViews,
		ReportedViews: a.ReportedViews,
		DetectedAt:    a.DetectedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal anomaly: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(a.LinkID.String()),
		Value: payload,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish anomaly to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
