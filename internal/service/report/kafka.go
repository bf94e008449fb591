package report

import (
	"context"
	"strconv"
	"time"

	"LedgerSeek/internal/domain/models"
	drepo "LedgerSeek/internal/domain/repository"
	pkgkafka "LedgerSeek/pkg/kafka"
	"LedgerSeek/pkg/logger"
	"LedgerSeek/pkg/util"
)

// observation is the wire form of one progress record.
type observation struct {
	Sequence  int64  `json:"sequence"`
	CloseTime int64  `json:"close_time"`
	ClosedAt  string `json:"closed_at"`
}

// KafkaReporter publishes progress records to a topic. Publish failures are
// logged and dropped: the records are observational and must never stall or
// abort a search.
type KafkaReporter struct {
	producer *pkgkafka.Producer
	topic    string
	logger   *logger.Logger
	timeout  time.Duration
}

func NewKafka(producer *pkgkafka.Producer, topic string, l *logger.Logger) drepo.Reporter {
	return &KafkaReporter{
		producer: producer,
		topic:    topic,
		logger:   l,
		timeout:  5 * time.Second,
	}
}

func (r *KafkaReporter) Report(s models.Sample) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	obs := observation{
		Sequence:  s.Sequence,
		CloseTime: s.CloseTime,
		ClosedAt:  util.FormatRippleTime(s.CloseTime),
	}
	key := []byte(strconv.FormatInt(s.Sequence, 10))
	if err := r.producer.Publish(ctx, r.topic, key, obs); err != nil {
		r.logger.Warn("report publish failed", logger.Error(err))
	}
}

// Multi fans a sample out to several reporters.
type Multi []drepo.Reporter

func (m Multi) Report(s models.Sample) {
	for _, r := range m {
		r.Report(s)
	}
}
