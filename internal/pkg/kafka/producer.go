package kafka

import (
	"Hitoiki/internal/api/config"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ArticlePublishedEvent 文章公开事件，供下游（feed、搜索预热等）消费
type ArticlePublishedEvent struct {
	ArticleID     uint64    `json:"article_id"`
	Title         string    `json:"title"`
	CreatedUserID string    `json:"created_user_id"`
	PublicDate    time.Time `json:"public_date"`
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer 构造同步生产者
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	saramaCfg := newSaramaConfig(cfg)

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}

	return &Producer{
		producer: producer,
		topic:    cfg.PublishedTopic,
	}, nil
}

// PublishArticlePublished 发布文章公开事件。
// 事件丢失不影响审核结果本身，调用方只记日志。
func (s *Producer) PublishArticlePublished(ctx context.Context, event *ArticlePublishedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal article published event")
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.ArticleID, 10)),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrap(err, "send article published event")
	}

	log.InfoContext(ctx, "article published event sent",
		"article_id", event.ArticleID,
		"partition", partition,
		"offset", offset)
	return nil
}

func (s *Producer) Close() error {
	return s.producer.Close()
}
