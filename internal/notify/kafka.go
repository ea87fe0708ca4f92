package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/wyfcoding/optionsdesk/pkg/mq"
)

// KafkaNotifier 把通知发布到 Kafka，供前端推送通道消费
type KafkaNotifier struct {
	producer *mq.Producer
	topic    string
	logger   *slog.Logger
}

func NewKafkaNotifier(producer *mq.Producer, topic string, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic, logger: logger}
}

func (n *KafkaNotifier) Push(ctx context.Context, severity Severity, message string) {
	notification := NewNotification(severity, message)
	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to marshal notification", "error", err)
		return
	}
	// 通知是尽力而为的，发布失败不回传业务路径
	if err := n.producer.Publish(ctx, n.topic, notification.ID, payload); err != nil {
		n.logger.ErrorContext(ctx, "failed to publish notification", "error", err, "id", notification.ID)
	}
}
