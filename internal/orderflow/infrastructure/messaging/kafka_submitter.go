// Package messaging 订单提交协作方的 Kafka 实现：
// 订单请求发布到提交 topic，由链上交易提交服务消费并签名上链。
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wyfcoding/optionsdesk/internal/orderflow/domain"
	"github.com/wyfcoding/optionsdesk/pkg/mq"
)

type KafkaOrderSubmitter struct {
	producer *mq.Producer
	topic    string
}

func NewKafkaOrderSubmitter(producer *mq.Producer, topic string) *KafkaOrderSubmitter {
	return &KafkaOrderSubmitter{producer: producer, topic: topic}
}

// orderMessage 订单请求的线上编码，数值字段统一十进制字符串
type orderMessage struct {
	ClientOrderID      string `json:"client_order_id"`
	Side               string `json:"side"`
	Price              string `json:"price"`
	Size               string `json:"size"`
	Kind               string `json:"kind"`
	Owner              string `json:"owner"`
	Payer              string `json:"payer"`
	FeeDiscountAddress string `json:"fee_discount_address,omitempty"`
	FeeRate            string `json:"fee_rate,omitempty"`
}

func (s *KafkaOrderSubmitter) Submit(ctx context.Context, req *domain.OrderRequest) error {
	msg := orderMessage{
		ClientOrderID:      req.ClientOrderID,
		Side:               string(req.Side),
		Price:              req.Price.String(),
		Size:               req.Size.String(),
		Kind:               string(req.Kind),
		Owner:              req.Owner,
		Payer:              req.Payer,
		FeeDiscountAddress: req.FeeDiscountAddress,
	}
	if req.FeeRate != nil {
		msg.FeeRate = req.FeeRate.String()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal order request: %w", err)
	}
	if err := s.producer.Publish(ctx, s.topic, req.ClientOrderID, payload); err != nil {
		return fmt.Errorf("failed to publish order request: %w", err)
	}
	return nil
}
