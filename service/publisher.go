package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"budget/config"
	"budget/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventPublisher 把操作日志推送到外部消息系统
type EventPublisher interface {
	PublishActivity(ctx context.Context, entry *models.ActivityLog) error
}

// ActivityEvent 发布到消息队列的操作日志消息
type ActivityEvent struct {
	ID         uint            `json:"id"`
	UserID     uint            `json:"user_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   *uint           `json:"entity_id,omitempty"`
	Message    string          `json:"message"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewActivityEvent 由操作日志生成消息
func NewActivityEvent(entry *models.ActivityLog) *ActivityEvent {
	ev := &ActivityEvent{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Message:    entry.Message,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.Metadata != "" && json.Valid([]byte(entry.Metadata)) {
		ev.Metadata = json.RawMessage(entry.Metadata)
	}
	return ev
}

// ToJSON 序列化消息
func (e *ActivityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// AMQPPublisher 通过 RabbitMQ direct exchange 发布操作日志
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
}

// NewAMQPPublisher 连接 broker 并声明 exchange、queue 及绑定关系
func NewAMQPPublisher(cfg *config.BrokerConfig) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("连接消息队列失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("打开通道失败: %w", err)
	}

	p := &AMQPPublisher{conn: conn, channel: ch, exchange: cfg.Exchange, queue: cfg.Queue}
	if err := p.setup(); err != nil {
		p.Close()
		return nil, err
	}

	log.Printf("消息队列已连接: exchange=%s queue=%s", p.exchange, p.queue)
	return p, nil
}

func (p *AMQPPublisher) setup() error {
	if err := p.channel.ExchangeDeclare(p.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明 exchange 失败: %w", err)
	}
	if _, err := p.channel.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("声明 queue 失败: %w", err)
	}
	// direct exchange 以队列名作为 routing key
	if err := p.channel.QueueBind(p.queue, p.queue, p.exchange, false, nil); err != nil {
		return fmt.Errorf("绑定 queue 失败: %w", err)
	}
	return nil
}

// PublishActivity 发布一条持久化消息，超时 5 秒
func (p *AMQPPublisher) PublishActivity(ctx context.Context, entry *models.ActivityLog) error {
	body, err := NewActivityEvent(entry).ToJSON()
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}
	return nil
}

// Close 关闭通道和连接
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return fmt.Errorf("关闭通道失败: %w", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("关闭连接失败: %w", err)
		}
	}
	return nil
}
