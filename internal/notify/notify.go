// Package notify 面向用户的通知协作方
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification 一条用户可见的通知
type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier 通知发送方。实现不得阻塞业务路径，失败只记日志。
type Notifier interface {
	Push(ctx context.Context, severity Severity, message string)
}

// NewNotification 构造带 ID 与时间戳的通知
func NewNotification(severity Severity, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// LogNotifier 仅写结构化日志的实现，作为兜底
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Push(ctx context.Context, severity Severity, message string) {
	notification := NewNotification(severity, message)
	switch severity {
	case SeverityError:
		n.logger.ErrorContext(ctx, "notification", "id", notification.ID, "message", message)
	default:
		n.logger.InfoContext(ctx, "notification", "id", notification.ID, "severity", severity, "message", message)
	}
}
