package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetNotice is what a delivery channel needs to send a reset link.
type ResetNotice struct {
	AccountID string
	Username  string
	Email     *string
	Token     string
	ResetURL  string
	ExpiresAt time.Time
}

// ResetNotifier delivers reset tokens out of band.
type ResetNotifier interface {
	NotifyReset(ctx context.Context, notice ResetNotice) error
}

// LogResetNotifier is the delivery channel used when nothing else is
// configured. Outside prod it logs the reset link at debug level so a
// developer can complete the flow locally.
type LogResetNotifier struct {
	logger   *slog.Logger
	showLink bool
}

func NewLogResetNotifier(logger *slog.Logger, showLink bool) *LogResetNotifier {
	return &LogResetNotifier{logger: logger, showLink: showLink}
}

func (n *LogResetNotifier) NotifyReset(ctx context.Context, notice ResetNotice) error {
	if n.showLink {
		n.logger.DebugContext(ctx, "password reset link", "account_id", notice.AccountID, "reset_url", notice.ResetURL, "expires_at", notice.ExpiresAt)
		return nil
	}
	n.logger.InfoContext(ctx, "password reset ready for delivery", "account_id", notice.AccountID)
	return nil
}

// StreamAdder is the part of *redis.Client the notifier needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisResetNotifier appends reset notices to a Redis stream for a mailer
// process to pick up.
type RedisResetNotifier struct {
	client StreamAdder
	stream string
}

func NewRedisResetNotifier(client StreamAdder, stream string) *RedisResetNotifier {
	return &RedisResetNotifier{client: client, stream: stream}
}

func (n *RedisResetNotifier) NotifyReset(ctx context.Context, notice ResetNotice) error {
	email := ""
	if notice.Email != nil {
		email = *notice.Email
	}
	err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{
			"account_id": notice.AccountID,
			"username":   notice.Username,
			"email":      email,
			"reset_url":  notice.ResetURL,
			"expires_at": notice.ExpiresAt.UTC().Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish reset notice: %w", err)
	}
	return nil
}
