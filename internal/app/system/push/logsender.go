// internal/app/system/push/logsender.go
package push

import (
	"context"

	"go.uber.org/zap"
)

// LogSender logs instead of delivering. Used in dry-run mode for local
// development without FCM credentials.
type LogSender struct {
	Log *zap.Logger
}

func (s *LogSender) Send(_ context.Context, msg Message) (Result, error) {
	s.Log.Info("push dry-run",
		zap.Int("tokens", len(msg.Tokens)),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body))
	return Result{Success: len(msg.Tokens)}, nil
}
