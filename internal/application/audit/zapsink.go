package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/bryanwahyu/forensic-audit/internal/domain/journal"
)

// zapSink mirrors journal entries into the service log.
type zapSink struct {
	logger *zap.Logger
}

func (z zapSink) Append(_ context.Context, e journal.Entry) error {
	fields := []zap.Field{
		zap.String("session_id", e.SessionID),
		zap.String("entry_id", e.ID),
		zap.String("level", string(e.Level)),
	}
	switch e.Level {
	case journal.LevelError:
		z.logger.Error(e.Message, fields...)
	case journal.LevelWarn:
		z.logger.Warn(e.Message, fields...)
	default:
		z.logger.Info(e.Message, fields...)
	}
	return nil
}
