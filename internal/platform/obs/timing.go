package obs

import (
	"context"
	"time"

	"field-workflow-service/internal/platform/logger"
)

// Time starts timing an operation. Call the returned func with a pointer to
// the operation's named error, usually via defer.
func Time(ctx context.Context, log *logger.Logger, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		if log == nil {
			return
		}
		dur := time.Since(start)
		fields := log.WithFields(ctx, map[string]any{
			"op":     name,
			"dur_ms": dur.Milliseconds(),
		})

		if errp != nil && *errp != nil {
			log.Error(fields, "op failed", *errp)
			return
		}
		log.Debug(fields, "op done")
	}
}
