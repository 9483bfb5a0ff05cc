package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/sitypes/resource"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the engine's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the engine's logger.
// This must be called before any library operations.
func SetLogger(l *zap.Logger) {
	logger = l
}

// lifecycleLogger reports object lifecycle events at debug level.
type lifecycleLogger struct{}

func (*lifecycleLogger) OnResourceEvent(e resource.Event) {
	ce := Logger().Check(zap.DebugLevel, "object "+e.Type.String())
	if ce == nil {
		return
	}
	ce.Write(
		zap.Uint64("handle", uint64(e.Handle)),
		zap.Stringer("type", Type(e.TypeID)),
		zap.Uint32("refs", e.Refs),
	)
}
