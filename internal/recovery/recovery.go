// Package recovery keeps a panicking background goroutine from taking the
// ping loop down with it.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/postalsys/rawping/internal/logging"
)

// RecoverWithLog recovers from a panic and logs it with its stack.
// It must be deferred directly by the goroutine it protects.
func RecoverWithLog(logger *slog.Logger, name string) {
	if r := recover(); r != nil {
		logPanic(logger, name, r)
	}
}

// Go runs fn on a new goroutine. A panic in fn is logged and swallowed;
// onPanic, if non-nil, is called with the recovered value.
func Go(logger *slog.Logger, name string, fn func(), onPanic func(recovered interface{})) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logPanic(logger, name, r)
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}

func logPanic(logger *slog.Logger, name string, r interface{}) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger.Error("panic recovered",
		"goroutine", name,
		"panic", fmt.Sprintf("%v", r),
		"stack", string(debug.Stack()))
}
