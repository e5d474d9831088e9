// Package middleware provides the fiber middlewares of the file service.
//
// Each middleware declares a priority; higher values run earlier:
//
//   - Recovery (1000): turns panics into errors
//   - Tracing (900): starts the server span
//   - Timeout (800): bounds the request context
//   - MetaInject (700): puts trace id, client and provider info in the context
//   - Alerting (600): reports internal errors
//   - Logger (500): logs every request
//   - ErrorHandler (400): writes errx errors as JSON
package middleware

import (
	"runtime"

	"github.com/code19m/errx"
)

const stackTraceSize = 4096

// panicError captures the current stack and wraps the recovered value.
func panicError(msg string, recovered any) error {
	stack := make([]byte, stackTraceSize)
	stack = stack[:runtime.Stack(stack, false)]

	return errx.New(msg, errx.WithDetails(errx.D{
		"stack_trace":   string(stack),
		"panic_message": recovered,
	}))
}
