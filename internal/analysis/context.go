package analysis

import "context"

// Context keys for analysis options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	analysisIDKey     contextKey = "analysisID"
)

// WithSuppressHeader marks the context so that run headers are not logged.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && suppress
}

// withAnalysisID stores the active analysis run ID in the context.
func withAnalysisID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, analysisIDKey, id)
}

// analysisIDFrom returns the active analysis run ID, or 0 when tracking is off.
func analysisIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(analysisIDKey).(int64)
	return id
}
