package logging

import "context"

// Reporter is the user-facing message sink of a comparison run.
// It forwards each message to a Logger at the matching level.
type Reporter struct {
	ctx    context.Context
	logger Logger
}

// NewReporter creates a reporter writing to logger
func NewReporter(ctx context.Context, logger Logger) *Reporter {
	if logger == nil {
		logger = NewNullLogger()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Reporter{ctx: ctx, logger: logger}
}

// Info reports an informational message
func (r *Reporter) Info(msg string) {
	r.logger.Info(r.ctx, msg, nil)
}

// Warn reports a warning
func (r *Reporter) Warn(msg string) {
	r.logger.Warn(r.ctx, msg, nil)
}

// Error reports an error-level message. Reporting never fails the run.
func (r *Reporter) Error(msg string) {
	r.logger.Error(r.ctx, msg, nil, nil)
}
