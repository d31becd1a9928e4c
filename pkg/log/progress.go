package log

// ProgressLogger reports render progress as structured log entries
type ProgressLogger struct {
	logger *Logger
	every  int
}

// NewProgressLogger logs every n-th scanline notification plus the final one.
// n <= 1 logs all of them.
func NewProgressLogger(logger *Logger, n int) *ProgressLogger {
	if n < 1 {
		n = 1
	}
	return &ProgressLogger{logger: logger, every: n}
}

// ScanlinesRemaining implements renderer.Progress
func (p *ProgressLogger) ScanlinesRemaining(remaining int) {
	if remaining%p.every != 0 && remaining != 0 {
		return
	}
	p.logger.Info("scanlines remaining", Int("remaining", remaining))
}

// Done implements renderer.Progress
func (p *ProgressLogger) Done() {
	p.logger.Info("done")
}
