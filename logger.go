package gateway

import "github.com/sirupsen/logrus"

// Logger for logging different situations
type Logger interface {
	// Debug low level insight in system behavior to assist diagnostic.
	Debug(format string, args ...interface{})

	// Info general information that might be interesting
	Info(format string, args ...interface{})

	// Warn creeping technical debt, such as dependency updates will cause the system to not compile/break.
	Warn(format string, args ...interface{})

	// Error recoverable events/issues that does not cause a system shutdown, but is also crucial and needs to be
	// dealt with quickly.
	Error(format string, args ...interface{})

	// Panic identifies system crashing/breaking issues that forces the application to shut down or completely stop
	Panic(format string, args ...interface{})
}

type nopLogger struct{}

func (n *nopLogger) Debug(_ string, _ ...interface{}) {}
func (n *nopLogger) Info(_ string, _ ...interface{})  {}
func (n *nopLogger) Warn(_ string, _ ...interface{})  {}
func (n *nopLogger) Error(_ string, _ ...interface{}) {}
func (n *nopLogger) Panic(_ string, _ ...interface{}) {}

// logrusLogger adapts *logrus.Logger to Logger. logrus's own methods
// take fmt.Sprint-style args (Debug, Info, ...); this module's interface
// is printf-style, so the forwarding has to go through the *f variants
// rather than satisfying Logger by method set alone.
type logrusLogger struct {
	*logrus.Logger
}

// NewLogrusLogger wraps a *logrus.Logger (or logrus.StandardLogger() if
// l is nil) as a Logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{Logger: l}
}

func (l *logrusLogger) Debug(format string, args ...interface{}) { l.Logger.Debugf(format, args...) }
func (l *logrusLogger) Info(format string, args ...interface{})  { l.Logger.Infof(format, args...) }
func (l *logrusLogger) Warn(format string, args ...interface{})  { l.Logger.Warnf(format, args...) }
func (l *logrusLogger) Error(format string, args ...interface{}) { l.Logger.Errorf(format, args...) }
func (l *logrusLogger) Panic(format string, args ...interface{}) { l.Logger.Panicf(format, args...) }

var _ Logger = (*logrusLogger)(nil)
