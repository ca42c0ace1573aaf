package context

import (
	gocontext "context"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	logger = newLogger()
	mutex  = &sync.Mutex{}
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
	return l
}

// BaseLogger returns the logger all context loggers derive from.
func BaseLogger() *logrus.Logger {
	mutex.Lock()
	defer mutex.Unlock()
	return logger
}

// SetLogger replaces the logger all context loggers derive from.
func SetLogger(l *logrus.Logger) {
	mutex.Lock()
	defer mutex.Unlock()
	logger = l
}

// SetLevel parses the given level and applies it to the base logger.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "cannot parse log level %s", level)
	}
	BaseLogger().SetLevel(lvl)
	return nil
}

// Context extends the regular golang context.Context interface with a logger and the identifiers of the running pipeline.
type Context interface {
	gocontext.Context
	Logger() *logrus.Entry
	ProcessID() string
	CorrelationID() string
	TaskName() string
}

// Background returns a non-nil, empty Context.
func Background() Context {
	return ctx{
		Context: gocontext.Background(),
	}
}

// FromContext returns a new context from the given go context.
// If c already is a Context, it is returned as is.
func FromContext(c gocontext.Context) Context {
	if asCtx, isCtx := c.(Context); isCtx {
		return asCtx
	}
	return ctx{
		Context: c,
	}
}

// WithProcessID returns a copy of the context with a processID.
func WithProcessID(c Context, pid string) Context {
	return ctx{
		c,
		pid,
		c.CorrelationID(),
		c.TaskName(),
	}
}

// WithCorrelationID returns a copy of the context with a correlationID.
func WithCorrelationID(c Context, correlationID string) Context {
	return ctx{
		c,
		c.ProcessID(),
		correlationID,
		c.TaskName(),
	}
}

// WithTaskName returns a copy of the context with a task name.
func WithTaskName(c Context, name string) Context {
	return ctx{
		c,
		c.ProcessID(),
		c.CorrelationID(),
		name,
	}
}

// WithCancel is context.WithCancel keeping the identifiers of c.
func WithCancel(c Context) (Context, gocontext.CancelFunc) {
	cc, cancel := gocontext.WithCancel(c)
	return ctx{
		cc,
		c.ProcessID(),
		c.CorrelationID(),
		c.TaskName(),
	}, cancel
}

// WithTimeout is context.WithTimeout keeping the identifiers of c.
func WithTimeout(c Context, d time.Duration) (Context, gocontext.CancelFunc) {
	cc, cancel := gocontext.WithTimeout(c, d)
	return ctx{
		cc,
		c.ProcessID(),
		c.CorrelationID(),
		c.TaskName(),
	}, cancel
}

type ctx struct {
	gocontext.Context
	processID     string
	correlationID string
	taskName      string
}

func (c ctx) Logger() *logrus.Entry {
	e := logrus.NewEntry(BaseLogger())
	if c.processID != "" {
		e = e.WithField("process_id", c.processID)
	}
	if c.correlationID != "" {
		e = e.WithField("correlation_id", c.correlationID)
	}
	if c.taskName != "" {
		e = e.WithField("task", c.taskName)
	}
	return e
}

func (c ctx) ProcessID() string {
	return c.processID
}

func (c ctx) CorrelationID() string {
	return c.correlationID
}

func (c ctx) TaskName() string {
	return c.taskName
}
