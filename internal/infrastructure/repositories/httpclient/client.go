package httpclient

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"
)

const (
	retryWaitMin = 500 * time.Millisecond
	retryWaitMax = 5 * time.Second
)

// New creates a retrying HTTP client with the given per-attempt timeout and
// retry count. Its logs go through logrus under the given component prefix.
func New(component string, timeout time.Duration, retries int) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Timeout: timeout}
	client.RetryMax = retries
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.Logger = NewLeveledLogger(component, nil)
	return client
}

// LeveledLogger adapts logrus to retryablehttp.LeveledLogger. Request
// traces are demoted to debug so a normal run stays quiet.
type LeveledLogger struct {
	component string
	base      *logger.Logger
}

// NewLeveledLogger writes through base, or the standard logrus logger when base is nil.
func NewLeveledLogger(component string, base *logger.Logger) *LeveledLogger {
	if base == nil {
		base = logger.StandardLogger()
	}
	return &LeveledLogger{component: component, base: base}
}

var _ retryablehttp.LeveledLogger = (*LeveledLogger)(nil)

func (it *LeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	it.entry(keysAndValues).Error(msg)
}

func (it *LeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	it.entry(keysAndValues).Debug(msg)
}

func (it *LeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	it.entry(keysAndValues).Debug(msg)
}

func (it *LeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	it.entry(keysAndValues).Warn(msg)
}

func (it *LeveledLogger) entry(keysAndValues []interface{}) *logger.Entry {
	fields := logger.Fields{"component": it.component}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return it.base.WithFields(fields)
}
