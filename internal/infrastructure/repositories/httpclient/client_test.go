//go:build unit

package httpclient_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	logger "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/httpclient"
)

func TestLeveledLogger(t *testing.T) {
	t.Parallel()

	t.Run("should turn key value pairs into fields next to the component", func(t *testing.T) {
		t.Parallel()

		// given
		base, hook := logtest.NewNullLogger()
		leveled := httpclient.NewLeveledLogger("npm-registry", base)

		// when
		leveled.Warn("request failed", "url", "https://registry.npmjs.org/lodash", "attempt", 2)

		// then
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logger.WarnLevel, entry.Level)
		assert.Equal(t, "request failed", entry.Message)
		assert.Equal(t, "npm-registry", entry.Data["component"])
		assert.Equal(t, "https://registry.npmjs.org/lodash", entry.Data["url"])
		assert.Equal(t, 2, entry.Data["attempt"])
	})

	t.Run("should demote request traces to debug", func(t *testing.T) {
		t.Parallel()

		// given
		base, hook := logtest.NewNullLogger()
		base.SetLevel(logger.DebugLevel)
		leveled := httpclient.NewLeveledLogger("osv", base)

		// when
		leveled.Info("performing request", "method", "GET")

		// then
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logger.DebugLevel, entry.Level)
		assert.Equal(t, "GET", entry.Data["method"])
	})

	t.Run("should stay quiet at info level for request traces", func(t *testing.T) {
		t.Parallel()

		// given
		base, hook := logtest.NewNullLogger()
		leveled := httpclient.NewLeveledLogger("osv", base)

		// when
		leveled.Info("performing request")
		leveled.Debug("retrying request")

		// then
		assert.Empty(t, hook.AllEntries())
	})

	t.Run("should keep errors at error level and skip a dangling key", func(t *testing.T) {
		t.Parallel()

		// given
		base, hook := logtest.NewNullLogger()
		leveled := httpclient.NewLeveledLogger("osv", base)

		// when
		leveled.Error("giving up", "status", 503, "orphan")

		// then
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logger.ErrorLevel, entry.Level)
		assert.Equal(t, 503, entry.Data["status"])
		assert.NotContains(t, entry.Data, "orphan")
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("should retry a failing request until it succeeds", func(t *testing.T) {
		t.Parallel()

		// given
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		client := httpclient.New("npm-registry", time.Second, 3)
		client.RetryWaitMin = time.Millisecond
		client.RetryWaitMax = time.Millisecond

		// when
		response, err := client.Get(server.URL)

		// then
		require.NoError(t, err)
		defer response.Body.Close()
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
		assert.Equal(t, 3, client.RetryMax)
		assert.Equal(t, time.Second, client.HTTPClient.Timeout)
		assert.IsType(t, &httpclient.LeveledLogger{}, client.Logger)
	})
}
