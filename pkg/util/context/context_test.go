package context

import (
	"bytes"
	gocontext "context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifiers(t *testing.T) {
	c := Background()
	c = WithProcessID(c, "pid")
	c = WithCorrelationID(c, "cid")
	c = WithTaskName(c, "summarizer")

	assert.Equal(t, "pid", c.ProcessID())
	assert.Equal(t, "cid", c.CorrelationID())
	assert.Equal(t, "summarizer", c.TaskName())

	t.Run("cancel_keeps_ids", func(t *testing.T) {
		cc, cancel := WithCancel(c)
		cancel()
		assert.Equal(t, "pid", cc.ProcessID())
		assert.Equal(t, "summarizer", cc.TaskName())
		assert.Error(t, cc.Err())
		assert.NoError(t, c.Err())
	})

	t.Run("timeout_keeps_ids", func(t *testing.T) {
		cc, cancel := WithTimeout(c, time.Millisecond)
		defer cancel()
		<-cc.Done()
		assert.Equal(t, gocontext.DeadlineExceeded, cc.Err())
		assert.Equal(t, "cid", cc.CorrelationID())
	})
}

func TestFromContext(t *testing.T) {
	c := WithProcessID(Background(), "pid")
	assert.Equal(t, "pid", FromContext(c).ProcessID())
	assert.Equal(t, "", FromContext(gocontext.Background()).ProcessID())
}

func TestLogger(t *testing.T) {
	l := logrus.New()
	buf := &bytes.Buffer{}
	l.SetOutput(buf)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	previous := BaseLogger()
	SetLogger(l)
	defer SetLogger(previous)

	c := WithTaskName(WithProcessID(Background(), "pid"), "merger")
	c.Logger().Info("hello")
	assert.Contains(t, buf.String(), "process_id=pid")
	assert.Contains(t, buf.String(), "task=merger")
	assert.NotContains(t, buf.String(), "correlation_id")

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	require.Error(t, SetLevel("loud"))
	require.NoError(t, SetLevel(""))
}
