package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLog(t *testing.T) {
	assert.Equal(t, "[INFO] hello 1", formatLog("INFO", "", "hello %d", 1))
	assert.Equal(t, "[WARN] [req_id=abc] slow", formatLog("WARN", "abc", "slow"))
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", getRequestID(ctx))
	assert.Equal(t, "", getRequestID(context.Background()))
}

func TestDump(t *testing.T) {
	out := Dump(struct{ Name string }{Name: "clip.mp4"})
	assert.Contains(t, out, "clip.mp4")
}

func TestConsoleSinkDoesNotPanic(t *testing.T) {
	SetDebug(true)
	defer SetDebug(false)
	assert.NotPanics(t, func() {
		Info("info %s", "x")
		Warn("warn")
		Error("error %v", assert.AnError)
		Debug("debug")
		InfoWithContext(WithRequestID(context.Background(), "r1"), "ctx info")
		Sync()
	})
}
