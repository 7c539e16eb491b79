package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/session"
)

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)

	logger.Error("boom", errors.New("cause"), session.Identity{Email: "a@b.c", Role: "admin"})

	out := buf.String()
	assert.Contains(t, out, "TEST : boom")
	assert.Contains(t, out, "cause")
	assert.NotContains(t, out, "a@b.c", "identity is reported to rollbar, not printed")
}

func TestNewStdLogger_File(t *testing.T) {
	path := t.TempDir() + "/api.log"
	logger := NewStdLogger("API : ", &core.Config{Log: core.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1}})
	logger.Print("hello")
	assert.FileExists(t, path)
}
