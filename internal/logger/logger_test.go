package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger() (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := New(&out, &errOut)
	l.DisableColor()
	return l, &out, &errOut
}

func TestLogger_Levels(t *testing.T) {
	l, out, errOut := newTestLogger()

	l.Info("building %s", "demo")
	l.Compile("Modules: %v", []string{"a", "b"})
	l.Check("Checking file %s", "hosts")
	l.Warn("No description in mod %s", "a")
	l.Error("Cannot find any build artifacts")

	assert.Equal(t,
		"[INFO] building demo\n[COMPILE] Modules: [a b]\n[CHECK] Checking file hosts\n",
		out.String())
	assert.Equal(t,
		"[WARN] No description in mod a\n[ERR] Cannot find any build artifacts\n",
		errOut.String())
}

func TestLogger_Quiet(t *testing.T) {
	l, out, errOut := newTestLogger()
	l.SetQuiet(true)
	l.SetDebug(true)

	l.Info("hidden")
	l.Compile("hidden")
	l.Debug("hidden")
	l.Check("shown")
	l.Warn("shown")

	assert.Equal(t, "[CHECK] shown\n", out.String())
	assert.Equal(t, "[WARN] shown\n", errOut.String())
	assert.True(t, l.Quiet())
}

func TestLogger_Debug(t *testing.T) {
	l, out, _ := newTestLogger()

	l.Debug("off")
	assert.Empty(t, out.String())

	l.SetDebug(true)
	l.Debug("on %d", 1)
	assert.Equal(t, "[DEBUG] on 1\n", out.String())
}

func TestLogger_TrailingNewlineNotDoubled(t *testing.T) {
	l, out, _ := newTestLogger()
	l.Info("line\n")
	assert.Equal(t, "[INFO] line\n", out.String())
}

func TestLogger_Print(t *testing.T) {
	l, out, _ := newTestLogger()
	l.SetQuiet(true)
	l.Print("%s\n", "0.1.0")
	assert.Equal(t, "0.1.0\n", out.String())
	assert.Equal(t, out, l.Out())
}
