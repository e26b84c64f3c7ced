package swarm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, LevelDebug, LevelFromString("debug"))
	assert.Equal(t, LevelWarn, LevelFromString(" Warning "))
	assert.Equal(t, LevelError, LevelFromString("ERROR"))
	assert.Equal(t, LevelNone, LevelFromString("none"))
	assert.Equal(t, LevelInfo, LevelFromString("chatty"))
}

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLeveledLogger("swarm", LevelInfo, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("count=%d", 3)
	l.Warnf("careful")
	l.Errorf("broken")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[swarm] INFO: count=3")
	assert.Contains(t, errOut.String(), "[swarm] WARN: careful")
	assert.Contains(t, errOut.String(), "[swarm] ERROR: broken")
	assert.False(t, l.DebugEnabled())

	l.SetDebug(true)
	l.Debugf("shown")
	assert.Contains(t, out.String(), "DEBUG: shown")

	l.SetDebug(false)
	assert.Equal(t, LevelInfo, l.Level())
}

func TestDefaultLogger_None(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLeveledLogger("", LevelNone, &out, &errOut)
	l.Errorf("nope")
	assert.Empty(t, errOut.String())
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())

	app = NewApp()
	assert.False(t, app.Logger().DebugEnabled())

	app.UseModules(LoggingModule{Prefix: "t", Debug: true})
	assert.True(t, app.Logger().DebugEnabled())
}
