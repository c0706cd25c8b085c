package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetVerbose(t *testing.T) {
	prev := Log.GetLevel()
	t.Cleanup(func() { Log.SetLevel(prev) })

	Log.SetLevel(logrus.InfoLevel)
	SetVerbose(false)
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	SetVerbose(true)
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}
