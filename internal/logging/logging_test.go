package logging

import (
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	Setup("api", true, "debug")
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	Setup("api", false, "loud")
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
}

func TestSetupStampsService(t *testing.T) {
	t.Cleanup(func() {
		log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
		log.SetOutput(io.Discard)
	})

	Setup("api", true, "info")
	Setup("worker", true, "info")
	log.SetOutput(io.Discard)
	hook := test.NewGlobal()

	log.Info("started")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "worker", hook.LastEntry().Data["service"])

	log.WithField("service", "override").Warn("custom")
	assert.Equal(t, "override", hook.LastEntry().Data["service"])

	n := 0
	for _, hk := range log.StandardLogger().Hooks[log.InfoLevel] {
		if _, ok := hk.(serviceHook); ok {
			n++
		}
	}
	assert.Equal(t, 1, n)
}
