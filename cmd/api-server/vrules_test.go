package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfig(t *testing.T) {
	valid := func() config {
		var cfg config
		cfg.auth.secret = _testSecret
		cfg.geofence.radiusMeters = 150
		cfg.regularMinutes = 480
		return cfg
	}

	require.NoError(t, checkConfig(valid()))

	cfg := valid()
	cfg.auth.secret = ""
	assert.ErrorContains(t, checkConfig(cfg), "AUTH_SECRET")

	cfg.auth.secret = "   "
	assert.ErrorContains(t, checkConfig(cfg), "AUTH_SECRET")

	cfg = valid()
	cfg.geofence.radiusMeters = 0
	assert.ErrorContains(t, checkConfig(cfg), "GEOFENCE_RADIUS_METERS")

	cfg = valid()
	cfg.regularMinutes = -1
	assert.ErrorContains(t, checkConfig(cfg), "REGULAR_MINUTES")
}
