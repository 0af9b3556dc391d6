package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Init must construct every handler collaborator, position hub included, so
// nothing is left to package-load initialization.
func TestInitWiresCollaborators(t *testing.T) {
	Init(nil)

	assert.NotNil(t, durationPager)
	assert.NotNil(t, todayAggregator)
	assert.NotNil(t, fleetTelemetry)
	assert.NotNil(t, positionHub)
}
