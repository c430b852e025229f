package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionsRoundTrip(t *testing.T) {
	assert.InDelta(t, 175.0, GramsToGrains(GrainsToGrams(175)), 1e-9)
	assert.InDelta(t, 2700.0, MpsToFps(FpsToMps(2700)), 1e-9)
	assert.InDelta(t, 21.5, FahrenheitToCelsius(CelsiusToFahrenheit(21.5)), 1e-9)
	assert.InDelta(t, 1013.25, InHgToHPa(HPaToInHg(1013.25)), 1e-9)
	assert.InDelta(t, 1500.0, JoulesToFtLbf(FtLbfToJoules(1500)), 1e-9)
	assert.InDelta(t, 900.0, YardsToMeters(MetersToYards(900)), 1e-9)
}

func TestConversionReferenceValues(t *testing.T) {
	assert.InDelta(t, 11.34, GrainsToGrams(175), 0.01)
	assert.InDelta(t, 822.96, FpsToMps(2700), 0.01)
	assert.InDelta(t, 70.7, CelsiusToFahrenheit(21.5), 0.1)
	assert.InDelta(t, 29.92, HPaToInHg(1013.25), 0.01)
	assert.InDelta(t, 1000.0, YardsToMeters(1093.6), 0.1)
}

func TestKineticEnergyAndPowerFactor(t *testing.T) {
	// 175gr .308 at 2600 fps: ~2627 ft·lbf, PF 455.
	ke := KineticEnergyFtLbf(175, 2600)
	assert.InDelta(t, 2627, ke, 5)

	pf := PowerFactor(175, 2600)
	assert.InDelta(t, 455, pf, 0.001)
}
