package domain

// Unit conversion helpers for display and import. Stored units are fixed
// (ft/s, ft·lbf, grains, °C, hPa, meters); conversions happen at the edges.

const (
	gramsPerGrain  = 0.06479891
	metersPerFoot  = 0.3048
	joulesPerFtLbf = 1.3558179483
	hpaPerInHg     = 33.8638866667
	metersPerYard  = 0.9144
)

func GrainsToGrams(gr float64) float64 { return gr * gramsPerGrain }
func GramsToGrains(g float64) float64  { return g / gramsPerGrain }

func FpsToMps(fps float64) float64 { return fps * metersPerFoot }
func MpsToFps(mps float64) float64 { return mps / metersPerFoot }

func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

func HPaToInHg(hpa float64) float64 { return hpa / hpaPerInHg }
func InHgToHPa(in float64) float64  { return in * hpaPerInHg }

func FtLbfToJoules(ftlbf float64) float64 { return ftlbf * joulesPerFtLbf }
func JoulesToFtLbf(j float64) float64     { return j / joulesPerFtLbf }

func MetersToYards(m float64) float64  { return m / metersPerYard }
func YardsToMeters(yd float64) float64 { return yd * metersPerYard }

// KineticEnergyFtLbf computes muzzle energy from bullet weight in grains and
// speed in ft/s: ½mv² with the grain/fps/ft·lbf constants folded into 450240.
func KineticEnergyFtLbf(weightGrains, speedFps float64) float64 {
	return weightGrains * speedFps * speedFps / 450240
}

// PowerFactor computes the competition power factor: grains × fps / 1000.
func PowerFactor(weightGrains, speedFps float64) float64 {
	return weightGrains * speedFps / 1000
}
