package gnssmetrics

// Constellation type ordinals, matching the GNSS HAL numbering.
const (
	ConstellationUnknown = iota
	ConstellationGPS
	ConstellationSBAS
	ConstellationGlonass
	ConstellationQZSS
	ConstellationBeidou
	ConstellationGalileo
	ConstellationIRNSS

	// ConstellationCount sizes the observed-constellation set.
	ConstellationCount = iota
)

var constellationNames = [ConstellationCount]string{
	"UNKNOWN", "GPS", "SBAS", "GLONASS", "QZSS", "BEIDOU", "GALILEO", "IRNSS",
}

// ConstellationName returns a human-readable name for a constellation-type
// ordinal, or "UNKNOWN" when out of range.
func ConstellationName(ordinal int) string {
	if ordinal < 0 || ordinal >= ConstellationCount {
		return constellationNames[ConstellationUnknown]
	}
	return constellationNames[ordinal]
}
