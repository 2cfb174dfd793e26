package locate

//Config holds the physical constants of the site geolocator
type Config struct {
	// NearRTT is the RTT (ms) under which a vantage point is taken to sit
	// next to the site
	NearRTT float64
	// ClusterRadius groups near vantage points (km)
	ClusterRadius float64
	// EstSpeed is the upper bound on signal speed over RTT (km/ms)
	EstSpeed float64
	// EmpSpeed is the empirical signal speed over RTT (km/ms)
	EmpSpeed float64
	// MinRTTDiff floors the RTT between a mid-hop and the destination (ms)
	MinRTTDiff float64
	// FallbackCandidates is how many sites survive the residual ranking
	FallbackCandidates int
}

//DefaultConfig returns the constants used unless configured otherwise
func DefaultConfig() Config {
	return Config{
		NearRTT:            3,
		ClusterRadius:      100,
		EstSpeed:           100,
		EmpSpeed:           66.7,
		MinRTTDiff:         0.3,
		FallbackCandidates: 3,
	}
}
