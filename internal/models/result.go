package models

// ProximityResult associates a parcel with its nearest antenna. It is a
// transient computation result created per evaluation call, not persisted
// state with its own lifecycle.
type ProximityResult struct {
	Parcel          Parcel  // Parcel the result was computed for.
	Antenna         Antenna // Antenna is the nearest antenna found.
	DistanceMeters  float64 // DistanceMeters is the great-circle distance between the two.
	WithinThreshold bool    // WithinThreshold reports whether DistanceMeters <= the configured threshold.
}
