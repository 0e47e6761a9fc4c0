package models

// Antenna represents an antenna installation on a support structure.
// Only the location takes part in distance computation; the remaining
// fields are carried through for reporting.
type Antenna struct {
	SupportID string   // SupportID is the support number the antenna is mounted on.
	Operator  string   // Operator is the normalized name of the operating carrier.
	Location  GeoPoint // Location is the validated antenna position.
}
