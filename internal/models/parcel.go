package models

// Parcel represents a property parcel to be evaluated against the antenna set.
// Location is nil until the parcel has coordinates, either loaded from the
// source file or resolved by geocoding the address.
type Parcel struct {
	ID       string    // ID is the parcel reference.
	Address  string    // Address is the postal address, used for geocoding when Location is nil.
	Owner    string    // Owner is optional metadata, carried for reporting only.
	Location *GeoPoint // Location is the parcel position, nil when not yet known.
}
