// Package storage provides read access to the dealership inventory database
// for capacity lookups.
package storage

// VehicleRecord is one inventory vehicle joined with its per-model truck
// attributes. Wheelbase, bed length, and truck body style come from the
// model-specific tables when a prior backfill derived them; equipment blobs
// are the raw JSON arrays written by the sticker pipeline.
type VehicleRecord struct {
	VIN        string
	Stock      string
	Year       *int
	Model      string
	Trim       string
	Drivetrain string
	Engine     string
	BodyStyle  string

	OptionalJSON string
	StandardJSON string

	TruckBodyStyle string
	Wheelbase      *float64
	BedLength      *float64
	RearAxleConfig string
}

// Key returns the preferred identifier for logs and cache keys.
func (v *VehicleRecord) Key() string {
	if v.VIN != "" {
		return v.VIN
	}
	return v.Stock
}
