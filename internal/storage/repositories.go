package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound indicates the lookup key matched no vehicle.
var ErrNotFound = errors.New("vehicle not found")

// DB is the database handle surface the repository needs.
type DB interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// VehicleRepository reads vehicles and their per-model truck attributes.
type VehicleRepository struct {
	db DB
}

// NewVehicleRepository creates a new vehicle repository.
func NewVehicleRepository(db DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// GetByVINOrStock fetches one vehicle by VIN or stock number, left-joining
// the per-model tables so truck dimensions are present when derived. The
// truck body style is taken from whichever model table has the row.
func (r *VehicleRepository) GetByVINOrStock(ctx context.Context, key string) (*VehicleRecord, error) {
	query := `
		SELECT
			v.vin, v.stock, v.year, v.model, v.trim, v.drivetrain, v.engine, v.body_style,
			v.optional, v.standard,
			f.truck_body_style, f.wheelbase, f.bed_length,
			sd.truck_body_style, sd.wheelbase, sd.bed_length, sd.rear_axle_config,
			rg.truck_body_style,
			mv.truck_body_style
		FROM vehicles v
		LEFT JOIN f150 f ON f.vin = v.vin
		LEFT JOIN super_duty sd ON sd.vin = v.vin
		LEFT JOIN ranger rg ON rg.vin = v.vin
		LEFT JOIN maverick mv ON mv.vin = v.vin
		WHERE v.vin = $1 OR v.stock = $2
		LIMIT 1
	`

	var (
		rec                            VehicleRecord
		stock, trim, drivetrain        sql.NullString
		engine, bodyStyle              sql.NullString
		optional, standard             sql.NullString
		year                           sql.NullInt64
		fCab, sdCab, rgCab, mvCab      sql.NullString
		fWheelbase, fBed               sql.NullFloat64
		sdWheelbase, sdBed             sql.NullFloat64
		sdRearAxle                     sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, key, key).Scan(
		&rec.VIN, &stock, &year, &rec.Model, &trim, &drivetrain, &engine, &bodyStyle,
		&optional, &standard,
		&fCab, &fWheelbase, &fBed,
		&sdCab, &sdWheelbase, &sdBed, &sdRearAxle,
		&rgCab,
		&mvCab,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("query vehicle %q: %w", key, err)
	}

	rec.Stock = stock.String
	rec.Trim = trim.String
	rec.Drivetrain = drivetrain.String
	rec.Engine = engine.String
	rec.BodyStyle = bodyStyle.String
	rec.OptionalJSON = optional.String
	rec.StandardJSON = standard.String
	rec.RearAxleConfig = sdRearAxle.String
	if year.Valid {
		y := int(year.Int64)
		rec.Year = &y
	}

	rec.TruckBodyStyle = firstNonEmpty(fCab.String, sdCab.String, rgCab.String, mvCab.String)

	// Dimensions follow the model that owns the row.
	switch rec.Model {
	case "F-150":
		rec.Wheelbase = nullFloat(fWheelbase)
		rec.BedLength = nullFloat(fBed)
	case "F-250", "F-350", "F-450":
		rec.Wheelbase = nullFloat(sdWheelbase)
		rec.BedLength = nullFloat(sdBed)
	}

	return &rec, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
