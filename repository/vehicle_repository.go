package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"reliefCoordination/models"
)

type VehicleRepository struct {
	db Querier
}

func NewVehicleRepository(db Querier) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, user_id, name, capacity, load, lat, lng, status`

func scanVehicle(row rowScanner) (*models.Vehicle, error) {
	var v models.Vehicle
	var lat, lng sql.NullFloat64
	var status string
	if err := row.Scan(&v.ID, &v.UserID, &v.Name, &v.Capacity, &v.Load, &lat, &lng, &status); err != nil {
		return nil, err
	}
	v.Lat, v.Lng = nullableFloat(lat), nullableFloat(lng)
	v.Status = models.VehicleStatus(status)
	return &v, nil
}

// Create inserts a vehicle. Status defaults to 'inactive'.
// A second vehicle for the same user violates the UNIQUE user_id column.
func (r *VehicleRepository) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	if v == nil {
		return nil, errors.New("vehicle is nil")
	}
	if v.Status == "" {
		v.Status = models.VehicleStatusInactive
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO vehicles (user_id, name, capacity, load, lat, lng, status) VALUES (?,?,?,?,?,?,?)`,
		v.UserID, v.Name, v.Capacity, v.Load, v.Lat, v.Lng, string(v.Status))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	v.ID = id
	return v, nil
}

func (r *VehicleRepository) get(ctx context.Context, where string, arg any) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	v, err := scanVehicle(r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	return r.get(ctx, "id = ?", id)
}

// GetByUserID returns the vehicle of a rescuer, or nil.
func (r *VehicleRepository) GetByUserID(ctx context.Context, userID int64) (*models.Vehicle, error) {
	return r.get(ctx, "user_id = ?", userID)
}

// UpdateLocation moves the vehicle. Passing nil for both clears the position.
func (r *VehicleRepository) UpdateLocation(ctx context.Context, id int64, lat, lng *float64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET lat = ?, lng = ? WHERE id = ?`, lat, lng, id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

func (r *VehicleRepository) UpdateStatus(ctx context.Context, id int64, status models.VehicleStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// ListVehiclesParams contains filters and pagination for the admin map.
type ListVehiclesParams struct {
	Status       *models.VehicleStatus
	NameContains *string
	PageSize     int
	AfterID      int64
}

// List returns vehicles matching filters ordered by id asc with keyset pagination by id.
func (r *VehicleRepository) List(ctx context.Context, p ListVehiclesParams) ([]models.Vehicle, error) {
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	where := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if p.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.NameContains != nil && strings.TrimSpace(*p.NameContains) != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+strings.TrimSpace(*p.NameContains)+"%")
	}
	if p.AfterID > 0 {
		where = append(where, "id > ?")
		args = append(args, p.AfterID)
	}
	query := "SELECT " + vehicleColumns + " FROM vehicles"
	if len(where) > 0 {
		query += " WHERE " + joinAnd(where)
	}
	query += " ORDER BY id ASC LIMIT ?"
	args = append(args, p.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
