package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reliefCoordination/models"
)

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with the given username and roles.
// Roles default to citizen when none are given.
func (r *UserRepository) Create(ctx context.Context, username string, roles ...models.Role) (*models.User, error) {
	if len(roles) == 0 {
		roles = []models.Role{models.RoleCitizen}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, username)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`, id, string(role)); err != nil {
			return nil, err
		}
	}
	return &models.User{ID: id, Username: username, Roles: roles}, nil
}

func (r *UserRepository) scanUser(ctx context.Context, row rowScanner) (*models.User, error) {
	var u models.User
	var lat, lng sql.NullFloat64
	if err := row.Scan(&u.ID, &u.Username, &lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Lat, u.Lng = nullableFloat(lat), nullableFloat(lng)
	roles, err := r.Roles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT id, username, lat, lng FROM users WHERE id = ?`, id)
	return r.scanUser(ctx, row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT id, username, lat, lng FROM users WHERE username = ?`, username)
	return r.scanUser(ctx, row)
}

// List returns users ordered by id. Roles are not loaded.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, username, lat, lng FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		var u models.User
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&u.ID, &u.Username, &lat, &lng); err != nil {
			return nil, err
		}
		u.Lat, u.Lng = nullableFloat(lat), nullableFloat(lng)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

// UpdateLocation sets or clears the user's last-known position.
// Callers validate that lat and lng are either both set or both nil.
func (r *UserRepository) UpdateLocation(ctx context.Context, id int64, lat, lng *float64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET lat = ?, lng = ? WHERE id = ?`, lat, lng, id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// Roles lists the roles held by a user.
func (r *UserRepository) Roles(ctx context.Context, userID int64) ([]models.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, models.Role(role))
	}
	return out, rows.Err()
}

// HasRole reports whether the user holds role.
func (r *UserRepository) HasRole(ctx context.Context, userID int64, role models.Role) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM user_roles WHERE user_id = ? AND role = ?`, userID, string(role)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GrantRole adds role to the user. Granting a held role is a no-op.
func (r *UserRepository) GrantRole(ctx context.Context, userID int64, role models.Role) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`, userID, string(role))
	return err
}

// RevokeRole removes role from the user.
func (r *UserRepository) RevokeRole(ctx context.Context, userID int64, role models.Role) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ? AND role = ?`, userID, string(role))
	return err
}
