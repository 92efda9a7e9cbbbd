// Package relief implements the task workflow of the relief coordination
// backend: rescuers claim open requests and offers, move the resulting tasks
// forward, and completed tasks reconcile warehouse inventory.
package relief

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"reliefCoordination/internal/config"
	"reliefCoordination/internal/geo"
	"reliefCoordination/internal/metrics"
	"reliefCoordination/models"
	"reliefCoordination/repository"
)

// RoleChecker answers capability questions about a user.
type RoleChecker interface {
	HasRole(ctx context.Context, userID int64, role models.Role) (bool, error)
}

// Options tunes the workflow rules.
type Options struct {
	MaxActiveTasks           int
	CompletionRadiusMeters   float64
	EnforceProximity         bool
	ReverseInventoryOnDelete bool
	ClampNegativeStock       bool
}

// DefaultOptions mirrors the defaults of internal/config.
func DefaultOptions() Options {
	return Options{
		MaxActiveTasks:         4,
		CompletionRadiusMeters: geo.CompletionRadiusMeters,
		EnforceProximity:       true,
		ClampNegativeStock:     true,
	}
}

// OptionsFromConfig builds Options from loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxActiveTasks:           cfg.Tasks.MaxActivePerRescuer,
		CompletionRadiusMeters:   cfg.Tasks.CompletionRadiusMeters,
		EnforceProximity:         cfg.Tasks.EnforceProximity,
		ReverseInventoryOnDelete: cfg.Tasks.ReverseInventoryOnDelete,
		ClampNegativeStock:       cfg.Inventory.NegativeStock != config.NegativeStockAllow,
	}
}

// Service is the entry point for every workflow operation. Each mutating
// method runs as one transaction.
type Service struct {
	store   *repository.Store
	roles   RoleChecker
	opts    Options
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewService wires the service. Role checks default to the users table;
// a nil logger is replaced by a no-op logger and nil metrics record nothing.
func NewService(store *repository.Store, opts Options, log *zap.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxActiveTasks <= 0 {
		opts.MaxActiveTasks = DefaultOptions().MaxActiveTasks
	}
	if opts.CompletionRadiusMeters <= 0 {
		opts.CompletionRadiusMeters = geo.CompletionRadiusMeters
	}
	return &Service{store: store, roles: store.Users, opts: opts, log: log, metrics: m}
}

// WithRoleChecker replaces the role source.
func (s *Service) WithRoleChecker(rc RoleChecker) *Service {
	s.roles = rc
	return s
}

// Options returns the active workflow options.
func (s *Service) Options() Options { return s.opts }

func (s *Service) requireRole(ctx context.Context, userID int64, role models.Role) error {
	ok, err := s.roles.HasRole(ctx, userID, role)
	if err != nil {
		return fmt.Errorf("check role: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: user %d is not a %s", ErrUnauthorized, userID, role)
	}
	return nil
}

// UserByUsername resolves an authenticated principal to a user.
func (s *Service) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	return u, nil
}
