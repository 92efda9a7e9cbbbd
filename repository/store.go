package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store bundles every repository over one Querier.
type Store struct {
	db *sql.DB

	Users         *UserRepository
	Items         *ItemRepository
	Inventory     *InventoryRepository
	Announcements *AnnouncementRepository
	Requests      *RequestRepository
	Offers        *OfferRepository
	Vehicles      *VehicleRepository
	Tasks         *TaskRepository
	Base          *BaseRepository
}

// NewStore creates a Store backed by db.
func NewStore(db *sql.DB) *Store {
	s := newStore(db)
	s.db = db
	return s
}

func newStore(q Querier) *Store {
	return &Store{
		Users:         NewUserRepository(q),
		Items:         NewItemRepository(q),
		Inventory:     NewInventoryRepository(q),
		Announcements: NewAnnouncementRepository(q),
		Requests:      NewRequestRepository(q),
		Offers:        NewOfferRepository(q),
		Vehicles:      NewVehicleRepository(q),
		Tasks:         NewTaskRepository(q),
		Base:          NewBaseRepository(q),
	}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB { return s.db }

// InTx runs fn against a Store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return errors.New("store is already transactional")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(newStore(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
