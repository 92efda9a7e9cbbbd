package relief

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"reliefCoordination/models"
	"reliefCoordination/repository"
)

// SetInventory overwrites an item's stock. Admins only.
func (s *Service) SetInventory(ctx context.Context, adminID, itemID, quantity int64) error {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return err
	}
	if quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	if err := s.store.Inventory.Set(ctx, itemID, quantity); err != nil {
		return inventoryErr(itemID, err)
	}
	s.log.Info("inventory set", zap.Int64("admin_id", adminID), zap.Int64("item_id", itemID), zap.Int64("quantity", quantity))
	return nil
}

// ListInventory returns warehouse stock with item and category names.
func (s *Service) ListInventory(ctx context.Context, p repository.ListInventoryParams) ([]models.InventoryEntry, error) {
	return s.store.Inventory.List(ctx, p)
}

// CreateCategory adds an item category. Admins only.
func (s *Service) CreateCategory(ctx context.Context, adminID int64, name string) (*models.Category, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	c, err := s.store.Items.CreateCategory(ctx, name)
	if err != nil {
		return nil, storeErr("create category", err)
	}
	return c, nil
}

// CreateItem adds an item with an empty inventory row. Admins only.
func (s *Service) CreateItem(ctx context.Context, adminID int64, name string, categoryID int64) (*models.Item, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	var item *models.Item
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		var err error
		item, err = tx.Items.Create(ctx, name, categoryID)
		return storeErr("create item", err)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("item created", zap.Int64("item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// DeleteItem removes an item together with its stock and any requests or offers for it.
func (s *Service) DeleteItem(ctx context.Context, adminID, itemID int64) error {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return err
	}
	return storeErr(fmt.Sprintf("delete item %d", itemID), s.store.Items.Delete(ctx, itemID))
}

// ListCategories returns every category by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.Items.ListCategories(ctx)
}

// CreateAnnouncement posts a notice naming the items the base needs. Admins only.
func (s *Service) CreateAnnouncement(ctx context.Context, adminID int64, content string, itemIDs []int64) (*models.Announcement, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "is required")
	}
	if len(itemIDs) == 0 {
		return nil, invalid("item_ids", "at least one item is required")
	}
	var a *models.Announcement
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		for _, id := range itemIDs {
			it, err := tx.Items.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get item: %w", err)
			}
			if it == nil {
				return notFound("item", id)
			}
		}
		var err error
		a, err = tx.Announcements.Create(ctx, content, itemIDs)
		return storeErr("create announcement", err)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAnnouncements returns the newest announcements.
func (s *Service) ListAnnouncements(ctx context.Context, limit int) ([]models.Announcement, error) {
	return s.store.Announcements.List(ctx, limit)
}

// GrantRole gives a role to the named user. Admins only.
func (s *Service) GrantRole(ctx context.Context, adminID int64, username string, role models.Role) error {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return err
	}
	switch role {
	case models.RoleAdmin, models.RoleRescuer, models.RoleCitizen:
	default:
		return invalid("role", "unknown role %q", role)
	}
	u, err := s.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.store.Users.GrantRole(ctx, u.ID, role); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	s.log.Info("role granted", zap.Int64("admin_id", adminID), zap.String("username", username), zap.String("role", string(role)))
	return nil
}

// RevokeRole removes a role from the named user. Admins only; an admin cannot
// drop their own admin role.
func (s *Service) RevokeRole(ctx context.Context, adminID int64, username string, role models.Role) error {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return err
	}
	u, err := s.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u.ID == adminID && role == models.RoleAdmin {
		return invalid("role", "cannot revoke your own admin role")
	}
	if err := s.store.Users.RevokeRole(ctx, u.ID, role); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	s.log.Info("role revoked", zap.Int64("admin_id", adminID), zap.String("username", username), zap.String("role", string(role)))
	return nil
}

// ListVehicles pages through the fleet for the base map. Admins only.
func (s *Service) ListVehicles(ctx context.Context, adminID int64, p repository.ListVehiclesParams) ([]models.Vehicle, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.Vehicles.List(ctx, p)
}
