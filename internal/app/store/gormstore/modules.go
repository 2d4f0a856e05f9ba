// internal/app/store/gormstore/modules.go
package gormstore

import (
	"context"
	"time"

	modulestore "github.com/dalemusser/coursehub/internal/app/store/modules"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModuleStore is the SQL sequence.Store for modules, scoped by course id.
type ModuleStore struct {
	db *gorm.DB
}

var _ sequence.Store[*models.Module] = (*ModuleStore)(nil)

func NewModuleStore(db *gorm.DB) *ModuleStore {
	return &ModuleStore{db: db}
}

func (s *ModuleStore) ScopeExists(ctx context.Context, courseID string) (bool, error) {
	var n int64
	err := conn(ctx, s.db).Model(&models.Course{}).Where("id = ?", courseID).Limit(1).Count(&n).Error
	return n > 0, err
}

func (s *ModuleStore) LockParent(ctx context.Context, courseID string) (bool, error) {
	return lockRow(ctx, s.db, &models.Course{}, courseID)
}

func (s *ModuleStore) Validate(m *models.Module) error {
	return modulestore.Validate(m)
}

func (s *ModuleStore) FindByID(ctx context.Context, id string) (*models.Module, error) {
	var m models.Module
	if err := conn(ctx, s.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapErr("module", id, err)
	}
	return &m, nil
}

func (s *ModuleStore) FindByScopeAndPosition(ctx context.Context, courseID string, pos int) (*models.Module, bool, error) {
	var out []models.Module
	err := conn(ctx, s.db).Where("course_id = ? AND position = ?", courseID, pos).Limit(1).Find(&out).Error
	if err != nil || len(out) == 0 {
		return nil, false, err
	}
	return &out[0], true, nil
}

func (s *ModuleStore) CountInScope(ctx context.Context, courseID string) (int, error) {
	var n int64
	err := conn(ctx, s.db).Model(&models.Module{}).Where("course_id = ?", courseID).Count(&n).Error
	return int(n), err
}

func (s *ModuleStore) ListByScope(ctx context.Context, courseID string) ([]*models.Module, error) {
	out := []*models.Module{}
	err := conn(ctx, s.db).Where("course_id = ?", courseID).Order("position").Order("id").Find(&out).Error
	return out, err
}

// ShiftRange runs a single UPDATE ... SET position = position + delta.
func (s *ModuleStore) ShiftRange(ctx context.Context, courseID string, from, delta int) (int64, error) {
	res := conn(ctx, s.db).Model(&models.Module{}).
		Where("course_id = ? AND position >= ?", courseID, from).
		Updates(map[string]any{
			"position":   gorm.Expr("position + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, mapErr("module", courseID, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *ModuleStore) Create(ctx context.Context, m *models.Module) (*models.Module, error) {
	if err := modulestore.Validate(m); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := conn(ctx, s.db).Create(m).Error; err != nil {
		return nil, mapErr("module", m.ID, err)
	}
	return m, nil
}

func (s *ModuleStore) Update(ctx context.Context, m *models.Module) (*models.Module, error) {
	if err := modulestore.Validate(m); err != nil {
		return nil, err
	}
	m.UpdatedAt = time.Now().UTC()

	res := conn(ctx, s.db).Model(&models.Module{}).Where("id = ?", m.ID).Updates(map[string]any{
		"name":       m.Name,
		"position":   m.Position,
		"updated_at": m.UpdatedAt,
	})
	if res.Error != nil {
		return nil, mapErr("module", m.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, mapErr("module", m.ID, gorm.ErrRecordNotFound)
	}
	return m, nil
}

// Delete removes the module and its lessons.
func (s *ModuleStore) Delete(ctx context.Context, id string) error {
	tx := conn(ctx, s.db)
	res := tx.Where("id = ?", id).Delete(&models.Module{})
	if res.Error != nil {
		return mapErr("module", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return mapErr("module", id, gorm.ErrRecordNotFound)
	}
	if err := tx.Where("module_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
		return mapErr("module", id, err)
	}
	return nil
}
