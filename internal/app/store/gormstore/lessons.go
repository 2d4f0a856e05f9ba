// internal/app/store/gormstore/lessons.go
package gormstore

import (
	"context"
	"time"

	lessonstore "github.com/dalemusser/coursehub/internal/app/store/lessons"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonStore is the SQL sequence.Store for lessons, scoped by module id.
type LessonStore struct {
	db *gorm.DB
}

var _ sequence.Store[*models.Lesson] = (*LessonStore)(nil)

func NewLessonStore(db *gorm.DB) *LessonStore {
	return &LessonStore{db: db}
}

func (s *LessonStore) ScopeExists(ctx context.Context, moduleID string) (bool, error) {
	var n int64
	err := conn(ctx, s.db).Model(&models.Module{}).Where("id = ?", moduleID).Limit(1).Count(&n).Error
	return n > 0, err
}

func (s *LessonStore) LockParent(ctx context.Context, moduleID string) (bool, error) {
	return lockRow(ctx, s.db, &models.Module{}, moduleID)
}

func (s *LessonStore) Validate(l *models.Lesson) error {
	return lessonstore.Validate(l)
}

func (s *LessonStore) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	var l models.Lesson
	if err := conn(ctx, s.db).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, mapErr("lesson", id, err)
	}
	return &l, nil
}

func (s *LessonStore) FindByScopeAndPosition(ctx context.Context, moduleID string, pos int) (*models.Lesson, bool, error) {
	var out []models.Lesson
	err := conn(ctx, s.db).Where("module_id = ? AND position = ?", moduleID, pos).Limit(1).Find(&out).Error
	if err != nil || len(out) == 0 {
		return nil, false, err
	}
	return &out[0], true, nil
}

func (s *LessonStore) CountInScope(ctx context.Context, moduleID string) (int, error) {
	var n int64
	err := conn(ctx, s.db).Model(&models.Lesson{}).Where("module_id = ?", moduleID).Count(&n).Error
	return int(n), err
}

func (s *LessonStore) ListByScope(ctx context.Context, moduleID string) ([]*models.Lesson, error) {
	out := []*models.Lesson{}
	err := conn(ctx, s.db).Where("module_id = ?", moduleID).Order("position").Order("id").Find(&out).Error
	return out, err
}

func (s *LessonStore) ShiftRange(ctx context.Context, moduleID string, from, delta int) (int64, error) {
	res := conn(ctx, s.db).Model(&models.Lesson{}).
		Where("module_id = ? AND position >= ?", moduleID, from).
		Updates(map[string]any{
			"position":   gorm.Expr("position + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, mapErr("lesson", moduleID, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *LessonStore) Create(ctx context.Context, l *models.Lesson) (*models.Lesson, error) {
	if err := lessonstore.Validate(l); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = now
	l.UpdatedAt = now

	if err := conn(ctx, s.db).Create(l).Error; err != nil {
		return nil, mapErr("lesson", l.ID, err)
	}
	return l, nil
}

func (s *LessonStore) Update(ctx context.Context, l *models.Lesson) (*models.Lesson, error) {
	if err := lessonstore.Validate(l); err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Now().UTC()

	res := conn(ctx, s.db).Model(&models.Lesson{}).Where("id = ?", l.ID).Updates(map[string]any{
		"name":             l.Name,
		"position":         l.Position,
		"duration_seconds": l.DurationSeconds,
		"description":      l.Description,
		"media":            l.Media,
		"updated_at":       l.UpdatedAt,
	})
	if res.Error != nil {
		return nil, mapErr("lesson", l.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, mapErr("lesson", l.ID, gorm.ErrRecordNotFound)
	}
	return l, nil
}

func (s *LessonStore) Delete(ctx context.Context, id string) error {
	res := conn(ctx, s.db).Where("id = ?", id).Delete(&models.Lesson{})
	if res.Error != nil {
		return mapErr("lesson", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return mapErr("lesson", id, gorm.ErrRecordNotFound)
	}
	return nil
}
