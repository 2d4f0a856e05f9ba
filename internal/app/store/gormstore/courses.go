// internal/app/store/gormstore/courses.go
package gormstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseStore struct {
	db *gorm.DB
}

func NewCourseStore(db *gorm.DB) *CourseStore {
	return &CourseStore{db: db}
}

func (s *CourseStore) Create(ctx context.Context, c models.Course) (models.Course, error) {
	if strings.TrimSpace(c.Title) == "" {
		return models.Course{}, &sequence.ValidationError{Field: "title", Message: "is required"}
	}
	now := time.Now().UTC()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.TitleCI = text.Fold(c.Title)
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := conn(ctx, s.db).Create(&c).Error; err != nil {
		return models.Course{}, mapErr("course", c.ID, err)
	}
	return c, nil
}

func (s *CourseStore) GetByID(ctx context.Context, id string) (models.Course, error) {
	var c models.Course
	if err := conn(ctx, s.db).Where("id = ?", id).First(&c).Error; err != nil {
		return models.Course{}, mapErr("course", id, err)
	}
	return c, nil
}

func (s *CourseStore) List(ctx context.Context) ([]models.Course, error) {
	out := []models.Course{}
	err := conn(ctx, s.db).Order("title_ci").Order("id").Find(&out).Error
	return out, err
}

func (s *CourseStore) Update(ctx context.Context, c models.Course) (models.Course, error) {
	if strings.TrimSpace(c.Title) == "" {
		return models.Course{}, &sequence.ValidationError{Field: "title", Message: "is required"}
	}
	c.TitleCI = text.Fold(c.Title)
	c.UpdatedAt = time.Now().UTC()

	res := conn(ctx, s.db).Model(&models.Course{}).Where("id = ?", c.ID).Updates(map[string]any{
		"title":        c.Title,
		"title_ci":     c.TitleCI,
		"description":  c.Description,
		"is_mandatory": c.IsMandatory,
		"updated_at":   c.UpdatedAt,
	})
	if res.Error != nil {
		return models.Course{}, mapErr("course", c.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Course{}, mapErr("course", c.ID, gorm.ErrRecordNotFound)
	}
	return s.GetByID(ctx, c.ID)
}

// Delete removes a course with its modules and their lessons. Run it through
// Runner so the three deletes commit together.
// Delete removes the course, its modules and their lessons. Inside a
// transaction it first locks the course row and then its module rows, the
// same order module and lesson writers take them, so a concurrent insert
// either commits before the delete sees its scope or fails with NotFound.
func (s *CourseStore) Delete(ctx context.Context, id string) error {
	ok, err := lockRow(ctx, s.db, &models.Course{}, id)
	if err != nil {
		return err
	}
	if !ok {
		return mapErr("course", id, gorm.ErrRecordNotFound)
	}

	tx := conn(ctx, s.db)
	q := tx.Model(&models.Module{}).Where("course_id = ?", id)
	if s.db.Dialector.Name() != SQLite {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var moduleIDs []string
	if err := q.Pluck("id", &moduleIDs).Error; err != nil {
		return mapErr("course", id, err)
	}

	if len(moduleIDs) > 0 {
		if err := tx.Where("module_id IN ?", moduleIDs).Delete(&models.Lesson{}).Error; err != nil {
			return mapErr("course", id, err)
		}
		if err := tx.Where("id IN ?", moduleIDs).Delete(&models.Module{}).Error; err != nil {
			return mapErr("course", id, err)
		}
	}
	res := tx.Where("id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return mapErr("course", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return mapErr("course", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Durations sums lesson durations per course. Courses without lessons are
// absent from the result.
func (s *CourseStore) Durations(ctx context.Context, courseIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CourseID string
		Total    int64
	}
	err := conn(ctx, s.db).Table("lessons").
		Select("modules.course_id AS course_id, SUM(lessons.duration_seconds) AS total").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id IN ?", courseIDs).
		Group("modules.course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.CourseID] = r.Total
	}
	return out, nil
}
