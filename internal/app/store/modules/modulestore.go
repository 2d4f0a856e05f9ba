// internal/app/store/modules/modulestore.go
package modulestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists modules. It implements sequence.Store[*models.Module] with
// the course id as scope; it never renumbers on its own.
type Store struct {
	c       *mongo.Collection
	courses *mongo.Collection
	lessons *mongo.Collection
}

var _ sequence.Store[*models.Module] = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("modules"),
		courses: db.Collection("courses"),
		lessons: db.Collection("lessons"),
	}
}

func (s *Store) ScopeExists(ctx context.Context, courseID string) (bool, error) {
	n, err := s.courses.CountDocuments(ctx, bson.M{"_id": courseID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LockParent bumps the course's order_version. Inside a transaction the
// write conflicts with any other transaction reordering the same course.
func (s *Store) LockParent(ctx context.Context, courseID string) (bool, error) {
	res, err := s.courses.UpdateOne(ctx, bson.M{"_id": courseID}, bson.M{"$inc": bson.M{"order_version": 1}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) Validate(m *models.Module) error {
	return Validate(m)
}

// Validate checks the field-level rules shared by every module backend.
func Validate(m *models.Module) error {
	if strings.TrimSpace(m.Name) == "" {
		return &sequence.ValidationError{Field: "name", Message: "is required"}
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Module, error) {
	var m models.Module
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("module %s: %w", id, sequence.ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

func (s *Store) FindByScopeAndPosition(ctx context.Context, courseID string, pos int) (*models.Module, bool, error) {
	var m models.Module
	err := s.c.FindOne(ctx, bson.M{"course_id": courseID, "position": pos}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &m, true, nil
}

func (s *Store) CountInScope(ctx context.Context, courseID string) (int, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"course_id": courseID})
	return int(n), err
}

func (s *Store) ListByScope(ctx context.Context, courseID string) ([]*models.Module, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Module{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ShiftRange adds delta to the position of every module in the course at or
// above from, in one UpdateMany.
func (s *Store) ShiftRange(ctx context.Context, courseID string, from, delta int) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"course_id": courseID, "position": bson.M{"$gte": from}},
		bson.M{
			"$inc": bson.M{"position": delta},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) Create(ctx context.Context, m *models.Module) (*models.Module, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, fmt.Errorf("module %s: %w", m.ID, sequence.ErrConflict)
		}
		return nil, err
	}
	return m, nil
}

func (s *Store) Update(ctx context.Context, m *models.Module) (*models.Module, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}
	m.UpdatedAt = time.Now().UTC()

	res, err := s.c.UpdateByID(ctx, m.ID, bson.M{"$set": bson.M{
		"name":       m.Name,
		"position":   m.Position,
		"updated_at": m.UpdatedAt,
	}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("module %s: %w", m.ID, sequence.ErrNotFound)
	}
	return m, nil
}

// Delete removes the module and all of its lessons.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("module %s: %w", id, sequence.ErrNotFound)
	}
	if _, err := s.lessons.DeleteMany(ctx, bson.M{"module_id": id}); err != nil {
		return err
	}
	return nil
}
