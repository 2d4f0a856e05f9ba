// internal/app/store/lessons/lessonstore.go
package lessonstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists lessons, scoped by module id.
type Store struct {
	c       *mongo.Collection
	modules *mongo.Collection
}

var _ sequence.Store[*models.Lesson] = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("lessons"),
		modules: db.Collection("modules"),
	}
}

func (s *Store) ScopeExists(ctx context.Context, moduleID string) (bool, error) {
	n, err := s.modules.CountDocuments(ctx, bson.M{"_id": moduleID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LockParent bumps the module's order_version. Inside a transaction the
// write conflicts with any other transaction reordering the same module.
func (s *Store) LockParent(ctx context.Context, moduleID string) (bool, error) {
	res, err := s.modules.UpdateOne(ctx, bson.M{"_id": moduleID}, bson.M{"$inc": bson.M{"order_version": 1}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) Validate(l *models.Lesson) error {
	return Validate(l)
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	var l models.Lesson
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("lesson %s: %w", id, sequence.ErrNotFound)
		}
		return nil, err
	}
	return &l, nil
}

func (s *Store) FindByScopeAndPosition(ctx context.Context, moduleID string, pos int) (*models.Lesson, bool, error) {
	var l models.Lesson
	err := s.c.FindOne(ctx, bson.M{"module_id": moduleID, "position": pos}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &l, true, nil
}

func (s *Store) CountInScope(ctx context.Context, moduleID string) (int, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"module_id": moduleID})
	return int(n), err
}

func (s *Store) ListByScope(ctx context.Context, moduleID string) ([]*models.Lesson, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"module_id": moduleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.Lesson{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ShiftRange(ctx context.Context, moduleID string, from, delta int) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"module_id": moduleID, "position": bson.M{"$gte": from}},
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

func (s *Store) Create(ctx context.Context, l *models.Lesson) (*models.Lesson, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = now
	l.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, fmt.Errorf("lesson %s: %w", l.ID, sequence.ErrConflict)
		}
		return nil, err
	}
	return l, nil
}

func (s *Store) Update(ctx context.Context, l *models.Lesson) (*models.Lesson, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Now().UTC()

	res, err := s.c.UpdateByID(ctx, l.ID, bson.M{"$set": bson.M{
		"name":             l.Name,
		"position":         l.Position,
		"duration_seconds": l.DurationSeconds,
		"description":      l.Description,
		"media":            l.Media,
		"updated_at":       l.UpdatedAt,
	}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("lesson %s: %w", l.ID, sequence.ErrNotFound)
	}
	return l, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("lesson %s: %w", id, sequence.ErrNotFound)
	}
	return nil
}
