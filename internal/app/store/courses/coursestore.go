// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c       *mongo.Collection
	modules *mongo.Collection
	lessons *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("courses"),
		modules: db.Collection("modules"),
		lessons: db.Collection("lessons"),
	}
}

// Create inserts a new Course, assigning ID, TitleCI and timestamps.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
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

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Course{}, fmt.Errorf("course %s: %w", c.ID, sequence.ErrConflict)
		}
		return models.Course{}, err
	}
	return c, nil
}

// GetByID returns a course by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Course{}, fmt.Errorf("course %s: %w", id, sequence.ErrNotFound)
		}
		return models.Course{}, err
	}
	return c, nil
}

// List returns all courses sorted by folded title.
func (s *Store) List(ctx context.Context) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the mutable fields of a course and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, c models.Course) (models.Course, error) {
	if strings.TrimSpace(c.Title) == "" {
		return models.Course{}, &sequence.ValidationError{Field: "title", Message: "is required"}
	}
	c.TitleCI = text.Fold(c.Title)
	c.UpdatedAt = time.Now().UTC()

	res, err := s.c.UpdateByID(ctx, c.ID, bson.M{"$set": bson.M{
		"title":        c.Title,
		"title_ci":     c.TitleCI,
		"description":  c.Description,
		"is_mandatory": c.IsMandatory,
		"updated_at":   c.UpdatedAt,
	}})
	if err != nil {
		return models.Course{}, err
	}
	if res.MatchedCount == 0 {
		return models.Course{}, fmt.Errorf("course %s: %w", c.ID, sequence.ErrNotFound)
	}
	return c, nil
}

// Delete removes a course with its modules and their lessons. Run it inside
// a transaction; the three deletes are not atomic on their own. Module and
// lesson writers bump order_version on the course or module they reorder,
// so a concurrent writer and this delete conflict instead of leaving
// orphans.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("course %s: %w", id, sequence.ErrNotFound)
	}

	moduleIDs, err := s.modules.Distinct(ctx, "_id", bson.M{"course_id": id})
	if err != nil {
		return err
	}
	if len(moduleIDs) > 0 {
		if _, err := s.lessons.DeleteMany(ctx, bson.M{"module_id": bson.M{"$in": moduleIDs}}); err != nil {
			return err
		}
	}
	if _, err := s.modules.DeleteMany(ctx, bson.M{"course_id": id}); err != nil {
		return err
	}
	return nil
}

// Durations sums lesson durations per course. Courses without lessons are
// absent from the result.
func (s *Store) Durations(ctx context.Context, courseIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"course_id": bson.M{"$in": courseIDs}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "lessons",
			"localField":   "_id",
			"foreignField": "module_id",
			"as":           "lessons",
		}}},
		{{Key: "$unwind", Value: "$lessons"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$course_id",
			"total": bson.M{"$sum": "$lessons.duration_seconds"},
		}}},
	}
	cur, err := s.modules.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		CourseID string `bson:"_id"`
		Total    int64  `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.CourseID] = r.Total
	}
	return out, nil
}
