package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts documents directly, bypassing the sequence engine. Tests
// use it to build a known starting order, including deliberately broken ones.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCourse creates a test course with the given title.
func (f *Fixtures) CreateCourse(ctx context.Context, title string) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Course{
		ID:        uuid.NewString(),
		Title:     title,
		TitleCI:   text.Fold(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("courses").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return c
}

// CreateModule creates a module at position without shifting siblings.
func (f *Fixtures) CreateModule(ctx context.Context, courseID, name string, position int) models.Module {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Module{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		Name:      name,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("modules").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test module: %v", err)
	}
	return m
}

// CreateLesson creates a lesson at position without shifting siblings.
func (f *Fixtures) CreateLesson(ctx context.Context, moduleID, name string, position int) models.Lesson {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.Lesson{
		ID:              uuid.NewString(),
		ModuleID:        moduleID,
		Name:            name,
		Position:        position,
		DurationSeconds: 600,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("lessons").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test lesson: %v", err)
	}
	return l
}
