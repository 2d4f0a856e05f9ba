// Package curriculum assembles the course store and the two ordering
// engines (modules within a course, lessons within a module) for one
// storage backend. Handlers depend on *Service only.
package curriculum

import (
	"context"
	"errors"
	"fmt"

	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	"github.com/dalemusser/coursehub/internal/app/store/gormstore"
	lessonstore "github.com/dalemusser/coursehub/internal/app/store/lessons"
	modulestore "github.com/dalemusser/coursehub/internal/app/store/modules"
	"github.com/dalemusser/coursehub/internal/app/system/scopelock"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/app/system/txn"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseStore is implemented by coursestore.Store and gormstore.CourseStore.
type CourseStore interface {
	Create(ctx context.Context, c models.Course) (models.Course, error)
	GetByID(ctx context.Context, id string) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, c models.Course) (models.Course, error)
	Delete(ctx context.Context, id string) error
	// Durations sums lesson durations per course id.
	Durations(ctx context.Context, courseIDs []string) (map[string]int64, error)
}

// Service is the curriculum API used by the HTTP features.
type Service struct {
	Backend string
	Modules *sequence.Engine[*models.Module]
	Lessons *sequence.Engine[*models.Lesson]

	courses CourseStore
	run     sequence.TxRunner
	ping    func(ctx context.Context) error
	log     *zap.Logger
}

// Engine kinds; also the prefixes of scope lock keys.
const (
	KindModule = "module"
	KindLesson = "lesson"
)

// New wires a Service from explicit parts. NewMongo and NewSQL cover the
// supported backends.
func New(backend string, courses CourseStore, modules sequence.Store[*models.Module], lessons sequence.Store[*models.Lesson], run sequence.TxRunner, ping func(context.Context) error, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if run == nil {
		run = sequence.NoTx
	}
	locks := scopelock.New()
	return &Service{
		Backend: backend,
		Modules: sequence.New(modules, run, locks, sequence.Config{Kind: KindModule, Field: "module_number"}, logger),
		Lessons: sequence.New(lessons, run, locks, sequence.Config{Kind: KindLesson, Field: "lesson_number"}, logger),
		courses: courses,
		run:     run,
		ping:    ping,
		log:     logger,
	}
}

// NewMongo builds a Service on MongoDB. With strict set, operations fail on
// servers without transaction support instead of running unprotected.
func NewMongo(db *mongo.Database, logger *zap.Logger, strict bool) *Service {
	run := mongoRunner(txn.Runner(db, logger, strict))
	ping := func(ctx context.Context) error {
		return db.Client().Ping(ctx, readpref.Primary())
	}
	return New("mongo", coursestore.New(db), modulestore.New(db), lessonstore.New(db), run, ping, logger)
}

// NewSQL builds a Service on a gorm database (postgres or sqlite).
func NewSQL(backend string, gdb *gorm.DB, logger *zap.Logger) *Service {
	ping := func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return New(backend,
		gormstore.NewCourseStore(gdb),
		gormstore.NewModuleStore(gdb),
		gormstore.NewLessonStore(gdb),
		gormstore.Runner(gdb), ping, logger)
}

// mongoRunner reports aborted transactions as sequence.ErrConflict.
func mongoRunner(run sequence.TxRunner) sequence.TxRunner {
	return func(ctx context.Context, fn func(context.Context) error) error {
		err := run(ctx, fn)
		if err != nil && !errors.Is(err, sequence.ErrConflict) && txn.IsConflict(err) {
			return fmt.Errorf("%w: %v", sequence.ErrConflict, err)
		}
		return err
	}
}

// Ping checks connectivity to the backing database.
func (s *Service) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Service) CreateCourse(ctx context.Context, c models.Course) (models.Course, error) {
	return s.courses.Create(ctx, c)
}

func (s *Service) Course(ctx context.Context, id string) (models.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return c, err
	}
	out := []models.Course{c}
	if err := s.fillDurations(ctx, out); err != nil {
		return models.Course{}, err
	}
	return out[0], nil
}

func (s *Service) Courses(ctx context.Context) ([]models.Course, error) {
	list, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.fillDurations(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// fillDurations sets DurationSeconds on each course from its lessons.
func (s *Service) fillDurations(ctx context.Context, courses []models.Course) error {
	ids := make([]string, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}
	totals, err := s.courses.Durations(ctx, ids)
	if err != nil {
		return fmt.Errorf("course durations: %w", err)
	}
	for i := range courses {
		courses[i].DurationSeconds = totals[courses[i].ID]
	}
	return nil
}

// UpdateCourse loads the course, applies edit and saves it.
func (s *Service) UpdateCourse(ctx context.Context, id string, edit func(*models.Course)) (models.Course, error) {
	var out models.Course
	err := s.run(ctx, func(ctx context.Context) error {
		c, err := s.courses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		edit(&c)
		c.ID = id
		out, err = s.courses.Update(ctx, c)
		return err
	})
	if err != nil {
		return out, err
	}
	list := []models.Course{out}
	if err := s.fillDurations(ctx, list); err != nil {
		return models.Course{}, err
	}
	return list[0], nil
}

// DeleteCourse removes the course, its modules and their lessons in one
// transaction. Module inserts into the course wait until it finishes. The
// store locks the course and module rows, so lesson writers and other
// processes are held off by the database.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	unlock := s.Modules.LockScope(id)
	defer unlock()

	err := s.run(ctx, func(ctx context.Context) error {
		return s.courses.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("course deleted", zap.String("course_id", id))
	return nil
}

// RemoveModule deletes a module with its lessons and closes the gap in the
// course. Lesson operations on the module wait until it finishes.
func (s *Service) RemoveModule(ctx context.Context, id string) error {
	unlock := s.Lessons.LockScope(id)
	defer unlock()
	return s.Modules.Remove(ctx, id)
}
