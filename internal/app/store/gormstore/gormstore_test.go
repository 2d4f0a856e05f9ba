package gormstore_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/store/gormstore"
	"github.com/dalemusser/coursehub/internal/app/system/opt"
	"github.com/dalemusser/coursehub/internal/app/system/scopelock"
	"github.com/dalemusser/coursehub/internal/app/system/sequence"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newModuleEngine(gdb *gorm.DB) *sequence.Engine[*models.Module] {
	return sequence.New[*models.Module](
		gormstore.NewModuleStore(gdb),
		gormstore.Runner(gdb),
		nil,
		sequence.Config{Kind: "module", Field: "module_number"},
		zap.NewNop(),
	)
}

func createCourse(t *testing.T, ctx context.Context, gdb *gorm.DB, title string) models.Course {
	t.Helper()
	c, err := gormstore.NewCourseStore(gdb).Create(ctx, models.Course{Title: title})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	return c
}

func moduleNames(t *testing.T, ctx context.Context, eng *sequence.Engine[*models.Module], courseID string) []string {
	t.Helper()
	list, err := eng.List(ctx, courseID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if err := sequence.Verify(list); err != nil {
		t.Fatalf("sequence not dense: %v", err)
	}
	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.Name
	}
	return names
}

func assertNames(t *testing.T, got []string, want ...string) {
	t.Helper()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
}

func TestModuleStore_InsertShiftsOccupants(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	eng := newModuleEngine(gdb)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := createCourse(t, ctx, gdb, "Course")
	for i, name := range []string{"A", "B", "C"} {
		if _, err := eng.Insert(ctx, course.ID, i+1, &models.Module{Name: name}); err != nil {
			t.Fatalf("Insert(%s) failed: %v", name, err)
		}
	}

	if _, err := eng.Insert(ctx, course.ID, 2, &models.Module{Name: "X"}); err != nil {
		t.Fatalf("Insert(X) failed: %v", err)
	}
	assertNames(t, moduleNames(t, ctx, eng, course.ID), "A", "X", "B", "C")
}

func TestModuleStore_RepositionAndRemove(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	eng := newModuleEngine(gdb)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := createCourse(t, ctx, gdb, "Course")
	ids := map[string]string{}
	for i, name := range []string{"A", "B", "C"} {
		m, err := eng.Insert(ctx, course.ID, i+1, &models.Module{Name: name})
		if err != nil {
			t.Fatalf("Insert(%s) failed: %v", name, err)
		}
		ids[name] = m.ID
	}

	if _, err := eng.Reposition(ctx, ids["A"], opt.Some(3), nil); err != nil {
		t.Fatalf("Reposition failed: %v", err)
	}
	assertNames(t, moduleNames(t, ctx, eng, course.ID), "B", "C", "A")

	if err := eng.Remove(ctx, ids["C"]); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	assertNames(t, moduleNames(t, ctx, eng, course.ID), "B", "A")

	err := eng.Remove(ctx, ids["C"])
	if !errors.Is(err, sequence.ErrNotFound) {
		t.Errorf("second Remove: expected ErrNotFound, got %v", err)
	}
	assertNames(t, moduleNames(t, ctx, eng, course.ID), "B", "A")
}

func TestModuleStore_RollbackOnFailedApply(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	eng := newModuleEngine(gdb)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := createCourse(t, ctx, gdb, "Course")
	var first *models.Module
	for i, name := range []string{"A", "B", "C"} {
		m, err := eng.Insert(ctx, course.ID, i+1, &models.Module{Name: name})
		if err != nil {
			t.Fatalf("Insert(%s) failed: %v", name, err)
		}
		if i == 0 {
			first = m
		}
	}

	_, err := eng.Reposition(ctx, first.ID, opt.Some(3), func(m *models.Module) error {
		m.Name = "" // rejected by the store on the final update
		return nil
	})
	if !errors.Is(err, sequence.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	assertNames(t, moduleNames(t, ctx, eng, course.ID), "A", "B", "C")
}

func TestModuleStore_UnknownCourse(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	eng := newModuleEngine(gdb)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := eng.Insert(ctx, "missing", 1, &models.Module{Name: "A"})
	if !errors.Is(err, sequence.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLessonStore_Sequence(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := createCourse(t, ctx, gdb, "Course")
	mod, err := newModuleEngine(gdb).Insert(ctx, course.ID, 1, &models.Module{Name: "M"})
	if err != nil {
		t.Fatalf("Insert module failed: %v", err)
	}

	eng := sequence.New[*models.Lesson](
		gormstore.NewLessonStore(gdb), gormstore.Runner(gdb), nil,
		sequence.Config{Kind: "lesson", Field: "lesson_number"}, zap.NewNop())

	for _, tc := range []struct {
		name string
		pos  int
	}{{"L1", 1}, {"L2", 2}, {"L0", 1}} {
		if _, err := eng.Insert(ctx, mod.ID, tc.pos, &models.Lesson{Name: tc.name, DurationSeconds: 60}); err != nil {
			t.Fatalf("Insert(%s) failed: %v", tc.name, err)
		}
	}

	list, err := eng.List(ctx, mod.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if err := sequence.Verify(list); err != nil {
		t.Fatalf("not dense: %v", err)
	}
	var got []string
	for _, l := range list {
		got = append(got, l.Name)
	}
	assertNames(t, got, "L0", "L1", "L2")

	_, err = eng.Insert(ctx, mod.ID, 1, &models.Lesson{Name: "bad", DurationSeconds: 0})
	if !errors.Is(err, sequence.ErrValidation) {
		t.Errorf("expected validation error for zero duration, got %v", err)
	}
	if n, _ := gormstore.NewLessonStore(gdb).CountInScope(ctx, mod.ID); n != 3 {
		t.Errorf("count after rejected insert: got %d, want 3", n)
	}
}

func TestCourseStore_DeleteCascades(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	courses := gormstore.NewCourseStore(gdb)
	doomed := createCourse(t, ctx, gdb, "Doomed")
	kept := createCourse(t, ctx, gdb, "Kept")

	modules := gormstore.NewModuleStore(gdb)
	lessons := gormstore.NewLessonStore(gdb)
	for _, c := range []models.Course{doomed, kept} {
		m, err := modules.Create(ctx, &models.Module{CourseID: c.ID, Name: "M", Position: 1})
		if err != nil {
			t.Fatalf("create module: %v", err)
		}
		if _, err := lessons.Create(ctx, &models.Lesson{ModuleID: m.ID, Name: "L", Position: 1, DurationSeconds: 5}); err != nil {
			t.Fatalf("create lesson: %v", err)
		}
	}

	err := gormstore.Runner(gdb)(ctx, func(ctx context.Context) error {
		return courses.Delete(ctx, doomed.ID)
	})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var nModules, nLessons int64
	gdb.Model(&models.Module{}).Count(&nModules)
	gdb.Model(&models.Lesson{}).Count(&nLessons)
	if nModules != 1 || nLessons != 1 {
		t.Errorf("remaining modules=%d lessons=%d, want 1 and 1", nModules, nLessons)
	}

	if _, err := courses.GetByID(ctx, doomed.ID); !errors.Is(err, sequence.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := courses.Delete(ctx, doomed.ID); !errors.Is(err, sequence.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestCourseStore_ListAndUpdate(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	courses := gormstore.NewCourseStore(gdb)
	b := createCourse(t, ctx, gdb, "beta")
	createCourse(t, ctx, gdb, "Alpha")

	b.Title = "Gamma"
	b.IsMandatory = true
	updated, err := courses.Update(ctx, b)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.IsMandatory || updated.TitleCI != "gamma" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	list, err := courses.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Alpha" || list[1].Title != "Gamma" {
		t.Errorf("unexpected order: %+v", list)
	}

	_, err = courses.Update(ctx, models.Course{ID: "missing", Title: "x"})
	if !errors.Is(err, sequence.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunner_RollsBack(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	courses := gormstore.NewCourseStore(gdb)
	boom := errors.New("boom")
	err := gormstore.Runner(gdb)(ctx, func(ctx context.Context) error {
		if _, err := courses.Create(ctx, models.Course{Title: "Ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	list, err := courses.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected rollback, found %d courses", len(list))
	}
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("database is locked"), true},
		{errors.New("ERROR: could not serialize access (SQLSTATE 40001)"), true},
		{errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "uq_modules_course_position" (SQLSTATE 23505)`), true},
		{errors.New("syntax error"), false},
	}
	for _, tt := range tests {
		if got := gormstore.IsConflict(tt.err); got != tt.want {
			t.Errorf("IsConflict(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRunner_MapsSerializationFailure(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := gormstore.Runner(gdb)(ctx, func(ctx context.Context) error {
		return errors.New("ERROR: could not serialize access (SQLSTATE 40001)")
	})
	if !errors.Is(err, sequence.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestStores_LockParent(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := createCourse(t, ctx, gdb, "Course")
	modules := gormstore.NewModuleStore(gdb)
	m, err := modules.Create(ctx, &models.Module{CourseID: c.ID, Name: "M", Position: 1})
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	lessons := gormstore.NewLessonStore(gdb)

	tests := []struct {
		name string
		lock func(ctx context.Context) (bool, error)
		want bool
	}{
		{"course", func(ctx context.Context) (bool, error) { return modules.LockParent(ctx, c.ID) }, true},
		{"missing course", func(ctx context.Context) (bool, error) { return modules.LockParent(ctx, "missing") }, false},
		{"module", func(ctx context.Context) (bool, error) { return lessons.LockParent(ctx, m.ID) }, true},
		{"missing module", func(ctx context.Context) (bool, error) { return lessons.LockParent(ctx, "missing") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gormstore.Runner(gdb)(ctx, func(ctx context.Context) error {
				got, err := tt.lock(ctx)
				if err != nil {
					return err
				}
				if got != tt.want {
					t.Errorf("LockParent: got %v, want %v", got, tt.want)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("Runner failed: %v", err)
			}
		})
	}
}

func TestCourseStore_Durations(t *testing.T) {
	gdb := testutil.SetupSQLiteDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	busy := createCourse(t, ctx, gdb, "Busy")
	empty := createCourse(t, ctx, gdb, "Empty")
	modules := gormstore.NewModuleStore(gdb)
	lessons := gormstore.NewLessonStore(gdb)
	for i := 1; i <= 2; i++ {
		m, err := modules.Create(ctx, &models.Module{CourseID: busy.ID, Name: fmt.Sprintf("M%d", i), Position: i})
		if err != nil {
			t.Fatalf("create module: %v", err)
		}
		for j := 1; j <= 3; j++ {
			l := &models.Lesson{ModuleID: m.ID, Name: "L", Position: j, DurationSeconds: int64(10 * j)}
			if _, err := lessons.Create(ctx, l); err != nil {
				t.Fatalf("create lesson: %v", err)
			}
		}
	}

	got, err := gormstore.NewCourseStore(gdb).Durations(ctx, []string{busy.ID, empty.ID})
	if err != nil {
		t.Fatalf("Durations failed: %v", err)
	}
	if got[busy.ID] != 120 {
		t.Errorf("busy: got %d, want 120", got[busy.ID])
	}
	if got[empty.ID] != 0 {
		t.Errorf("empty: got %d, want 0", got[empty.ID])
	}
}

// Engines with separate lock sets behave like separate processes; only the
// database keeps them apart.
func TestPostgres_WritersWithoutSharedLocks(t *testing.T) {
	gdb := testutil.SetupPostgresDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := createCourse(t, ctx, gdb, "Shared")
	engines := []*sequence.Engine[*models.Module]{newModuleEngine(gdb), newModuleEngine(gdb)}

	const perEngine = 6
	var wg sync.WaitGroup
	errs := make(chan error, 2*perEngine)
	for i, eng := range engines {
		for j := 0; j < perEngine; j++ {
			wg.Add(1)
			go func(eng *sequence.Engine[*models.Module], name string) {
				defer wg.Done()
				_, err := eng.Insert(ctx, c.ID, 1, &models.Module{Name: name})
				errs <- err
			}(eng, fmt.Sprintf("e%d-%d", i, j))
		}
	}
	wg.Wait()
	close(errs)

	inserted := 0
	for err := range errs {
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, sequence.ErrConflict):
		default:
			t.Errorf("Insert failed: %v", err)
		}
	}

	list, err := engines[0].List(ctx, c.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != inserted {
		t.Errorf("len: got %d, want %d", len(list), inserted)
	}
	if err := sequence.Verify(list); err != nil {
		t.Errorf("not dense: %v", err)
	}
}

func TestPostgres_DeleteCourseLeavesNoOrphans(t *testing.T) {
	gdb := testutil.SetupPostgresDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := createCourse(t, ctx, gdb, "Doomed")
	m, err := newModuleEngine(gdb).Insert(ctx, c.ID, 1, &models.Module{Name: "M"})
	if err != nil {
		t.Fatalf("Insert module failed: %v", err)
	}
	lessons := sequence.New[*models.Lesson](gormstore.NewLessonStore(gdb), gormstore.Runner(gdb), scopelock.New(),
		sequence.Config{Kind: "lesson", Field: "lesson_number"}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := lessons.Append(ctx, m.ID, &models.Lesson{Name: fmt.Sprintf("L%d", i), DurationSeconds: 1})
			if err != nil && !errors.Is(err, sequence.ErrNotFound) && !errors.Is(err, sequence.ErrConflict) {
				t.Errorf("Append failed: %v", err)
			}
		}(i)
	}
	courses := gormstore.NewCourseStore(gdb)
	if err := gormstore.Runner(gdb)(ctx, func(ctx context.Context) error {
		return courses.Delete(ctx, c.ID)
	}); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	wg.Wait()

	var orphans int64
	gdb.Model(&models.Lesson{}).Where("module_id = ?", m.ID).Count(&orphans)
	if orphans != 0 {
		t.Errorf("found %d lessons of a deleted module", orphans)
	}
}

func TestPostgres_DuplicatePositionRejectedOnCommit(t *testing.T) {
	gdb := testutil.SetupPostgresDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := createCourse(t, ctx, gdb, "Course")
	modules := gormstore.NewModuleStore(gdb)
	if _, err := modules.Create(ctx, &models.Module{CourseID: c.ID, Name: "A", Position: 1}); err != nil {
		t.Fatalf("create module: %v", err)
	}

	err := gormstore.Runner(gdb)(ctx, func(ctx context.Context) error {
		_, err := modules.Create(ctx, &models.Module{CourseID: c.ID, Name: "B", Position: 1})
		return err
	})
	if !errors.Is(err, sequence.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
