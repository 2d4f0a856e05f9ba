package courses_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/curriculum"
	"github.com/dalemusser/coursehub/internal/app/features/courses"
	uierrors "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*curriculum.Service, chi.Router) {
	t.Helper()
	svc := curriculum.NewSQL("sqlite", testutil.SetupSQLiteDB(t), zap.NewNop())
	h := courses.NewHandler(svc, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	r.Mount("/courses", courses.Routes(h))
	return svc, r
}

func serve(t *testing.T, r http.Handler, method, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewJSONRequest(t, method, target, body))
	return rec
}

func TestCreateListView(t *testing.T) {
	_, r := setup(t)

	for _, title := range []string{"zeta", "Alpha"} {
		serve(t, r, http.MethodPost, "/courses", map[string]any{"title": title, "is_mandatory": true}).
			AssertStatus(t, http.StatusCreated)
	}

	rec := serve(t, r, http.MethodGet, "/courses", nil)
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Course
	rec.DecodeJSON(t, &list)
	if len(list) != 2 || list[0].Title != "Alpha" || list[1].Title != "zeta" {
		t.Fatalf("list = %+v, want Alpha then zeta", list)
	}
	if !list[0].IsMandatory {
		t.Error("is_mandatory was not stored")
	}

	rec = serve(t, r, http.MethodGet, "/courses/"+list[0].ID, nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"title":"Alpha"`)

	serve(t, r, http.MethodGet, "/courses/missing", nil).AssertStatus(t, http.StatusNotFound)
}

func TestHandleCreate_Rejects(t *testing.T) {
	_, r := setup(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing title", map[string]any{"description": "x"}},
		{"blank title", map[string]any{"title": "   "}},
		{"long title", map[string]any{"title": strings.Repeat("t", 256)}},
		{"empty body", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serve(t, r, http.MethodPost, "/courses", tt.body).AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestHandleEdit(t *testing.T) {
	_, r := setup(t)

	rec := serve(t, r, http.MethodPost, "/courses", map[string]any{"title": "Old", "description": "keep"})
	rec.AssertStatus(t, http.StatusCreated)
	var c models.Course
	rec.DecodeJSON(t, &c)

	rec = serve(t, r, http.MethodPatch, "/courses/"+c.ID, map[string]any{"title": "New"})
	rec.AssertStatus(t, http.StatusOK)
	var got models.Course
	rec.DecodeJSON(t, &got)
	if got.Title != "New" || got.Description != "keep" {
		t.Errorf("edited = %+v, want title New and description keep", got)
	}

	serve(t, r, http.MethodPatch, "/courses/"+c.ID, `{"title":null}`).AssertStatus(t, http.StatusBadRequest)
	serve(t, r, http.MethodPatch, "/courses/missing", map[string]any{"title": "X"}).AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete_Cascades(t *testing.T) {
	svc, r := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := svc.CreateCourse(ctx, models.Course{Title: "Course"})
	if err != nil {
		t.Fatalf("CreateCourse failed: %v", err)
	}
	m, err := svc.Modules.Append(ctx, c.ID, &models.Module{Name: "M"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	serve(t, r, http.MethodDelete, "/courses/"+c.ID, nil).AssertStatus(t, http.StatusNoContent)
	if _, err := svc.Modules.Get(ctx, m.ID); err == nil {
		t.Error("module survived course delete")
	}
	serve(t, r, http.MethodDelete, "/courses/"+c.ID, nil).AssertStatus(t, http.StatusNotFound)
}

func TestHandleCreate_SanitizesDescription(t *testing.T) {
	_, r := setup(t)

	rec := serve(t, r, http.MethodPost, "/courses", map[string]any{
		"title":       "Markup",
		"description": "<p>Hi</p><script>alert('x')</script>",
	})
	rec.AssertStatus(t, http.StatusCreated)

	var c models.Course
	rec.DecodeJSON(t, &c)
	if c.Description != "<p>Hi</p>" {
		t.Errorf("description = %q, want %q", c.Description, "<p>Hi</p>")
	}
}
