// internal/app/features/lessons/types.go
package lessons

import "github.com/dalemusser/coursehub/internal/app/system/opt"

type createInput struct {
	Name            string         `json:"name" validate:"notblank,max=255"`
	LessonNumber    opt.Value[int] `json:"lesson_number"`
	DurationSeconds int64          `json:"duration_seconds" validate:"gt=0"`
	Description     string         `json:"description" validate:"max=500"`
	Media           string         `json:"media" validate:"max=512"`
}

type editInput struct {
	Name            opt.Value[string] `json:"name"`
	LessonNumber    opt.Value[int]    `json:"lesson_number"`
	DurationSeconds opt.Value[int64]  `json:"duration_seconds"`
	Description     opt.Value[string] `json:"description"`
	Media           opt.Value[string] `json:"media"`
}
