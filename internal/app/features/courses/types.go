// internal/app/features/courses/types.go
package courses

import "github.com/dalemusser/coursehub/internal/app/system/opt"

type createInput struct {
	Title       string `json:"title" validate:"notblank,max=255"`
	Description string `json:"description" validate:"max=5000"`
	IsMandatory bool   `json:"is_mandatory"`
}

// editInput distinguishes absent fields (left unchanged) from present ones.
type editInput struct {
	Title       opt.Value[string] `json:"title"`
	Description opt.Value[string] `json:"description"`
	IsMandatory opt.Value[bool]   `json:"is_mandatory"`
}
