// internal/app/features/modules/types.go
package modules

import "github.com/dalemusser/coursehub/internal/app/system/opt"

// createInput: an absent module_number appends after the last module.
type createInput struct {
	Name         string         `json:"name" validate:"notblank,max=255"`
	ModuleNumber opt.Value[int] `json:"module_number"`
}

// editInput: an absent module_number leaves the order untouched.
type editInput struct {
	Name         opt.Value[string] `json:"name"`
	ModuleNumber opt.Value[int]    `json:"module_number"`
}

type checkResult struct {
	CourseID string `json:"course_id"`
	Count    int    `json:"count"`
	Dense    bool   `json:"dense"`
	Problem  string `json:"problem,omitempty"`
}
