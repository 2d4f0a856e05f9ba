// internal/domain/models/course.go
package models

import "time"

// Course is the top of the curriculum hierarchy. It owns an ordered list of
// Modules; the order lives on the modules themselves (Module.Position).
//
// IDs are uuid strings so the same struct can be stored in MongoDB and in a
// SQL database through gorm.
type Course struct {
	ID          string `bson:"_id" json:"id" gorm:"primaryKey;size:36"`
	Title       string `bson:"title" json:"title" gorm:"size:255;not null"`
	TitleCI     string `bson:"title_ci" json:"title_ci" gorm:"column:title_ci;size:255;index"` // lowercase, diacritics-stripped
	Description string `bson:"description,omitempty" json:"description,omitempty" gorm:"type:text"`
	IsMandatory bool   `bson:"is_mandatory" json:"is_mandatory"`

	// DurationSeconds is the sum of the course's lesson durations. It is
	// computed on read and never stored.
	DurationSeconds int64 `bson:"-" json:"course_duration_seconds" gorm:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TableName pins the SQL table name.
func (Course) TableName() string { return "courses" }
