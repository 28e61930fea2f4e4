// Package tenant holds the course catalog: each course binds a
// knowledge base to its mandatory filter schema and system prompt.
// Orchestration consults it to validate agent-supplied filter tags and
// to answer the agent's context requests.
package tenant

import (
	"time"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// CourseSettings is the per-course configuration blob. The mandatory
// filter schema defines, per metadata key, the closed set of values a
// retrieval filter may carry.
type CourseSettings struct {
	SystemPrompt     string              `json:"system_prompt,omitempty"`
	MandatoryFilters []types.FilterField `json:"knowledge_base_filter_structure_mandatory,omitempty"`
}

// FilterSchema returns the mandatory filter schema, nil-safe.
func (s *CourseSettings) FilterSchema() types.FilterSchema {
	if s == nil {
		return nil
	}
	return types.FilterSchema(s.MandatoryFilters)
}

// Course is one tenant course.
type Course struct {
	ID              string          `json:"id" gorm:"primaryKey;size:64"`
	Title           string          `json:"title" gorm:"size:255"`
	TeacherID       string          `json:"teacher_id" gorm:"index;size:64"`
	KnowledgeBaseID string          `json:"knowledge_base_id" gorm:"index;size:64"`
	Settings        *CourseSettings `json:"settings,omitempty" gorm:"serializer:json"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName sets the storage table.
func (Course) TableName() string {
	return "courses"
}

// SystemPrompt returns the course system prompt, nil-safe.
func (c *Course) SystemPrompt() string {
	if c.Settings == nil {
		return ""
	}
	return c.Settings.SystemPrompt
}
