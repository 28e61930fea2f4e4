package tenant

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// CourseSource resolves courses for orchestration.
type CourseSource interface {
	// ByID returns the course with the given id.
	ByID(ctx context.Context, id string) (*Course, error)

	// ByKnowledgeBaseID returns the course bound to the knowledge base.
	ByKnowledgeBaseID(ctx context.Context, knowledgeBaseID string) (*Course, error)
}

// CourseStore is the database-backed CourseSource.
type CourseStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCourseStore migrates the course table and returns the store.
func NewCourseStore(db *gorm.DB, logger *zap.Logger) (*CourseStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := db.AutoMigrate(&Course{}); err != nil {
		return nil, types.NewError(types.ErrPersistence, "migrate courses").WithCause(err)
	}

	return &CourseStore{
		db:     db,
		logger: logger.With(zap.String("component", "course_store")),
	}, nil
}

// Save upserts a course.
func (s *CourseStore) Save(ctx context.Context, course *Course) error {
	if course.ID == "" {
		return types.NewError(types.ErrInvalidRequest, "course id is required")
	}

	if err := s.db.WithContext(ctx).Save(course).Error; err != nil {
		s.logger.Error("save course failed", zap.String("course_id", course.ID), zap.Error(err))
		return types.NewError(types.ErrPersistence, "save course").WithCause(err)
	}

	return nil
}

// ByID implements CourseSource.
func (s *CourseStore) ByID(ctx context.Context, id string) (*Course, error) {
	var course Course
	err := s.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewError(types.ErrNotFound, "course not found: "+id)
	}
	if err != nil {
		return nil, types.NewError(types.ErrPersistence, "load course").WithCause(err)
	}
	return &course, nil
}

// ByKnowledgeBaseID implements CourseSource.
func (s *CourseStore) ByKnowledgeBaseID(ctx context.Context, knowledgeBaseID string) (*Course, error) {
	var course Course
	err := s.db.WithContext(ctx).First(&course, "knowledge_base_id = ?", knowledgeBaseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewError(types.ErrNotFound, "course not found for knowledge base: "+knowledgeBaseID)
	}
	if err != nil {
		return nil, types.NewError(types.ErrPersistence, "load course").WithCause(err)
	}
	return &course, nil
}
