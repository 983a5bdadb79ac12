package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/model"
)

// CourseContentRepository is the course-material data access interface.
type CourseContentRepository interface {
	Create(ctx context.Context, content *model.CourseContent) error
	GetByID(ctx context.Context, id string) (*model.CourseContent, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error)
	ListPublishedByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error)
	ListPublishedByCourseAndType(ctx context.Context, courseID, contentType string) ([]model.CourseContent, error)
	ListPublishedByCourses(ctx context.Context, courseIDs []string, contentType string, limit int) ([]model.CourseContent, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]model.CourseContent, error)
	Update(ctx context.Context, content *model.CourseContent) error
	Delete(ctx context.Context, id string) error
	CountByCourse(ctx context.Context, courseID string) (int64, error)
}

type contentRepo struct {
	db *gorm.DB
}

// NewCourseContentRepo creates the GORM-backed CourseContentRepository.
func NewCourseContentRepo(db *gorm.DB) CourseContentRepository {
	return &contentRepo{db: db}
}

func (r *contentRepo) Create(ctx context.Context, content *model.CourseContent) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *contentRepo) GetByID(ctx context.Context, id string) (*model.CourseContent, error) {
	var content model.CourseContent
	err := r.db.WithContext(ctx).
		Where("content_id = ?", id).
		First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error) {
	var contents []model.CourseContent
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order, created_at").
		Find(&contents).Error
	return contents, err
}

func (r *contentRepo) ListPublishedByCourse(ctx context.Context, courseID string) ([]model.CourseContent, error) {
	var contents []model.CourseContent
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND is_published", courseID).
		Order("sort_order, created_at").
		Find(&contents).Error
	return contents, err
}

func (r *contentRepo) ListPublishedByCourseAndType(ctx context.Context, courseID, contentType string) ([]model.CourseContent, error) {
	var contents []model.CourseContent
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND content_type = ? AND is_published", courseID, contentType).
		Order("sort_order, created_at").
		Find(&contents).Error
	return contents, err
}

// ListPublishedByCourses returns published content across courses, newest
// first. An empty contentType matches all types; limit 0 means no limit.
func (r *contentRepo) ListPublishedByCourses(ctx context.Context, courseIDs []string, contentType string, limit int) ([]model.CourseContent, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	q := r.db.WithContext(ctx).
		Where("course_id IN ? AND is_published", courseIDs).
		Order("created_at DESC")
	if contentType != "" {
		q = q.Where("content_type = ?", contentType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var contents []model.CourseContent
	err := q.Find(&contents).Error
	return contents, err
}

func (r *contentRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.CourseContent, error) {
	var contents []model.CourseContent
	err := r.db.WithContext(ctx).
		Where("created_by_instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&contents).Error
	return contents, err
}

func (r *contentRepo) Update(ctx context.Context, content *model.CourseContent) error {
	return r.db.WithContext(ctx).Save(content).Error
}

func (r *contentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("content_id = ?", id).
		Delete(&model.CourseContent{}).Error
}

func (r *contentRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CourseContent{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
