package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/model"
)

// ResultRepository is the assessment-result data access interface.
type ResultRepository interface {
	Create(ctx context.Context, result *model.Result) error
	GetByID(ctx context.Context, id string) (*model.Result, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.Result, error)
	ListByStudent(ctx context.Context, studentID string, releasedOnly bool) ([]model.Result, error)
	ListByCourseAndStudent(ctx context.Context, courseID, studentID string, releasedOnly bool) ([]model.Result, error)
	Update(ctx context.Context, result *model.Result) error
	Delete(ctx context.Context, id string) error
	// ExistsActiveAssessment reports whether an active result already exists
	// for the (course, student, type, title) assessment identity, excluding
	// the given result ID so updates do not collide with themselves.
	ExistsActiveAssessment(ctx context.Context, courseID, studentID, resultType, title, excludeID string) (bool, error)
	BulkRelease(ctx context.Context, courseID string) (int64, error)
	BulkUnrelease(ctx context.Context, courseID string) (int64, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	CountReleasedByCourse(ctx context.Context, courseID string) (int64, error)
}

type resultRepo struct {
	db *gorm.DB
}

// NewResultRepo creates the GORM-backed ResultRepository.
func NewResultRepo(db *gorm.DB) ResultRepository {
	return &resultRepo{db: db}
}

func (r *resultRepo) Create(ctx context.Context, result *model.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepo) GetByID(ctx context.Context, id string) (*model.Result, error) {
	var result model.Result
	err := r.db.WithContext(ctx).
		Where("result_id = ? AND is_active", id).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Result, error) {
	var results []model.Result
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND is_active", courseID).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

func (r *resultRepo) ListByStudent(ctx context.Context, studentID string, releasedOnly bool) ([]model.Result, error) {
	var results []model.Result
	db := r.db.WithContext(ctx).
		Where("student_id = ? AND is_active", studentID)
	if releasedOnly {
		db = db.Where("is_released")
	}
	err := db.Order("created_at DESC").Find(&results).Error
	return results, err
}

func (r *resultRepo) ListByCourseAndStudent(ctx context.Context, courseID, studentID string, releasedOnly bool) ([]model.Result, error) {
	var results []model.Result
	db := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ? AND is_active", courseID, studentID)
	if releasedOnly {
		db = db.Where("is_released")
	}
	err := db.Order("created_at DESC").Find(&results).Error
	return results, err
}

func (r *resultRepo) Update(ctx context.Context, result *model.Result) error {
	return r.db.WithContext(ctx).Save(result).Error
}

// Delete retires the result by flipping is_active, which also frees its
// assessment slot under the partial unique index.
func (r *resultRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Result{}).
		Where("result_id = ?", id).
		Update("is_active", false).Error
}

func (r *resultRepo) ExistsActiveAssessment(ctx context.Context, courseID, studentID, resultType, title, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Result{}).
		Where("course_id = ? AND student_id = ? AND result_type = ? AND title = ? AND is_active",
			courseID, studentID, resultType, title)
	if excludeID != "" {
		db = db.Where("result_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

// BulkRelease flips every unreleased active result of the course in a single
// statement, stamping released_at only on rows making the draft-to-released
// transition.
func (r *resultRepo) BulkRelease(ctx context.Context, courseID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Result{}).
		Where("course_id = ? AND is_active AND NOT is_released", courseID).
		Updates(map[string]interface{}{
			"is_released": true,
			"released_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *resultRepo) BulkUnrelease(ctx context.Context, courseID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Result{}).
		Where("course_id = ? AND is_active AND is_released", courseID).
		Updates(map[string]interface{}{
			"is_released": false,
			"released_at": nil,
		})
	return res.RowsAffected, res.Error
}

func (r *resultRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Result{}).
		Where("course_id = ? AND is_active", courseID).
		Count(&count).Error
	return count, err
}

func (r *resultRepo) CountReleasedByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Result{}).
		Where("course_id = ? AND is_active AND is_released", courseID).
		Count(&count).Error
	return count, err
}
