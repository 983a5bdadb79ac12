package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/model"
)

// InstructorRepository is the instructor-profile data access interface.
type InstructorRepository interface {
	Create(ctx context.Context, instructor *model.Instructor) error
	// CreateWithAccount inserts the profile and its login account in one
	// transaction, so a failed account insert never leaves an orphan
	// profile.
	CreateWithAccount(ctx context.Context, instructor *model.Instructor, account *model.User) error
	GetByID(ctx context.Context, id string) (*model.Instructor, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.Instructor, error)
	GetByEmail(ctx context.Context, email string) (*model.Instructor, error)
	List(ctx context.Context, activeOnly bool) ([]model.Instructor, error)
	ListByDepartment(ctx context.Context, department string) ([]model.Instructor, error)
	SearchByName(ctx context.Context, name string) ([]model.Instructor, error)
	Departments(ctx context.Context) ([]string, error)
	Specializations(ctx context.Context) ([]string, error)
	// Update persists the profile and, when the email changed, syncs the
	// companion user row in the same transaction so the identity join
	// never dangles.
	Update(ctx context.Context, instructor *model.Instructor, previousEmail string) error
	// Delete removes the profile row and its companion user account.
	// Dependent content and result rows go with it via the schema's
	// cascades; callers enforce the no-owned-courses rule first.
	Delete(ctx context.Context, id string) error
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type instructorRepo struct {
	db *gorm.DB
}

// NewInstructorRepo creates the GORM-backed InstructorRepository.
func NewInstructorRepo(db *gorm.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

func (r *instructorRepo) Create(ctx context.Context, instructor *model.Instructor) error {
	return r.db.WithContext(ctx).Create(instructor).Error
}

func (r *instructorRepo) CreateWithAccount(ctx context.Context, instructor *model.Instructor, account *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(instructor).Error; err != nil {
			return err
		}
		return tx.Create(account).Error
	})
}

func (r *instructorRepo) GetByID(ctx context.Context, id string) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", id).
		First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) GetByEmail(ctx context.Context, email string) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) List(ctx context.Context, activeOnly bool) ([]model.Instructor, error) {
	var instructors []model.Instructor
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active")
	}
	err := db.Order("last_name, first_name").Find(&instructors).Error
	return instructors, err
}

func (r *instructorRepo) ListByDepartment(ctx context.Context, department string) ([]model.Instructor, error) {
	var instructors []model.Instructor
	err := r.db.WithContext(ctx).
		Where("department = ? AND is_active", department).
		Order("last_name, first_name").
		Find(&instructors).Error
	return instructors, err
}

func (r *instructorRepo) SearchByName(ctx context.Context, name string) ([]model.Instructor, error) {
	var instructors []model.Instructor
	pattern := "%" + name + "%"
	err := r.db.WithContext(ctx).
		Where("is_active AND (first_name ILIKE ? OR last_name ILIKE ?)", pattern, pattern).
		Order("last_name, first_name").
		Find(&instructors).Error
	return instructors, err
}

func (r *instructorRepo) Departments(ctx context.Context) ([]string, error) {
	var departments []string
	err := r.db.WithContext(ctx).Model(&model.Instructor{}).
		Where("is_active").
		Distinct("department").
		Order("department").
		Pluck("department", &departments).Error
	return departments, err
}

func (r *instructorRepo) Specializations(ctx context.Context) ([]string, error) {
	var specializations []string
	err := r.db.WithContext(ctx).Model(&model.Instructor{}).
		Where("is_active AND specialization <> ''").
		Distinct("specialization").
		Order("specialization").
		Pluck("specialization", &specializations).Error
	return specializations, err
}

func (r *instructorRepo) Update(ctx context.Context, instructor *model.Instructor, previousEmail string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(instructor).Error; err != nil {
			return err
		}
		if previousEmail != "" && previousEmail != instructor.Email {
			if err := tx.Model(&model.User{}).
				Where("email = ? AND role = ?", previousEmail, model.RoleInstructor).
				Update("email", instructor.Email).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *instructorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var instructor model.Instructor
		if err := tx.Where("instructor_id = ?", id).First(&instructor).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ? AND role = ?", instructor.Email, model.RoleInstructor).
			Delete(&model.User{}).Error; err != nil {
			return err
		}
		return tx.Where("instructor_id = ?", id).Delete(&model.Instructor{}).Error
	})
}

func (r *instructorRepo) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Instructor{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *instructorRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Instructor{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *instructorRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Instructor{})
	if activeOnly {
		db = db.Where("is_active")
	}
	err := db.Count(&count).Error
	return count, err
}
