package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/model"
)

// StudentRepository is the student-profile data access interface.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	// CreateWithAccount inserts the profile and its login account in one
	// transaction, so a failed account insert never leaves an orphan
	// profile.
	CreateWithAccount(ctx context.Context, student *model.Student, account *model.User) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByStudentNumber(ctx context.Context, studentNumber string) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	List(ctx context.Context, activeOnly bool) ([]model.Student, error)
	ListByMajor(ctx context.Context, major string) ([]model.Student, error)
	ListByYear(ctx context.Context, year int) ([]model.Student, error)
	ListByStatus(ctx context.Context, status string) ([]model.Student, error)
	SearchByName(ctx context.Context, name string) ([]model.Student, error)
	Majors(ctx context.Context) ([]string, error)
	Update(ctx context.Context, student *model.Student, previousEmail string) error
	// Delete removes the profile row and its companion user account.
	// Results go with it via the schema's cascades; callers enforce the
	// no-remaining-enrollments rule first.
	Delete(ctx context.Context, id string) error
	ExistsByStudentNumber(ctx context.Context, studentNumber string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByMajor(ctx context.Context) ([]LabelCount, error)
	CountByYear(ctx context.Context) ([]LabelCount, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates the GORM-backed StudentRepository.
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) CreateWithAccount(ctx context.Context, student *model.Student, account *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(student).Error; err != nil {
			return err
		}
		return tx.Create(account).Error
	})
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByStudentNumber(ctx context.Context, studentNumber string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("student_number = ?", studentNumber).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, activeOnly bool) ([]model.Student, error) {
	var students []model.Student
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active")
	}
	err := db.Order("last_name, first_name").Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByMajor(ctx context.Context, major string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("major = ? AND is_active", major).
		Order("last_name, first_name").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByYear(ctx context.Context, year int) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("year = ? AND is_active", year).
		Order("last_name, first_name").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByStatus(ctx context.Context, status string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_active", status).
		Order("last_name, first_name").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) SearchByName(ctx context.Context, name string) ([]model.Student, error) {
	var students []model.Student
	pattern := "%" + name + "%"
	err := r.db.WithContext(ctx).
		Where("is_active AND (first_name ILIKE ? OR last_name ILIKE ?)", pattern, pattern).
		Order("last_name, first_name").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) Majors(ctx context.Context) ([]string, error) {
	var majors []string
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("is_active AND major <> ''").
		Distinct("major").
		Order("major").
		Pluck("major", &majors).Error
	return majors, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student, previousEmail string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(student).Error; err != nil {
			return err
		}
		if previousEmail != "" && previousEmail != student.Email {
			if err := tx.Model(&model.User{}).
				Where("email = ? AND role = ?", previousEmail, model.RoleStudent).
				Update("email", student.Email).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := tx.Where("student_id = ?", id).First(&student).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ? AND role = ?", student.Email, model.RoleStudent).
			Delete(&model.User{}).Error; err != nil {
			return err
		}
		return tx.Where("student_id = ?", id).Delete(&model.Student{}).Error
	})
}

func (r *studentRepo) ExistsByStudentNumber(ctx context.Context, studentNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("student_number = ?", studentNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Student{})
	if activeOnly {
		db = db.Where("is_active")
	}
	err := db.Count(&count).Error
	return count, err
}

func (r *studentRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("status = ? AND is_active", status).
		Count(&count).Error
	return count, err
}

func (r *studentRepo) CountByMajor(ctx context.Context) ([]LabelCount, error) {
	var counts []LabelCount
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Select("major AS label, COUNT(*) AS count").
		Where("is_active").
		Group("major").
		Order("major").
		Scan(&counts).Error
	return counts, err
}

func (r *studentRepo) CountByYear(ctx context.Context) ([]LabelCount, error) {
	var counts []LabelCount
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Select("CAST(year AS TEXT) AS label, COUNT(*) AS count").
		Where("is_active").
		Group("year").
		Order("year").
		Scan(&counts).Error
	return counts, err
}
