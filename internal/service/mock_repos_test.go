package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

// In-memory repository fakes backing the service tests. They keep just
// enough behavior to exercise the business rules: map storage, not-found
// maps to gorm.ErrRecordNotFound, and the course fake re-runs the model
// enrollment checks the way the real transaction does.

func newMockRepository() *repository.Repository {
	users := &mockUserRepo{users: map[string]*model.User{}}
	students := &mockStudentRepo{students: map[string]*model.Student{}, users: users}
	return &repository.Repository{
		User:       users,
		Instructor: &mockInstructorRepo{instructors: map[string]*model.Instructor{}, users: users},
		Student:    students,
		Course: &mockCourseRepo{
			courses:     map[string]*model.Course{},
			enrollments: map[string]map[string]bool{},
			students:    students,
		},
		CourseContent: &mockContentRepo{contents: map[string]*model.CourseContent{}},
		Result:        &mockResultRepo{results: map[string]*model.Result{}},
	}
}

// ── users ──

type mockUserRepo struct {
	users     map[string]*model.User
	createErr error
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) deleteByEmail(email, role string) {
	for id, u := range m.users {
		if u.Email == email && u.Role == role {
			delete(m.users, id)
		}
	}
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ── instructors ──

type mockInstructorRepo struct {
	instructors map[string]*model.Instructor
	users       *mockUserRepo
	userSync    func(previousEmail, newEmail string)
}

func (m *mockInstructorRepo) Create(_ context.Context, instructor *model.Instructor) error {
	if instructor.InstructorID == "" {
		instructor.InstructorID = uuid.New().String()
	}
	cp := *instructor
	m.instructors[instructor.InstructorID] = &cp
	return nil
}

// CreateWithAccount mimics the real transaction: a failed account
// insert rolls the profile back out.
func (m *mockInstructorRepo) CreateWithAccount(ctx context.Context, instructor *model.Instructor, account *model.User) error {
	if err := m.Create(ctx, instructor); err != nil {
		return err
	}
	if err := m.users.Create(ctx, account); err != nil {
		delete(m.instructors, instructor.InstructorID)
		return err
	}
	return nil
}

func (m *mockInstructorRepo) GetByID(_ context.Context, id string) (*model.Instructor, error) {
	i, ok := m.instructors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (m *mockInstructorRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.Instructor, error) {
	for _, i := range m.instructors {
		if i.EmployeeID == employeeID {
			cp := *i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorRepo) GetByEmail(_ context.Context, email string) (*model.Instructor, error) {
	for _, i := range m.instructors {
		if i.Email == email {
			cp := *i
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorRepo) List(_ context.Context, activeOnly bool) ([]model.Instructor, error) {
	var out []model.Instructor
	for _, i := range m.instructors {
		if activeOnly && !i.IsActive {
			continue
		}
		out = append(out, *i)
	}
	return out, nil
}

func (m *mockInstructorRepo) ListByDepartment(_ context.Context, department string) ([]model.Instructor, error) {
	var out []model.Instructor
	for _, i := range m.instructors {
		if i.IsActive && i.Department == department {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (m *mockInstructorRepo) SearchByName(_ context.Context, name string) ([]model.Instructor, error) {
	var out []model.Instructor
	needle := strings.ToLower(name)
	for _, i := range m.instructors {
		if !i.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(i.FirstName), needle) ||
			strings.Contains(strings.ToLower(i.LastName), needle) {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (m *mockInstructorRepo) Departments(_ context.Context) ([]string, error) {
	return m.distinct(func(i *model.Instructor) string { return i.Department }), nil
}

func (m *mockInstructorRepo) Specializations(_ context.Context) ([]string, error) {
	return m.distinct(func(i *model.Instructor) string { return i.Specialization }), nil
}

func (m *mockInstructorRepo) distinct(field func(*model.Instructor) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, i := range m.instructors {
		v := field(i)
		if i.IsActive && v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (m *mockInstructorRepo) Update(_ context.Context, instructor *model.Instructor, previousEmail string) error {
	if _, ok := m.instructors[instructor.InstructorID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *instructor
	m.instructors[instructor.InstructorID] = &cp
	if m.userSync != nil && previousEmail != "" && previousEmail != instructor.Email {
		m.userSync(previousEmail, instructor.Email)
	}
	return nil
}

func (m *mockInstructorRepo) Delete(_ context.Context, id string) error {
	instructor, ok := m.instructors[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.users != nil {
		m.users.deleteByEmail(instructor.Email, model.RoleInstructor)
	}
	delete(m.instructors, id)
	return nil
}

func (m *mockInstructorRepo) ExistsByEmployeeID(_ context.Context, employeeID string) (bool, error) {
	for _, i := range m.instructors {
		if i.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInstructorRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, i := range m.instructors {
		if i.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInstructorRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var n int64
	for _, i := range m.instructors {
		if activeOnly && !i.IsActive {
			continue
		}
		n++
	}
	return n, nil
}

// ── students ──

type mockStudentRepo struct {
	students map[string]*model.Student
	users    *mockUserRepo
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		student.StudentID = uuid.New().String()
	}
	cp := *student
	m.students[student.StudentID] = &cp
	return nil
}

// CreateWithAccount mimics the real transaction: a failed account
// insert rolls the profile back out.
func (m *mockStudentRepo) CreateWithAccount(ctx context.Context, student *model.Student, account *model.User) error {
	if err := m.Create(ctx, student); err != nil {
		return err
	}
	if err := m.users.Create(ctx, account); err != nil {
		delete(m.students, student.StudentID)
		return err
	}
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockStudentRepo) GetByStudentNumber(_ context.Context, studentNumber string) (*model.Student, error) {
	for _, s := range m.students {
		if s.StudentNumber == studentNumber {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, activeOnly bool) ([]model.Student, error) {
	var out []model.Student
	for _, s := range m.students {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockStudentRepo) ListByMajor(_ context.Context, major string) ([]model.Student, error) {
	var out []model.Student
	for _, s := range m.students {
		if s.IsActive && s.Major == major {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) ListByYear(_ context.Context, year int) ([]model.Student, error) {
	var out []model.Student
	for _, s := range m.students {
		if s.IsActive && s.Year == year {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) ListByStatus(_ context.Context, status string) ([]model.Student, error) {
	var out []model.Student
	for _, s := range m.students {
		if s.IsActive && s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) SearchByName(_ context.Context, name string) ([]model.Student, error) {
	var out []model.Student
	needle := strings.ToLower(name)
	for _, s := range m.students {
		if !s.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(s.FirstName), needle) ||
			strings.Contains(strings.ToLower(s.LastName), needle) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) Majors(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, s := range m.students {
		if s.IsActive && s.Major != "" && !seen[s.Major] {
			seen[s.Major] = true
			out = append(out, s.Major)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student, _ string) error {
	if _, ok := m.students[student.StudentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *student
	m.students[student.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	student, ok := m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.users != nil {
		m.users.deleteByEmail(student.Email, model.RoleStudent)
	}
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) ExistsByStudentNumber(_ context.Context, studentNumber string) (bool, error) {
	for _, s := range m.students {
		if s.StudentNumber == studentNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, s := range m.students {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var n int64
	for _, s := range m.students {
		if activeOnly && !s.IsActive {
			continue
		}
		n++
	}
	return n, nil
}

func (m *mockStudentRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, s := range m.students {
		if s.IsActive && s.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockStudentRepo) CountByMajor(_ context.Context) ([]repository.LabelCount, error) {
	counts := map[string]int64{}
	for _, s := range m.students {
		if s.IsActive {
			counts[s.Major]++
		}
	}
	return labelCounts(counts), nil
}

func (m *mockStudentRepo) CountByYear(_ context.Context) ([]repository.LabelCount, error) {
	counts := map[string]int64{}
	for _, s := range m.students {
		if s.IsActive {
			counts[strconv.Itoa(s.Year)]++
		}
	}
	return labelCounts(counts), nil
}

func labelCounts(counts map[string]int64) []repository.LabelCount {
	var out []repository.LabelCount
	for label, n := range counts {
		out = append(out, repository.LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// ── courses ──

type mockCourseRepo struct {
	courses     map[string]*model.Course
	enrollments map[string]map[string]bool // courseID -> studentID
	students    *mockStudentRepo
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = uuid.New().String()
	}
	cp := *course
	cp.Instructor = nil
	cp.EnrolledStudents = nil
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *course
	cp.EnrolledStudents = m.roster(id)
	return &cp, nil
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, course := range m.courses {
		if course.CourseCode == code {
			cp := *course
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, activeOnly bool) ([]model.Course, error) {
	var out []model.Course
	for _, course := range m.courses {
		if activeOnly && !course.IsActive {
			continue
		}
		out = append(out, *course)
	}
	return out, nil
}

func (m *mockCourseRepo) ListByDepartment(_ context.Context, department string) ([]model.Course, error) {
	var out []model.Course
	for _, course := range m.courses {
		if course.IsActive && course.Department == department {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) ListBySemester(_ context.Context, semester int) ([]model.Course, error) {
	var out []model.Course
	for _, course := range m.courses {
		if course.IsActive && course.Semester == semester {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) ListByInstructor(_ context.Context, instructorID string) ([]model.Course, error) {
	var out []model.Course
	for id, course := range m.courses {
		if course.IsActive && course.InstructorID == instructorID {
			cp := *course
			cp.EnrolledStudents = m.roster(id)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) ListWithOpenEnrollment(_ context.Context) ([]model.Course, error) {
	var out []model.Course
	for _, course := range m.courses {
		if course.IsActive && course.EnrollmentOpen {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) ListAvailableForStudent(_ context.Context, studentID string) ([]model.Course, error) {
	var out []model.Course
	for id, course := range m.courses {
		if course.IsActive && course.EnrollmentOpen && !course.IsFull() && !m.enrollments[id][studentID] {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) ListEnrolledByStudent(_ context.Context, studentID string) ([]model.Course, error) {
	var out []model.Course
	for id, course := range m.courses {
		if course.IsActive && m.enrollments[id][studentID] {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) Search(_ context.Context, query string) ([]model.Course, error) {
	var out []model.Course
	needle := strings.ToLower(query)
	for _, course := range m.courses {
		if !course.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(course.CourseName), needle) ||
			strings.Contains(strings.ToLower(course.CourseCode), needle) {
			out = append(out, *course)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) Departments(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, course := range m.courses {
		if course.IsActive && !seen[course.Department] {
			seen[course.Department] = true
			out = append(out, course.Department)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockCourseRepo) Semesters(_ context.Context) ([]int, error) {
	seen := map[int]bool{}
	var out []int
	for _, course := range m.courses {
		if course.IsActive && !seen[course.Semester] {
			seen[course.Semester] = true
			out = append(out, course.Semester)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if _, ok := m.courses[course.CourseID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *course
	cp.Instructor = nil
	cp.EnrolledStudents = nil
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	delete(m.enrollments, id)
	return nil
}

func (m *mockCourseRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, course := range m.courses {
		if course.CourseCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCourseRepo) IsEnrolled(_ context.Context, courseID, studentID string) (bool, error) {
	return m.enrollments[courseID][studentID], nil
}

func (m *mockCourseRepo) EnrollStudent(ctx context.Context, courseID, studentID string) error {
	stored, ok := m.courses[courseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	course := *stored
	course.EnrolledStudents = m.roster(courseID)

	student := model.Student{StudentID: studentID}
	if m.students != nil {
		st, err := m.students.GetByID(ctx, studentID)
		if err != nil {
			return err
		}
		student = *st
	}

	if err := course.Enroll(student); err != nil {
		return err
	}

	if m.enrollments[courseID] == nil {
		m.enrollments[courseID] = map[string]bool{}
	}
	m.enrollments[courseID][studentID] = true
	stored.CurrentEnrollment = course.CurrentEnrollment
	return nil
}

func (m *mockCourseRepo) UnenrollStudent(_ context.Context, courseID, studentID string) error {
	stored, ok := m.courses[courseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !m.enrollments[courseID][studentID] {
		return model.ErrNotEnrolled
	}
	delete(m.enrollments[courseID], studentID)
	stored.CurrentEnrollment--
	return nil
}

func (m *mockCourseRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var n int64
	for _, course := range m.courses {
		if activeOnly && !course.IsActive {
			continue
		}
		n++
	}
	return n, nil
}

func (m *mockCourseRepo) CountByInstructor(_ context.Context, instructorID string, activeOnly bool) (int64, error) {
	var n int64
	for _, course := range m.courses {
		if course.InstructorID != instructorID {
			continue
		}
		if activeOnly && !course.IsActive {
			continue
		}
		n++
	}
	return n, nil
}

func (m *mockCourseRepo) TotalEnrollment(_ context.Context) (int64, error) {
	var n int64
	for _, course := range m.courses {
		if course.IsActive {
			n += int64(course.CurrentEnrollment)
		}
	}
	return n, nil
}

func (m *mockCourseRepo) CountByDepartment(_ context.Context) ([]repository.LabelCount, error) {
	counts := map[string]int64{}
	for _, course := range m.courses {
		if course.IsActive {
			counts[course.Department]++
		}
	}
	return labelCounts(counts), nil
}

func (m *mockCourseRepo) CountBySemester(_ context.Context) ([]repository.LabelCount, error) {
	counts := map[string]int64{}
	for _, course := range m.courses {
		if course.IsActive {
			counts[strconv.Itoa(course.Semester)]++
		}
	}
	return labelCounts(counts), nil
}

func (m *mockCourseRepo) TotalCapacity(_ context.Context) (int64, error) {
	var n int64
	for _, course := range m.courses {
		if course.IsActive {
			n += int64(course.MaxCapacity)
		}
	}
	return n, nil
}

func (m *mockCourseRepo) roster(courseID string) []model.Student {
	var out []model.Student
	for studentID := range m.enrollments[courseID] {
		st := model.Student{StudentID: studentID}
		if m.students != nil {
			if full, err := m.students.GetByID(context.Background(), studentID); err == nil {
				st = *full
			}
		}
		out = append(out, st)
	}
	return out
}

// ── course contents ──

type mockContentRepo struct {
	contents map[string]*model.CourseContent
}

func (m *mockContentRepo) Create(_ context.Context, content *model.CourseContent) error {
	if content.ContentID == "" {
		content.ContentID = uuid.New().String()
	}
	cp := *content
	m.contents[content.ContentID] = &cp
	return nil
}

func (m *mockContentRepo) GetByID(_ context.Context, id string) (*model.CourseContent, error) {
	content, ok := m.contents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *content
	return &cp, nil
}

func (m *mockContentRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseContent, error) {
	var out []model.CourseContent
	for _, content := range m.contents {
		if content.CourseID == courseID {
			out = append(out, *content)
		}
	}
	return out, nil
}

func (m *mockContentRepo) ListPublishedByCourse(_ context.Context, courseID string) ([]model.CourseContent, error) {
	var out []model.CourseContent
	for _, content := range m.contents {
		if content.CourseID == courseID && content.IsPublished {
			out = append(out, *content)
		}
	}
	return out, nil
}

func (m *mockContentRepo) ListPublishedByCourseAndType(_ context.Context, courseID, contentType string) ([]model.CourseContent, error) {
	var out []model.CourseContent
	for _, content := range m.contents {
		if content.CourseID == courseID && content.IsPublished && content.ContentType == contentType {
			out = append(out, *content)
		}
	}
	return out, nil
}

func (m *mockContentRepo) ListPublishedByCourses(_ context.Context, courseIDs []string, contentType string, limit int) ([]model.CourseContent, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	wanted := map[string]bool{}
	for _, id := range courseIDs {
		wanted[id] = true
	}
	var out []model.CourseContent
	for _, content := range m.contents {
		if !wanted[content.CourseID] || !content.IsPublished {
			continue
		}
		if contentType != "" && content.ContentType != contentType {
			continue
		}
		out = append(out, *content)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockContentRepo) ListByInstructor(_ context.Context, instructorID string) ([]model.CourseContent, error) {
	var out []model.CourseContent
	for _, content := range m.contents {
		if content.CreatedByInstructorID == instructorID {
			out = append(out, *content)
		}
	}
	return out, nil
}

func (m *mockContentRepo) Update(_ context.Context, content *model.CourseContent) error {
	if _, ok := m.contents[content.ContentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *content
	m.contents[content.ContentID] = &cp
	return nil
}

func (m *mockContentRepo) Delete(_ context.Context, id string) error {
	delete(m.contents, id)
	return nil
}

func (m *mockContentRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, content := range m.contents {
		if content.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

// ── results ──

type mockResultRepo struct {
	results map[string]*model.Result
}

func (m *mockResultRepo) Create(_ context.Context, result *model.Result) error {
	if result.ResultID == "" {
		result.ResultID = uuid.New().String()
	}
	cp := *result
	m.results[result.ResultID] = &cp
	return nil
}

func (m *mockResultRepo) GetByID(_ context.Context, id string) (*model.Result, error) {
	result, ok := m.results[id]
	if !ok || !result.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *result
	return &cp, nil
}

func (m *mockResultRepo) ListByCourse(_ context.Context, courseID string) ([]model.Result, error) {
	var out []model.Result
	for _, result := range m.results {
		if result.IsActive && result.CourseID == courseID {
			out = append(out, *result)
		}
	}
	return out, nil
}

func (m *mockResultRepo) ListByStudent(_ context.Context, studentID string, releasedOnly bool) ([]model.Result, error) {
	var out []model.Result
	for _, result := range m.results {
		if !result.IsActive || result.StudentID != studentID {
			continue
		}
		if releasedOnly && !result.IsReleased {
			continue
		}
		out = append(out, *result)
	}
	return out, nil
}

func (m *mockResultRepo) ListByCourseAndStudent(_ context.Context, courseID, studentID string, releasedOnly bool) ([]model.Result, error) {
	var out []model.Result
	for _, result := range m.results {
		if !result.IsActive || result.CourseID != courseID || result.StudentID != studentID {
			continue
		}
		if releasedOnly && !result.IsReleased {
			continue
		}
		out = append(out, *result)
	}
	return out, nil
}

func (m *mockResultRepo) Update(_ context.Context, result *model.Result) error {
	if _, ok := m.results[result.ResultID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *result
	m.results[result.ResultID] = &cp
	return nil
}

func (m *mockResultRepo) Delete(_ context.Context, id string) error {
	if result, ok := m.results[id]; ok {
		result.IsActive = false
	}
	return nil
}

func (m *mockResultRepo) ExistsActiveAssessment(_ context.Context, courseID, studentID, resultType, title, excludeID string) (bool, error) {
	for _, result := range m.results {
		if !result.IsActive || result.ResultID == excludeID {
			continue
		}
		if result.CourseID == courseID && result.StudentID == studentID &&
			result.ResultType == resultType && result.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockResultRepo) BulkRelease(_ context.Context, courseID string) (int64, error) {
	var n int64
	now := time.Now()
	for _, result := range m.results {
		if result.IsActive && result.CourseID == courseID && !result.IsReleased {
			result.IsReleased = true
			released := now
			result.ReleasedAt = &released
			n++
		}
	}
	return n, nil
}

func (m *mockResultRepo) BulkUnrelease(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, result := range m.results {
		if result.IsActive && result.CourseID == courseID && result.IsReleased {
			result.IsReleased = false
			result.ReleasedAt = nil
			n++
		}
	}
	return n, nil
}

func (m *mockResultRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, result := range m.results {
		if result.IsActive && result.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (m *mockResultRepo) CountReleasedByCourse(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, result := range m.results {
		if result.IsActive && result.CourseID == courseID && result.IsReleased {
			n++
		}
	}
	return n, nil
}
