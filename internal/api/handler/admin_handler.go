package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/service"
	"github.com/sandunsrimal/university-course-management/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves /api/admin: full management of instructors,
// students, courses and enrollments.
type AdminHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewAdminHandler creates the admin handler group.
func NewAdminHandler(svc *service.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

// ── instructors ──

// CreateInstructor handles POST /api/admin/instructors.
func (h *AdminHandler) CreateInstructor(c *gin.Context) {
	var req dto.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	instructor, err := h.svc.Instructor.Create(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.Created(c, instructor)
}

// ListInstructors handles GET /api/admin/instructors.
func (h *AdminHandler) ListInstructors(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	instructors, err := h.svc.Instructor.List(c.Request.Context(), activeOnly)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, instructors)
}

// GetInstructor handles GET /api/admin/instructors/:id.
func (h *AdminHandler) GetInstructor(c *gin.Context) {
	instructor, err := h.svc.Instructor.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, instructor)
}

// SearchInstructors handles GET /api/admin/instructors/search.
func (h *AdminHandler) SearchInstructors(c *gin.Context) {
	instructors, err := h.svc.Instructor.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, instructors)
}

// ListInstructorsByDepartment handles GET /api/admin/instructors/department/:department.
func (h *AdminHandler) ListInstructorsByDepartment(c *gin.Context) {
	instructors, err := h.svc.Instructor.ListByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, instructors)
}

// InstructorDepartments handles GET /api/admin/instructors/departments.
func (h *AdminHandler) InstructorDepartments(c *gin.Context) {
	departments, err := h.svc.Instructor.Departments(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, departments)
}

// InstructorSpecializations handles GET /api/admin/instructors/specializations.
func (h *AdminHandler) InstructorSpecializations(c *gin.Context) {
	specializations, err := h.svc.Instructor.Specializations(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, specializations)
}

// UpdateInstructor handles PUT /api/admin/instructors/:id.
func (h *AdminHandler) UpdateInstructor(c *gin.Context) {
	var req dto.InstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	instructor, err := h.svc.Instructor.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, instructor)
}

// DeactivateInstructor handles DELETE /api/admin/instructors/:id.
func (h *AdminHandler) DeactivateInstructor(c *gin.Context) {
	if err := h.svc.Instructor.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ActivateInstructor handles PUT /api/admin/instructors/:id/activate.
func (h *AdminHandler) ActivateInstructor(c *gin.Context) {
	instructor, err := h.svc.Instructor.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, instructor)
}

// DeleteInstructor handles DELETE /api/admin/instructors/:id/permanent.
func (h *AdminHandler) DeleteInstructor(c *gin.Context) {
	if err := h.svc.Instructor.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ── students ──

// CreateStudent handles POST /api/admin/students.
func (h *AdminHandler) CreateStudent(c *gin.Context) {
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	student, err := h.svc.Student.Create(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.Created(c, student)
}

// ListStudents handles GET /api/admin/students.
func (h *AdminHandler) ListStudents(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	students, err := h.svc.Student.List(c.Request.Context(), activeOnly)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, students)
}

// GetStudent handles GET /api/admin/students/:id.
func (h *AdminHandler) GetStudent(c *gin.Context) {
	student, err := h.svc.Student.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, student)
}

// SearchStudents handles GET /api/admin/students/search.
func (h *AdminHandler) SearchStudents(c *gin.Context) {
	students, err := h.svc.Student.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, students)
}

// ListStudentsByMajor handles GET /api/admin/students/major/:major.
func (h *AdminHandler) ListStudentsByMajor(c *gin.Context) {
	students, err := h.svc.Student.ListByMajor(c.Request.Context(), c.Param("major"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, students)
}

// ListStudentsByYear handles GET /api/admin/students/year/:year.
func (h *AdminHandler) ListStudentsByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		writeBindError(c, err)
		return
	}

	students, err := h.svc.Student.ListByYear(c.Request.Context(), year)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, students)
}

// ListStudentsByStatus handles GET /api/admin/students/status/:status.
func (h *AdminHandler) ListStudentsByStatus(c *gin.Context) {
	students, err := h.svc.Student.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, students)
}

// StudentMajors handles GET /api/admin/students/majors.
func (h *AdminHandler) StudentMajors(c *gin.Context) {
	majors, err := h.svc.Student.Majors(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, majors)
}

// StudentStatuses handles GET /api/admin/students/statuses.
func (h *AdminHandler) StudentStatuses(c *gin.Context) {
	response.OK(c, h.svc.Student.Statuses())
}

// UpdateStudent handles PUT /api/admin/students/:id.
func (h *AdminHandler) UpdateStudent(c *gin.Context) {
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	student, err := h.svc.Student.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, student)
}

// DeactivateStudent handles DELETE /api/admin/students/:id.
func (h *AdminHandler) DeactivateStudent(c *gin.Context) {
	if err := h.svc.Student.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ActivateStudent handles PUT /api/admin/students/:id/activate.
func (h *AdminHandler) ActivateStudent(c *gin.Context) {
	student, err := h.svc.Student.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, student)
}

// DeleteStudent handles DELETE /api/admin/students/:id/permanent.
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	if err := h.svc.Student.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ImportStudents handles POST /api/admin/students/import. Expects a
// multipart form with the workbook under "file".
func (h *AdminHandler) ImportStudents(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeBindError(c, err)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		writeBindError(c, err)
		return
	}
	defer f.Close()

	result, err := h.svc.Student.ImportFromExcel(c.Request.Context(), f)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// StudentImportTemplate handles GET /api/admin/students/import/template.
func (h *AdminHandler) StudentImportTemplate(c *gin.Context) {
	f, err := h.svc.Student.ImportTemplate()
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	h.writeWorkbook(c, f, "student_import_template.xlsx")
}

// ── courses ──

// CreateCourse handles POST /api/admin/courses.
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	course, err := h.svc.Course.Create(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.Created(c, course)
}

// ListCourses handles GET /api/admin/courses.
func (h *AdminHandler) ListCourses(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	courses, err := h.svc.Course.List(c.Request.Context(), activeOnly)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, courses)
}

// GetCourse handles GET /api/admin/courses/:id.
func (h *AdminHandler) GetCourse(c *gin.Context) {
	course, err := h.svc.Course.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// GetCourseByCode handles GET /api/admin/courses/code/:code.
func (h *AdminHandler) GetCourseByCode(c *gin.Context) {
	course, err := h.svc.Course.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// SearchCourses handles GET /api/admin/courses/search.
func (h *AdminHandler) SearchCourses(c *gin.Context) {
	courses, err := h.svc.Course.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, courses)
}

// ListCoursesByDepartment handles GET /api/admin/courses/department/:department.
func (h *AdminHandler) ListCoursesByDepartment(c *gin.Context) {
	courses, err := h.svc.Course.ListByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, courses)
}

// ListCoursesBySemester handles GET /api/admin/courses/semester/:semester.
func (h *AdminHandler) ListCoursesBySemester(c *gin.Context) {
	semester, err := strconv.Atoi(c.Param("semester"))
	if err != nil {
		writeBindError(c, err)
		return
	}

	courses, err := h.svc.Course.ListBySemester(c.Request.Context(), semester)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, courses)
}

// CourseDepartments handles GET /api/admin/courses/departments.
func (h *AdminHandler) CourseDepartments(c *gin.Context) {
	departments, err := h.svc.Course.Departments(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, departments)
}

// CourseSemesters handles GET /api/admin/courses/semesters.
func (h *AdminHandler) CourseSemesters(c *gin.Context) {
	semesters, err := h.svc.Course.Semesters(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, semesters)
}

// UpdateCourse handles PUT /api/admin/courses/:id.
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	var req dto.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	course, err := h.svc.Course.Update(c.Request.Context(), c.Param("id"), &req, "")
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// DeactivateCourse handles DELETE /api/admin/courses/:id.
func (h *AdminHandler) DeactivateCourse(c *gin.Context) {
	if err := h.svc.Course.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ActivateCourse handles PUT /api/admin/courses/:id/activate.
func (h *AdminHandler) ActivateCourse(c *gin.Context) {
	course, err := h.svc.Course.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// DeleteCourse handles DELETE /api/admin/courses/:id/permanent.
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	if err := h.svc.Course.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ListCoursesByInstructor handles GET /api/admin/courses/instructor/:instructorId.
func (h *AdminHandler) ListCoursesByInstructor(c *gin.Context) {
	courses, err := h.svc.Course.ListOwned(c.Request.Context(), c.Param("instructorId"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, courses)
}

// EnrollStudent handles POST /api/admin/courses/:id/students/:studentId.
func (h *AdminHandler) EnrollStudent(c *gin.Context) {
	course, err := h.svc.Course.EnrollStudent(c.Request.Context(), c.Param("id"), c.Param("studentId"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// UnenrollStudent handles DELETE /api/admin/courses/:id/students/:studentId.
func (h *AdminHandler) UnenrollStudent(c *gin.Context) {
	course, err := h.svc.Course.UnenrollStudent(c.Request.Context(), c.Param("id"), c.Param("studentId"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// SetCourseEnrollmentOpen handles PATCH /api/admin/courses/:id/enrollment.
// The admin bypasses the ownership check.
func (h *AdminHandler) SetCourseEnrollmentOpen(c *gin.Context) {
	var req struct {
		Open *bool `json:"open" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	course, err := h.svc.Course.SetEnrollmentOpen(c.Request.Context(), c.Param("id"), *req.Open, "")
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// CourseStatistics handles GET /api/admin/courses/:id/statistics.
func (h *AdminHandler) CourseStatistics(c *gin.Context) {
	stats, err := h.svc.Statistics.Course(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}

// ── statistics ──

// Statistics handles GET /api/admin/statistics.
func (h *AdminHandler) Statistics(c *gin.Context) {
	stats, err := h.svc.Statistics.Admin(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}

// ── helpers ──

func (h *AdminHandler) writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("write workbook", zap.Error(err))
	}
}
