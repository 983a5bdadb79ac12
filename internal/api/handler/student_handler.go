package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/service"
	"github.com/sandunsrimal/university-course-management/pkg/response"
)

// StudentHandler serves /api/student: the authenticated student's
// catalog, enrollments, results and schedule.
type StudentHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewStudentHandler creates the student handler group.
func NewStudentHandler(svc *service.Service, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{svc: svc, logger: logger}
}

// actor resolves the acting student's profile from the token email. On
// failure the response is already written.
func (h *StudentHandler) actor(c *gin.Context) (*model.Student, bool) {
	student, err := h.svc.Identity.StudentByEmail(c.Request.Context(), currentEmail(c))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return nil, false
	}
	return student, true
}

// ── profile ──

// Profile handles GET /api/student/profile.
func (h *StudentHandler) Profile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	profile, err := h.svc.Student.GetByID(c.Request.Context(), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

// UpdateProfile handles PUT /api/student/profile.
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	profile, err := h.svc.Student.UpdateProfile(c.Request.Context(), actor.StudentID, &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

// ── catalog and enrollment ──

// ListAvailableCourses handles GET /api/student/courses/available.
func (h *StudentHandler) ListAvailableCourses(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	courses, err := h.svc.Course.ListAvailable(c.Request.Context(), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, courses)
}

// ListEnrolledCourses handles GET /api/student/courses.
func (h *StudentHandler) ListEnrolledCourses(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	courses, err := h.svc.Course.ListEnrolled(c.Request.Context(), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, courses)
}

// GetCourse handles GET /api/student/courses/:id.
func (h *StudentHandler) GetCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	course, err := h.svc.Course.GetEnrolled(c.Request.Context(), c.Param("id"), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// Enroll handles POST /api/student/courses/:id/enroll.
func (h *StudentHandler) Enroll(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	course, err := h.svc.Course.EnrollStudent(c.Request.Context(), c.Param("id"), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// Drop handles DELETE /api/student/courses/:id/enroll.
func (h *StudentHandler) Drop(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	course, err := h.svc.Course.UnenrollStudent(c.Request.Context(), c.Param("id"), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// ── results ──

// ListResults handles GET /api/student/results.
func (h *StudentHandler) ListResults(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	results, err := h.svc.Result.ListReleased(c.Request.Context(), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, results)
}

// ListCourseResults handles GET /api/student/courses/:id/results.
func (h *StudentHandler) ListCourseResults(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	results, err := h.svc.Result.ListReleasedForCourse(c.Request.Context(), c.Param("id"), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, results)
}

// CourseAverageResult handles GET /api/student/courses/:id/results/average.
func (h *StudentHandler) CourseAverageResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	avg, err := h.svc.Result.ReleasedCourseAverage(c.Request.Context(), c.Param("id"), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, avg)
}

// AverageResult handles GET /api/student/results/average.
func (h *StudentHandler) AverageResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	avg, err := h.svc.Result.ReleasedAverage(c.Request.Context(), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, avg)
}

// ── schedule ──

// ScheduleICS handles GET /api/student/schedule/ics. Returns the
// enrolled courses as an iCalendar feed.
func (h *StudentHandler) ScheduleICS(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	calendar, err := h.svc.Schedule.StudentCalendar(c.Request.Context(), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar))
}

// ── statistics ──

// Statistics handles GET /api/student/statistics.
func (h *StudentHandler) Statistics(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	stats, err := h.svc.Statistics.Student(c.Request.Context(), actor.StudentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}
