package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/service"
	"github.com/sandunsrimal/university-course-management/pkg/response"
)

// InstructorHandler serves /api/instructor: the authenticated
// instructor's courses, rosters and grade records. Every request first
// resolves the caller's instructor profile; all course access then runs
// through the ownership checks in the services.
type InstructorHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewInstructorHandler creates the instructor handler group.
func NewInstructorHandler(svc *service.Service, logger *zap.Logger) *InstructorHandler {
	return &InstructorHandler{svc: svc, logger: logger}
}

// actor resolves the acting instructor's profile from the token email.
// On failure the response is already written.
func (h *InstructorHandler) actor(c *gin.Context) (*model.Instructor, bool) {
	instructor, err := h.svc.Identity.InstructorByEmail(c.Request.Context(), currentEmail(c))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return nil, false
	}
	return instructor, true
}

// ── profile ──

// Profile handles GET /api/instructor/profile.
func (h *InstructorHandler) Profile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	profile, err := h.svc.Instructor.GetByID(c.Request.Context(), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

// UpdateProfile handles PUT /api/instructor/profile.
func (h *InstructorHandler) UpdateProfile(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.UpdateInstructorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	profile, err := h.svc.Instructor.UpdateProfile(c.Request.Context(), actor.InstructorID, &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, profile)
}

// ── courses ──

// ListCourses handles GET /api/instructor/courses.
func (h *InstructorHandler) ListCourses(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	courses, err := h.svc.Course.ListOwned(c.Request.Context(), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, courses)
}

// GetCourse handles GET /api/instructor/courses/:id.
func (h *InstructorHandler) GetCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	course, err := h.svc.Course.GetOwned(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// UpdateCourse handles PUT /api/instructor/courses/:id. Owners can edit
// course details but not reassign the course.
func (h *InstructorHandler) UpdateCourse(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	course, err := h.svc.Course.Update(c.Request.Context(), c.Param("id"), &req, actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// Roster handles GET /api/instructor/courses/:id/roster.
func (h *InstructorHandler) Roster(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	roster, err := h.svc.Course.Roster(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, roster)
}

// ExportRoster handles GET /api/instructor/courses/:id/roster/export.
func (h *InstructorHandler) ExportRoster(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	f, filename, err := h.svc.Course.ExportRoster(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("write workbook", zap.Error(err))
	}
}

// SetEnrollmentOpen handles PATCH /api/instructor/courses/:id/enrollment.
func (h *InstructorHandler) SetEnrollmentOpen(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req struct {
		Open *bool `json:"open" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	course, err := h.svc.Course.SetEnrollmentOpen(c.Request.Context(), c.Param("id"), *req.Open, actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, course)
}

// RemoveStudent handles DELETE /api/instructor/courses/:id/students/:studentId.
func (h *InstructorHandler) RemoveStudent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	err := h.svc.Course.RemoveStudent(c.Request.Context(),
		c.Param("id"), c.Param("studentId"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// CourseStatistics handles GET /api/instructor/courses/:id/statistics.
func (h *InstructorHandler) CourseStatistics(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	// Ownership gate before exposing numbers.
	if _, err := h.svc.Course.GetOwned(c.Request.Context(), c.Param("id"), actor.InstructorID); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}

	stats, err := h.svc.Statistics.Course(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}

// ── results ──

// CreateResult handles POST /api/instructor/results.
func (h *InstructorHandler) CreateResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.svc.Result.Create(c.Request.Context(), actor.InstructorID, &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.Created(c, result)
}

// GetResult handles GET /api/instructor/results/:id.
func (h *InstructorHandler) GetResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.svc.Result.Get(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// UpdateResult handles PUT /api/instructor/results/:id.
func (h *InstructorHandler) UpdateResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	result, err := h.svc.Result.Update(c.Request.Context(), c.Param("id"), actor.InstructorID, &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// DeleteResult handles DELETE /api/instructor/results/:id.
func (h *InstructorHandler) DeleteResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.svc.Result.Delete(c.Request.Context(), c.Param("id"), actor.InstructorID); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ReleaseResult handles POST /api/instructor/results/:id/release.
func (h *InstructorHandler) ReleaseResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.svc.Result.Release(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// UnreleaseResult handles POST /api/instructor/results/:id/unrelease.
func (h *InstructorHandler) UnreleaseResult(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.svc.Result.Unrelease(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// ListCourseResults handles GET /api/instructor/courses/:id/results.
func (h *InstructorHandler) ListCourseResults(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	results, err := h.svc.Result.ListByCourse(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, results)
}

// ListStudentCourseResults handles
// GET /api/instructor/courses/:id/students/:studentId/results.
func (h *InstructorHandler) ListStudentCourseResults(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	results, err := h.svc.Result.ListByCourseAndStudent(c.Request.Context(),
		c.Param("id"), c.Param("studentId"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, results)
}

// StudentCourseAverage handles
// GET /api/instructor/courses/:id/students/:studentId/results/average.
func (h *InstructorHandler) StudentCourseAverage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	avg, err := h.svc.Result.StudentCourseAverage(c.Request.Context(),
		c.Param("id"), c.Param("studentId"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, avg)
}

// BulkReleaseResults handles POST /api/instructor/courses/:id/results/release.
func (h *InstructorHandler) BulkReleaseResults(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.svc.Result.BulkRelease(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// BulkUnreleaseResults handles POST /api/instructor/courses/:id/results/unrelease.
func (h *InstructorHandler) BulkUnreleaseResults(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.svc.Result.BulkUnrelease(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// CourseResultStatistics handles GET /api/instructor/courses/:id/results/statistics.
func (h *InstructorHandler) CourseResultStatistics(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	stats, err := h.svc.Result.CourseStatistics(c.Request.Context(), c.Param("id"), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}

// ── statistics ──

// Statistics handles GET /api/instructor/statistics.
func (h *InstructorHandler) Statistics(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	stats, err := h.svc.Statistics.Instructor(c.Request.Context(), actor.InstructorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, stats)
}
