package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/service"
	"github.com/sandunsrimal/university-course-management/pkg/response"
)

// ContentHandler serves /api/course-content: course material management
// for instructors and the published view for students.
type ContentHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewContentHandler creates the course content handler group.
func NewContentHandler(svc *service.Service, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, logger: logger}
}

// ── instructor side ──

func (h *ContentHandler) instructorActor(c *gin.Context) (string, bool) {
	instructor, err := h.svc.Identity.InstructorByEmail(c.Request.Context(), currentEmail(c))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return "", false
	}
	return instructor.InstructorID, true
}

// Create handles POST /api/course-content/instructor/courses/:courseId.
func (h *ContentHandler) Create(c *gin.Context) {
	actorID, ok := h.instructorActor(c)
	if !ok {
		return
	}

	var req dto.CourseContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	content, err := h.svc.Content.Create(c.Request.Context(), c.Param("courseId"), actorID, &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.Created(c, content)
}

// ListForCourse handles GET /api/course-content/instructor/courses/:courseId.
func (h *ContentHandler) ListForCourse(c *gin.Context) {
	actorID, ok := h.instructorActor(c)
	if !ok {
		return
	}

	contents, err := h.svc.Content.ListForCourse(c.Request.Context(), c.Param("courseId"), actorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, contents)
}

// ListMine handles GET /api/course-content/instructor/mine.
func (h *ContentHandler) ListMine(c *gin.Context) {
	actorID, ok := h.instructorActor(c)
	if !ok {
		return
	}

	contents, err := h.svc.Content.ListMine(c.Request.Context(), actorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, contents)
}

// Get handles GET /api/course-content/instructor/:id.
func (h *ContentHandler) Get(c *gin.Context) {
	actorID, ok := h.instructorActor(c)
	if !ok {
		return
	}

	content, err := h.svc.Content.Get(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, content)
}

// Update handles PUT /api/course-content/instructor/:id.
func (h *ContentHandler) Update(c *gin.Context) {
	actorID, ok := h.instructorActor(c)
	if !ok {
		return
	}

	var req dto.CourseContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	content, err := h.svc.Content.Update(c.Request.Context(), c.Param("id"), actorID, &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, content)
}

// Publish handles POST /api/course-content/instructor/:id/publish.
func (h *ContentHandler) Publish(c *gin.Context) {
	h.setPublished(c, true)
}

// Unpublish handles POST /api/course-content/instructor/:id/unpublish.
func (h *ContentHandler) Unpublish(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *ContentHandler) setPublished(c *gin.Context, published bool) {
	actorID, ok := h.instructorActor(c)
	if !ok {
		return
	}

	content, err := h.svc.Content.SetPublished(c.Request.Context(), c.Param("id"), actorID, published)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, content)
}

// Delete handles DELETE /api/course-content/instructor/:id.
func (h *ContentHandler) Delete(c *gin.Context) {
	actorID, ok := h.instructorActor(c)
	if !ok {
		return
	}

	if err := h.svc.Content.Delete(c.Request.Context(), c.Param("id"), actorID); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ── student side ──

func (h *ContentHandler) studentActor(c *gin.Context) (string, bool) {
	student, err := h.svc.Identity.StudentByEmail(c.Request.Context(), currentEmail(c))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return "", false
	}
	return student.StudentID, true
}

// ListPublishedForCourse handles GET /api/course-content/student/courses/:courseId.
func (h *ContentHandler) ListPublishedForCourse(c *gin.Context) {
	studentID, ok := h.studentActor(c)
	if !ok {
		return
	}

	contents, err := h.svc.Content.ListPublishedForCourse(c.Request.Context(), c.Param("courseId"), studentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, contents)
}

// ListPublishedByType handles
// GET /api/course-content/student/courses/:courseId/type/:type.
func (h *ContentHandler) ListPublishedByType(c *gin.Context) {
	studentID, ok := h.studentActor(c)
	if !ok {
		return
	}

	contents, err := h.svc.Content.ListPublishedForCourseByType(c.Request.Context(),
		c.Param("courseId"), studentID, c.Param("type"))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, contents)
}

// Announcements handles GET /api/course-content/student/announcements.
// Published announcements across all of the student's enrolled courses.
func (h *ContentHandler) Announcements(c *gin.Context) {
	studentID, ok := h.studentActor(c)
	if !ok {
		return
	}

	contents, err := h.svc.Content.Announcements(c.Request.Context(), studentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, contents)
}

// Recent handles GET /api/course-content/student/recent. The optional
// limit query parameter caps the number of items; it defaults to 10.
func (h *ContentHandler) Recent(c *gin.Context) {
	studentID, ok := h.studentActor(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	contents, err := h.svc.Content.Recent(c.Request.Context(), studentID, limit)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, contents)
}

// Types handles GET /api/course-content/types.
func (h *ContentHandler) Types(c *gin.Context) {
	response.OK(c, h.svc.Content.Types())
}

// GetPublished handles GET /api/course-content/student/:id.
func (h *ContentHandler) GetPublished(c *gin.Context) {
	studentID, ok := h.studentActor(c)
	if !ok {
		return
	}

	content, err := h.svc.Content.GetPublished(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, content)
}
