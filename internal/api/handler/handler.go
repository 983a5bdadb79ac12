package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/service"
	"github.com/sandunsrimal/university-course-management/pkg/response"
)

// Handler aggregates every HTTP handler group.
type Handler struct {
	Auth       *AuthHandler
	Admin      *AdminHandler
	Instructor *InstructorHandler
	Student    *StudentHandler
	Content    *ContentHandler
}

// NewHandler wires the handler groups over the service aggregate.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc, logger),
		Admin:      NewAdminHandler(svc, logger),
		Instructor: NewInstructorHandler(svc, logger),
		Student:    NewStudentHandler(svc, logger),
		Content:    NewContentHandler(svc, logger),
	}
}

// ── error mapping ──

type errorMapping struct {
	err    error
	status int
	code   int
}

// Every service sentinel and its HTTP shape. Unlisted errors are treated
// as internal and never echoed to the client.
var serviceErrors = []errorMapping{
	// auth
	{service.ErrInvalidCredentials, http.StatusUnauthorized, 40110},
	{service.ErrInvalidToken, http.StatusUnauthorized, 40111},
	{service.ErrAccountDisabled, http.StatusForbidden, 40310},
	{service.ErrWrongPassword, http.StatusBadRequest, 40010},
	{service.ErrUserNotFound, http.StatusNotFound, 40410},

	// identity resolution
	{service.ErrNoInstructorProfile, http.StatusBadRequest, 40013},
	{service.ErrNoStudentProfile, http.StatusBadRequest, 40014},

	// ownership and membership
	{service.ErrNotCourseOwner, http.StatusForbidden, 40330},
	{service.ErrNotCourseMember, http.StatusForbidden, 40331},

	// instructors
	{service.ErrInstructorNotFound, http.StatusNotFound, 40420},
	{service.ErrDuplicateEmployeeID, http.StatusBadRequest, 40020},
	{service.ErrDuplicateEmail, http.StatusBadRequest, 40021},
	{service.ErrEmployeeIDImmutable, http.StatusBadRequest, 40022},
	{service.ErrInstructorHasCourses, http.StatusBadRequest, 40023},

	// students
	{service.ErrStudentNotFound, http.StatusNotFound, 40430},
	{service.ErrDuplicateStudentNumber, http.StatusBadRequest, 40030},
	{service.ErrStudentNumberImmutable, http.StatusBadRequest, 40031},
	{service.ErrInvalidStudentStatus, http.StatusBadRequest, 40032},
	{service.ErrEmptyImportFile, http.StatusBadRequest, 40033},
	{service.ErrStudentHasEnrollments, http.StatusBadRequest, 40034},

	// courses
	{service.ErrCourseNotFound, http.StatusNotFound, 40440},
	{service.ErrDuplicateCourseCode, http.StatusBadRequest, 40040},
	{service.ErrCourseCodeImmutable, http.StatusBadRequest, 40041},
	{service.ErrCourseHasEnrollments, http.StatusBadRequest, 40042},
	{service.ErrInvalidDateRange, http.StatusBadRequest, 40043},
	{service.ErrCapacityBelowEnrollment, http.StatusBadRequest, 40044},

	// enrollment
	{model.ErrCourseInactive, http.StatusBadRequest, 40050},
	{model.ErrEnrollmentClosed, http.StatusBadRequest, 40051},
	{model.ErrCourseFull, http.StatusBadRequest, 40053},
	{model.ErrAlreadyEnrolled, http.StatusBadRequest, 40054},
	{model.ErrNotEnrolled, http.StatusBadRequest, 40052},

	// course content
	{service.ErrContentNotFound, http.StatusNotFound, 40460},
	{service.ErrInvalidContentType, http.StatusBadRequest, 40060},

	// results
	{service.ErrResultNotFound, http.StatusNotFound, 40470},
	{service.ErrInvalidResultType, http.StatusBadRequest, 40070},
	{service.ErrResultValueOutOfRange, http.StatusBadRequest, 40071},
	{service.ErrDuplicateAssessment, http.StatusBadRequest, 40072},
}

// writeServiceError translates a service error into the JSON envelope.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.code, m.err.Error())
			return
		}
	}

	logger.Error("unhandled service error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	response.InternalError(c)
}

// writeBindError reports a malformed or invalid request body.
func writeBindError(c *gin.Context, err error) {
	resp := response.Response{
		Code:    40001,
		Message: "invalid request payload",
		Details: err.Error(),
	}
	c.JSON(http.StatusBadRequest, resp)
}
