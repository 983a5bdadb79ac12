package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/internal/repository"
)

// Course material failures.
var (
	ErrContentNotFound    = errors.New("course content not found")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrNotCourseMember    = errors.New("student is not enrolled in this course")
)

// ContentService manages course materials. Instructors see and edit only
// material of courses they own; students see only published material of
// courses they are enrolled in.
type ContentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewContentService creates the course material service.
func NewContentService(repo *repository.Repository, logger *zap.Logger) *ContentService {
	return &ContentService{repo: repo, logger: logger}
}

// ── instructor side ──

// Create adds material to a course the acting instructor owns. New
// material starts unpublished unless the request says otherwise.
func (s *ContentService) Create(ctx context.Context, courseID, actorInstructorID string, req *dto.CourseContentRequest) (*dto.CourseContentResponse, error) {
	if !model.ValidContentType(req.ContentType) {
		return nil, ErrInvalidContentType
	}
	if err := s.requireCourseOwner(ctx, courseID, actorInstructorID); err != nil {
		return nil, err
	}

	content := &model.CourseContent{
		Title:                 req.Title,
		Description:           req.Description,
		ContentType:           req.ContentType,
		Content:               req.Content,
		FilePath:              req.FilePath,
		SortOrder:             req.SortOrder,
		IsActive:              true,
		CourseID:              courseID,
		CreatedByInstructorID: actorInstructorID,
	}
	if req.IsPublished != nil {
		content.IsPublished = *req.IsPublished
	}

	if err := s.repo.CourseContent.Create(ctx, content); err != nil {
		return nil, err
	}

	s.logger.Info("course content created",
		zap.String("content_id", content.ContentID),
		zap.String("course_id", courseID))

	resp := toContentResponse(content)
	return &resp, nil
}

// ListForCourse returns all material of an owned course, drafts included.
func (s *ContentService) ListForCourse(ctx context.Context, courseID, actorInstructorID string) ([]dto.CourseContentResponse, error) {
	if err := s.requireCourseOwner(ctx, courseID, actorInstructorID); err != nil {
		return nil, err
	}
	contents, err := s.repo.CourseContent.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toContentResponses(contents), nil
}

// ListMine returns everything the acting instructor has created, across
// all their courses.
func (s *ContentService) ListMine(ctx context.Context, actorInstructorID string) ([]dto.CourseContentResponse, error) {
	contents, err := s.repo.CourseContent.ListByInstructor(ctx, actorInstructorID)
	if err != nil {
		return nil, err
	}
	return toContentResponses(contents), nil
}

// Get returns one piece of material of an owned course.
func (s *ContentService) Get(ctx context.Context, contentID, actorInstructorID string) (*dto.CourseContentResponse, error) {
	content, err := s.getOwnedContent(ctx, contentID, actorInstructorID)
	if err != nil {
		return nil, err
	}
	resp := toContentResponse(content)
	return &resp, nil
}

// Update edits material of an owned course.
func (s *ContentService) Update(ctx context.Context, contentID, actorInstructorID string, req *dto.CourseContentRequest) (*dto.CourseContentResponse, error) {
	if !model.ValidContentType(req.ContentType) {
		return nil, ErrInvalidContentType
	}
	content, err := s.getOwnedContent(ctx, contentID, actorInstructorID)
	if err != nil {
		return nil, err
	}

	content.Title = req.Title
	content.Description = req.Description
	content.ContentType = req.ContentType
	content.Content = req.Content
	content.FilePath = req.FilePath
	content.SortOrder = req.SortOrder
	if req.IsPublished != nil {
		content.IsPublished = *req.IsPublished
	}

	if err := s.repo.CourseContent.Update(ctx, content); err != nil {
		return nil, err
	}

	resp := toContentResponse(content)
	return &resp, nil
}

// SetPublished flips the visibility of one piece of material.
func (s *ContentService) SetPublished(ctx context.Context, contentID, actorInstructorID string, published bool) (*dto.CourseContentResponse, error) {
	content, err := s.getOwnedContent(ctx, contentID, actorInstructorID)
	if err != nil {
		return nil, err
	}

	content.IsPublished = published
	if err := s.repo.CourseContent.Update(ctx, content); err != nil {
		return nil, err
	}

	resp := toContentResponse(content)
	return &resp, nil
}

// Delete removes material of an owned course.
func (s *ContentService) Delete(ctx context.Context, contentID, actorInstructorID string) error {
	content, err := s.getOwnedContent(ctx, contentID, actorInstructorID)
	if err != nil {
		return err
	}

	if err := s.repo.CourseContent.Delete(ctx, content.ContentID); err != nil {
		return err
	}

	s.logger.Info("course content deleted",
		zap.String("content_id", contentID),
		zap.String("course_id", content.CourseID))
	return nil
}

// ── student side ──

// ListPublishedForCourse returns the published material of a course the
// student is enrolled in.
func (s *ContentService) ListPublishedForCourse(ctx context.Context, courseID, studentID string) ([]dto.CourseContentResponse, error) {
	if err := s.requireCourseMember(ctx, courseID, studentID); err != nil {
		return nil, err
	}
	contents, err := s.repo.CourseContent.ListPublishedByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toContentResponses(contents), nil
}

// ListPublishedForCourseByType filters a course's published material by
// content type.
func (s *ContentService) ListPublishedForCourseByType(ctx context.Context, courseID, studentID, contentType string) ([]dto.CourseContentResponse, error) {
	if !model.ValidContentType(contentType) {
		return nil, ErrInvalidContentType
	}
	if err := s.requireCourseMember(ctx, courseID, studentID); err != nil {
		return nil, err
	}
	contents, err := s.repo.CourseContent.ListPublishedByCourseAndType(ctx, courseID, contentType)
	if err != nil {
		return nil, err
	}
	return toContentResponses(contents), nil
}

// Announcements returns published announcements across every course the
// student is enrolled in, newest first.
func (s *ContentService) Announcements(ctx context.Context, studentID string) ([]dto.CourseContentResponse, error) {
	return s.listAcrossEnrolled(ctx, studentID, model.ContentTypeAnnouncement, 0)
}

// Recent returns the latest published material across the student's
// enrolled courses.
func (s *ContentService) Recent(ctx context.Context, studentID string, limit int) ([]dto.CourseContentResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.listAcrossEnrolled(ctx, studentID, "", limit)
}

// Types lists the recognized content types.
func (s *ContentService) Types() []string {
	return model.ContentTypes()
}

func (s *ContentService) listAcrossEnrolled(ctx context.Context, studentID, contentType string, limit int) ([]dto.CourseContentResponse, error) {
	courses, err := s.repo.Course.ListEnrolledByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	courseIDs := make([]string, len(courses))
	for i := range courses {
		courseIDs[i] = courses[i].CourseID
	}

	contents, err := s.repo.CourseContent.ListPublishedByCourses(ctx, courseIDs, contentType, limit)
	if err != nil {
		return nil, err
	}
	return toContentResponses(contents), nil
}

// GetPublished returns one published piece of material of a course the
// student is enrolled in. Drafts look like missing content from here.
func (s *ContentService) GetPublished(ctx context.Context, contentID, studentID string) (*dto.CourseContentResponse, error) {
	content, err := s.getContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if !content.IsPublished {
		return nil, ErrContentNotFound
	}
	if err := s.requireCourseMember(ctx, content.CourseID, studentID); err != nil {
		return nil, err
	}
	resp := toContentResponse(content)
	return &resp, nil
}

// ── helpers ──

func (s *ContentService) requireCourseOwner(ctx context.Context, courseID, actorInstructorID string) error {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	if course.InstructorID != actorInstructorID {
		return ErrNotCourseOwner
	}
	return nil
}

func (s *ContentService) requireCourseMember(ctx context.Context, courseID, studentID string) error {
	enrolled, err := s.repo.Course.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotCourseMember
	}
	return nil
}

func (s *ContentService) getContent(ctx context.Context, contentID string) (*model.CourseContent, error) {
	content, err := s.repo.CourseContent.GetByID(ctx, contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return content, nil
}

func (s *ContentService) getOwnedContent(ctx context.Context, contentID, actorInstructorID string) (*model.CourseContent, error) {
	content, err := s.getContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCourseOwner(ctx, content.CourseID, actorInstructorID); err != nil {
		return nil, err
	}
	return content, nil
}

// ── mapping ──

func toContentResponse(c *model.CourseContent) dto.CourseContentResponse {
	return dto.CourseContentResponse{
		ID:                    c.ContentID,
		Title:                 c.Title,
		Description:           c.Description,
		ContentType:           c.ContentType,
		Content:               c.Content,
		FilePath:              c.FilePath,
		SortOrder:             c.SortOrder,
		IsPublished:           c.IsPublished,
		IsActive:              c.IsActive,
		CourseID:              c.CourseID,
		CreatedByInstructorID: c.CreatedByInstructorID,
		CreatedAt:             c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             c.UpdatedAt.Format(time.RFC3339),
	}
}

func toContentResponses(contents []model.CourseContent) []dto.CourseContentResponse {
	out := make([]dto.CourseContentResponse, 0, len(contents))
	for i := range contents {
		out = append(out, toContentResponse(&contents[i]))
	}
	return out
}
