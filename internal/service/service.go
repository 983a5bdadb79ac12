package service

import (
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/config"
	"github.com/sandunsrimal/university-course-management/internal/repository"
	"github.com/sandunsrimal/university-course-management/pkg/jwt"
	"github.com/sandunsrimal/university-course-management/pkg/redis"
)

// Service aggregates every business service.
type Service struct {
	Auth       *AuthService
	Identity   *IdentityService
	Instructor *InstructorService
	Student    *StudentService
	Course     *CourseService
	Content    *ContentService
	Result     *ResultService
	Statistics *StatisticsService
	Schedule   *ScheduleService
}

// NewService wires the services over the repository aggregate.
func NewService(
	repo *repository.Repository,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(repo, jwtManager, redisClient, logger),
		Identity:   NewIdentityService(repo),
		Instructor: NewInstructorService(repo, logger),
		Student:    NewStudentService(repo, logger),
		Course:     NewCourseService(repo, logger),
		Content:    NewContentService(repo, logger),
		Result:     NewResultService(repo, logger),
		Statistics: NewStatisticsService(repo),
		Schedule:   NewScheduleService(repo, cfg),
	}
}
