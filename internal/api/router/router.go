package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/config"
	"github.com/sandunsrimal/university-course-management/internal/api/handler"
	"github.com/sandunsrimal/university-course-management/internal/api/middleware"
	"github.com/sandunsrimal/university-course-management/internal/model"
	"github.com/sandunsrimal/university-course-management/pkg/jwt"
	"github.com/sandunsrimal/university-course-management/pkg/redis"
)

// New builds the gin engine with all routes and middleware.
func New(
	h *handler.Handler,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Log.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(8 << 20)) // covers Excel uploads

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authRequired := middleware.JWTAuth(jwtManager, redisClient, logger)

	// ── auth ──
	auth := api.Group("/auth")
	{
		loginLimit := middleware.RateLimit(redisClient, 10, time.Minute)
		auth.POST("/login", loginLimit, h.Auth.Login)
		auth.POST("/refresh", loginLimit, h.Auth.Refresh)

		authed := auth.Group("", authRequired)
		{
			authed.POST("/logout", h.Auth.Logout)
			authed.GET("/me", h.Auth.Me)
			authed.POST("/change-password", h.Auth.ChangePassword)
		}
	}

	// ── admin ──
	admin := api.Group("/admin", authRequired, middleware.RoleAuth(model.RoleAdmin))
	{
		instructors := admin.Group("/instructors")
		{
			instructors.POST("", h.Admin.CreateInstructor)
			instructors.GET("", h.Admin.ListInstructors)
			instructors.GET("/search", h.Admin.SearchInstructors)
			instructors.GET("/departments", h.Admin.InstructorDepartments)
			instructors.GET("/specializations", h.Admin.InstructorSpecializations)
			instructors.GET("/department/:department", h.Admin.ListInstructorsByDepartment)
			instructors.GET("/:id", h.Admin.GetInstructor)
			instructors.PUT("/:id", h.Admin.UpdateInstructor)
			instructors.DELETE("/:id", h.Admin.DeactivateInstructor)
			instructors.PUT("/:id/activate", h.Admin.ActivateInstructor)
			instructors.DELETE("/:id/permanent", h.Admin.DeleteInstructor)
		}

		students := admin.Group("/students")
		{
			students.POST("", h.Admin.CreateStudent)
			students.GET("", h.Admin.ListStudents)
			students.GET("/search", h.Admin.SearchStudents)
			students.GET("/majors", h.Admin.StudentMajors)
			students.GET("/statuses", h.Admin.StudentStatuses)
			students.GET("/major/:major", h.Admin.ListStudentsByMajor)
			students.GET("/year/:year", h.Admin.ListStudentsByYear)
			students.GET("/status/:status", h.Admin.ListStudentsByStatus)
			students.POST("/import", h.Admin.ImportStudents)
			students.GET("/import/template", h.Admin.StudentImportTemplate)
			students.GET("/:id", h.Admin.GetStudent)
			students.PUT("/:id", h.Admin.UpdateStudent)
			students.DELETE("/:id", h.Admin.DeactivateStudent)
			students.PUT("/:id/activate", h.Admin.ActivateStudent)
			students.DELETE("/:id/permanent", h.Admin.DeleteStudent)
		}

		courses := admin.Group("/courses")
		{
			courses.POST("", h.Admin.CreateCourse)
			courses.GET("", h.Admin.ListCourses)
			courses.GET("/search", h.Admin.SearchCourses)
			courses.GET("/departments", h.Admin.CourseDepartments)
			courses.GET("/semesters", h.Admin.CourseSemesters)
			courses.GET("/department/:department", h.Admin.ListCoursesByDepartment)
			courses.GET("/semester/:semester", h.Admin.ListCoursesBySemester)
			courses.GET("/instructor/:instructorId", h.Admin.ListCoursesByInstructor)
			courses.GET("/code/:code", h.Admin.GetCourseByCode)
			courses.GET("/:id", h.Admin.GetCourse)
			courses.PUT("/:id", h.Admin.UpdateCourse)
			courses.DELETE("/:id", h.Admin.DeactivateCourse)
			courses.PUT("/:id/activate", h.Admin.ActivateCourse)
			courses.DELETE("/:id/permanent", h.Admin.DeleteCourse)
			courses.PATCH("/:id/enrollment", h.Admin.SetCourseEnrollmentOpen)
			courses.GET("/:id/statistics", h.Admin.CourseStatistics)
			courses.POST("/:id/students/:studentId", h.Admin.EnrollStudent)
			courses.DELETE("/:id/students/:studentId", h.Admin.UnenrollStudent)
		}

		admin.GET("/statistics", h.Admin.Statistics)
	}

	// ── instructor ──
	instructor := api.Group("/instructor", authRequired, middleware.RoleAuth(model.RoleInstructor))
	{
		instructor.GET("/profile", h.Instructor.Profile)
		instructor.PUT("/profile", h.Instructor.UpdateProfile)
		instructor.GET("/statistics", h.Instructor.Statistics)

		courses := instructor.Group("/courses")
		{
			courses.GET("", h.Instructor.ListCourses)
			courses.GET("/:id", h.Instructor.GetCourse)
			courses.PUT("/:id", h.Instructor.UpdateCourse)
			courses.GET("/:id/roster", h.Instructor.Roster)
			courses.GET("/:id/roster/export", h.Instructor.ExportRoster)
			courses.PATCH("/:id/enrollment", h.Instructor.SetEnrollmentOpen)
			courses.GET("/:id/statistics", h.Instructor.CourseStatistics)
			courses.GET("/:id/results", h.Instructor.ListCourseResults)
			courses.GET("/:id/students/:studentId/results", h.Instructor.ListStudentCourseResults)
			courses.GET("/:id/students/:studentId/results/average", h.Instructor.StudentCourseAverage)
			courses.POST("/:id/results/release", h.Instructor.BulkReleaseResults)
			courses.POST("/:id/results/unrelease", h.Instructor.BulkUnreleaseResults)
			courses.GET("/:id/results/statistics", h.Instructor.CourseResultStatistics)
			courses.DELETE("/:id/students/:studentId", h.Instructor.RemoveStudent)
		}

		results := instructor.Group("/results")
		{
			results.POST("", h.Instructor.CreateResult)
			results.GET("/:id", h.Instructor.GetResult)
			results.PUT("/:id", h.Instructor.UpdateResult)
			results.DELETE("/:id", h.Instructor.DeleteResult)
			results.POST("/:id/release", h.Instructor.ReleaseResult)
			results.POST("/:id/unrelease", h.Instructor.UnreleaseResult)
		}
	}

	// ── student ──
	student := api.Group("/student", authRequired, middleware.RoleAuth(model.RoleStudent))
	{
		student.GET("/profile", h.Student.Profile)
		student.PUT("/profile", h.Student.UpdateProfile)
		student.GET("/statistics", h.Student.Statistics)
		student.GET("/schedule/ics", h.Student.ScheduleICS)

		courses := student.Group("/courses")
		{
			courses.GET("", h.Student.ListEnrolledCourses)
			courses.GET("/available", h.Student.ListAvailableCourses)
			courses.GET("/:id", h.Student.GetCourse)
			courses.POST("/:id/enroll", h.Student.Enroll)
			courses.DELETE("/:id/enroll", h.Student.Drop)
			courses.GET("/:id/results", h.Student.ListCourseResults)
			courses.GET("/:id/results/average", h.Student.CourseAverageResult)
		}

		results := student.Group("/results")
		{
			results.GET("", h.Student.ListResults)
			results.GET("/average", h.Student.AverageResult)
		}
	}

	// ── course content ──
	content := api.Group("/course-content", authRequired)
	{
		content.GET("/types", h.Content.Types)

		ci := content.Group("/instructor", middleware.RoleAuth(model.RoleInstructor))
		{
			ci.POST("/courses/:courseId", h.Content.Create)
			ci.GET("/courses/:courseId", h.Content.ListForCourse)
			ci.GET("/mine", h.Content.ListMine)
			ci.GET("/:id", h.Content.Get)
			ci.PUT("/:id", h.Content.Update)
			ci.DELETE("/:id", h.Content.Delete)
			ci.POST("/:id/publish", h.Content.Publish)
			ci.POST("/:id/unpublish", h.Content.Unpublish)
		}

		cs := content.Group("/student", middleware.RoleAuth(model.RoleStudent))
		{
			cs.GET("/courses/:courseId", h.Content.ListPublishedForCourse)
			cs.GET("/courses/:courseId/type/:type", h.Content.ListPublishedByType)
			cs.GET("/announcements", h.Content.Announcements)
			cs.GET("/recent", h.Content.Recent)
			cs.GET("/:id", h.Content.GetPublished)
		}
	}

	return r
}
