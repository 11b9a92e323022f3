package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gradsys/gradtrack-backend/internal/config"
	"github.com/gradsys/gradtrack-backend/internal/handler"
	"github.com/gradsys/gradtrack-backend/internal/middleware"
	"github.com/gradsys/gradtrack-backend/internal/response"
	"github.com/gradsys/gradtrack-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	StudentPortal *handler.StudentPortalHandler
	StudentSurvey *handler.StudentSurveyHandler
	StudentMgmt   *handler.StudentManagementHandler
	Teacher       *handler.TeacherHandler
	Class         *handler.ClassHandler
	Notice        *handler.NoticeHandler
	SurveyAdmin   *handler.SurveyAdminHandler
	WS            *handler.WSHandler
	System        *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/api/v1/health", handlers.System.Health)

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1")
	{
		// Teacher directory for the registration page.
		publicAPI.GET("/teachers", handlers.Teacher.Directory)
	}

	// Rate limiter for credential routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/register", handlers.Auth.StudentRegister)
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/teacher/login", handlers.Auth.TeacherLogin)

		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/profile", handlers.StudentPortal.GetProfile)
		studentAPI.PUT("/profile", handlers.StudentPortal.UpdateProfile)
		studentAPI.PUT("/password", handlers.StudentPortal.ChangePassword)
		studentAPI.GET("/classmates", handlers.StudentPortal.ListClassmates)

		studentAPI.GET("/notices", handlers.StudentPortal.ListNotices)
		studentAPI.GET("/notices/unread-count", handlers.StudentPortal.GetUnreadNoticeCount)
		studentAPI.POST("/notices/mark-read", handlers.StudentPortal.MarkNoticesRead)
		studentAPI.POST("/notices/:id/read", handlers.StudentPortal.MarkNoticeRead)

		studentAPI.GET("/survey", handlers.StudentSurvey.GetSurvey)
		studentAPI.POST("/survey/submit", handlers.StudentSurvey.SubmitSurvey)
		studentAPI.GET("/survey/:id/response", handlers.StudentSurvey.GetMyResponse)
	}

	// ─── 3. WebSocket Group (Teacher WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireTeacherWSAuth(authService))
	{
		ws.GET("/teacher/surveys/:id/monitor", handlers.WS.MonitorSurvey)
	}

	// ─── 4. Teacher Group (JWT) ────────────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(middleware.RequireTeacherJWT(authService))
	{
		teacherAPI.GET("/profile", handlers.Teacher.GetProfile)
		teacherAPI.PUT("/profile", handlers.Teacher.UpdateProfile)
		teacherAPI.PUT("/password", handlers.Teacher.ChangePassword)

		// Class management
		teacherAPI.GET("/classes", handlers.Class.ListClasses)
		teacherAPI.POST("/classes", handlers.Class.CreateClass)
		teacherAPI.PUT("/classes/:id", handlers.Class.UpdateClass)
		teacherAPI.DELETE("/classes/:id", handlers.Class.DeleteClass)

		// Student roster
		teacherAPI.GET("/students", handlers.StudentMgmt.ListStudents)
		teacherAPI.GET("/students/:id", handlers.StudentMgmt.GetStudent)
		teacherAPI.POST("/students", handlers.StudentMgmt.CreateStudent)
		teacherAPI.PUT("/students/:id", handlers.StudentMgmt.UpdateStudent)
		teacherAPI.DELETE("/students/:id", handlers.StudentMgmt.DeleteStudent)
		teacherAPI.POST("/students/:id/reset-session", handlers.StudentMgmt.ResetStudentSession)

		// Notices
		teacherAPI.GET("/notices", handlers.Notice.ListNotices)
		teacherAPI.GET("/notices/:id", handlers.Notice.GetNotice)
		teacherAPI.POST("/notices", handlers.Notice.CreateNotice)
		teacherAPI.PUT("/notices/:id", handlers.Notice.UpdateNotice)
		teacherAPI.DELETE("/notices/:id", handlers.Notice.DeleteNotice)
		teacherAPI.GET("/notices/:id/readers", handlers.Notice.ListReaders)

		// Surveys and completion statistics
		teacherAPI.GET("/surveys", handlers.SurveyAdmin.ListSurveys)
		teacherAPI.GET("/surveys/:id", handlers.SurveyAdmin.GetSurvey)
		teacherAPI.POST("/surveys", handlers.SurveyAdmin.CreateSurvey)
		teacherAPI.PUT("/surveys/:id", handlers.SurveyAdmin.UpdateSurvey)
		teacherAPI.DELETE("/surveys/:id", handlers.SurveyAdmin.DeleteSurvey)
		teacherAPI.GET("/surveys/:id/students", handlers.SurveyAdmin.ListStudentsByCompletion)
		teacherAPI.GET("/surveys/:id/responses/:student_no", handlers.SurveyAdmin.GetStudentResponse)
	}

	return router
}
