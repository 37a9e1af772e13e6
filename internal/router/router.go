package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/handler"
	"github.com/edifyminds/edify-backend/internal/middleware"
	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/response"
	"github.com/edifyminds/edify-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Test       *handler.TestHandler
	Submission *handler.SubmissionHandler
	Export     *handler.ExportHandler
	Class      *handler.ClassHandler
	Homework   *handler.HomeworkHandler
	Notice     *handler.NoticeHandler
	Resource   *handler.ResourceHandler
	Media      *handler.MediaHandler
	User       *handler.UserHandler
	Overview   *handler.OverviewHandler
	Monitor    *handler.MonitorHandler
	System     *handler.SystemHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// Global chain: CORS, then request IDs so every response carries
	// metadata, then compression.
	router.Use(cors.New(corsOptions(cfg)))
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Serve uploaded files statically with aggressive caching (1 year);
	// filenames are random UUIDs, so entries never change.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000, true))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Finished export spreadsheets. Cached briefly: a requeued job may
	// rewrite its file.
	exportsGroup := router.Group("/exports")
	exportsGroup.Use(middleware.CacheControl(3600, false))
	{
		exportsGroup.Static("/", cfg.ExportDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiters. Uploads are the expensive path (10/min per IP);
	// test creation and submission get a looser bucket (30/min per IP).
	uploadLimiter := middleware.NewRateLimiter(10, time.Minute)
	writeLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── API (JWT required) ────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		// Tests
		api.POST("/tests",
			middleware.RequireRole(model.RoleTeacher),
			writeLimiter.Middleware(),
			handlers.Test.CreateTest,
		)
		api.GET("/tests/:test_id", handlers.Test.GetTest)
		api.DELETE("/tests/:test_id",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Test.DeleteTest,
		)
		api.GET("/classes/:class_id/tests", handlers.Test.ListClassTests)

		// Submissions and results
		api.POST("/tests/submit",
			middleware.RequireRole(model.RoleStudent),
			writeLimiter.Middleware(),
			handlers.Submission.SubmitTest,
		)
		api.GET("/tests/:test_id/result",
			middleware.RequireRole(model.RoleStudent),
			handlers.Submission.GetTestResult,
		)
		api.GET("/my-test-results",
			middleware.RequireRole(model.RoleStudent),
			handlers.Submission.ListMyResults,
		)
		api.GET("/tests/:test_id/submissions",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Submission.ListTestSubmissions,
		)

		// Live monitor (SSE)
		api.GET("/tests/:test_id/monitor",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Monitor.MonitorTestSSE,
		)

		// Submission exports
		api.POST("/tests/:test_id/submissions/export",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Export.RequestExport,
		)
		api.GET("/exports/:job_id",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Export.GetExportJob,
		)

		// Classes
		api.POST("/classes",
			middleware.RequireRole(model.RoleTeacher),
			handlers.Class.CreateClass,
		)
		api.GET("/classes", handlers.Class.ListClasses)
		api.GET("/classes/:class_id", handlers.Class.GetClass)
		api.PUT("/classes/:class_id",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Class.UpdateClass,
		)
		api.DELETE("/classes/:class_id",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Class.DeleteClass,
		)
		api.GET("/classes/:class_id/students",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Class.ListClassStudents,
		)

		// Enrollments
		api.POST("/enrollments",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Class.Enroll,
		)
		api.DELETE("/enrollments/:student_id/:class_id",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Class.Unenroll,
		)

		// Homework
		api.POST("/homework",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Homework.CreateHomework,
		)
		api.GET("/classes/:class_id/homework", handlers.Homework.ListClassHomework)
		api.DELETE("/homework/:homework_id",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Homework.DeleteHomework,
		)

		// Notices
		api.POST("/notices",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Notice.CreateNotice,
		)
		api.GET("/classes/:class_id/notices", handlers.Notice.ListClassNotices)
		api.DELETE("/notices/:notice_id",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Notice.DeleteNotice,
		)

		// Resources
		api.POST("/resources",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Resource.CreateResource,
		)
		api.GET("/classes/:class_id/resources", handlers.Resource.ListClassResources)
		api.DELETE("/resources/:resource_id",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			handlers.Resource.DeleteResource,
		)

		// File uploads
		api.POST("/upload",
			middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
			uploadLimiter.Middleware(),
			handlers.Media.Upload,
		)
	}

	// ─── Admin (JWT + admin role) ──────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleAdmin),
	)
	{
		adminAPI.GET("/users", handlers.User.ListUsers)
		adminAPI.GET("/users/:user_id", handlers.User.GetUser)
		adminAPI.PUT("/users/:user_id", handlers.User.UpdateUser)
		adminAPI.DELETE("/users/:user_id", handlers.User.DeleteUser)
		adminAPI.GET("/overview", handlers.Overview.GetOverview)
		adminAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	// ─── WebSocket (student draft sync) ────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleStudent),
	)
	{
		ws.GET("/tests/:test_id/stream", handlers.WS.TestDraftStream)
	}

	return router
}

// corsOptions restricts browsers to the configured origins, or allows
// everything when none are set so dev works without extra setup.
func corsOptions(cfg *config.Config) cors.Config {
	opts := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		opts.AllowOrigins = cfg.AllowedOrigins
	} else {
		opts.AllowAllOrigins = true
	}
	opts.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	opts.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	opts.ExposeHeaders = []string{"X-Request-ID"}
	opts.MaxAge = 12 * time.Hour
	return opts
}
