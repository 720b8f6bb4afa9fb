package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/siakad-backend/internal/config"
	"github.com/stemsi/siakad-backend/internal/handler"
	"github.com/stemsi/siakad-backend/internal/middleware"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/response"
	"github.com/stemsi/siakad-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Session     *handler.SessionHandler
	Class       *handler.ClassHandler
	Student     *handler.StudentHandler
	Teacher     *handler.TeacherHandler
	Promotion   *handler.PromotionHandler
	Institution *handler.InstitutionHandler
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
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the login route (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
	}

	// ─── 2. Admin Group (JWT + Single Device + RBAC) ───────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAdminJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		// Profile and session
		adminAPI.GET("/auth/me", handlers.Auth.Me)
		adminAPI.POST("/auth/logout", handlers.Auth.Logout)

		// Academic session lifecycle
		adminAPI.GET("/sessions",
			middleware.RequirePermission(model.PermissionSessionsRead),
			handlers.Session.ListSessions,
		)
		adminAPI.GET("/sessions/active",
			middleware.RequirePermission(model.PermissionSessionsRead),
			handlers.Session.GetActiveSession,
		)
		adminAPI.GET("/sessions/:id",
			middleware.RequirePermission(model.PermissionSessionsRead),
			handlers.Session.GetSession,
		)
		adminAPI.POST("/sessions",
			middleware.RequirePermission(model.PermissionSessionsWrite),
			handlers.Session.CreateSession,
		)
		adminAPI.POST("/sessions/:id/activate",
			middleware.RequirePermission(model.PermissionSessionsWrite),
			handlers.Session.ActivateSession,
		)
		adminAPI.POST("/sessions/:id/deactivate",
			middleware.RequirePermission(model.PermissionSessionsWrite),
			handlers.Session.DeactivateSession,
		)
		adminAPI.POST("/sessions/:id/archive",
			middleware.RequirePermission(model.PermissionSessionsWrite),
			handlers.Session.ArchiveSession,
		)
		adminAPI.POST("/sessions/:id/unarchive",
			middleware.RequirePermission(model.PermissionSessionsWrite),
			handlers.Session.UnarchiveSession,
		)

		// Class management
		adminAPI.GET("/classes",
			middleware.RequirePermission(model.PermissionStudentsRead),
			handlers.Class.ListClasses,
		)
		adminAPI.GET("/classes/:id",
			middleware.RequirePermission(model.PermissionStudentsRead),
			handlers.Class.GetClass,
		)
		adminAPI.POST("/classes",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Class.CreateClass,
		)
		adminAPI.PUT("/classes/:id",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Class.UpdateClass,
		)
		adminAPI.POST("/classes/:id/freeze",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Class.FreezeClass,
		)
		adminAPI.POST("/classes/:id/unfreeze",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Class.UnfreezeClass,
		)
		adminAPI.DELETE("/classes/:id",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Class.DeleteClass,
		)

		// Student management
		adminAPI.GET("/students",
			middleware.RequirePermission(model.PermissionStudentsRead),
			handlers.Student.ListStudents,
		)
		adminAPI.GET("/students/:id",
			middleware.RequirePermission(model.PermissionStudentsRead),
			handlers.Student.GetStudent,
		)
		adminAPI.POST("/students",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Student.CreateStudent,
		)
		adminAPI.PUT("/students/:id",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Student.UpdateStudent,
		)
		adminAPI.DELETE("/students/:id",
			middleware.RequirePermission(model.PermissionStudentsWrite),
			handlers.Student.DeleteStudent,
		)

		// Teacher management
		adminAPI.GET("/teachers",
			middleware.RequirePermission(model.PermissionTeachersRead),
			handlers.Teacher.ListTeachers,
		)
		adminAPI.GET("/teachers/:id",
			middleware.RequirePermission(model.PermissionTeachersRead),
			handlers.Teacher.GetTeacher,
		)
		adminAPI.POST("/teachers",
			middleware.RequirePermission(model.PermissionTeachersWrite),
			handlers.Teacher.CreateTeacher,
		)
		adminAPI.PUT("/teachers/:id",
			middleware.RequirePermission(model.PermissionTeachersWrite),
			handlers.Teacher.UpdateTeacher,
		)
		adminAPI.DELETE("/teachers/:id",
			middleware.RequirePermission(model.PermissionTeachersWrite),
			handlers.Teacher.DeleteTeacher,
		)

		// Promotion
		adminAPI.POST("/promotions",
			middleware.RequirePermission(model.PermissionPromote),
			handlers.Promotion.PromoteStudents,
		)

		// Institution administration (super admin only)
		adminAPI.GET("/institution",
			middleware.RequirePermission(model.PermissionSuperAdmin),
			handlers.Institution.GetInstitution,
		)
		adminAPI.POST("/institutions",
			middleware.RequirePermission(model.PermissionSuperAdmin),
			handlers.Institution.CreateInstitution,
		)
		adminAPI.POST("/institution/freeze",
			middleware.RequirePermission(model.PermissionSuperAdmin),
			handlers.Institution.FreezeInstitution,
		)
		adminAPI.POST("/institution/unfreeze",
			middleware.RequirePermission(model.PermissionSuperAdmin),
			handlers.Institution.UnfreezeInstitution,
		)
		adminAPI.POST("/admins",
			middleware.RequirePermission(model.PermissionSuperAdmin),
			handlers.Institution.CreateAdmin,
		)
	}

	return router
}
