package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/handler"
	"github.com/noah-isme/slms-api/internal/middleware"
	"github.com/noah-isme/slms-api/internal/service"
	"github.com/noah-isme/slms-api/pkg/config"
	"github.com/noah-isme/slms-api/pkg/logger"
	"github.com/noah-isme/slms-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Admissions  *handler.AdmissionHandler
	Students    *handler.StudentHandler
	Alumni      *handler.AlumniHandler
	Attendance  *handler.AttendanceHandler
	Routines    *handler.RoutineHandler
	Marks       *handler.MarksHandler
	Stipends    *handler.StipendHandler
	Corrections *handler.CorrectionHandler
	Departments *handler.DepartmentHandler
	Users       *handler.UserHandler
	System      *handler.SystemHandler
}

// Setup builds the gin engine with global middleware and all API routes.
func Setup(cfg *config.Config, h Handlers, tokens middleware.TokenValidator, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", "/metrics"))

	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", h.System.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// signed tokens authorize downloads
	api.GET("/documents/download", h.Admissions.DownloadDocument)

	authorized := api.Group("")
	authorized.Use(middleware.JWT(tokens))
	{
		users := authorized.Group("/users")
		{
			users.GET("/me", h.Users.Me)
			users.GET("/:id", h.Users.Get)
		}

		departments := authorized.Group("/departments")
		{
			departments.GET("", h.Departments.List)
			departments.GET("/:id", h.Departments.Get)
			departments.POST("", h.Departments.Create)
			departments.PUT("/:id", h.Departments.Update)
			departments.DELETE("/:id", h.Departments.Delete)
		}

		admissions := authorized.Group("/admissions")
		{
			admissions.POST("", h.Admissions.Submit)
			admissions.GET("", h.Admissions.List)
			admissions.GET("/me", h.Admissions.Mine)
			admissions.POST("/reapply", h.Admissions.Reapply)
			admissions.GET("/draft", h.Admissions.GetDraft)
			admissions.PUT("/draft", h.Admissions.SaveDraft)
			admissions.DELETE("/draft", h.Admissions.ClearDraft)
			admissions.POST("/upload-documents", h.Admissions.UploadDocuments)
			admissions.GET("/:ref", h.Admissions.Get)
			admissions.POST("/:ref/approve", h.Admissions.Approve)
			admissions.POST("/:ref/reject", h.Admissions.Reject)
			admissions.GET("/:ref/documents/:field/url", h.Admissions.DocumentURL)

			admissions.POST("/save-draft", h.Admissions.SaveDraft)
			admissions.GET("/get-draft", h.Admissions.GetDraft)
			admissions.DELETE("/clear-draft", h.Admissions.ClearDraft)
		}

		students := authorized.Group("/students")
		{
			students.GET("", h.Students.List)
			students.GET("/me", h.Students.Me)
			students.POST("/fix-orphans", h.Students.FixOrphans)
			students.GET("/:id", h.Students.Get)
			students.PATCH("/:id", h.Students.Update)
			students.POST("/:id/results", h.Students.RecordResult)
			students.POST("/:id/semester-attendance", h.Students.RecordAttendance)
			students.POST("/:id/semester-attendance/rollup", h.Students.RollupAttendance)
			students.GET("/:id/attendance-summary", h.Attendance.Summary)
			students.GET("/:id/eligibility", h.Students.Eligibility)
			students.GET("/:id/class-rank", h.Students.ClassRank)
			students.POST("/:id/promote-to-alumni", h.Students.Promote)
		}

		alumni := authorized.Group("/alumni")
		{
			alumni.GET("", h.Alumni.List)
			alumni.GET("/:id", h.Alumni.Get)
			alumni.PATCH("/:id", h.Alumni.Update)
			alumni.POST("/:id/support-category", h.Alumni.ChangeSupport)
			alumni.POST("/:id/lists/:list", h.Alumni.AddEntry)
			alumni.PUT("/:id/lists/:list/:entryId", h.Alumni.UpdateEntry)
			alumni.DELETE("/:id/lists/:list/:entryId", h.Alumni.RemoveEntry)
		}

		routines := authorized.Group("/routines")
		{
			routines.GET("", h.Routines.List)
			routines.POST("", h.Routines.Create)
			routines.GET("/:id", h.Routines.Get)
		}

		attendance := authorized.Group("/attendance")
		{
			attendance.GET("", h.Attendance.List)
			attendance.POST("", h.Attendance.Record)
			attendance.GET("/pending", h.Attendance.Pending)
			attendance.POST("/submit", h.Attendance.Submit)
			attendance.POST("/review", h.Attendance.Decide)
			attendance.POST("/approval", h.Attendance.Decide)
			attendance.GET("/student_summary", h.Attendance.Summary)
		}

		marks := authorized.Group("/marks")
		{
			marks.GET("/student_marks", h.Marks.List)
			marks.POST("", h.Marks.Create)
		}

		stipends := authorized.Group("/stipends")
		{
			stipends.GET("/calculate", h.Stipends.Calculate)
			stipends.GET("/criteria", h.Stipends.ListCriteria)
			stipends.POST("/criteria", h.Stipends.CreateCriteria)
			stipends.GET("/criteria/:id", h.Stipends.GetCriteria)
			stipends.PUT("/criteria/:id", h.Stipends.UpdateCriteria)
			stipends.GET("/eligibility", h.Stipends.ListEligibility)
			stipends.POST("/eligibility", h.Stipends.SaveEligibility)
			stipends.GET("/eligibility/roster", h.Stipends.Roster)
			stipends.POST("/eligibility/:id/approve", h.Stipends.Approve)
			stipends.POST("/eligibility/:id/unapprove", h.Stipends.Unapprove)
			stipends.GET("/eligibility/calculate", h.Stipends.Calculate)
			stipends.POST("/eligibility/save_eligibility", h.Stipends.SaveEligibility)
		}

		corrections := authorized.Group("/correction-requests")
		{
			corrections.GET("", h.Corrections.List)
			corrections.POST("", h.Corrections.Create)
			corrections.GET("/:id", h.Corrections.Get)
			corrections.POST("/:id/approve", h.Corrections.Approve)
			corrections.POST("/:id/reject", h.Corrections.Reject)
		}
	}

	return r
}
