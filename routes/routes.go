package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/controllers"
	"github.com/kendall-kelly/tna-tracker-api/middleware"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options carries what the router needs besides the controller
type Options struct {
	DB             *gorm.DB
	Log            *logrus.Logger
	Tokens         *services.TokenService
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// Setup builds the gin engine with the middleware chain and every API route
func Setup(ctl *controllers.Controller, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(opts.Log))
	router.Use(corsMiddleware(opts.AllowedOrigins))
	router.Use(middleware.Timeout(opts.RequestTimeout))

	router.GET("/health", healthCheck)

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheck)
	v1.GET("/uploads/:filename", ctl.GetUploadedImage)

	// Public auth routes
	v1.POST("/user/login", ctl.Login)
	v1.POST("/user/refresh-token", ctl.RefreshToken)

	api := v1.Group("")
	api.Use(middleware.EnsureValidToken(opts.Tokens, opts.DB, opts.Log))

	admin := middleware.RequireRole(models.RoleAdmin)

	user := api.Group("/user")
	{
		user.POST("/logout", ctl.Logout)
		user.GET("/me", ctl.GetCurrentUser)
		user.GET("", ctl.ListUsers)
		user.GET("/stats", ctl.GetUserStats)
		user.POST("", admin, ctl.CreateUser)
		user.PUT("/:id", admin, ctl.UpdateUser)
		user.DELETE("/:id", admin, ctl.DeleteUser)
		user.PATCH("/:id/toggle-status", admin, ctl.ToggleUserStatus)
		user.PUT("/:id/password", ctl.ChangePassword)
	}

	employee := api.Group("/employee")
	{
		employee.POST("", admin, ctl.CreateEmployee)
		employee.POST("/create-employee", admin, ctl.CreateEmployee)
		employee.GET("", ctl.ListEmployees)
		employee.PUT("/:id", ctl.UpdateEmployee)
		employee.PATCH("/:id/status", ctl.UpdateEmployeeStatus)
		employee.DELETE("/:id", ctl.DeleteEmployee)
	}

	merchandiser := api.Group("/merchandiser")
	{
		merchandiser.POST("/create-buyer", ctl.CreateBuyer)
		merchandiser.POST("/create-department", ctl.CreateDepartment)
		merchandiser.POST("/create-tna", ctl.CreateTNA)
		merchandiser.GET("/merchandisers", ctl.ListMerchandisers)
		merchandiser.GET("/buyers", ctl.ListBuyers)
		merchandiser.GET("/departments", ctl.ListDepartments)
	}

	crud(api.Group("/buyers"), ctl.ListBuyers, ctl.CreateBuyer, ctl.UpdateBuyer, ctl.DeleteBuyer)
	crud(api.Group("/departments"), ctl.ListDepartments, ctl.CreateDepartment, ctl.UpdateDepartment, ctl.DeleteDepartment)

	tnas := api.Group("/tnas")
	{
		tnas.GET("", ctl.ListTNAs)
		tnas.POST("", ctl.CreateTNA)
		tnas.GET("/get-tna-summary", ctl.GetTNASummary)
		tnas.GET("/get-tna-summary-card", ctl.GetTNASummaryCard)
		tnas.GET("/department-progress", ctl.GetDepartmentProgress)
		tnas.GET("/:id", ctl.GetTNA)
		tnas.PUT("/:id", ctl.UpdateTNA)
		tnas.DELETE("/:id", ctl.DeleteTNA)
		tnas.POST("/:id/image", ctl.UploadTNAImage)
	}

	workflow(api.Group("/cad-approvals"), ctl.ListCads, ctl.CreateCad, ctl.UpdateCad, ctl.DeleteCad)
	workflow(api.Group("/fabric-bookings"), ctl.ListFabricBookings, ctl.CreateFabricBooking, ctl.UpdateFabricBooking, ctl.DeleteFabricBooking)
	workflow(api.Group("/sample-developments"), ctl.ListSampleDevelopments, ctl.CreateSampleDevelopment, ctl.UpdateSampleDevelopment, ctl.DeleteSampleDevelopment)
	workflow(api.Group("/dhl-trackings"), ctl.ListDHLTrackings, ctl.CreateDHLTracking, ctl.UpdateDHLTracking, ctl.DeleteDHLTracking)

	audit := api.Group("/audit-logs")
	{
		audit.GET("", ctl.ListAuditLogs)
		audit.POST("", ctl.CreateAuditLog)
		audit.GET("/export", ctl.ExportAuditLogs)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/stats", ctl.GetDashboardStats)
		dashboard.GET("/recent-activities", ctl.GetRecentActivities)
		dashboard.GET("/department-progress", ctl.GetDepartmentProgress)
	}

	return router
}

func crud(group *gin.RouterGroup, list, create, update, remove gin.HandlerFunc) {
	group.GET("", list)
	group.POST("", create)
	group.PUT("/:id", update)
	group.DELETE("/:id", remove)
}

// workflow registers crud routes and accepts PATCH as a partial update
func workflow(group *gin.RouterGroup, list, create, update, remove gin.HandlerFunc) {
	crud(group, list, create, update, remove)
	group.PATCH("/:id", update)
}

// corsMiddleware allows credentials from the configured origins. With no
// origins configured every origin is allowed without credentials.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
