package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
	dashboardHandler *DashboardHandler,
	serviceRecordHandler *ServiceRecordHandler,
	expenseHandler *ExpenseHandler,
	receiptHandler *ReceiptHandler,
	vehicleHandler *VehicleHandler,
	driverHandler *DriverHandler,
	reportHandler *ReportHandler,
	websocketHandler *WebSocketHandler,
) {
	// Health check (unprotected)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// WebSocket endpoint authenticates via query token
	e.GET("/ws", websocketHandler.HandleWS)

	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate())
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate())
	dashboard.GET("", dashboardHandler.GetDashboard)
	dashboard.GET("/vehicles/:plate", dashboardHandler.GetVehicleDetail)

	// Service record routes (protected)
	services := api.Group("/services")
	services.Use(authMiddleware.Authenticate())
	services.POST("", serviceRecordHandler.CreateServiceRecord)
	services.GET("", serviceRecordHandler.GetServiceRecords)
	services.GET("/plate-lookup", serviceRecordHandler.LookupPlate)
	services.GET("/:id", serviceRecordHandler.GetServiceRecord)
	services.PUT("/:id", serviceRecordHandler.UpdateServiceRecord)
	services.DELETE("/:id", serviceRecordHandler.DeleteServiceRecord)
	services.POST("/:id/split", serviceRecordHandler.SplitServiceRecord)

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(authMiddleware.Authenticate())
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.POST("/:id/receipt", receiptHandler.UploadReceipt)
	expenses.GET("/:id/receipt", receiptHandler.GetReceipt)
	expenses.DELETE("/:id/receipt", receiptHandler.DeleteReceipt)

	// Vehicle routes (protected)
	vehicles := api.Group("/vehicles")
	vehicles.Use(authMiddleware.Authenticate())
	vehicles.POST("", vehicleHandler.CreateVehicle)
	vehicles.GET("", vehicleHandler.GetVehicles)
	vehicles.GET("/:id", vehicleHandler.GetVehicle)
	vehicles.PUT("/:id", vehicleHandler.UpdateVehicle)
	vehicles.DELETE("/:id", vehicleHandler.DeleteVehicle)

	// Driver routes (protected)
	drivers := api.Group("/drivers")
	drivers.Use(authMiddleware.Authenticate())
	drivers.POST("", driverHandler.CreateDriver)
	drivers.GET("", driverHandler.GetDrivers)
	drivers.GET("/:id", driverHandler.GetDriver)
	drivers.PUT("/:id", driverHandler.UpdateDriver)
	drivers.DELETE("/:id", driverHandler.DeleteDriver)

	// Report routes (protected)
	reports := api.Group("/reports")
	reports.Use(authMiddleware.Authenticate())
	reports.GET("/monthly", reportHandler.GetMonthlyReport)
	reports.GET("/monthly/export", reportHandler.ExportMonthlyReport)
	reports.POST("/monthly/archive", reportHandler.ArchiveMonthlyReport)
	reports.GET("/settlements", reportHandler.GetDriverSettlements)
}
