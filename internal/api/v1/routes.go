package v1

import (
	"github.com/gin-gonic/gin"

	"suitadmin/internal/api/auth"
	attendanceapi "suitadmin/internal/api/v1/attendance"
	"suitadmin/internal/api/v1/items"
	"suitadmin/internal/api/v1/rentals"
	"suitadmin/internal/api/v1/resources"
	"suitadmin/internal/api/v1/timeoff"
	"suitadmin/internal/attendance"
	"suitadmin/internal/client"
	"suitadmin/internal/format"
)

// Deps are the services the v1 handlers forward to.
type Deps struct {
	Client     *client.Client
	Attendance *attendance.Service
	Format     *format.Formatter
}

// SetupRoutes configures API routes. The group must already require a session.
func SetupRoutes(routerGroup *gin.RouterGroup, deps Deps) {
	rc := deps.Client
	adminOnly := auth.RequireRole(client.RoleAdmin)

	// Inventory
	itemsGroup := routerGroup.Group("/items")
	resources.NewHandler[client.Item, client.ItemInput](rc.Items, "Item", "category", "status", "size").Register(itemsGroup)
	itemsGroup.GET("/:id/barcode", items.NewHandler(rc.Items).Barcode)

	resources.NewHandler[client.Customer, client.CustomerInput](rc.Customers, "Customer").Register(routerGroup.Group("/customers"))
	resources.NewHandler[client.Booking, client.BookingInput](rc.Bookings, "Booking", "status", "customer_id", "date_from", "date_to").
		Register(routerGroup.Group("/bookings"))

	rentalsGroup := routerGroup.Group("/rentals")
	resources.NewHandler[client.Rental, client.RentalInput](rc.Rentals, "Rental", "status", "customer_id").Register(rentalsGroup)
	rentalsGroup.GET("/:id/summary", rentals.NewHandler(rc.Rentals, deps.Format).Summary)

	// Pricing is managed by admins only
	resources.NewHandler[client.Discount, client.DiscountInput](rc.Discounts, "Discount", "active", "type").
		Register(routerGroup.Group("/discounts"), adminOnly)
	resources.NewHandler[client.Package, client.PackageInput](rc.Packages, "Package", "active").
		Register(routerGroup.Group("/packages"), adminOnly)

	// Time off
	timeOffGroup := routerGroup.Group("/timeoff")
	resources.NewHandler[client.TimeOff, client.TimeOffInput](rc.TimeOff.Resource, "Time off request", "status", "user_id", "type").Register(timeOffGroup)
	reviews := timeoff.NewHandler(rc.TimeOff)
	timeOffGroup.POST("/:id/approve", adminOnly, reviews.Approve)
	timeOffGroup.POST("/:id/reject", adminOnly, reviews.Reject)

	// Attendance
	attendanceGroup := routerGroup.Group("/attendance")
	clock := attendanceapi.NewHandler(deps.Attendance, deps.Format)
	attendanceGroup.POST("/clock-in", clock.ClockIn)
	attendanceGroup.POST("/clock-out", clock.ClockOut)
	attendanceGroup.GET("/geofence", clock.Geofence)
	attendanceGroup.GET("/log", clock.Log)
	resources.NewHandler[client.Attendance, client.AttendanceInput](rc.Attendance.Resource, "Attendance record", "user_id", "date", "status").
		Register(attendanceGroup, adminOnly)
}
