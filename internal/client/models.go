package client

import "time"

// Dates without a time of day are exchanged as YYYY-MM-DD strings.
const DateLayout = "2006-01-02"

// Item statuses.
const (
	ItemAvailable   = "available"
	ItemRented      = "rented"
	ItemMaintenance = "maintenance"
	ItemRetired     = "retired"
)

// Item is one rentable piece of inventory.
type Item struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Size        string    `json:"size"`
	Color       string    `json:"color,omitempty"`
	RentalPrice int64     `json:"rental_price"`
	Deposit     int64     `json:"deposit"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ItemInput struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=100"`
	Category    string `json:"category" validate:"required,max=50"`
	Size        string `json:"size" validate:"required,max=10"`
	Color       string `json:"color,omitempty" validate:"omitempty,max=30"`
	RentalPrice int64  `json:"rental_price" validate:"gte=0"`
	Deposit     int64  `json:"deposit" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=available rented maintenance retired"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	IDNumber  string    `json:"id_number,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CustomerInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,min=6,max=20"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Address  string `json:"address,omitempty" validate:"omitempty,max=255"`
	IDNumber string `json:"id_number,omitempty" validate:"omitempty,max=32"`
	Notes    string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking reserves items or a package for a future pickup.
type Booking struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	Customer     *Customer `json:"customer,omitempty"`
	ItemIDs      []string  `json:"item_ids,omitempty"`
	PackageID    string    `json:"package_id,omitempty"`
	DiscountCode string    `json:"discount_code,omitempty"`
	PickupDate   string    `json:"pickup_date"`
	ReturnDate   string    `json:"return_date"`
	Status       string    `json:"status"`
	TotalPrice   int64     `json:"total_price"`
	DownPayment  int64     `json:"down_payment"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BookingInput struct {
	CustomerID   string   `json:"customer_id" validate:"required"`
	ItemIDs      []string `json:"item_ids,omitempty" validate:"required_without=PackageID,omitempty,dive,required"`
	PackageID    string   `json:"package_id,omitempty"`
	DiscountCode string   `json:"discount_code,omitempty" validate:"omitempty,max=30"`
	PickupDate   string   `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	ReturnDate   string   `json:"return_date" validate:"required,datetime=2006-01-02"`
	Status       string   `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	DownPayment  int64    `json:"down_payment" validate:"gte=0"`
	Notes        string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Rental statuses.
const (
	RentalActive    = "active"
	RentalReturned  = "returned"
	RentalOverdue   = "overdue"
	RentalCancelled = "cancelled"
)

// Rental is a set of items currently or previously out with a customer.
type Rental struct {
	ID         string     `json:"id"`
	BookingID  string     `json:"booking_id,omitempty"`
	CustomerID string     `json:"customer_id"`
	Customer   *Customer  `json:"customer,omitempty"`
	ItemIDs    []string   `json:"item_ids"`
	StartDate  string     `json:"start_date"`
	DueDate    string     `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Status     string     `json:"status"`
	TotalPrice int64      `json:"total_price"`
	Deposit    int64      `json:"deposit"`
	LateFee    int64      `json:"late_fee"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type RentalInput struct {
	BookingID  string   `json:"booking_id,omitempty"`
	CustomerID string   `json:"customer_id" validate:"required"`
	ItemIDs    []string `json:"item_ids" validate:"required,min=1,dive,required"`
	StartDate  string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	DueDate    string   `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=active returned overdue cancelled"`
	Deposit    int64    `json:"deposit" validate:"gte=0"`
	LateFee    int64    `json:"late_fee" validate:"gte=0"`
	Notes      string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Discount struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Value       int64     `json:"value"`
	MinPurchase int64     `json:"min_purchase"`
	ValidFrom   string    `json:"valid_from,omitempty"`
	ValidUntil  string    `json:"valid_until,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Apply returns amount after the discount. Inactive discounts and amounts
// below MinPurchase are left unchanged; the result never drops below zero.
func (d Discount) Apply(amount int64) int64 {
	if !d.Active || amount < d.MinPurchase {
		return amount
	}
	var off int64
	switch d.Type {
	case DiscountPercentage:
		off = amount * d.Value / 100
	case DiscountFixed:
		off = d.Value
	}
	if off > amount {
		return 0
	}
	return amount - off
}

type DiscountInput struct {
	Code        string `json:"code" validate:"required,max=30"`
	Name        string `json:"name" validate:"required,max=100"`
	Type        string `json:"type" validate:"required,oneof=percentage fixed"`
	Value       int64  `json:"value" validate:"gt=0"`
	MinPurchase int64  `json:"min_purchase" validate:"gte=0"`
	ValidFrom   string `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil  string `json:"valid_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Active      bool   `json:"active"`
}

// Package is a bundle of items rented together at one price.
type Package struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ItemIDs      []string  `json:"item_ids"`
	Price        int64     `json:"price"`
	DurationDays int       `json:"duration_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PackageInput struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Description  string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	ItemIDs      []string `json:"item_ids" validate:"required,min=1,dive,required"`
	Price        int64    `json:"price" validate:"gte=0"`
	DurationDays int      `json:"duration_days" validate:"min=1,max=30"`
	Active       bool     `json:"active"`
}

// Attendance is one staff member's record for one day.
type Attendance struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name,omitempty"`
	Date        string     `json:"date"`
	ClockIn     *time.Time `json:"clock_in,omitempty"`
	ClockOut    *time.Time `json:"clock_out,omitempty"`
	ClockInLat  *float64   `json:"clock_in_latitude,omitempty"`
	ClockInLon  *float64   `json:"clock_in_longitude,omitempty"`
	ClockOutLat *float64   `json:"clock_out_latitude,omitempty"`
	ClockOutLon *float64   `json:"clock_out_longitude,omitempty"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AttendanceInput is a manual record entered by an admin.
type AttendanceInput struct {
	UserID string `json:"user_id" validate:"required"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"required,oneof=present late absent leave"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ClockRequest is the position a clock-in or clock-out was made from.
type ClockRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Notes     string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Time off statuses.
const (
	TimeOffPending  = "pending"
	TimeOffApproved = "approved"
	TimeOffRejected = "rejected"
)

type TimeOff struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	Type       string    `json:"type"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	ReviewedBy string    `json:"reviewed_by,omitempty"`
	ReviewNote string    `json:"review_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TimeOffInput struct {
	UserID    string `json:"user_id,omitempty"`
	Type      string `json:"type" validate:"required,oneof=annual sick permit unpaid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

// ReviewInput accompanies an approve or reject decision.
type ReviewInput struct {
	Note string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// User roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResult is what the API returns for a successful login.
type LoginResult struct {
	Token     string     `json:"token"`
	User      User       `json:"user"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
