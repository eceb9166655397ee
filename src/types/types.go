package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type JSONBAny struct {
	Inner any
}

func (a JSONBAny) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a.Inner)
	return string(valueString), err
}
func (a *JSONBAny) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	var inner any
	if err := json.Unmarshal(b, &inner); err != nil {
		return err
	}
	a.Inner = inner
	return nil
}

type Metadata map[string]any

type Environment string

const (
	Local      Environment = "local"
	Staging    Environment = "staging"
	Production Environment = "production"
	Test       Environment = "test"
)

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELED  ReservationStatus = "cancelled"
	RESERVATION_COMPLETED ReservationStatus = "completed"
)

// ActiveReservationStatuses are the statuses that still hold a slot.
var ActiveReservationStatuses = []ReservationStatus{
	RESERVATION_PENDING,
	RESERVATION_CONFIRMED,
}

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
)

type PreOrderStatus string

const (
	PREORDER_DRAFT     PreOrderStatus = "draft"
	PREORDER_PLACED    PreOrderStatus = "placed"
	PREORDER_CANCELED  PreOrderStatus = "cancelled"
	PREORDER_FULFILLED PreOrderStatus = "fulfilled"
)

const (
	ROLE_CUSTOMER = "customer"
	ROLE_STAFF    = "staff"
	ROLE_ADMIN    = "admin"
)

// AuthorizerRoles grant elevated permissions over any reservation.
var AuthorizerRoles = []string{ROLE_STAFF, ROLE_ADMIN}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateReservationRequestBody struct {
	Date      string `json:"date" binding:"required,reservationdate"`
	Time      string `json:"time" binding:"required,reservationtime"`
	PartySize int    `json:"party_size" binding:"required"`
	Duration  *int   `json:"duration,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type UpdateReservationRequestBody struct {
	Date      *string `json:"date,omitempty" binding:"omitempty,reservationdate"`
	Time      *string `json:"time,omitempty" binding:"omitempty,reservationtime"`
	PartySize *int    `json:"party_size,omitempty"`
	Duration  *int    `json:"duration,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type ApproveReservationRequestBody struct {
	TableID uint `json:"table_id" binding:"required"`
}

type AvailabilityQueryParams struct {
	Date      string `form:"date" binding:"required,reservationdate"`
	Time      string `form:"time" binding:"required,reservationtime"`
	PartySize int    `form:"party_size" binding:"required"`
}

type CreateTableRequestBody struct {
	Number   uint   `json:"number" binding:"required"`
	Capacity uint   `json:"capacity" binding:"required"`
	Location string `json:"location,omitempty"`
}

type UpdateTableRequestBody struct {
	Number    *uint   `json:"number,omitempty"`
	Capacity  *uint   `json:"capacity,omitempty"`
	Available *bool   `json:"available,omitempty"`
	Location  *string `json:"location,omitempty"`
}

type CreateMenuItemRequestBody struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Available   *bool   `json:"available,omitempty"`
}

type PreOrderItemInput struct {
	MenuItemID uint `json:"menu_item" binding:"required"`
	Qty        uint `json:"qty" binding:"required,min=1"`
}

type CreatePreOrderRequestBody struct {
	ReservationID uint                `json:"reservation" binding:"required"`
	Items         []PreOrderItemInput `json:"items" binding:"required,min=1"`
}

type CreatePaymentRequestBody struct {
	ReservationID uint    `json:"reservation" binding:"required"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method" binding:"required"`
}

type CreateFeedbackRequestBody struct {
	ReservationID *uint  `json:"reservation,omitempty"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment,omitempty"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateSettingRequestBody struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value" binding:"required"`
	Group string `json:"group" binding:"required"`
}

type APIResponseReservation struct {
	ID            uint   `json:"id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	Duration      int    `json:"duration,omitempty"`
	PartySize     int    `json:"party_size,omitempty"`
	Status        string `json:"status,omitempty"`
	TableID       *uint  `json:"table_id,omitempty"`
	UserID        uint   `json:"user_id,omitempty"`

	Timestamps
}

type APIResponseAvailability struct {
	Date      string             `json:"date"`
	Time      string             `json:"time"`
	PartySize int                `json:"party_size"`
	Suitable  int                `json:"suitable"`
	Booked    int                `json:"booked"`
	Available []APIResponseTable `json:"available"`
}

type APIResponseTable struct {
	ID        uint   `json:"id"`
	Number    uint   `json:"number,omitempty"`
	Capacity  uint   `json:"capacity,omitempty"`
	Available bool   `json:"available"`
	Location  string `json:"location,omitempty"`
}

type Handler func(payload string)
