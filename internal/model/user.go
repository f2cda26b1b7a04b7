package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role codes as constants
const (
	RoleCustomer = "customer"
	RoleFarmer   = "farmer"
	RoleAdmin    = "admin"
)

// ValidRole reports whether code is one of the three known roles.
func ValidRole(code string) bool {
	return code == RoleCustomer || code == RoleFarmer || code == RoleAdmin
}

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName    string `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	Role        string `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Addresses []Address `json:"addresses,omitempty"`
	Farm      *Farm     `json:"farm,omitempty"` // Only set for farmer accounts
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	Farm        *Farm     `json:"farm,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsActive:    u.IsActive,
		Farm:        u.Farm,
		CreatedAt:   u.CreatedAt,
	}
}

// Address is a customer shipping address
type Address struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Label      string    `gorm:"type:varchar(50)" json:"label"` // e.g. "Home", "Office"
	Line       string    `gorm:"type:varchar(255);not null" json:"line" validate:"required"`
	City       string    `gorm:"type:varchar(100);not null" json:"city" validate:"required"`
	Province   string    `gorm:"type:varchar(100)" json:"province"`
	PostalCode string    `gorm:"type:varchar(20)" json:"postal_code"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone"`
	IsDefault  bool      `gorm:"default:false" json:"is_default"`
}
