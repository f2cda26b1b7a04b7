package service

import (
	"errors"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"
	"go-farmbasket/pkg/jwt"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidRole        = errors.New("unknown role")
	ErrBadInviteCode      = errors.New("admin registration requires a valid invite code")
)

type AuthService interface {
	Register(req *RegisterRequest) (*LoginResponse, error)
	Login(email, password string) (*LoginResponse, error)
	GetProfile(email string) (*model.UserResponse, error)
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role" validate:"required"`
	InviteCode  string `json:"invite_code"` // Required for role=admin
	FarmName    string `json:"farm_name"`   // Required for role=farmer
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo        repository.UserRepository
	db              *gorm.DB
	jwtSecret       []byte
	adminInviteCode string
}

func NewAuthService(userRepo repository.UserRepository, db *gorm.DB, jwtSecret []byte, adminInviteCode string) AuthService {
	return &authService{
		userRepo:        userRepo,
		db:              db,
		jwtSecret:       jwtSecret,
		adminInviteCode: adminInviteCode,
	}
}

// Register creates a user account. Admin accounts require the invite code
// and are rejected before any row is written. Farmer accounts get their
// (unverified) farm in the same transaction.
func (s *authService) Register(req *RegisterRequest) (*LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if !model.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}
	if req.Role == model.RoleAdmin {
		if s.adminInviteCode == "" || req.InviteCode != s.adminInviteCode {
			return nil, ErrBadInviteCode
		}
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		IsActive:    true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if req.Role == model.RoleFarmer {
			farmName := req.FarmName
			if farmName == "" {
				farmName = req.FullName + "'s Farm"
			}
			farm := &model.Farm{
				UserID: user.ID,
				Name:   farmName,
			}
			if err := tx.Create(farm).Error; err != nil {
				return err
			}
			user.Farm = farm
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueSession(user)
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

func (s *authService) GetProfile(email string) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *authService) issueSession(user *model.User) (*LoginResponse, error) {
	token, err := jwt.GenerateToken(s.jwtSecret, user.ID, user.Email, user.FullName, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}
