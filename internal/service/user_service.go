package service

import (
	"errors"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"

	"github.com/google/uuid"
)

var ErrAddressInUse = errors.New("address is referenced by existing orders")

type UserService interface {
	GetProfile(userID uuid.UUID) (*model.UserResponse, error)
	UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*model.UserResponse, error)
	ListUsers() ([]model.UserResponse, error)

	ListAddresses(userID uuid.UUID) ([]model.Address, error)
	CreateAddress(userID uuid.UUID, req *model.Address) (*model.Address, error)
	UpdateAddress(userID, addressID uuid.UUID, req *model.Address) (*model.Address, error)
	DeleteAddress(userID, addressID uuid.UUID) error
}

type UpdateProfileRequest struct {
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type userService struct {
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
}

func NewUserService(userRepo repository.UserRepository, addressRepo repository.AddressRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		addressRepo: addressRepo,
	}
}

func (s *userService) GetProfile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*model.UserResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	response := user.ToResponse()
	return &response, nil
}

func (s *userService) ListUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) ListAddresses(userID uuid.UUID) ([]model.Address, error) {
	return s.addressRepo.FindByUser(userID)
}

func (s *userService) CreateAddress(userID uuid.UUID, req *model.Address) (*model.Address, error) {
	req.UserID = userID
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if req.IsDefault {
		if err := s.addressRepo.ClearDefault(userID); err != nil {
			return nil, err
		}
	}
	if err := s.addressRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *userService) UpdateAddress(userID, addressID uuid.UUID, req *model.Address) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}
	if address.UserID != userID {
		return nil, ErrNotYourAddress
	}

	if req.Label != "" {
		address.Label = req.Label
	}
	if req.Line != "" {
		address.Line = req.Line
	}
	if req.City != "" {
		address.City = req.City
	}
	if req.Province != "" {
		address.Province = req.Province
	}
	if req.PostalCode != "" {
		address.PostalCode = req.PostalCode
	}
	if req.Phone != "" {
		address.Phone = req.Phone
	}
	if req.IsDefault && !address.IsDefault {
		if err := s.addressRepo.ClearDefault(userID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *userService) DeleteAddress(userID, addressID uuid.UUID) error {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		return ErrAddressNotFound
	}
	if address.UserID != userID {
		return ErrNotYourAddress
	}

	open, err := s.addressRepo.CountOpenOrders(addressID)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrAddressInUse
	}
	return s.addressRepo.Delete(addressID)
}
