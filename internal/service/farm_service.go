package service

import (
	"errors"

	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"

	"github.com/google/uuid"
)

var ErrFarmNotFound = errors.New("farm not found")

type FarmService interface {
	GetMyFarm(farmerID uuid.UUID) (*model.Farm, error)
	UpdateMyFarm(farmerID uuid.UUID, req *UpdateFarmRequest) (*model.Farm, error)

	ListFarms() ([]model.Farm, error)
	SetVerified(farmID uuid.UUID, verified bool) (*model.Farm, error)
}

type UpdateFarmRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
}

type farmService struct {
	farmRepo repository.FarmRepository
}

func NewFarmService(farmRepo repository.FarmRepository) FarmService {
	return &farmService{farmRepo: farmRepo}
}

func (s *farmService) GetMyFarm(farmerID uuid.UUID) (*model.Farm, error) {
	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return nil, ErrNoFarm
	}
	return farm, nil
}

func (s *farmService) UpdateMyFarm(farmerID uuid.UUID, req *UpdateFarmRequest) (*model.Farm, error) {
	farm, err := s.farmRepo.FindByUser(farmerID)
	if err != nil {
		return nil, ErrNoFarm
	}

	if req.Name != "" {
		farm.Name = req.Name
	}
	if req.Location != "" {
		farm.Location = req.Location
	}
	if req.Description != "" {
		farm.Description = req.Description
	}
	if req.Contact != "" {
		farm.Contact = req.Contact
	}

	if err := s.farmRepo.Update(farm); err != nil {
		return nil, err
	}
	return farm, nil
}

func (s *farmService) ListFarms() ([]model.Farm, error) {
	return s.farmRepo.FindAll()
}

// SetVerified flips the admin verification flag. Verification is a trust
// badge only, unverified farms can still list batches.
func (s *farmService) SetVerified(farmID uuid.UUID, verified bool) (*model.Farm, error) {
	if err := s.farmRepo.SetVerified(farmID, verified); err != nil {
		return nil, ErrFarmNotFound
	}
	return s.farmRepo.FindByID(farmID)
}
