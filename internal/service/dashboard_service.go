package service

import (
	"time"

	"go-farmbasket/internal/repository"
)

type DashboardService interface {
	GetDashboardStats() (*repository.DashboardStats, error)
	GetSalesMovement(startDate, endDate time.Time) ([]repository.SalesMovementData, error)
}

type dashboardService struct {
	orderRepo repository.OrderRepository
}

func NewDashboardService(orderRepo repository.OrderRepository) DashboardService {
	return &dashboardService{orderRepo: orderRepo}
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.orderRepo.GetDashboardStats()
}

func (s *dashboardService) GetSalesMovement(startDate, endDate time.Time) ([]repository.SalesMovementData, error) {
	return s.orderRepo.GetSalesMovement(startDate, endDate)
}
