package service

import (
	"context"
	"os"
	"time"
)

type HealthStatus string

const (
	StatusOK          HealthStatus = "ok"
	StatusDegraded    HealthStatus = "degraded"
	StatusUnavailable HealthStatus = "unavailable"
)

type HealthCheckResponse struct {
	Lab       string            `json:"lab"`
	Status    HealthStatus      `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

type HealthService struct {
	lab  string
	repo InventoryRepository
}

func NewHealthService(lab string, repo InventoryRepository) *HealthService {
	return &HealthService{
		lab:  lab,
		repo: repo,
	}
}

func (s *HealthService) CheckHealth(ctx context.Context) HealthCheckResponse {
	checks := make(map[string]string)
	aggregatedStatus := StatusOK

	// The store is critical; the disk only degrades the lab.
	if err := s.repo.Ping(ctx); err != nil {
		checks["database"] = "error: " + err.Error()
		aggregatedStatus = StatusUnavailable
	} else {
		checks["database"] = "ok"
	}

	if err := s.checkDiskWritable(); err != nil {
		checks["disk"] = "error: " + err.Error()
		if aggregatedStatus == StatusOK {
			aggregatedStatus = StatusDegraded
		}
	} else {
		checks["disk"] = "ok"
	}

	return HealthCheckResponse{
		Lab:       s.lab,
		Status:    aggregatedStatus,
		Checks:    checks,
		Timestamp: time.Now(),
	}
}

func (s *HealthService) checkDiskWritable() error {
	f, err := os.CreateTemp("", "healthcheck")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	return f.Close()
}
