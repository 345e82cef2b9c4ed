package services

import (
	"context"
	"log"
	"time"

	"condocore/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs the nightly retention sweep over the refresh-token
// table. The auth core itself never deletes ledger rows; this is host-app
// housekeeping.
type MaintenanceService struct {
	cron   *cron.Cron
	ledger repositories.RefreshTokenRepository
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(ledger repositories.RefreshTokenRepository) *MaintenanceService {
	return &MaintenanceService{
		cron:   cron.New(),
		ledger: ledger,
	}
}

// Start schedules the sweep at 03:30 daily.
func (s *MaintenanceService) Start() {
	_, err := s.cron.AddFunc("30 3 * * *", s.sweep)
	if err != nil {
		log.Printf("failed to schedule token cleanup: %v", err)
		return
	}
	s.cron.Start()
	log.Println("maintenance service started")
}

// Stop stops the scheduler.
func (s *MaintenanceService) Stop() {
	s.cron.Stop()
	log.Println("maintenance service stopped")
}

func (s *MaintenanceService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := s.ledger.DeleteExpired(ctx)
	if err != nil {
		log.Printf("expired token cleanup failed: %v", err)
		return
	}
	log.Printf("expired token cleanup removed %d rows", count)
}
