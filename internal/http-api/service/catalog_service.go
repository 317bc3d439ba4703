package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"

	"gorm.io/gorm"
)

// SlotAvailability is the answer to "when can I book <service> on <day>":
// the configured slots minus the ones already taken.
type SlotAvailability struct {
	Service         string   `json:"service"`
	DurationMinutes int      `json:"duration_minutes"`
	AvailableSlots  []string `json:"available_slots"`
	AllSlots        []string `json:"all_slots"`
}

type CatalogService interface {
	GetServices(ctx context.Context) ([]models.Service, error)
	GetAvailableSlots(ctx context.Context, serviceName string, day time.Time) (*SlotAvailability, error)
}

type catalogService struct {
	serviceRepo     repository.ServiceRepository
	appointmentRepo repository.AppointmentRepository
}

func NewCatalogService(serviceRepo repository.ServiceRepository, appointmentRepo repository.AppointmentRepository) CatalogService {
	return &catalogService{serviceRepo: serviceRepo, appointmentRepo: appointmentRepo}
}

func (s *catalogService) GetServices(ctx context.Context) ([]models.Service, error) {
	return s.serviceRepo.GetAll(ctx)
}

// GetAvailableSlots filters a service's configured slots against existing
// Pending/Accepted bookings for the day. An unknown service yields empty slot
// lists with the default duration, not an error.
func (s *catalogService) GetAvailableSlots(ctx context.Context, serviceName string, day time.Time) (*SlotAvailability, error) {
	availability := &SlotAvailability{
		Service:         serviceName,
		DurationMinutes: 30,
		AvailableSlots:  []string{},
		AllSlots:        []string{},
	}

	service, err := s.serviceRepo.GetByName(ctx, serviceName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return availability, nil
		}
		return nil, fmt.Errorf("load service: %w", err)
	}
	if service.DurationMinutes > 0 {
		availability.DurationMinutes = service.DurationMinutes
	}

	slots := service.Slots()
	availability.AllSlots = append(availability.AllSlots, slots...)

	bookedTimes, err := s.appointmentRepo.GetBookedTimes(ctx, serviceName, day)
	if err != nil {
		return nil, fmt.Errorf("load booked times: %w", err)
	}

	booked := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t.Format("15:04")] = true
	}

	for _, slot := range slots {
		if isSlotFree(slot, booked) {
			availability.AvailableSlots = append(availability.AvailableSlots, slot)
		}
	}
	return availability, nil
}

// isSlotFree checks a configured slot against the booked "HH:MM" set. Slots
// are stored as "HH:MM", optionally with a trailing label; "anytime" slots
// never fill up.
func isSlotFree(slot string, booked map[string]bool) bool {
	if strings.Contains(strings.ToLower(slot), "anytime") {
		return true
	}

	timePart := slot
	if idx := strings.IndexByte(slot, ' '); idx > 0 {
		timePart = slot[:idx]
	}
	return !booked[normalizeClock(timePart)]
}

// normalizeClock pads "9:00" to "09:00" so it compares against formatted
// appointment times.
func normalizeClock(clock string) string {
	if len(clock) == 4 && clock[1] == ':' {
		return "0" + clock
	}
	return clock
}
