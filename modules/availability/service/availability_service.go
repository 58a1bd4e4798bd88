package service

import (
	"context"
	"time"

	"interviewhub/core/constants"
	"interviewhub/core/errors"
	"interviewhub/modules/availability/dto"
	"interviewhub/modules/availability/entity"
	"interviewhub/modules/availability/repository"

	"github.com/google/uuid"
)

// AvailabilityService manages an interviewer's own availability windows.
type AvailabilityService struct {
	repo repository.AvailabilityRepositoryInterface
}

type AvailabilityServiceInterface interface {
	CreateSlot(ctx context.Context, interviewerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	GetMySlots(ctx context.Context, interviewerID uuid.UUID) ([]dto.SlotResponse, *errors.AppError)
	GetInterviewerSlots(ctx context.Context, interviewerID uuid.UUID) ([]dto.SlotResponse, *errors.AppError)
	DeleteSlot(ctx context.Context, slotID, actorID uuid.UUID, actorRole string) *errors.AppError
}

func NewAvailabilityService(repo repository.AvailabilityRepositoryInterface) AvailabilityServiceInterface {
	return &AvailabilityService{repo: repo}
}

func (s *AvailabilityService) CreateSlot(ctx context.Context, interviewerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	if appErr := validateSlotRequest(req); appErr != nil {
		return nil, appErr
	}

	slot := &entity.AvailabilitySlot{
		InterviewerID: interviewerID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		IsRecurring:   req.IsRecurring,
	}
	if req.IsRecurring {
		slot.DayOfWeek = req.DayOfWeek
	} else {
		date, err := time.Parse("2006-01-02", req.SpecificDate)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Specific date must be YYYY-MM-DD", err)
		}
		slot.SpecificDate = &date
		slot.DayOfWeek = int(date.Weekday())
	}

	created, err := s.repo.Create(ctx, slot)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create availability slot", err)
	}

	return dto.ToSlotResponse(created), nil
}

func (s *AvailabilityService) GetMySlots(ctx context.Context, interviewerID uuid.UUID) ([]dto.SlotResponse, *errors.AppError) {
	return s.GetInterviewerSlots(ctx, interviewerID)
}

func (s *AvailabilityService) GetInterviewerSlots(ctx context.Context, interviewerID uuid.UUID) ([]dto.SlotResponse, *errors.AppError) {
	slots, err := s.repo.GetByInterviewer(ctx, interviewerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to fetch availability slots", err)
	}

	responses := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		responses = append(responses, *dto.ToSlotResponse(&slots[i]))
	}
	return responses, nil
}

func (s *AvailabilityService) DeleteSlot(ctx context.Context, slotID, actorID uuid.UUID, actorRole string) *errors.AppError {
	slot, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to fetch availability slot", err)
	}
	if slot == nil {
		return errors.NewAppError(errors.ErrNotFound, "Availability slot not found", nil)
	}
	if slot.InterviewerID != actorID && actorRole != constants.RoleAdmin {
		return errors.NewAppError(errors.ErrNotAuthorized, "Only the owning interviewer can delete this slot", nil)
	}

	if err := s.repo.Delete(ctx, slotID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete availability slot", err)
	}
	return nil
}

func validateSlotRequest(req *dto.CreateSlotRequest) *errors.AppError {
	if !validTimeOfDay(req.StartTime) || !validTimeOfDay(req.EndTime) {
		return errors.NewAppError(errors.ErrInvalidInput, "Start and end time must be HH:MM", nil)
	}
	if req.StartTime >= req.EndTime {
		return errors.NewAppError(errors.ErrInvalidInput, "Start time must be before end time", nil)
	}
	if req.IsRecurring {
		if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
			return errors.NewAppError(errors.ErrInvalidInput, "Day of week must be between 0 and 6", nil)
		}
	} else if req.SpecificDate == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "One-off slots require a specific date", nil)
	}
	return nil
}

func validTimeOfDay(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}
