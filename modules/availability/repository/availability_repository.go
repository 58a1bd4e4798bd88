package repository

import (
	"context"
	"database/sql"

	"interviewhub/core/database"
	"interviewhub/core/logger"
	"interviewhub/modules/availability/entity"

	"github.com/google/uuid"
)

// AvailabilityRepository handles availability slot persistence. The
// assignment engine consumes it read-only through GetByInterviewer.
type AvailabilityRepository struct {
	DB database.Database
}

func NewAvailabilityRepository(db database.Database) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

type AvailabilityRepositoryInterface interface {
	Create(ctx context.Context, slot *entity.AvailabilitySlot) (*entity.AvailabilitySlot, error)
	GetByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.AvailabilitySlot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const slotColumns = `id, interviewer_id, day_of_week, specific_date, start_time, end_time, is_recurring, created_at`

func (r *AvailabilityRepository) Create(ctx context.Context, slot *entity.AvailabilitySlot) (*entity.AvailabilitySlot, error) {
	query := `
		INSERT INTO availability_slots (interviewer_id, day_of_week, specific_date, start_time, end_time, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + slotColumns

	var created entity.AvailabilitySlot
	err := r.DB.GetContext(ctx, &created, query,
		slot.InterviewerID, slot.DayOfWeek, slot.SpecificDate,
		slot.StartTime, slot.EndTime, slot.IsRecurring)
	if err != nil {
		logger.Error("AvailabilityRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *AvailabilityRepository) GetByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE interviewer_id = $1
		ORDER BY day_of_week, start_time
	`

	var slots []entity.AvailabilitySlot
	err := r.DB.SelectContext(ctx, &slots, query, interviewerID)
	if err != nil {
		logger.Error("AvailabilityRepository:GetByInterviewer", err)
		return nil, err
	}

	return slots, nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1`

	var slot entity.AvailabilitySlot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AvailabilityRepository:GetByID", err)
		return nil, err
	}

	return &slot, nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM availability_slots WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("AvailabilityRepository:Delete", err)
		return err
	}
	return nil
}
