package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"interviewhub/core/database"
	"interviewhub/core/logger"
	"interviewhub/core/params"
	"interviewhub/modules/interview/entity"

	coreEntity "interviewhub/core/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// InterviewRepository handles interview request and assignment persistence.
type InterviewRepository struct {
	DB database.Database
}

func NewInterviewRepository(db database.Database) *InterviewRepository {
	return &InterviewRepository{DB: db}
}

type PaginatedRequests = coreEntity.Pagination[entity.InterviewRequest]

// UpdateStatusParams describes a conditional status write. The update applies
// only while the stored status still equals Expected; zero rows matched means
// the caller's read went stale.
type UpdateStatusParams struct {
	ID           uuid.UUID
	Expected     entity.Status
	Target       entity.Status
	NewDate      *time.Time
	NewTime      *string
	MeetingURL   *string
	ForceConfirm bool
}

// InterviewRepositoryInterface defines the repository contract.
type InterviewRepositoryInterface interface {
	// Request CRUD
	CreateRequest(ctx context.Context, req *entity.InterviewRequest) (*entity.InterviewRequest, error)
	GetRequestByID(ctx context.Context, id uuid.UUID) (*entity.InterviewRequest, error)
	GetRequestsByCandidateID(ctx context.Context, candidateID uuid.UUID) ([]entity.InterviewRequest, error)
	GetRequestsByInterviewerID(ctx context.Context, interviewerID uuid.UUID) ([]entity.InterviewRequest, error)
	ListRequests(ctx context.Context, p params.QueryParams) (*PaginatedRequests, error)
	ListStalePending(ctx context.Context, olderThan time.Time) ([]entity.InterviewRequest, error)
	UpdateRequestDetails(ctx context.Context, req *entity.InterviewRequest) error
	SetMeetingURL(ctx context.Context, id uuid.UUID, url string) error
	DeleteRequest(ctx context.Context, id uuid.UUID) error

	// Atomic status writes — only the lifecycle service calls these
	UpdateStatusConditional(ctx context.Context, p UpdateStatusParams) (*entity.InterviewRequest, error)
	ConfirmParty(ctx context.Context, id uuid.UUID, party entity.ConfirmingParty) (*entity.InterviewRequest, error)
	ReplaceAssignment(ctx context.Context, requestID, interviewerID uuid.UUID) (*entity.InterviewRequest, *entity.Assignment, *uuid.UUID, error)
	DeclineAssignment(ctx context.Context, requestID, interviewerID uuid.UUID) (*entity.InterviewRequest, error)

	// Assignments
	GetActiveAssignment(ctx context.Context, requestID uuid.UUID) (*entity.Assignment, error)
	GetAssignmentsByRequest(ctx context.Context, requestID uuid.UUID) ([]entity.Assignment, error)
	HasConfirmedOverlap(ctx context.Context, interviewerID uuid.UUID, date time.Time, timeOfDay string) (bool, error)
}

const requestColumns = `id, candidate_id, interview_type, scheduled_date, scheduled_time, status,
	meeting_url, additional_info, candidate_confirmed_at, interviewer_confirmed_at,
	force_confirmed, created_at, updated_at`

const assignmentColumns = `id, interview_request_id, interviewer_id, assigned_at, declined_at, superseded_at`

// ===================== Request CRUD =====================

func (r *InterviewRepository) CreateRequest(ctx context.Context, req *entity.InterviewRequest) (*entity.InterviewRequest, error) {
	query := `
		INSERT INTO interview_requests (candidate_id, interview_type, scheduled_date, scheduled_time, status, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + requestColumns

	var created entity.InterviewRequest
	err := r.DB.GetContext(ctx, &created, query,
		req.CandidateID, req.InterviewType, req.ScheduledDate, req.ScheduledTime,
		req.Status, req.AdditionalInfo)
	if err != nil {
		logger.Error("InterviewRepository:CreateRequest", err)
		return nil, err
	}

	return &created, nil
}

func (r *InterviewRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*entity.InterviewRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM interview_requests WHERE id = $1`

	var req entity.InterviewRequest
	err := r.DB.GetContext(ctx, &req, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:GetRequestByID", err)
		return nil, err
	}

	return &req, nil
}

func (r *InterviewRepository) GetRequestsByCandidateID(ctx context.Context, candidateID uuid.UUID) ([]entity.InterviewRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM interview_requests
		WHERE candidate_id = $1
		ORDER BY created_at DESC
	`

	var requests []entity.InterviewRequest
	err := r.DB.SelectContext(ctx, &requests, query, candidateID)
	if err != nil {
		logger.Error("InterviewRepository:GetRequestsByCandidateID", err)
		return nil, err
	}

	return requests, nil
}

func (r *InterviewRepository) GetRequestsByInterviewerID(ctx context.Context, interviewerID uuid.UUID) ([]entity.InterviewRequest, error) {
	query := `
		SELECT r.id, r.candidate_id, r.interview_type, r.scheduled_date, r.scheduled_time, r.status,
		       r.meeting_url, r.additional_info, r.candidate_confirmed_at, r.interviewer_confirmed_at,
		       r.force_confirmed, r.created_at, r.updated_at
		FROM interview_requests r
		JOIN assignments a ON a.interview_request_id = r.id
		WHERE a.interviewer_id = $1 AND a.declined_at IS NULL AND a.superseded_at IS NULL
		ORDER BY r.scheduled_date, r.scheduled_time
	`

	var requests []entity.InterviewRequest
	err := r.DB.SelectContext(ctx, &requests, query, interviewerID)
	if err != nil {
		logger.Error("InterviewRepository:GetRequestsByInterviewerID", err)
		return nil, err
	}

	return requests, nil
}

func (r *InterviewRepository) ListRequests(ctx context.Context, p params.QueryParams) (*PaginatedRequests, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	baseQuery := `FROM interview_requests`
	args := []any{}
	if status := p.Get("status"); status != "" {
		baseQuery += ` WHERE status = $1`
		args = append(args, status)
	}

	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, args...)
	if err != nil {
		logger.Error("InterviewRepository:ListRequests:Count", err)
		return nil, err
	}

	query := "SELECT " + requestColumns + " " + baseQuery + `
		ORDER BY created_at DESC`
	if len(args) == 1 {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, p.PageSize, offset)

	var requests []entity.InterviewRequest
	err = r.DB.SelectContext(ctx, &requests, query, args...)
	if err != nil {
		logger.Error("InterviewRepository:ListRequests:Select", err)
		return nil, err
	}

	return &PaginatedRequests{
		Items:      requests,
		TotalItems: totalItems,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *InterviewRepository) ListStalePending(ctx context.Context, olderThan time.Time) ([]entity.InterviewRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM interview_requests
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
	`

	var requests []entity.InterviewRequest
	err := r.DB.SelectContext(ctx, &requests, query, entity.StatusPending, olderThan)
	if err != nil {
		logger.Error("InterviewRepository:ListStalePending", err)
		return nil, err
	}

	return requests, nil
}

// UpdateRequestDetails updates the candidate-editable fields. Status is not
// touched here.
func (r *InterviewRepository) UpdateRequestDetails(ctx context.Context, req *entity.InterviewRequest) error {
	query := `
		UPDATE interview_requests
		SET interview_type = $2, scheduled_date = $3, scheduled_time = $4, additional_info = $5, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		req.ID, req.InterviewType, req.ScheduledDate, req.ScheduledTime, req.AdditionalInfo)
	if err != nil {
		logger.Error("InterviewRepository:UpdateRequestDetails", err)
		return err
	}

	return nil
}

func (r *InterviewRepository) SetMeetingURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE interview_requests SET meeting_url = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, url)
	if err != nil {
		logger.Error("InterviewRepository:SetMeetingURL", err)
		return err
	}
	return nil
}

// DeleteRequest removes a request and cascades its assignment history in one
// transaction.
func (r *InterviewRepository) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("InterviewRepository:DeleteRequest:Begin", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE interview_request_id = $1`, id); err != nil {
		logger.Error("InterviewRepository:DeleteRequest:Assignments", err)
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM interview_requests WHERE id = $1`, id); err != nil {
		logger.Error("InterviewRepository:DeleteRequest:Request", err)
		return err
	}

	return tx.Commit()
}

// ===================== Atomic status writes =====================

// UpdateStatusConditional applies a status transition only while the stored
// status still equals p.Expected. Returns (nil, nil) when the optimistic
// check fails: the caller distinguishes stale-read from not-found.
func (r *InterviewRepository) UpdateStatusConditional(ctx context.Context, p UpdateStatusParams) (*entity.InterviewRequest, error) {
	query := `
		UPDATE interview_requests
		SET status = $3,
		    scheduled_date = COALESCE($4, scheduled_date),
		    scheduled_time = COALESCE($5, scheduled_time),
		    meeting_url = COALESCE($6, meeting_url),
		    force_confirmed = force_confirmed OR $7,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + requestColumns

	var updated entity.InterviewRequest
	err := r.DB.GetContext(ctx, &updated, query,
		p.ID, p.Expected, p.Target, p.NewDate, p.NewTime, p.MeetingURL,
		p.ForceConfirm)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:UpdateStatusConditional", err)
		return nil, err
	}

	return &updated, nil
}

// ConfirmParty records a confirmation timestamp and promotes the request to
// CONFIRMED when the other party has already confirmed. Setting the
// timestamp, checking the other side and the promotion happen in one
// statement so two near-simultaneous confirmations cannot both miss each
// other. Re-confirming is a no-op thanks to COALESCE.
func (r *InterviewRepository) ConfirmParty(ctx context.Context, id uuid.UUID, party entity.ConfirmingParty) (*entity.InterviewRequest, error) {
	var query string
	switch party {
	case entity.PartyCandidate:
		query = `
			UPDATE interview_requests
			SET candidate_confirmed_at = COALESCE(candidate_confirmed_at, NOW()),
			    status = CASE
			        WHEN interviewer_confirmed_at IS NOT NULL THEN 'CONFIRMED'
			        WHEN status = 'INTERVIEWER_ASSIGNED' THEN 'CANDIDATE_CONFIRMED'
			        ELSE status
			    END,
			    updated_at = NOW()
			WHERE id = $1 AND status IN ('INTERVIEWER_ASSIGNED', 'CANDIDATE_CONFIRMED', 'INTERVIEWER_CONFIRMED')
			RETURNING ` + requestColumns
	case entity.PartyInterviewer:
		query = `
			UPDATE interview_requests
			SET interviewer_confirmed_at = COALESCE(interviewer_confirmed_at, NOW()),
			    status = CASE
			        WHEN candidate_confirmed_at IS NOT NULL THEN 'CONFIRMED'
			        WHEN status = 'INTERVIEWER_ASSIGNED' THEN 'INTERVIEWER_CONFIRMED'
			        ELSE status
			    END,
			    updated_at = NOW()
			WHERE id = $1 AND status IN ('INTERVIEWER_ASSIGNED', 'CANDIDATE_CONFIRMED', 'INTERVIEWER_CONFIRMED')
			RETURNING ` + requestColumns
	}

	var updated entity.InterviewRequest
	err := r.DB.GetContext(ctx, &updated, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:ConfirmParty", err)
		return nil, err
	}

	return &updated, nil
}

// ReplaceAssignment supersedes any active assignment, inserts the new one and
// moves the request to INTERVIEWER_ASSIGNED with both confirmation
// timestamps reset, all in one transaction. The partial unique index on
// assignments backs the one-active-per-request invariant at write time.
// Returns the previous interviewer id (nil on first assignment) so the
// caller can notify them about the reassignment. A (nil, nil, nil, nil)
// result means the request left the assignable statuses concurrently.
func (r *InterviewRepository) ReplaceAssignment(ctx context.Context, requestID, interviewerID uuid.UUID) (*entity.InterviewRequest, *entity.Assignment, *uuid.UUID, error) {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("InterviewRepository:ReplaceAssignment:Begin", err)
		return nil, nil, nil, err
	}
	defer tx.Rollback()

	var prevInterviewerID *uuid.UUID
	var prev uuid.UUID
	err = tx.GetContext(ctx, &prev, `
		UPDATE assignments
		SET superseded_at = NOW()
		WHERE interview_request_id = $1 AND declined_at IS NULL AND superseded_at IS NULL
		RETURNING interviewer_id
	`, requestID)
	switch {
	case err == nil:
		prevInterviewerID = &prev
	case err == sql.ErrNoRows:
		// first assignment for this request
	default:
		logger.Error("InterviewRepository:ReplaceAssignment:Supersede", err)
		return nil, nil, nil, err
	}

	var assignment entity.Assignment
	err = tx.GetContext(ctx, &assignment, `
		INSERT INTO assignments (interview_request_id, interviewer_id, assigned_at)
		VALUES ($1, $2, NOW())
		RETURNING `+assignmentColumns, requestID, interviewerID)
	if err != nil {
		if isUniqueViolation(err) {
			// two assignments raced on this request and both passed the
			// supersede step; the loser trips idx_assignments_one_active
			return nil, nil, nil, nil
		}
		logger.Error("InterviewRepository:ReplaceAssignment:Insert", err)
		return nil, nil, nil, err
	}

	var updated entity.InterviewRequest
	err = tx.GetContext(ctx, &updated, `
		UPDATE interview_requests
		SET status = $2,
		    candidate_confirmed_at = NULL,
		    interviewer_confirmed_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND status IN ('PENDING', 'INTERVIEWER_ASSIGNED')
		RETURNING `+requestColumns, requestID, entity.StatusInterviewerAssigned)
	if err != nil {
		if err == sql.ErrNoRows {
			// request moved to a non-assignable status since the caller's read
			return nil, nil, nil, nil
		}
		logger.Error("InterviewRepository:ReplaceAssignment:Status", err)
		return nil, nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("InterviewRepository:ReplaceAssignment:Commit", err)
		return nil, nil, nil, err
	}

	return &updated, &assignment, prevInterviewerID, nil
}

// DeclineAssignment marks the interviewer's active assignment declined and
// sends the request back to PENDING with the interviewer confirmation
// cleared. Returns (nil, nil) when the request or the assignment is no
// longer in a declinable state.
func (r *InterviewRepository) DeclineAssignment(ctx context.Context, requestID, interviewerID uuid.UUID) (*entity.InterviewRequest, error) {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("InterviewRepository:DeclineAssignment:Begin", err)
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE assignments
		SET declined_at = NOW()
		WHERE interview_request_id = $1 AND interviewer_id = $2
		  AND declined_at IS NULL AND superseded_at IS NULL
	`, requestID, interviewerID)
	if err != nil {
		logger.Error("InterviewRepository:DeclineAssignment:Assignment", err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}

	var updated entity.InterviewRequest
	err = tx.GetContext(ctx, &updated, `
		UPDATE interview_requests
		SET status = $2,
		    interviewer_confirmed_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+requestColumns, requestID, entity.StatusPending, entity.StatusInterviewerAssigned)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:DeclineAssignment:Status", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("InterviewRepository:DeclineAssignment:Commit", err)
		return nil, err
	}

	return &updated, nil
}

// ===================== Assignments =====================

func (r *InterviewRepository) GetActiveAssignment(ctx context.Context, requestID uuid.UUID) (*entity.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE interview_request_id = $1 AND declined_at IS NULL AND superseded_at IS NULL
	`

	var assignment entity.Assignment
	err := r.DB.GetContext(ctx, &assignment, query, requestID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("InterviewRepository:GetActiveAssignment", err)
		return nil, err
	}

	return &assignment, nil
}

func (r *InterviewRepository) GetAssignmentsByRequest(ctx context.Context, requestID uuid.UUID) ([]entity.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE interview_request_id = $1
		ORDER BY assigned_at DESC
	`

	var assignments []entity.Assignment
	err := r.DB.SelectContext(ctx, &assignments, query, requestID)
	if err != nil {
		logger.Error("InterviewRepository:GetAssignmentsByRequest", err)
		return nil, err
	}

	return assignments, nil
}

// HasConfirmedOverlap reports whether the interviewer already has a confirmed
// interview at the exact slot.
func (r *InterviewRepository) HasConfirmedOverlap(ctx context.Context, interviewerID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM assignments a
			JOIN interview_requests r ON r.id = a.interview_request_id
			WHERE a.interviewer_id = $1
			  AND a.declined_at IS NULL AND a.superseded_at IS NULL
			  AND r.scheduled_date = $2 AND r.scheduled_time = $3
			  AND r.status = $4
		)
	`

	var exists bool
	err := r.DB.GetContext(ctx, &exists, query, interviewerID, date, timeOfDay, entity.StatusConfirmed)
	if err != nil {
		logger.Error("InterviewRepository:HasConfirmedOverlap", err)
		return false, err
	}

	return exists, nil
}

// isUniqueViolation reports whether err is a Postgres unique violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == "23505"
}
