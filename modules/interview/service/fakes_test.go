package service_test

import (
	"context"
	"sync"
	"time"

	"interviewhub/core/constants"
	"interviewhub/core/params"
	availEntity "interviewhub/modules/availability/entity"
	"interviewhub/modules/interview/entity"
	"interviewhub/modules/interview/repository"
	"interviewhub/modules/interview/service"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory InterviewRepositoryInterface that mirrors the SQL
// semantics of the real one: conditional status writes return (nil, nil) on
// a mismatch, ConfirmParty promotes atomically, ReplaceAssignment supersedes.
// The mutex stands in for the database's per-statement atomicity.
type fakeRepo struct {
	mu           sync.Mutex
	requests     map[uuid.UUID]*entity.InterviewRequest
	assignments  []*entity.Assignment
	overlapBusy  bool
	forceCASMiss bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: map[uuid.UUID]*entity.InterviewRequest{}}
}

func cloneRequest(r *entity.InterviewRequest) *entity.InterviewRequest {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func cloneAssignment(a *entity.Assignment) *entity.Assignment {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (f *fakeRepo) CreateRequest(_ context.Context, req *entity.InterviewRequest) (*entity.InterviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := cloneRequest(req)
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.requests[c.ID] = c
	return cloneRequest(c), nil
}

func (f *fakeRepo) GetRequestByID(_ context.Context, id uuid.UUID) (*entity.InterviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneRequest(f.requests[id]), nil
}

func (f *fakeRepo) GetRequestsByCandidateID(_ context.Context, candidateID uuid.UUID) ([]entity.InterviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.InterviewRequest
	for _, r := range f.requests {
		if r.CandidateID == candidateID {
			out = append(out, *cloneRequest(r))
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRequestsByInterviewerID(_ context.Context, interviewerID uuid.UUID) ([]entity.InterviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.InterviewRequest
	for _, a := range f.assignments {
		if a.Active() && a.InterviewerID == interviewerID {
			if r, ok := f.requests[a.InterviewRequestID]; ok {
				out = append(out, *cloneRequest(r))
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) ListRequests(_ context.Context, p params.QueryParams) (*repository.PaginatedRequests, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []entity.InterviewRequest
	for _, r := range f.requests {
		items = append(items, *cloneRequest(r))
	}
	return &repository.PaginatedRequests{
		Items:      items,
		TotalItems: len(items),
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (f *fakeRepo) ListStalePending(_ context.Context, olderThan time.Time) ([]entity.InterviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.InterviewRequest
	for _, r := range f.requests {
		if r.Status == entity.StatusPending && r.CreatedAt.Before(olderThan) {
			out = append(out, *cloneRequest(r))
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateRequestDetails(_ context.Context, req *entity.InterviewRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.requests[req.ID]; ok {
		stored.InterviewType = req.InterviewType
		stored.ScheduledDate = req.ScheduledDate
		stored.ScheduledTime = req.ScheduledTime
		stored.AdditionalInfo = req.AdditionalInfo
		stored.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeRepo) SetMeetingURL(_ context.Context, id uuid.UUID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.requests[id]; ok {
		stored.MeetingURL = &url
	}
	return nil
}

func (f *fakeRepo) DeleteRequest(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, id)
	return nil
}

func (f *fakeRepo) UpdateStatusConditional(_ context.Context, p repository.UpdateStatusParams) (*entity.InterviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.requests[p.ID]
	if !ok {
		return nil, nil
	}
	if f.forceCASMiss || stored.Status != p.Expected {
		return nil, nil
	}

	stored.Status = p.Target
	if p.NewDate != nil {
		stored.ScheduledDate = *p.NewDate
	}
	if p.NewTime != nil {
		stored.ScheduledTime = *p.NewTime
	}
	if p.MeetingURL != nil {
		stored.MeetingURL = p.MeetingURL
	}
	if p.ForceConfirm {
		stored.ForceConfirmed = true
	}
	stored.UpdatedAt = time.Now()
	return cloneRequest(stored), nil
}

func (f *fakeRepo) ConfirmParty(_ context.Context, id uuid.UUID, party entity.ConfirmingParty) (*entity.InterviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	switch stored.Status {
	case entity.StatusInterviewerAssigned, entity.StatusCandidateConfirmed, entity.StatusInterviewerConfirmed:
	default:
		return nil, nil
	}

	now := time.Now()
	if party == entity.PartyCandidate {
		if stored.CandidateConfirmedAt == nil {
			stored.CandidateConfirmedAt = &now
		}
		if stored.InterviewerConfirmedAt != nil {
			stored.Status = entity.StatusConfirmed
		} else if stored.Status == entity.StatusInterviewerAssigned {
			stored.Status = entity.StatusCandidateConfirmed
		}
	} else {
		if stored.InterviewerConfirmedAt == nil {
			stored.InterviewerConfirmedAt = &now
		}
		if stored.CandidateConfirmedAt != nil {
			stored.Status = entity.StatusConfirmed
		} else if stored.Status == entity.StatusInterviewerAssigned {
			stored.Status = entity.StatusInterviewerConfirmed
		}
	}
	stored.UpdatedAt = now
	return cloneRequest(stored), nil
}

func (f *fakeRepo) ReplaceAssignment(_ context.Context, requestID, interviewerID uuid.UUID) (*entity.InterviewRequest, *entity.Assignment, *uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.requests[requestID]
	if !ok {
		return nil, nil, nil, nil
	}
	if stored.Status != entity.StatusPending && stored.Status != entity.StatusInterviewerAssigned {
		return nil, nil, nil, nil
	}

	now := time.Now()
	var prev *uuid.UUID
	for _, a := range f.assignments {
		if a.InterviewRequestID == requestID && a.Active() {
			id := a.InterviewerID
			prev = &id
			a.SupersededAt = &now
		}
	}

	assignment := &entity.Assignment{
		ID:                 uuid.New(),
		InterviewRequestID: requestID,
		InterviewerID:      interviewerID,
		AssignedAt:         now,
	}
	f.assignments = append(f.assignments, assignment)

	stored.Status = entity.StatusInterviewerAssigned
	stored.CandidateConfirmedAt = nil
	stored.InterviewerConfirmedAt = nil
	stored.UpdatedAt = now
	return cloneRequest(stored), cloneAssignment(assignment), prev, nil
}

func (f *fakeRepo) DeclineAssignment(_ context.Context, requestID, interviewerID uuid.UUID) (*entity.InterviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var declined bool
	now := time.Now()
	for _, a := range f.assignments {
		if a.InterviewRequestID == requestID && a.Active() && a.InterviewerID == interviewerID {
			a.DeclinedAt = &now
			declined = true
		}
	}
	if !declined {
		return nil, nil
	}

	stored := f.requests[requestID]
	if stored.Status == entity.StatusInterviewerAssigned {
		stored.Status = entity.StatusPending
		stored.InterviewerConfirmedAt = nil
		stored.UpdatedAt = now
	}
	return cloneRequest(stored), nil
}

func (f *fakeRepo) GetActiveAssignment(_ context.Context, requestID uuid.UUID) (*entity.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.InterviewRequestID == requestID && a.Active() {
			return cloneAssignment(a), nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetAssignmentsByRequest(_ context.Context, requestID uuid.UUID) ([]entity.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Assignment
	for _, a := range f.assignments {
		if a.InterviewRequestID == requestID {
			out = append(out, *cloneAssignment(a))
		}
	}
	return out, nil
}

func (f *fakeRepo) HasConfirmedOverlap(_ context.Context, _ uuid.UUID, _ time.Time, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlapBusy, nil
}

// fakeDispatcher records emitted lifecycle events.
type fakeDispatcher struct {
	mu     sync.Mutex
	events []entity.LifecycleEvent
}

func (d *fakeDispatcher) Dispatch(_ context.Context, event entity.LifecycleEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

// fakeAvailability serves a fixed slot list for every interviewer.
type fakeAvailability struct {
	slots []availEntity.AvailabilitySlot
}

func (a *fakeAvailability) GetByInterviewer(_ context.Context, _ uuid.UUID) ([]availEntity.AvailabilitySlot, error) {
	return a.slots, nil
}

// fakeDirectory marks a fixed set of ids as interviewers.
type fakeDirectory struct {
	interviewers map[uuid.UUID]bool
}

func (d *fakeDirectory) IsInterviewer(_ context.Context, userID uuid.UUID) (bool, error) {
	return d.interviewers[userID], nil
}

// fixture bundles the services under test around one seeded request.
type fixture struct {
	repo         *fakeRepo
	dispatcher   *fakeDispatcher
	availability *fakeAvailability
	directory    *fakeDirectory

	lifecycle    service.LifecycleServiceInterface
	assignment   service.AssignmentServiceInterface
	confirmation service.ConfirmationServiceInterface

	candidateID   uuid.UUID
	interviewerID uuid.UUID
	adminID       uuid.UUID
	requestID     uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:          newFakeRepo(),
		dispatcher:    &fakeDispatcher{},
		candidateID:   uuid.New(),
		interviewerID: uuid.New(),
		adminID:       uuid.New(),
	}

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC) // a Monday
	f.availability = &fakeAvailability{slots: []availEntity.AvailabilitySlot{{
		ID:            uuid.New(),
		InterviewerID: f.interviewerID,
		DayOfWeek:     int(date.Weekday()),
		StartTime:     "09:00",
		EndTime:       "17:00",
		IsRecurring:   true,
	}}}
	f.directory = &fakeDirectory{interviewers: map[uuid.UUID]bool{f.interviewerID: true}}

	f.lifecycle = service.NewLifecycleService(f.repo, f.dispatcher)
	f.assignment = service.NewAssignmentService(f.repo, f.lifecycle, f.availability, f.directory)
	f.confirmation = service.NewConfirmationService(f.repo, f.lifecycle)

	created, _ := f.repo.CreateRequest(context.Background(), &entity.InterviewRequest{
		CandidateID:   f.candidateID,
		InterviewType: entity.InterviewTypeTechnical,
		ScheduledDate: date,
		ScheduledTime: "10:00",
		Status:        entity.StatusPending,
	})
	f.requestID = created.ID
	return f
}

func (f *fixture) candidate() entity.Actor {
	return entity.Actor{ID: f.candidateID, Role: constants.RoleCandidate}
}

func (f *fixture) interviewer() entity.Actor {
	return entity.Actor{ID: f.interviewerID, Role: constants.RoleInterviewer}
}

func (f *fixture) admin() entity.Actor {
	return entity.Actor{ID: f.adminID, Role: constants.RoleAdmin}
}

func (f *fixture) status() entity.Status {
	return f.repo.requests[f.requestID].Status
}

// assign moves the fixture request to INTERVIEWER_ASSIGNED and clears the
// events recorded along the way.
func (f *fixture) assign() {
	_, appErr := f.assignment.AssignInterviewer(context.Background(), f.requestID, f.interviewerID, f.admin())
	if appErr != nil {
		panic("fixture assign failed: " + appErr.Error())
	}
	f.dispatcher.events = nil
}
