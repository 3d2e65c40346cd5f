package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	authdto "github.com/legacy-sukawarna/rsvp-app/modules/auth/dto"
	authentity "github.com/legacy-sukawarna/rsvp-app/modules/auth/entity"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/entity"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/repository"
)

type fakeEvent struct {
	owner    uuid.UUID
	capacity int
}

// fakeRSVPRepo reproduces the repository's guarantees in memory: the
// full/duplicate checks and the insert happen under one lock, the way the
// real implementation holds the event row lock.
type fakeRSVPRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*fakeEvent
	rsvps  []*entity.RSVP
}

func newFakeRSVPRepo() *fakeRSVPRepo {
	return &fakeRSVPRepo{events: make(map[uuid.UUID]*fakeEvent)}
}

func (r *fakeRSVPRepo) addEvent(owner uuid.UUID, capacity int) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.events[id] = &fakeEvent{owner: owner, capacity: capacity}
	return id
}

func (r *fakeRSVPRepo) countLocked(eventID uuid.UUID) int {
	n := 0
	for _, rsvp := range r.rsvps {
		if rsvp.EventID == eventID {
			n++
		}
	}
	return n
}

func (r *fakeRSVPRepo) GetAttendance(_ context.Context, eventID uuid.UUID) (*entity.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	attendance := entity.NewAttendance(event.capacity, r.countLocked(eventID))
	return &attendance, nil
}

func (r *fakeRSVPRepo) Register(_ context.Context, rsvp *entity.RSVP) (*entity.RSVP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[rsvp.EventID]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	for _, existing := range r.rsvps {
		if existing.EventID == rsvp.EventID && existing.UserID == rsvp.UserID {
			return nil, repository.ErrDuplicateRSVP
		}
	}
	if r.countLocked(rsvp.EventID) >= event.capacity {
		return nil, repository.ErrEventFull
	}

	created := *rsvp
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.rsvps = append(r.rsvps, &created)
	return &created, nil
}

func (r *fakeRSVPRepo) GetByEventAndUser(_ context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.RSVP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rsvp := range r.rsvps {
		if rsvp.EventID == eventID && rsvp.UserID == userID {
			return rsvp, nil
		}
	}
	return nil, nil
}

func (r *fakeRSVPRepo) ListByEventID(_ context.Context, eventID uuid.UUID) ([]entity.RSVP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.RSVP
	for _, rsvp := range r.rsvps {
		if rsvp.EventID == eventID {
			out = append(out, *rsvp)
		}
	}
	return out, nil
}

func (r *fakeRSVPRepo) DeleteByIDAndUser(_ context.Context, rsvpID uuid.UUID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rsvp := range r.rsvps {
		if rsvp.ID == rsvpID && rsvp.UserID == userID {
			r.rsvps = append(r.rsvps[:i], r.rsvps[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeRSVPRepo) GetEventOwner(_ context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return uuid.Nil, repository.ErrEventNotFound
	}
	return event.owner, nil
}

func (r *fakeRSVPRepo) UpdateCapacity(_ context.Context, eventID uuid.UUID, newCapacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	if count := r.countLocked(eventID); newCapacity < count {
		return &repository.CapacityTooLowError{AttendeeCount: count}
	}
	event.capacity = newCapacity
	return nil
}

func (r *fakeRSVPRepo) DeleteEventCascade(_ context.Context, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[eventID]; !ok {
		return repository.ErrEventNotFound
	}
	delete(r.events, eventID)
	kept := r.rsvps[:0]
	for _, rsvp := range r.rsvps {
		if rsvp.EventID != eventID {
			kept = append(kept, rsvp)
		}
	}
	r.rsvps = kept
	return nil
}

type fakeAuthService struct {
	users map[uuid.UUID]*authentity.User
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{users: make(map[uuid.UUID]*authentity.User)}
}

func (s *fakeAuthService) addUser(username string, email string) uuid.UUID {
	id := uuid.New()
	s.users[id] = &authentity.User{ID: id, Username: username, Email: email}
	return id
}

func (s *fakeAuthService) GetUserByID(_ context.Context, id uuid.UUID) (*authentity.User, *errors.AppError) {
	user, ok := s.users[id]
	if !ok {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	return user, nil
}

func (s *fakeAuthService) GoogleLoginURL(context.Context) (string, *errors.AppError) {
	return "", nil
}

func (s *fakeAuthService) HandleGoogleCallback(context.Context, string, string) (*authdto.LoginResponse, *errors.AppError) {
	return nil, nil
}

func (s *fakeAuthService) RefreshToken(context.Context, string) (*authdto.LoginResponse, *errors.AppError) {
	return nil, nil
}

func (s *fakeAuthService) Logout(context.Context, string) *errors.AppError {
	return nil
}

func newTestService(t *testing.T) (RSVPServiceInterface, *fakeRSVPRepo, *fakeAuthService) {
	t.Helper()
	repo := newFakeRSVPRepo()
	auth := newFakeAuthService()
	return NewRSVPService(repo, auth), repo, auth
}

func TestRegisterFillsCapacityExactly(t *testing.T) {
	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 2)

	first := auth.addUser("ana", "ana@example.com")
	second := auth.addUser("ben", "ben@example.com")
	third := auth.addUser("cleo", "cleo@example.com")

	_, appErr := svc.Register(context.Background(), eventID, first)
	require.Nil(t, appErr)
	_, appErr = svc.Register(context.Background(), eventID, second)
	require.Nil(t, appErr)

	_, appErr = svc.Register(context.Background(), eventID, third)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrEventFull, appErr.Code)

	attendance, appErr := svc.GetAttendance(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Equal(t, 2, attendance.AttendeeCount)
	assert.Equal(t, 0, attendance.SpotsLeft)
	assert.True(t, attendance.IsFull)
}

func TestRegisterTwiceIsRejected(t *testing.T) {
	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 10)
	userID := auth.addUser("ana", "ana@example.com")

	_, appErr := svc.Register(context.Background(), eventID, userID)
	require.Nil(t, appErr)

	_, appErr = svc.Register(context.Background(), eventID, userID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyRegistered, appErr.Code)

	attendance, appErr := svc.GetAttendance(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Equal(t, 1, attendance.AttendeeCount)
}

func TestRegisterUnknownEvent(t *testing.T) {
	svc, _, auth := newTestService(t)
	userID := auth.addUser("ana", "ana@example.com")

	_, appErr := svc.Register(context.Background(), uuid.New(), userID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestCancelFreesSpot(t *testing.T) {
	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 1)
	first := auth.addUser("ana", "ana@example.com")
	second := auth.addUser("ben", "ben@example.com")

	created, appErr := svc.Register(context.Background(), eventID, first)
	require.Nil(t, appErr)

	_, appErr = svc.Register(context.Background(), eventID, second)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrEventFull, appErr.Code)

	rsvpID, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	require.Nil(t, svc.Cancel(context.Background(), rsvpID, first))

	_, appErr = svc.Register(context.Background(), eventID, second)
	assert.Nil(t, appErr)
}

func TestReRegisterAfterCancel(t *testing.T) {
	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 3)
	userID := auth.addUser("ana", "ana@example.com")

	created, appErr := svc.Register(context.Background(), eventID, userID)
	require.Nil(t, appErr)

	rsvpID, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	require.Nil(t, svc.Cancel(context.Background(), rsvpID, userID))

	again, appErr := svc.Register(context.Background(), eventID, userID)
	require.Nil(t, appErr)
	assert.NotEqual(t, created.ID, again.ID)

	mine, appErr := svc.GetMyRSVP(context.Background(), eventID, userID)
	require.Nil(t, appErr)
	require.NotNil(t, mine)
	assert.Equal(t, again.ID, mine.ID)
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 3)
	userID := auth.addUser("ana", "ana@example.com")

	created, appErr := svc.Register(context.Background(), eventID, userID)
	require.Nil(t, appErr)

	rsvpID, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	require.Nil(t, svc.Cancel(context.Background(), rsvpID, userID))
	require.Nil(t, svc.Cancel(context.Background(), rsvpID, userID))

	attendance, appErr := svc.GetAttendance(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Equal(t, 0, attendance.AttendeeCount)
}

func TestCancelOnlyRemovesOwnRSVP(t *testing.T) {
	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 3)
	owner := auth.addUser("ana", "ana@example.com")
	other := auth.addUser("ben", "ben@example.com")

	created, appErr := svc.Register(context.Background(), eventID, owner)
	require.Nil(t, appErr)

	rsvpID, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	// Someone else cancelling with this ID must not touch the row.
	require.Nil(t, svc.Cancel(context.Background(), rsvpID, other))

	attendance, appErr := svc.GetAttendance(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Equal(t, 1, attendance.AttendeeCount)
}

func TestUpdateCapacityBelowAttendance(t *testing.T) {
	svc, repo, auth := newTestService(t)
	ownerID := uuid.New()
	eventID := repo.addEvent(ownerID, 5)
	for i := 0; i < 3; i++ {
		userID := auth.addUser("", "")
		_, appErr := svc.Register(context.Background(), eventID, userID)
		require.Nil(t, appErr)
	}

	appErr := svc.UpdateCapacity(context.Background(), eventID, 2, ownerID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCapacityBelowAttendance, appErr.Code)
	assert.Equal(t, map[string]any{"attendee_count": 3}, appErr.Details)

	// Shrinking to exactly the attendee count is allowed.
	appErr = svc.UpdateCapacity(context.Background(), eventID, 3, ownerID)
	require.Nil(t, appErr)

	attendance, appErr := svc.GetAttendance(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.True(t, attendance.IsFull)
}

func TestUpdateCapacityOwnerOnly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 5)

	appErr := svc.UpdateCapacity(context.Background(), eventID, 10, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestUpdateCapacityRejectsNonPositive(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ownerID := uuid.New()
	eventID := repo.addEvent(ownerID, 5)

	appErr := svc.UpdateCapacity(context.Background(), eventID, 0, ownerID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestDeleteEventCascadeLeavesNoRSVPs(t *testing.T) {
	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 5)
	userID := auth.addUser("ana", "ana@example.com")

	_, appErr := svc.Register(context.Background(), eventID, userID)
	require.Nil(t, appErr)

	require.Nil(t, svc.DeleteEventCascade(context.Background(), eventID))

	_, appErr = svc.GetAttendance(context.Background(), eventID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	rsvp, appErr := svc.GetMyRSVP(context.Background(), eventID, userID)
	require.Nil(t, appErr)
	assert.Nil(t, rsvp)
}

func TestAttendeeNameFallback(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		want     string
	}{
		{"username wins", "ana", "ana.b@example.com", "ana"},
		{"email local part", "", "ana.b@example.com", "ana.b"},
		{"no identity", "", "", "Anonymous"},
		{"bare at sign", "", "@example.com", "Anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, auth := newTestService(t)
			eventID := repo.addEvent(uuid.New(), 5)
			userID := auth.addUser(tt.username, tt.email)

			created, appErr := svc.Register(context.Background(), eventID, userID)
			require.Nil(t, appErr)
			assert.Equal(t, tt.want, created.AttendeeName)
		})
	}
}

func TestConcurrentRegistrationsNeverExceedCapacity(t *testing.T) {
	const capacity = 5
	const contenders = 50

	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), capacity)

	userIDs := make([]uuid.UUID, contenders)
	for i := range userIDs {
		userIDs[i] = auth.addUser("", "user@example.com")
	}

	var wg sync.WaitGroup
	results := make(chan *errors.AppError, contenders)
	for _, userID := range userIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, appErr := svc.Register(context.Background(), eventID, id)
			results <- appErr
		}(userID)
	}
	wg.Wait()
	close(results)

	var wins, fulls int
	for appErr := range results {
		switch {
		case appErr == nil:
			wins++
		case appErr.Code == errors.ErrEventFull:
			fulls++
		default:
			t.Fatalf("unexpected error: %v", appErr)
		}
	}

	assert.Equal(t, capacity, wins)
	assert.Equal(t, contenders-capacity, fulls)

	attendance, appErr := svc.GetAttendance(context.Background(), eventID)
	require.Nil(t, appErr)
	assert.Equal(t, capacity, attendance.AttendeeCount)
}

func TestListAttendeesReflectsRegistrations(t *testing.T) {
	svc, repo, auth := newTestService(t)
	eventID := repo.addEvent(uuid.New(), 5)

	first := auth.addUser("ana", "ana@example.com")
	second := auth.addUser("", "ben@example.com")

	_, appErr := svc.Register(context.Background(), eventID, first)
	require.Nil(t, appErr)
	_, appErr = svc.Register(context.Background(), eventID, second)
	require.Nil(t, appErr)

	attendees, appErr := svc.ListAttendees(context.Background(), eventID)
	require.Nil(t, appErr)
	require.Len(t, attendees, 2)
	assert.Equal(t, "ana", attendees[0].AttendeeName)
	assert.Equal(t, "ben", attendees[1].AttendeeName)
}
