package marketplace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucabarin/turnario/pkg/core/model"
	"github.com/lucabarin/turnario/pkg/db"
)

// mockStore implements Store for testing
type mockStore struct {
	bookings map[string]*model.Booking // key shiftID+"/"+userID
	postings map[string]*model.BoardPosting
	requests map[string]*model.SubstitutionRequest

	publishErr  error
	assignErr   error
	withdrawErr error
	insertErr   error
	acceptErr   error
	deleteErr   error

	published       []*model.BoardPosting
	assigned        []*model.Booking
	withdrawn       []*model.Booking
	accepted        [][2]string // (requestID, newUserID)
	deletedRequests []string
}

func (m *mockStore) GetBooking(ctx context.Context, shiftID, userID string) (*model.Booking, error) {
	if b, ok := m.bookings[shiftID+"/"+userID]; ok {
		return b, nil
	}
	return nil, model.ErrNotFound
}

func (m *mockStore) GetPosting(ctx context.Context, id string) (*model.BoardPosting, error) {
	if p, ok := m.postings[id]; ok {
		return p, nil
	}
	return nil, model.ErrNotFound
}

func (m *mockStore) PublishPosting(ctx context.Context, posting *model.BoardPosting) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, posting)
	return nil
}

func (m *mockStore) AssignPosting(ctx context.Context, postingID string, booking *model.Booking, at time.Time) error {
	if m.assignErr != nil {
		return m.assignErr
	}
	m.assigned = append(m.assigned, booking)
	m.postings[postingID].Status = model.PostingAssigned
	m.postings[postingID].Claimant = booking.UserID
	return nil
}

func (m *mockStore) WithdrawPosting(ctx context.Context, postingID string, restored *model.Booking) error {
	if m.withdrawErr != nil {
		return m.withdrawErr
	}
	m.withdrawn = append(m.withdrawn, restored)
	delete(m.postings, postingID)
	return nil
}

func (m *mockStore) GetSubstitutionRequest(ctx context.Context, id string) (*model.SubstitutionRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, model.ErrNotFound
}

func (m *mockStore) InsertSubstitutionRequest(ctx context.Context, req *model.SubstitutionRequest) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.requests[req.ID] = req
	return nil
}

func (m *mockStore) AcceptSubstitution(ctx context.Context, requestID, newUserID string) error {
	if m.acceptErr != nil {
		return m.acceptErr
	}
	m.accepted = append(m.accepted, [2]string{requestID, newUserID})
	delete(m.requests, requestID)
	return nil
}

func (m *mockStore) DeleteSubstitutionRequest(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedRequests = append(m.deletedRequests, id)
	delete(m.requests, id)
	return nil
}

// mockNotifier implements db.Notifier for testing
type mockNotifier struct {
	sent []string // userIDs notified
	err  error
}

func (m *mockNotifier) Notify(ctx context.Context, userID, message, actionLink string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, userID)
	return nil
}

// mockChangeLog implements db.ChangeLog for testing
type mockChangeLog struct {
	changes []db.ShiftChange
}

func (m *mockChangeLog) LogShiftChange(ctx context.Context, change db.ShiftChange) error {
	m.changes = append(m.changes, change)
	return nil
}

func baseStore() *mockStore {
	return &mockStore{
		bookings: map[string]*model.Booking{
			"s1/u1": {ID: "b1", ShiftID: "s1", UserID: "u1", Role: model.RoleTechnician},
		},
		postings: map[string]*model.BoardPosting{},
		requests: map[string]*model.SubstitutionRequest{},
	}
}

func newTestEngine(store *mockStore, notifier *mockNotifier, changeLog *mockChangeLog) *Engine {
	return NewEngine(store, notifier, changeLog, zap.NewNop())
}

func TestPublish(t *testing.T) {
	t.Run("holder publishes their seat", func(t *testing.T) {
		store := baseStore()
		changeLog := &mockChangeLog{}
		engine := newTestEngine(store, &mockNotifier{}, changeLog)

		posting, err := engine.Publish(context.Background(), "u1", "s1")
		require.NoError(t, err)

		assert.Equal(t, model.PostingAvailable, posting.Status)
		assert.Equal(t, "u1", posting.OriginalUser)
		assert.Equal(t, model.RoleTechnician, posting.OriginalRole)
		require.Len(t, store.published, 1)
		require.Len(t, changeLog.changes, 1)
		assert.Equal(t, db.ActionPublished, changeLog.changes[0].Action)
	})

	t.Run("non-holder cannot publish", func(t *testing.T) {
		engine := newTestEngine(baseStore(), &mockNotifier{}, &mockChangeLog{})

		_, err := engine.Publish(context.Background(), "u2", "s1")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("atomic publish failure keeps nothing", func(t *testing.T) {
		store := baseStore()
		store.publishErr = errors.New("tx aborted")
		changeLog := &mockChangeLog{}
		engine := newTestEngine(store, &mockNotifier{}, changeLog)

		_, err := engine.Publish(context.Background(), "u1", "s1")
		assert.Error(t, err)
		assert.Empty(t, changeLog.changes)
	})
}

func availablePosting() *model.BoardPosting {
	return &model.BoardPosting{
		ID:           "p1",
		ShiftID:      "s1",
		OriginalUser: "u1",
		OriginalRole: model.RoleTechnician,
		PublishedAt:  time.Now(),
		Status:       model.PostingAvailable,
	}
}

func TestClaim(t *testing.T) {
	t.Run("same-role claim succeeds and assigns", func(t *testing.T) {
		store := baseStore()
		store.postings["p1"] = availablePosting()
		notifier := &mockNotifier{}
		changeLog := &mockChangeLog{}
		engine := newTestEngine(store, notifier, changeLog)

		booking, err := engine.Claim(context.Background(), "u2", model.RoleTechnician, "p1")
		require.NoError(t, err)

		assert.Equal(t, "u2", booking.UserID)
		assert.Equal(t, model.RoleTechnician, booking.Role)
		assert.Equal(t, model.PostingAssigned, store.postings["p1"].Status)
		assert.Equal(t, "u2", store.postings["p1"].Claimant)

		// Original holder is told their seat was taken
		assert.Equal(t, []string{"u1"}, notifier.sent)
		require.Len(t, changeLog.changes, 1)
		assert.Equal(t, db.ActionClaimed, changeLog.changes[0].Action)
		assert.Equal(t, "u1", changeLog.changes[0].OriginalUser)
		assert.Equal(t, "u2", changeLog.changes[0].NewUser)
	})

	t.Run("helper cannot claim a technician seat", func(t *testing.T) {
		store := baseStore()
		store.postings["p1"] = availablePosting()
		engine := newTestEngine(store, &mockNotifier{}, &mockChangeLog{})

		_, err := engine.Claim(context.Background(), "u3", model.RoleHelper, "p1")
		assert.ErrorIs(t, err, model.ErrRoleMismatch)
		assert.Empty(t, store.assigned)
	})

	t.Run("claimed posting cannot be claimed again", func(t *testing.T) {
		store := baseStore()
		posting := availablePosting()
		posting.Status = model.PostingAssigned
		store.postings["p1"] = posting
		engine := newTestEngine(store, &mockNotifier{}, &mockChangeLog{})

		_, err := engine.Claim(context.Background(), "u2", model.RoleTechnician, "p1")
		assert.ErrorIs(t, err, model.ErrAlreadyAssigned)
	})

	t.Run("missing posting", func(t *testing.T) {
		engine := newTestEngine(baseStore(), &mockNotifier{}, &mockChangeLog{})

		_, err := engine.Claim(context.Background(), "u2", model.RoleTechnician, "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("notification failure does not fail the claim", func(t *testing.T) {
		store := baseStore()
		store.postings["p1"] = availablePosting()
		engine := newTestEngine(store, &mockNotifier{err: errors.New("broker down")}, &mockChangeLog{})

		_, err := engine.Claim(context.Background(), "u2", model.RoleTechnician, "p1")
		assert.NoError(t, err)
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("holder withdraws and booking is restored", func(t *testing.T) {
		store := baseStore()
		store.postings["p1"] = availablePosting()
		engine := newTestEngine(store, &mockNotifier{}, &mockChangeLog{})

		err := engine.Withdraw(context.Background(), "u1", "p1")
		require.NoError(t, err)
		require.Len(t, store.withdrawn, 1)
		assert.Equal(t, "u1", store.withdrawn[0].UserID)
		assert.Equal(t, model.RoleTechnician, store.withdrawn[0].Role)
	})

	t.Run("someone else's posting is not withdrawable", func(t *testing.T) {
		store := baseStore()
		store.postings["p1"] = availablePosting()
		engine := newTestEngine(store, &mockNotifier{}, &mockChangeLog{})

		err := engine.Withdraw(context.Background(), "u2", "p1")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("claimed posting cannot be withdrawn", func(t *testing.T) {
		store := baseStore()
		posting := availablePosting()
		posting.Status = model.PostingAssigned
		store.postings["p1"] = posting
		engine := newTestEngine(store, &mockNotifier{}, &mockChangeLog{})

		err := engine.Withdraw(context.Background(), "u1", "p1")
		assert.ErrorIs(t, err, model.ErrAlreadyAssigned)
	})
}

func TestRequestSubstitution(t *testing.T) {
	t.Run("holder targets a colleague", func(t *testing.T) {
		store := baseStore()
		notifier := &mockNotifier{}
		engine := newTestEngine(store, notifier, &mockChangeLog{})

		req, err := engine.RequestSubstitution(context.Background(), "u1", "u2", "s1")
		require.NoError(t, err)

		assert.Equal(t, "u1", req.Requester)
		assert.Equal(t, "u2", req.Recipient)
		assert.Equal(t, []string{"u2"}, notifier.sent)
	})

	t.Run("requester must hold a booking", func(t *testing.T) {
		engine := newTestEngine(baseStore(), &mockNotifier{}, &mockChangeLog{})

		_, err := engine.RequestSubstitution(context.Background(), "u2", "u3", "s1")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func substitutionRequest() *model.SubstitutionRequest {
	return &model.SubstitutionRequest{
		ID:        "r1",
		ShiftID:   "s1",
		Requester: "u1",
		Recipient: "u2",
		CreatedAt: time.Now(),
	}
}

func TestRespond(t *testing.T) {
	t.Run("acceptance transfers the booking and deletes the request", func(t *testing.T) {
		store := baseStore()
		store.requests["r1"] = substitutionRequest()
		notifier := &mockNotifier{}
		changeLog := &mockChangeLog{}
		engine := newTestEngine(store, notifier, changeLog)

		err := engine.Respond(context.Background(), "r1", "u2", true)
		require.NoError(t, err)

		require.Len(t, store.accepted, 1)
		assert.Equal(t, [2]string{"r1", "u2"}, store.accepted[0])
		assert.NotContains(t, store.requests, "r1")

		// Requester is notified of the outcome
		assert.Equal(t, []string{"u1"}, notifier.sent)
		require.Len(t, changeLog.changes, 1)
		assert.Equal(t, db.ActionSubstituted, changeLog.changes[0].Action)
	})

	t.Run("rejection deletes the request only", func(t *testing.T) {
		store := baseStore()
		store.requests["r1"] = substitutionRequest()
		notifier := &mockNotifier{}
		changeLog := &mockChangeLog{}
		engine := newTestEngine(store, notifier, changeLog)

		err := engine.Respond(context.Background(), "r1", "u2", false)
		require.NoError(t, err)

		assert.Empty(t, store.accepted)
		assert.Equal(t, []string{"r1"}, store.deletedRequests)
		assert.Equal(t, []string{"u1"}, notifier.sent)
		require.Len(t, changeLog.changes, 1)
		assert.Equal(t, db.ActionRejected, changeLog.changes[0].Action)
	})

	t.Run("only the designated recipient may respond", func(t *testing.T) {
		store := baseStore()
		store.requests["r1"] = substitutionRequest()
		engine := newTestEngine(store, &mockNotifier{}, &mockChangeLog{})

		err := engine.Respond(context.Background(), "r1", "u3", true)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("missing request", func(t *testing.T) {
		engine := newTestEngine(baseStore(), &mockNotifier{}, &mockChangeLog{})

		err := engine.Respond(context.Background(), "missing", "u2", true)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("notification failure does not undo the acceptance", func(t *testing.T) {
		store := baseStore()
		store.requests["r1"] = substitutionRequest()
		engine := newTestEngine(store, &mockNotifier{err: errors.New("broker down")}, &mockChangeLog{})

		err := engine.Respond(context.Background(), "r1", "u2", true)
		assert.NoError(t, err)
		require.Len(t, store.accepted, 1)
	})
}
