package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/core/scheduler"
	"github.com/Ezzerof/smart-invoice-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEngine(repo *MockInvoiceRepository, gen *MockDocumentGenerator, sender *MockNotificationSender, today time.Time) *scheduler.Engine {
	transition := scheduler.NewTransitionEngine(repo, testLogger())
	dispatcher := scheduler.NewDispatcher(repo, gen, sender, testLogger())
	return scheduler.NewEngine(scheduler.FixedClock{Day: today}, transition, dispatcher, time.Minute, testLogger())
}

func TestRunTick_TransitionRunsBeforeDispatch(t *testing.T) {
	ctx := context.Background()
	today := day(2025, time.June, 21)

	repo := new(MockInvoiceRepository)
	gen := new(MockDocumentGenerator)
	sender := new(MockNotificationSender)

	var mu sync.Mutex
	var calls []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			calls = append(calls, name)
			mu.Unlock()
		}
	}

	repo.On("FindOverdueCandidates", mock.Anything, today).
		Run(record("transition")).Return([]models.Invoice{}, nil).Once()
	repo.On("FindUnpaidWithReminders", mock.Anything).
		Run(record("dispatch")).Return([]models.Invoice{}, nil).Once()

	engine := newTestEngine(repo, gen, sender, today)
	summary, err := engine.RunTick(ctx)

	require.NoError(t, err)
	assert.Zero(t, summary.Transitioned)
	assert.Zero(t, summary.Reminded)
	assert.Equal(t, []string{"transition", "dispatch"}, calls)
	repo.AssertExpectations(t)
}

func TestRunTick_TransitionedInvoiceCanBeRemindedSameTick(t *testing.T) {
	// An invoice that crosses into OVERDUE on this tick is 1 day past due and must
	// receive its first overdue reminder in the same cycle.
	ctx := context.Background()
	today := day(2025, time.June, 21)
	dueDate := day(2025, time.June, 20)

	repo := new(MockInvoiceRepository)
	gen := new(MockDocumentGenerator)
	sender := new(MockNotificationSender)

	pending := models.Invoice{
		InvoiceID:         "inv-1",
		InvoiceNumber:     "2025-001",
		Status:            models.StatusPending,
		DueDate:           dueDate,
		Client:            &models.Client{Name: "Acme Ltd", Email: "acme@example.com"},
		ReminderSentDates: models.NewDateSet(),
	}
	transitioned := pending
	transitioned.Status = models.StatusOverdue
	transitioned.OverdueSince = &today

	repo.On("FindOverdueCandidates", mock.Anything, today).Return([]models.Invoice{pending}, nil).Once()
	repo.On("SaveInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
		return inv.Status == models.StatusOverdue && !inv.ReminderSentDates.Contains(today)
	})).Return(nil).Once()

	// The dispatch pass reads the freshly transitioned state.
	repo.On("FindUnpaidWithReminders", mock.Anything).Return([]models.Invoice{transitioned}, nil).Once()
	gen.On("Render", mock.Anything, mock.AnythingOfType("models.Invoice")).Return([]byte("pdf"), nil).Once()
	sender.On("Deliver", mock.Anything, "acme@example.com",
		"Payment Overdue: Invoice 2025-001",
		mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("SaveInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
		return inv.ReminderSentDates.Contains(today)
	})).Return(nil).Once()

	engine := newTestEngine(repo, gen, sender, today)
	summary, err := engine.RunTick(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Transitioned)
	assert.Equal(t, 1, summary.Reminded)
	assert.Empty(t, summary.Failures)
	repo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestRunTick_RejectsOverlappingRuns(t *testing.T) {
	today := day(2025, time.June, 21)

	repo := new(MockInvoiceRepository)
	gen := new(MockDocumentGenerator)
	sender := new(MockNotificationSender)

	entered := make(chan struct{})
	release := make(chan struct{})

	repo.On("FindOverdueCandidates", mock.Anything, today).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).Return([]models.Invoice{}, nil).Once()
	repo.On("FindUnpaidWithReminders", mock.Anything).Return([]models.Invoice{}, nil).Once()

	engine := newTestEngine(repo, gen, sender, today)

	done := make(chan error, 1)
	go func() {
		_, err := engine.RunTick(context.Background())
		done <- err
	}()

	<-entered
	_, err := engine.RunTick(context.Background())
	assert.ErrorIs(t, err, scheduler.ErrTickInProgress)

	close(release)
	require.NoError(t, <-done)

	// Once the first run finishes the guard is released.
	repo.On("FindOverdueCandidates", mock.Anything, today).Return([]models.Invoice{}, nil).Once()
	repo.On("FindUnpaidWithReminders", mock.Anything).Return([]models.Invoice{}, nil).Once()
	_, err = engine.RunTick(context.Background())
	assert.NoError(t, err)
}

func TestRunTick_FailuresFromBothPhasesAccumulate(t *testing.T) {
	ctx := context.Background()
	today := day(2025, time.June, 21)

	repo := new(MockInvoiceRepository)
	gen := new(MockDocumentGenerator)
	sender := new(MockNotificationSender)

	stuck := models.Invoice{InvoiceID: "inv-1", Status: models.StatusPending, DueDate: day(2025, time.June, 19)}
	noEmail := models.Invoice{
		InvoiceID:         "inv-2",
		Status:            models.StatusOverdue,
		DueDate:           day(2025, time.June, 20),
		ReminderSentDates: models.NewDateSet(),
	}

	repo.On("FindOverdueCandidates", mock.Anything, today).Return([]models.Invoice{stuck}, nil).Once()
	repo.On("SaveInvoice", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	repo.On("FindUnpaidWithReminders", mock.Anything).Return([]models.Invoice{noEmail}, nil).Once()

	engine := newTestEngine(repo, gen, sender, today)
	summary, err := engine.RunTick(ctx)

	require.NoError(t, err)
	assert.Zero(t, summary.Transitioned)
	assert.Zero(t, summary.Reminded)
	require.Len(t, summary.Failures, 2)
	assert.Equal(t, scheduler.StageTransition, summary.Failures[0].Stage)
	assert.Equal(t, scheduler.StageDelivery, summary.Failures[1].Stage)
}
