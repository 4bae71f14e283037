package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/bank-accounts-service/internal/config"
	"github.com/bank-accounts-service/internal/domain/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingMessage(id int64, attempts int) *outbox.Message {
	return &outbox.Message{
		ID:        id,
		EventID:   uuid.New(),
		AccountID: uuid.New(),
		EventType: "ACCOUNT_OPENED",
		Payload:   []byte(`{}`),
		Status:    outbox.StatusPending,
		Attempts:  attempts,
		CreatedAt: time.Now(),
	}
}

func TestPoller_ProcessPendingMessages(t *testing.T) {
	cfg := &config.OutboxConfig{
		PollingInterval:  time.Second,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}

	message1 := pendingMessage(1, 0)
	message2 := pendingMessage(2, 0)
	exhausted := pendingMessage(3, 2)
	malformed := pendingMessage(4, 0)

	tests := []struct {
		name              string
		setupMocks        func(repo *MockOutboxRepo, pub *MockPublisher)
		expectedPublished int
		expectedError     string
	}{
		{
			name: "publishes every pending message",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()
				pub.On("Publish", mock.Anything, message1).Return(nil).Once()
				pub.On("Publish", mock.Anything, message2).Return(nil).Once()
				repo.On("UpdateStatus", mock.Anything, int64(1), outbox.StatusPublished).Return(nil).Once()
				repo.On("UpdateStatus", mock.Anything, int64(2), outbox.StatusPublished).Return(nil).Once()
			},
			expectedPublished: 2,
		},
		{
			name: "error getting pending messages",
			setupMocks: func(repo *MockOutboxRepo, _ *MockPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return(nil, errors.New("db error")).Once()
			},
			expectedError: "failed to get pending outbox messages",
		},
		{
			name: "no pending messages",
			setupMocks: func(repo *MockOutboxRepo, _ *MockPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Once()
			},
		},
		{
			name: "failed publish increments attempts and continues",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()
				pub.On("Publish", mock.Anything, message1).Return(errors.New("broker down")).Once()
				repo.On("IncrementAttempts", mock.Anything, int64(1)).Return(nil).Once()
				pub.On("Publish", mock.Anything, message2).Return(nil).Once()
				repo.On("UpdateStatus", mock.Anything, int64(2), outbox.StatusPublished).Return(nil).Once()
			},
			expectedPublished: 1,
		},
		{
			name: "max retry attempts reached",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{exhausted}, nil).Once()
				pub.On("Publish", mock.Anything, exhausted).Return(errors.New("broker down")).Once()
				repo.On("IncrementAttempts", mock.Anything, int64(3)).Return(nil).Once()
				repo.On("UpdateStatus", mock.Anything, int64(3), outbox.StatusFailedToPublish).Return(nil).Once()
			},
		},
		{
			name: "malformed payload fails immediately",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{malformed}, nil).Once()
				pub.On("Publish", mock.Anything, malformed).
					Return(fmt.Errorf("%w: bad json", ErrMalformedPayload)).Once()
				repo.On("UpdateStatus", mock.Anything, int64(4), outbox.StatusFailedToPublish).Return(nil).Once()
			},
		},
		{
			name: "status update failure leaves row pending",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1}, nil).Once()
				pub.On("Publish", mock.Anything, message1).Return(nil).Once()
				repo.On("UpdateStatus", mock.Anything, int64(1), outbox.StatusPublished).Return(errors.New("conn reset")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockOutboxRepo{}
			pub := &MockPublisher{}
			txm := &fakeTxManager{}
			tt.setupMocks(repo, pub)

			poller := NewPoller(cfg, txm, repo, pub, slog.Default())
			published, err := poller.processPendingMessages(context.Background())

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedPublished, published)
			assert.Equal(t, 1, txm.calls, "each batch runs in exactly one transaction")

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestPoller_StartStopsOnCancel(t *testing.T) {
	repo := &MockOutboxRepo{}
	repo.On("GetPending", mock.Anything, 5).Return([]*outbox.Message{}, nil)

	poller := NewPoller(&config.OutboxConfig{
		PollingInterval:  5 * time.Millisecond,
		BatchSize:        5,
		MaxRetryAttempts: 1,
	}, &fakeTxManager{}, repo, &MockPublisher{}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
	repo.AssertCalled(t, "GetPending", mock.Anything, 5)
}
