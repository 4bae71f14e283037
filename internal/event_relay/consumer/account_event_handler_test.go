package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/bank-accounts-service/internal/domain/event"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockActivityRecorder for testing
type MockActivityRecorder struct {
	mock.Mock
}

func (m *MockActivityRecorder) Record(ctx context.Context, evt *event.AccountEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// MockDeadLetterPublisher for testing
type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestHandleMessage(t *testing.T) {
	valid := &event.AccountEvent{
		ID:            uuid.New(),
		Type:          event.TypeAccountOpened,
		AccountID:     uuid.New(),
		AccountNumber: "ACC-1",
		CustomerID:    "c-1",
		Amount:        decimal.NewFromInt(100),
		BalanceAfter:  decimal.NewFromInt(100),
		CorrelationID: "corr1",
		OccurredAt:    time.Now().UTC(),
	}
	validJSON, err := json.Marshal(valid)
	require.NoError(t, err)

	unknown := *valid
	unknown.Type = "INTEREST_ACCRUED"
	unknownJSON, err := json.Marshal(&unknown)
	require.NoError(t, err)

	garbage := []byte("{not json")

	tests := []struct {
		name        string
		value       []byte
		setupMocks  func(rec *MockActivityRecorder, dlq *MockDeadLetterPublisher)
		expectError bool
	}{
		{
			name:  "successful recording",
			value: validJSON,
			setupMocks: func(rec *MockActivityRecorder, _ *MockDeadLetterPublisher) {
				rec.On("Record", mock.Anything, mock.MatchedBy(func(e *event.AccountEvent) bool {
					return e.ID == valid.ID && e.Amount.Equal(decimal.NewFromInt(100))
				})).Return(nil).Once()
			},
		},
		{
			name:  "recording error is returned for redelivery",
			value: validJSON,
			setupMocks: func(rec *MockActivityRecorder, _ *MockDeadLetterPublisher) {
				rec.On("Record", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()
			},
			expectError: true,
		},
		{
			name:  "malformed payload goes to DLQ",
			value: garbage,
			setupMocks: func(_ *MockActivityRecorder, dlq *MockDeadLetterPublisher) {
				dlq.On("PublishToDLQ", mock.Anything, "test-key", garbage, mock.AnythingOfType("string")).Return(nil).Once()
			},
		},
		{
			name:  "unknown event type goes to DLQ",
			value: unknownJSON,
			setupMocks: func(_ *MockActivityRecorder, dlq *MockDeadLetterPublisher) {
				dlq.On("PublishToDLQ", mock.Anything, "test-key", unknownJSON, mock.MatchedBy(func(reason string) bool {
					return reason == "invalid account event: "+event.ErrUnknownType.Error()
				})).Return(nil).Once()
			},
		},
		{
			name:  "DLQ failure keeps the message uncommitted",
			value: garbage,
			setupMocks: func(_ *MockActivityRecorder, dlq *MockDeadLetterPublisher) {
				dlq.On("PublishToDLQ", mock.Anything, "test-key", garbage, mock.Anything).Return(errors.New("dlq down")).Once()
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &MockActivityRecorder{}
			dlq := &MockDeadLetterPublisher{}
			tt.setupMocks(rec, dlq)

			handler := NewAccountEventHandler(slog.Default(), rec, dlq)
			err := handler.HandleMessage(context.Background(), []byte("test-key"), tt.value)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			rec.AssertExpectations(t)
			dlq.AssertExpectations(t)
		})
	}
}

func TestHandleMessage_WithoutDLQ(t *testing.T) {
	handler := NewAccountEventHandler(slog.Default(), &MockActivityRecorder{}, nil)
	err := handler.HandleMessage(context.Background(), []byte("k"), []byte("nope"))
	assert.Error(t, err)
}
