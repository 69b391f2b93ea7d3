package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"pagamentos_xpto/internal/domain/entities"
	mock_interfaces "pagamentos_xpto/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func queuedItem(id string) entities.EmailQueueItem {
	return entities.EmailQueueItem{
		ID:             id,
		RecipientEmail: id + "@test.com",
		Subject:        "Pagamento confirmado",
		HTMLBody:       "<p>ok</p>",
		Status:         entities.EmailQueueStatusPending,
		MaxAttempts:    3,
	}
}

func TestEmailDispatchUseCase_ProcessQueue(t *testing.T) {
	t.Setenv("EMAIL_DISPATCH_BATCH_SIZE", "")
	t.Setenv("EMAIL_RETRY_BACKOFF_MINUTES", "")

	t.Run("repo not configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(nil, sender)

		_, err := uc.ProcessQueue(context.Background())
		if !errors.Is(err, ErrEmailQueueRepoNotConfigured) {
			t.Fatalf("expected ErrEmailQueueRepoNotConfigured, got %v", err)
		}
	})

	t.Run("sender not configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		uc := NewEmailDispatchUseCase(repo, nil)

		_, err := uc.ProcessQueue(context.Background())
		if !errors.Is(err, ErrEmailSenderNotConfigured) {
			t.Fatalf("expected ErrEmailSenderNotConfigured, got %v", err)
		}
	})

	t.Run("listing failure aborts the run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(repo, sender)

		repo.EXPECT().ListPendingDue(gomock.Any(), gomock.Any(), 50).Return(nil, errors.New("db"))

		_, err := uc.ProcessQueue(context.Background())
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("sends due items oldest first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(repo, sender)

		repo.EXPECT().ListPendingDue(gomock.Any(), gomock.Any(), 50).Return([]entities.EmailQueueItem{queuedItem("m1"), queuedItem("m2")}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.EmailQueueItem{}, nil).Times(4)
		gomock.InOrder(
			sender.EXPECT().Send(gomock.Any(), "m1@test.com", "Pagamento confirmado", "<p>ok</p>", "").Return(nil),
			sender.EXPECT().Send(gomock.Any(), "m2@test.com", "Pagamento confirmado", "<p>ok</p>", "").Return(nil),
		)

		result, err := uc.ProcessQueue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Processed != 2 || result.Sent != 2 || result.Failed != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("attempt is recorded before the send", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(repo, sender)

		item := queuedItem("m1")
		item.ErrorMessage = "previous failure"
		repo.EXPECT().ListPendingDue(gomock.Any(), gomock.Any(), 50).Return([]entities.EmailQueueItem{item}, nil)
		gomock.InOrder(
			repo.EXPECT().Update(gomock.Any(), gomock.AssignableToTypeOf(entities.EmailQueueItem{})).DoAndReturn(
				func(_ context.Context, it entities.EmailQueueItem) (entities.EmailQueueItem, error) {
					if it.Attempts != 1 || it.LastAttemptAt == nil || it.Status != entities.EmailQueueStatusPending {
						t.Fatalf("unexpected attempt bookkeeping: %+v", it)
					}
					return it, nil
				},
			),
			sender.EXPECT().Send(gomock.Any(), "m1@test.com", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
			repo.EXPECT().Update(gomock.Any(), gomock.AssignableToTypeOf(entities.EmailQueueItem{})).DoAndReturn(
				func(_ context.Context, it entities.EmailQueueItem) (entities.EmailQueueItem, error) {
					if it.Status != entities.EmailQueueStatusSent || it.SentAt == nil || it.ErrorMessage != "" {
						t.Fatalf("unexpected sent state: %+v", it)
					}
					return it, nil
				},
			),
		)

		result, err := uc.ProcessQueue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Sent != 1 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("delivery failure reschedules with backoff", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(repo, sender)

		item := queuedItem("m1")
		item.Attempts = 1
		repo.EXPECT().ListPendingDue(gomock.Any(), gomock.Any(), 50).Return([]entities.EmailQueueItem{item}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.EmailQueueItem{}, nil)
		sender.EXPECT().Send(gomock.Any(), "m1@test.com", gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
		repo.EXPECT().Update(gomock.Any(), gomock.AssignableToTypeOf(entities.EmailQueueItem{})).DoAndReturn(
			func(_ context.Context, it entities.EmailQueueItem) (entities.EmailQueueItem, error) {
				if it.Status != entities.EmailQueueStatusPending || it.Attempts != 2 {
					t.Fatalf("unexpected reschedule state: %+v", it)
				}
				if it.ErrorMessage != "smtp down" {
					t.Fatalf("expected failure reason recorded: %+v", it)
				}
				if it.LastAttemptAt == nil || !it.ScheduledFor.Equal(it.LastAttemptAt.Add(5*time.Minute)) {
					t.Fatalf("expected 5 minute backoff, got %+v", it)
				}
				return it, nil
			},
		)

		result, err := uc.ProcessQueue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Processed != 1 || result.Failed != 1 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("last attempt fails terminally", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(repo, sender)

		item := queuedItem("m1")
		item.Attempts = 2
		scheduledBefore := item.ScheduledFor
		repo.EXPECT().ListPendingDue(gomock.Any(), gomock.Any(), 50).Return([]entities.EmailQueueItem{item}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.EmailQueueItem{}, nil)
		sender.EXPECT().Send(gomock.Any(), "m1@test.com", gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
		repo.EXPECT().Update(gomock.Any(), gomock.AssignableToTypeOf(entities.EmailQueueItem{})).DoAndReturn(
			func(_ context.Context, it entities.EmailQueueItem) (entities.EmailQueueItem, error) {
				if it.Status != entities.EmailQueueStatusFailed || it.Attempts != 3 {
					t.Fatalf("expected terminal failure, got %+v", it)
				}
				if !it.ScheduledFor.Equal(scheduledBefore) {
					t.Fatalf("terminal failure must not reschedule: %+v", it)
				}
				return it, nil
			},
		)

		result, err := uc.ProcessQueue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Failed != 1 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("bookkeeping failure skips the send", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(repo, sender)

		repo.EXPECT().ListPendingDue(gomock.Any(), gomock.Any(), 50).Return([]entities.EmailQueueItem{queuedItem("m1")}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.EmailQueueItem{}, errors.New("db"))

		result, err := uc.ProcessQueue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Processed != 1 || result.Failed != 1 || result.Sent != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("one bad item does not stop the batch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(repo, sender)

		repo.EXPECT().ListPendingDue(gomock.Any(), gomock.Any(), 50).Return([]entities.EmailQueueItem{queuedItem("m1"), queuedItem("m2")}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.EmailQueueItem{}, nil).Times(4)
		sender.EXPECT().Send(gomock.Any(), "m1@test.com", gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("bounce"))
		sender.EXPECT().Send(gomock.Any(), "m2@test.com", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := uc.ProcessQueue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Processed != 2 || result.Sent != 1 || result.Failed != 1 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("batch size comes from the environment", func(t *testing.T) {
		t.Setenv("EMAIL_DISPATCH_BATCH_SIZE", "10")
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIEmailQueueRepository(ctrl)
		sender := mock_interfaces.NewMockIEmailSender(ctrl)
		uc := NewEmailDispatchUseCase(repo, sender)

		repo.EXPECT().ListPendingDue(gomock.Any(), gomock.Any(), 10).Return(nil, nil)

		result, err := uc.ProcessQueue(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Processed != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})
}

func TestFormatRecipient(t *testing.T) {
	item := queuedItem("m1")
	if got := formatRecipient(item); got != "m1@test.com" {
		t.Fatalf("expected bare address, got %q", got)
	}

	item.RecipientName = "Maria Silva"
	if got := formatRecipient(item); got != "Maria Silva <m1@test.com>" {
		t.Fatalf("expected named address, got %q", got)
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("EMAIL_DISPATCH_BATCH_SIZE", "")
	if got := getenvInt("EMAIL_DISPATCH_BATCH_SIZE", 50); got != 50 {
		t.Fatalf("expected default, got %d", got)
	}

	t.Setenv("EMAIL_DISPATCH_BATCH_SIZE", "abc")
	if got := getenvInt("EMAIL_DISPATCH_BATCH_SIZE", 50); got != 50 {
		t.Fatalf("expected default on garbage, got %d", got)
	}

	t.Setenv("EMAIL_DISPATCH_BATCH_SIZE", "-1")
	if got := getenvInt("EMAIL_DISPATCH_BATCH_SIZE", 50); got != 50 {
		t.Fatalf("expected default on non-positive, got %d", got)
	}

	t.Setenv("EMAIL_DISPATCH_BATCH_SIZE", "25")
	if got := getenvInt("EMAIL_DISPATCH_BATCH_SIZE", 50); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
}
