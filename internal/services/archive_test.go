package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"sitearchive/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeArchiveRepo implements domain.ArchiveRepository in memory.
type fakeArchiveRepo struct {
	mu          sync.Mutex
	records     []*domain.EmailRecord
	now         time.Time
	schemaCalls int
	insertCalls int
	listCalls   int
	schemaErr   error
	insertErr   error
	listErr     error
}

func (f *fakeArchiveRepo) EnsureSchema(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schemaCalls++
	return f.schemaErr
}

func (f *fakeArchiveRepo) Insert(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return false, f.insertErr
	}
	for _, r := range f.records {
		if r.Email == email {
			return false, nil
		}
	}
	f.now = f.now.Add(time.Second)
	f.records = append(f.records, domain.NewEmailRecord(email, f.now))
	return true, nil
}

func (f *fakeArchiveRepo) ListAll(ctx context.Context) ([]*domain.EmailRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.EmailRecord, 0, len(f.records))
	for i := len(f.records) - 1; i >= 0; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

// fakeEmailService implements domain.EmailService for tests.
type fakeEmailService struct {
	sent []string
	err  error
}

func (f *fakeEmailService) SendArchiveWelcome(ctx context.Context, data *domain.ArchiveWelcomeEmailData) error {
	f.sent = append(f.sent, data.Email)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestArchiveService_Capture(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		emails      []string
		repo        *fakeArchiveRepo
		wantErr     error
		wantAnyErr  bool
		wantStored  []string
		wantWelcome []string
	}{
		{
			name:        "stores normalized email",
			emails:      []string{" User@Example.com "},
			repo:        &fakeArchiveRepo{},
			wantStored:  []string{"user@example.com"},
			wantWelcome: []string{"user@example.com"},
		},
		{
			name:        "duplicate after normalization is a no-op",
			emails:      []string{"Foo@Bar.com", "foo@bar.com"},
			repo:        &fakeArchiveRepo{},
			wantStored:  []string{"foo@bar.com"},
			wantWelcome: []string{"foo@bar.com"},
		},
		{
			name:    "invalid email rejected",
			emails:  []string{"not-an-email"},
			repo:    &fakeArchiveRepo{},
			wantErr: domain.ErrInvalidEmail,
		},
		{
			name:    "empty email rejected",
			emails:  []string{"   "},
			repo:    &fakeArchiveRepo{},
			wantErr: domain.ErrInvalidEmail,
		},
		{
			name:    "missing tld rejected",
			emails:  []string{"a@b"},
			repo:    &fakeArchiveRepo{},
			wantErr: domain.ErrInvalidEmail,
		},
		{
			name:       "schema error propagates",
			emails:     []string{"a@b.co"},
			repo:       &fakeArchiveRepo{schemaErr: errors.New("connection refused")},
			wantAnyErr: true,
		},
		{
			name:       "insert error propagates",
			emails:     []string{"a@b.co"},
			repo:       &fakeArchiveRepo{insertErr: errors.New("disk full")},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mail := &fakeEmailService{}
			svc := NewArchiveService(tt.repo, mail, discardLogger())

			var err error
			for _, e := range tt.emails {
				if err = svc.Capture(ctx, e); err != nil {
					break
				}
			}

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, tt.repo.schemaCalls, "no storage access on invalid input")
				assert.Zero(t, tt.repo.insertCalls, "no storage access on invalid input")
				assert.Empty(t, tt.repo.records)
			case tt.wantAnyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, domain.ErrInvalidEmail)
				assert.Empty(t, mail.sent)
			default:
				require.NoError(t, err)
				stored := make([]string, 0, len(tt.repo.records))
				for _, r := range tt.repo.records {
					stored = append(stored, r.Email)
				}
				assert.Equal(t, tt.wantStored, stored)
				assert.Equal(t, tt.wantWelcome, mail.sent)
				assert.Equal(t, len(tt.emails), tt.repo.schemaCalls, "schema ensured on every capture")
			}
		})
	}
}

func TestArchiveService_Capture_welcomeFailureIsIgnored(t *testing.T) {
	repo := &fakeArchiveRepo{}
	mail := &fakeEmailService{err: errors.New("ses throttled")}
	svc := NewArchiveService(repo, mail, discardLogger())

	require.NoError(t, svc.Capture(context.Background(), "a@b.co"))
	assert.Len(t, repo.records, 1)
	assert.Equal(t, []string{"a@b.co"}, mail.sent)
}

func TestArchiveService_Capture_nilEmailService(t *testing.T) {
	repo := &fakeArchiveRepo{}
	svc := NewArchiveService(repo, nil, discardLogger())

	require.NoError(t, svc.Capture(context.Background(), "a@b.co"))
	assert.Len(t, repo.records, 1)
}

func TestArchiveService_List(t *testing.T) {
	ctx := context.Background()
	repo := &fakeArchiveRepo{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewArchiveService(repo, nil, discardLogger())

	for _, e := range []string{"one@x.io", "two@x.io", "three@x.io"} {
		require.NoError(t, svc.Capture(ctx, e))
	}

	records, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "three@x.io", records[0].Email)
	assert.Equal(t, "two@x.io", records[1].Email)
	assert.Equal(t, "one@x.io", records[2].Email)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
	assert.Equal(t, 4, repo.schemaCalls)
}

func TestArchiveService_List_storageError(t *testing.T) {
	repo := &fakeArchiveRepo{listErr: errors.New("boom")}
	svc := NewArchiveService(repo, nil, discardLogger())

	records, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Nil(t, records)
}
