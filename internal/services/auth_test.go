package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitearchive/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionIssuer implements domain.SessionIssuer for tests.
type fakeSessionIssuer struct {
	calls  int
	issued time.Time
	err    error
}

func (f *fakeSessionIssuer) Issue(now time.Time) (*domain.AdminSession, error) {
	f.calls++
	f.issued = now
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AdminSession{Token: "tok", ExpiresAt: now.Add(10 * time.Minute)}, nil
}

// fakeChecker accepts exactly secret; an empty secret accepts nothing.
type fakeChecker struct {
	secret string
	calls  int
}

func (f *fakeChecker) Check(password string) bool {
	f.calls++
	return f.secret != "" && password == f.secret
}

func TestAdminAuthService_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		password   string
		issuerErr  error
		wantErr    error
		wantAnyErr bool
		wantIssue  bool
	}{
		{name: "correct password", secret: "s3cret", password: "s3cret", wantIssue: true},
		{name: "wrong password", secret: "s3cret", password: "s3cre", wantErr: domain.ErrUnauthorized},
		{name: "wrong case", secret: "s3cret", password: "S3CRET", wantErr: domain.ErrUnauthorized},
		{name: "empty password", secret: "s3cret", password: "", wantErr: domain.ErrUnauthorized},
		{name: "no secret configured", secret: "", password: "anything", wantErr: domain.ErrUnauthorized},
		{name: "both empty", secret: "", password: "", wantErr: domain.ErrUnauthorized},
		{name: "issuer failure", secret: "s3cret", password: "s3cret", issuerErr: errors.New("sign"), wantAnyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := &fakeSessionIssuer{err: tt.issuerErr}
			checker := &fakeChecker{secret: tt.secret}
			svc := NewAdminAuthService(checker, issuer)
			fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			svc.(*adminAuthService).now = func() time.Time { return fixed }

			session, err := svc.Authenticate(context.Background(), tt.password)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				assert.Zero(t, issuer.calls, "no session issued")
				if tt.password == "" {
					assert.Zero(t, checker.calls, "empty password is rejected before the check")
				}
			case tt.wantAnyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, domain.ErrUnauthorized)
			default:
				require.NoError(t, err)
				require.NotNil(t, session)
				assert.Equal(t, "tok", session.Token)
				assert.Equal(t, fixed, issuer.issued)
			}
		})
	}
}
