package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/creativityhunt/creahunt/internal/model"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
)

type memoryUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
	creates int
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{byEmail: map[string]*model.User{}}
}

func (m *memoryUserStore) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return appErr.ErrConflict
	}
	clone := *user
	m.byEmail[user.Email] = &clone
	m.creates++
	return nil
}

func (m *memoryUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[email]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memoryUserStore) GetByID(ctx context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ID == userID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (m *memoryUserStore) UpdateLoginInfo(ctx context.Context, userID string, name, avatar, provider string, loginAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byEmail {
		if user.ID == userID {
			user.LastLoginAt = loginAt
			return nil
		}
	}
	return appErr.ErrNotFound
}

type recordingSender struct {
	mu        sync.Mutex
	lastBody  string
	sendErr   error
	configErr error
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return r.sendErr
	}
	r.lastBody = body
	return nil
}

func (r *recordingSender) VerifyConfig() error {
	return r.configErr
}

var codeRegex = regexp.MustCompile(`\d{6}`)

func (r *recordingSender) sentCode() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return codeRegex.FindString(r.lastBody)
}

func newTestAuthService(store *memoryUserStore, sender *recordingSender) *AuthService {
	return NewAuthService(store, sender, []byte("test-secret"), time.Hour)
}

func TestSigninHappyPath(t *testing.T) {
	ctx := context.Background()
	store := newMemoryUserStore()
	sender := &recordingSender{}
	svc := newTestAuthService(store, sender)

	verificationToken, err := svc.SendSigninCode(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, verificationToken)
	code := sender.sentCode()
	require.Len(t, code, 6)

	user, sessionToken, err := svc.VerifySigninCode(ctx, "a@b.com", code, verificationToken)
	require.NoError(t, err)
	require.NotEmpty(t, sessionToken)
	require.Equal(t, "a@b.com", user.Email)
	require.Regexp(t, `^User_[a-zA-Z0-9]{6}$`, user.Name)
}

func TestSigninIdempotentUpsert(t *testing.T) {
	ctx := context.Background()
	store := newMemoryUserStore()
	sender := &recordingSender{}
	svc := newTestAuthService(store, sender)

	verificationToken, err := svc.SendSigninCode(ctx, "a@b.com")
	require.NoError(t, err)
	code := sender.sentCode()

	first, _, err := svc.VerifySigninCode(ctx, "a@b.com", code, verificationToken)
	require.NoError(t, err)
	second, _, err := svc.VerifySigninCode(ctx, "a@b.com", code, verificationToken)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, store.creates)
}

func TestSigninWrongCodeCreatesNoUser(t *testing.T) {
	ctx := context.Background()
	store := newMemoryUserStore()
	sender := &recordingSender{}
	svc := newTestAuthService(store, sender)

	verificationToken, err := svc.SendSigninCode(ctx, "a@b.com")
	require.NoError(t, err)
	code := sender.sentCode()
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, _, err = svc.VerifySigninCode(ctx, "a@b.com", wrong, verificationToken)
	require.ErrorIs(t, err, appErr.ErrInvalidVerification)
	require.Equal(t, 0, store.creates)
}

func TestSigninMissingParams(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(newMemoryUserStore(), &recordingSender{})
	_, _, err := svc.VerifySigninCode(ctx, "a@b.com", "123456", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, _, err = svc.VerifySigninCode(ctx, "", "123456", "tok")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, _, err = svc.VerifySigninCode(ctx, "a@b.com", "", "tok")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestSendCodeMailerUnavailable(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{configErr: appErr.ErrMailUnavailable}
	svc := newTestAuthService(newMemoryUserStore(), sender)
	_, err := svc.SendSigninCode(ctx, "a@b.com")
	require.ErrorIs(t, err, appErr.ErrMailUnavailable)
}

func TestSendCodeDispatchFailure(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{sendErr: errors.New("smtp down")}
	svc := newTestAuthService(newMemoryUserStore(), sender)
	_, err := svc.SendSigninCode(ctx, "a@b.com")
	require.ErrorIs(t, err, appErr.ErrMailSendFailed)
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(newMemoryUserStore(), &recordingSender{})

	_, err := svc.Signup(ctx, "ab", "not-an-email", "secret1")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.Signup(ctx, "a", "a@b.com", "secret1")
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.Signup(ctx, "ab", "a@b.com", "short")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	user, err := svc.Signup(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEmpty(t, user.PasswordHash)

	_, err = svc.Signup(ctx, "Alice", "alice@example.com", "secret1")
	require.ErrorIs(t, err, appErr.ErrConflict)
}

func TestSignupEmailNormalized(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(newMemoryUserStore(), &recordingSender{})
	user, err := svc.Signup(ctx, "Alice", "  ALICE@Example.COM ", "secret1")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
}
