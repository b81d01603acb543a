package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/creativityhunt/creahunt/internal/model"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
	"github.com/creativityhunt/creahunt/internal/pkg/password"
	"github.com/creativityhunt/creahunt/internal/pkg/timeutil"
	"github.com/creativityhunt/creahunt/internal/pkg/token"
)

const (
	verificationTTL = 10 * time.Minute
	nameChars       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the narrow slice of the user repository the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, userID string) (*model.User, error)
	UpdateLoginInfo(ctx context.Context, userID string, name, avatar, provider string, loginAt int64) error
}

// AuthService sequences the code sign-in flow: request code, verify code,
// issue session. The challenge lives entirely inside the signed verification
// token the client echoes back, so no server-side state is kept between the
// two steps.
type AuthService struct {
	users      UserStore
	sender     EmailSender
	secret     []byte
	sessionTTL time.Duration
}

func NewAuthService(users UserStore, sender EmailSender, secret []byte, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sender:     sender,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// SendSigninCode generates a fresh 6-digit code, mails it and returns the
// signed verification token the client must echo back on the verify step.
func (s *AuthService) SendSigninCode(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", appErr.ErrInvalid
	}
	if err := s.sender.VerifyConfig(); err != nil {
		return "", appErr.ErrMailUnavailable
	}
	code := s.generateCode()
	verificationToken, err := token.CreateVerificationToken(email, code, token.PurposeSignin, s.secret, verificationTTL)
	if err != nil {
		return "", err
	}
	subject := "Your Creativity Hunt sign-in code"
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(verificationTTL.Minutes()))
	if err := s.sender.Send(email, subject, body); err != nil {
		logutil.GetLogger(ctx).Error("send verification mail failed", zap.String("email", email), zap.Error(err))
		return "", appErr.ErrMailSendFailed
	}
	return verificationToken, nil
}

// VerifySigninCode checks the echoed token+code and authenticates the user,
// creating the account on first sign-in. Replaying a valid unexpired
// token+code yields the same user, not a duplicate.
func (s *AuthService) VerifySigninCode(ctx context.Context, email, code, verificationToken string) (*model.User, string, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || verificationToken == "" {
		return nil, "", appErr.ErrInvalid
	}
	if err := token.VerifyVerificationToken(verificationToken, email, code, token.PurposeSignin, s.secret); err != nil {
		// internal detail stays in the log; the caller only ever sees
		// the generic failure
		logutil.GetLogger(ctx).Info("verification rejected", zap.String("email", email), zap.Error(err))
		return nil, "", appErr.ErrInvalidVerification
	}
	user, err := s.upsertByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if err := s.users.UpdateLoginInfo(ctx, user.ID, "", "", "", timeutil.NowUnix()); err != nil {
		logutil.GetLogger(ctx).Warn("update login info failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	sessionToken, err := token.CreateSessionToken(user.ID, user.Email, s.secret, s.sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return user, sessionToken, nil
}

// Signup registers an email/password account.
func (s *AuthService) Signup(ctx context.Context, name, email, plainPassword string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return nil, appErr.ErrInvalid
	}
	if len(name) < 2 {
		return nil, appErr.ErrInvalid
	}
	if len(plainPassword) < 6 {
		return nil, appErr.ErrInvalid
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// upsertByEmail resolves the create/lookup race on the unique email index:
// the loser of a concurrent insert re-fetches instead of failing.
func (s *AuthService) upsertByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !appErr.IsNotFound(err) {
		return nil, err
	}
	now := timeutil.NowUnix()
	user = &model.User{
		ID:    newID(),
		Email: email,
		Name:  s.placeholderName(),
		Ctime: now,
		Mtime: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if appErr.IsConflict(err) {
			return s.users.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) generateCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%06d", 100000+rng.Intn(900000))
}

func (s *AuthService) placeholderName() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = nameChars[rng.Intn(len(nameChars))]
	}
	return "User_" + string(buf)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
