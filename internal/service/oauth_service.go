package service

import (
	"context"
	"strings"
	"time"

	"github.com/creativityhunt/creahunt/internal/model"
	"github.com/creativityhunt/creahunt/internal/oauth"
	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
	"github.com/creativityhunt/creahunt/internal/pkg/timeutil"
	"github.com/creativityhunt/creahunt/internal/pkg/token"
	"github.com/creativityhunt/creahunt/internal/repo"
)

type OAuthService struct {
	users      *repo.UserRepo
	accounts   *repo.OAuthRepo
	secret     []byte
	sessionTTL time.Duration
	providers  map[string]oauth.Provider
}

func NewOAuthService(users *repo.UserRepo, accounts *repo.OAuthRepo, secret []byte, sessionTTL time.Duration, providers map[string]oauth.Provider) *OAuthService {
	if providers == nil {
		providers = map[string]oauth.Provider{}
	}
	return &OAuthService{
		users:      users,
		accounts:   accounts,
		secret:     secret,
		sessionTTL: sessionTTL,
		providers:  providers,
	}
}

func (s *OAuthService) GetAuthURL(provider, state string) (string, error) {
	impl := s.providers[strings.ToLower(provider)]
	if impl == nil {
		return "", appErr.ErrInvalid
	}
	return impl.AuthURL(state)
}

func (s *OAuthService) ExchangeCode(ctx context.Context, provider, code string) (*oauth.Profile, error) {
	impl := s.providers[strings.ToLower(provider)]
	if impl == nil {
		return nil, appErr.ErrInvalid
	}
	return impl.ExchangeCode(ctx, code)
}

// LoginOrCreate resolves an OAuth profile to a local user: an existing
// binding wins, then an existing user with the same email is linked, and
// otherwise a fresh user is created. Name/avatar/provider/last-login are
// refreshed on every login.
func (s *OAuthService) LoginOrCreate(ctx context.Context, profile *oauth.Profile) (*model.User, string, error) {
	if profile == nil || profile.Provider == "" || profile.ProviderUserID == "" || profile.Email == "" {
		return nil, "", appErr.ErrInvalid
	}
	user, err := s.resolveUser(ctx, profile)
	if err != nil {
		return nil, "", err
	}
	now := timeutil.NowUnix()
	if err := s.users.UpdateLoginInfo(ctx, user.ID, profile.Name, profile.AvatarURL, profile.Provider, now); err != nil {
		return nil, "", err
	}
	user, err = s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	sessionToken, err := token.CreateSessionToken(user.ID, user.Email, s.secret, s.sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return user, sessionToken, nil
}

func (s *OAuthService) resolveUser(ctx context.Context, profile *oauth.Profile) (*model.User, error) {
	if account, err := s.accounts.GetByProviderUserID(ctx, profile.Provider, profile.ProviderUserID); err == nil {
		return s.users.GetByID(ctx, account.UserID)
	} else if !appErr.IsNotFound(err) {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, profile.Email)
	if appErr.IsNotFound(err) {
		now := timeutil.NowUnix()
		user = &model.User{
			ID:     newID(),
			Email:  profile.Email,
			Name:   profile.Name,
			Avatar: profile.AvatarURL,
			Ctime:  now,
			Mtime:  now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if !appErr.IsConflict(err) {
				return nil, err
			}
			// concurrent first login raced us; the row is there now
			user, err = s.users.GetByEmail(ctx, profile.Email)
			if err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	now := timeutil.NowUnix()
	account := &model.OAuthAccount{
		ID:             newID(),
		UserID:         user.ID,
		Provider:       profile.Provider,
		ProviderUserID: profile.ProviderUserID,
		Email:          profile.Email,
		Ctime:          now,
		Mtime:          now,
	}
	if err := s.accounts.Create(ctx, account); err != nil && !appErr.IsConflict(err) {
		return nil, err
	}
	return user, nil
}
