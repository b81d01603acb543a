package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creativityhunt/creahunt/internal/pkg/response"
	"github.com/creativityhunt/creahunt/internal/service"
)

type OAuthHandler struct {
	oauth      *service.OAuthService
	stateStore *oauthStateStore
}

func NewOAuthHandler(oauth *service.OAuthService) *OAuthHandler {
	return &OAuthHandler{oauth: oauth, stateStore: newOAuthStateStore()}
}

func (h *OAuthHandler) AuthURL(c *gin.Context) {
	provider := strings.ToLower(c.Param("provider"))
	state := h.stateStore.Create(provider)
	authURL, err := h.oauth.GetAuthURL(provider, state)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"url": authURL})
}

func (h *OAuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		h.redirectError(c, "invalid")
		return
	}
	provider, ok := h.stateStore.Consume(state)
	if !ok || provider != strings.ToLower(c.Param("provider")) {
		h.redirectError(c, "invalid")
		return
	}
	profile, err := h.oauth.ExchangeCode(c.Request.Context(), provider, code)
	if err != nil {
		h.redirectError(c, "exchange_failed")
		return
	}
	user, token, err := h.oauth.LoginOrCreate(c.Request.Context(), profile)
	if err != nil {
		h.redirectError(c, "login_failed")
		return
	}
	redirect := "/oauth/callback?token=" + url.QueryEscape(token) +
		"&email=" + url.QueryEscape(user.Email) +
		"&provider=" + url.QueryEscape(provider)
	c.Redirect(http.StatusFound, redirect)
}

func (h *OAuthHandler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, "/oauth/callback?error="+url.QueryEscape(code))
}

// oauthStateStore hands out consume-once states with a short TTL to tie a
// callback to the browser that started the flow.
type oauthStateStore struct {
	mu    sync.Mutex
	items map[string]oauthState
}

type oauthState struct {
	Provider  string
	ExpiresAt time.Time
}

func newOAuthStateStore() *oauthStateStore {
	return &oauthStateStore{items: make(map[string]oauthState)}
}

func (s *oauthStateStore) Create(provider string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()
	state := randomState()
	s.items[state] = oauthState{
		Provider:  provider,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	return state
}

func (s *oauthStateStore) Consume(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()
	item, ok := s.items[state]
	if !ok {
		return "", false
	}
	delete(s.items, state)
	if time.Now().After(item.ExpiresAt) {
		return "", false
	}
	return item.Provider, true
}

func (s *oauthStateStore) cleanupLocked() {
	if len(s.items) == 0 {
		return
	}
	now := time.Now()
	for key, item := range s.items {
		if now.After(item.ExpiresAt) {
			delete(s.items, key)
		}
	}
}

func randomState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
