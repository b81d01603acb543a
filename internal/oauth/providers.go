package oauth

import (
	"net/http"
	"time"
)

type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

type ProviderArgs struct {
	Config ProviderConfig
	Client *http.Client
}

func (a ProviderArgs) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}
