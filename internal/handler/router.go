package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creativityhunt/creahunt/internal/middleware"
)

type RouterDeps struct {
	Auth       *AuthHandler
	OAuth      *OAuthHandler
	Tools      *ToolHandler
	Categories *CategoryHandler
	Assets     *AssetHandler
	JWTSecret  []byte
	// SigninInterval throttles POST /auth/signin per client. Zero selects
	// the default interval; a negative value disables throttling.
	SigninInterval time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	interval := deps.SigninInterval
	if interval == 0 {
		interval = 2 * time.Second
	}
	signin := []gin.HandlerFunc{deps.Auth.Signin}
	if interval > 0 {
		signin = append([]gin.HandlerFunc{middleware.RateLimit(interval)}, signin...)
	}
	api.POST("/auth/signin", signin...)
	api.POST("/auth/signup", deps.Auth.Signup)
	api.POST("/auth/logout", deps.Auth.Logout)

	api.GET("/oauth/:provider/url", deps.OAuth.AuthURL)
	api.GET("/oauth/:provider/callback", deps.OAuth.Callback)

	api.GET("/categories", deps.Categories.List)
	api.GET("/tools", deps.Tools.List)
	api.GET("/tools/featured", deps.Tools.Featured)
	api.GET("/tools/:slug", deps.Tools.Get)
	api.GET("/assets/:key", deps.Assets.Get)

	authGroup := api.Group("")
	authGroup.Use(middleware.SessionAuth(deps.JWTSecret))
	authGroup.GET("/auth/me", deps.Auth.Me)
	authGroup.POST("/assets/upload", deps.Assets.Upload)
}
