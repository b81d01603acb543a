package model

// PasswordHash is never serialized; credential material stays server-side.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Avatar       string `json:"avatar"`
	Provider     string `json:"provider"`
	LastLoginAt  int64  `json:"last_login_at"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}
