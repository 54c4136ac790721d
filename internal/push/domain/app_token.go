package domain

import "time"

// Platform identifiers as reported by the registering client.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformWeb     = "web"
)

// AppToken is an anonymous registry entry: a push endpoint registered while
// no user was signed in. Once the device authenticates, the token moves onto
// the session record and the AppToken row is removed.
type AppToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	AppName   string    `json:"app_name" gorm:"uniqueIndex:idx_app_tokens_app_token;not null"`
	Platform  string    `json:"platform" gorm:"not null"`
	Token     string    `json:"-" gorm:"uniqueIndex:idx_app_tokens_app_token;index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
