package domain

import "time"

// Session is one signed-in device: the stored refresh token plus the push
// attachment riding on it. A user logged in on three devices has three
// session rows, each with at most one attachment.
type Session struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	RefreshToken string    `json:"-" gorm:"uniqueIndex;not null"`
	UserID       string    `json:"user_id" gorm:"index;not null"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`

	// Push attachment. Empty PushToken means no attachment.
	PushAppName  string `json:"push_app_name,omitempty"`
	PushPlatform string `json:"push_platform,omitempty"`
	PushToken    string `json:"-" gorm:"index"`
}

// HasAttachment reports whether the session carries a push attachment.
func (s *Session) HasAttachment() bool {
	return s.PushToken != ""
}

// AttachmentEquals reports whether the session already carries exactly this
// attachment, which makes re-registration a no-op.
func (s *Session) AttachmentEquals(appName, platform, token string) bool {
	return s.PushAppName == appName && s.PushPlatform == platform && s.PushToken == token
}
