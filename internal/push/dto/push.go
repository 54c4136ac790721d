package dto

import pushdomain "pushgate-backend/internal/push/domain"

// UpdateTokenRequest is the registration call sent by the client after it
// obtains a token from the push service.
type UpdateTokenRequest struct {
	AppName     string `json:"app_name" binding:"required"`
	Platform    string `json:"platform" binding:"required,oneof=android ios web"`
	Token       string `json:"token" binding:"required"`
	Unsubscribe bool   `json:"unsubscribe"`
}

// SendRequest is the notification submission call. Exactly one of token,
// tokens, user_id, user_ids or topic must be set.
type SendRequest struct {
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Icon           string            `json:"icon"`
	Color          string            `json:"color"`
	Sound          string            `json:"sound"`
	Badge          *int              `json:"badge"`
	WebBadge       string            `json:"web_badge"`
	Action         string            `json:"action"`
	Tag            string            `json:"tag"`
	ChannelID      string            `json:"channel_id"`
	Priority       string            `json:"priority"`
	Visibility     string            `json:"visibility"`
	Image          string            `json:"image"`
	ImageType      string            `json:"image_type"`
	Picture        string            `json:"picture"`
	LaunchImage    string            `json:"launch_image"`
	SummaryText    string            `json:"summary_text"`
	Style          string            `json:"style"`
	AnalyticsLabel string            `json:"analytics_label"`
	Data           map[string]string `json:"data"`
	AndroidData    map[string]string `json:"android_data"`
	IOSData        map[string]string `json:"ios_data"`
	WebData        map[string]string `json:"web_data"`

	Token   string   `json:"token"`
	Tokens  []string `json:"tokens"`
	UserID  string   `json:"user_id"`
	UserIDs []string `json:"user_ids"`
	Topic   string   `json:"topic"`
}

// ToNotification maps the request onto the internal descriptor.
func (r *SendRequest) ToNotification() *pushdomain.Notification {
	return &pushdomain.Notification{
		Title:          r.Title,
		Body:           r.Body,
		Icon:           r.Icon,
		Color:          r.Color,
		Sound:          r.Sound,
		Badge:          r.Badge,
		WebBadge:       r.WebBadge,
		Action:         r.Action,
		Tag:            r.Tag,
		ChannelID:      r.ChannelID,
		Priority:       r.Priority,
		Visibility:     r.Visibility,
		Image:          r.Image,
		ImageType:      r.ImageType,
		Picture:        r.Picture,
		LaunchImage:    r.LaunchImage,
		SummaryText:    r.SummaryText,
		Style:          r.Style,
		AnalyticsLabel: r.AnalyticsLabel,
		Data:           r.Data,
		AndroidData:    r.AndroidData,
		IOSData:        r.IOSData,
		WebData:        r.WebData,
		Token:          r.Token,
		Tokens:         r.Tokens,
		UserID:         r.UserID,
		UserIDs:        r.UserIDs,
		Topic:          r.Topic,
	}
}
