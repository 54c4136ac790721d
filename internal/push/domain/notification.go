package domain

// Notification is the generic descriptor handed to the delivery pipeline.
// Exactly one of Token, Tokens, UserID, UserIDs or Topic must be set; the
// caller is responsible for that, the pipeline rejects descriptors with no
// recipient before any I/O.
type Notification struct {
	Title          string
	Body           string
	Icon           string
	Color          string
	Sound          string
	Badge          *int
	WebBadge       string
	Action         string
	Tag            string
	ChannelID      string
	Priority       string
	Visibility     string
	Image          string
	ImageType      string
	Picture        string
	LaunchImage    string
	SummaryText    string
	Style          string
	AnalyticsLabel string

	// Data is merged into every platform payload; the per-platform maps
	// override it for their platform only.
	Data        map[string]string
	AndroidData map[string]string
	IOSData     map[string]string
	WebData     map[string]string

	// Recipient specification.
	Token   string
	Tokens  []string
	UserID  string
	UserIDs []string
	Topic   string
}

// RecipientResult is the per-recipient outcome of one delivery attempt.
type RecipientResult struct {
	Token     string `json:"token,omitempty"`
	Topic     string `json:"topic,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DeliveryReport summarizes one Send call.
type DeliveryReport struct {
	SuccessCount int               `json:"success_count"`
	FailureCount int               `json:"failure_count"`
	Results      []RecipientResult `json:"results"`
}

// Empty reports whether the send resolved to no recipients at all.
func (r *DeliveryReport) Empty() bool {
	return len(r.Results) == 0
}
