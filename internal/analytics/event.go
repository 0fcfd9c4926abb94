package analytics

import "time"

// Topics for link lifecycle events.
const (
	TopicLinkCreated  = "links.created"
	TopicLinkResolved = "links.resolved"
)

// LinkCreatedEvent is emitted when a URL is shortened.
type LinkCreatedEvent struct {
	EventID   string    `json:"eventId"`
	Code      string    `json:"code"`
	ShortURL  string    `json:"shortUrl"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// LinkResolvedEvent is emitted when a short link is followed.
type LinkResolvedEvent struct {
	EventID    string    `json:"eventId"`
	Code       string    `json:"code"`
	ResolvedAt time.Time `json:"resolvedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}
