package domain

// FeedFilter narrows the social feed.
type FeedFilter string

const (
	FeedAll       FeedFilter = "all"
	FeedBusiness  FeedFilter = "business"
	FeedVolunteer FeedFilter = "volunteer"
	FeedGuide     FeedFilter = "guide"
	FeedVIP       FeedFilter = "vip"
)

// Post is an entry of the social feed.
type Post struct {
	ID              FlexID          `json:"id"`
	AuthorID        FlexID          `json:"authorId"`
	AuthorName      string          `json:"authorName,omitempty"`
	AuthorAvatarURL string          `json:"authorAvatarUrl,omitempty"`
	RoleTags        []string        `json:"roleTags,omitempty"`
	Content         string          `json:"content"`
	Media           []EncryptedFile `json:"media,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	Likes           int             `json:"likes,omitempty"`
	CommentsCount   int             `json:"commentsCount,omitempty"`
}

// FeedQuery is a page-numbered feed request.
type FeedQuery struct {
	Page     int
	PageSize int
	Filter   FeedFilter
}

type NewPost struct {
	Content  string          `json:"content" validate:"required"`
	Media    []EncryptedFile `json:"media,omitempty"`
	RoleTags []string        `json:"roleTags,omitempty"`
}

type VolunteerOffer struct {
	Skills       string `json:"skills" validate:"required"`
	Availability string `json:"availability,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type VolunteerRequest struct {
	BusinessID *FlexID `json:"businessId,omitempty"`
	Need       string  `json:"need" validate:"required"`
	Details    string  `json:"details,omitempty"`
}

type GuideContact struct {
	Topic         string `json:"topic" validate:"required"`
	Message       string `json:"message" validate:"required"`
	PreferredDate string `json:"preferredDate,omitempty"`
}

type InspectionRequest struct {
	TargetType string  `json:"targetType" validate:"required,oneof=business location"`
	TargetID   *FlexID `json:"targetId,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// SearchResult is a hit of the global search box.
type SearchResult struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Route    string `json:"route"`
}
