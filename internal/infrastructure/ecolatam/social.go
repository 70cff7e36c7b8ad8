package ecolatam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

const defaultFeedPageSize = 20

// SocialClient serves the community feed and the role request forms. Feed
// answers are accepted bare or enveloped.
type SocialClient struct {
	backend Backend
}

func NewSocialClient(backend Backend) *SocialClient {
	return &SocialClient{backend: backend}
}

func (c *SocialClient) Feed(ctx context.Context, q domain.FeedQuery) ([]domain.Post, error) {
	q = feedDefaults(q)
	return c.posts(ctx, "/posts", restclient.Params{
		"page":     q.Page,
		"pageSize": q.PageSize,
		"filter":   string(q.Filter),
	})
}

func (c *SocialClient) VIPFeed(ctx context.Context, q domain.FeedQuery) ([]domain.Post, error) {
	q = feedDefaults(q)
	return c.posts(ctx, "/vip/posts", restclient.Params{"page": q.Page, "pageSize": q.PageSize})
}

func (c *SocialClient) posts(ctx context.Context, path string, params restclient.Params) ([]domain.Post, error) {
	resp, err := c.backend.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.Post](resp.Body)
}

func (c *SocialClient) CreatePost(ctx context.Context, post domain.NewPost) (*domain.Post, error) {
	resp, err := c.backend.Post(ctx, "/posts", post)
	if err != nil {
		return nil, err
	}
	var created domain.Post
	if err := json.Unmarshal([]byte(unwrapBody(resp.Body).Raw), &created); err != nil {
		return nil, fmt.Errorf("POST /posts: %w: %v", domain.ErrUnexpectedShape, err)
	}
	return &created, nil
}

// Like returns the post's like count after the like.
func (c *SocialClient) Like(ctx context.Context, postID string) (int, error) {
	resp, err := c.backend.Post(ctx, "/posts/"+url.PathEscape(postID)+"/like", struct{}{})
	if err != nil {
		return 0, err
	}
	likes := unwrapBody(resp.Body).Get("likes")
	if !likes.Exists() {
		return 0, fmt.Errorf("POST /posts/%s/like: %w", postID, domain.ErrUnexpectedShape)
	}
	return int(likes.Int()), nil
}

func (c *SocialClient) OfferVolunteer(ctx context.Context, offer domain.VolunteerOffer) (json.RawMessage, error) {
	return c.form(ctx, "/volunteer", offer)
}

func (c *SocialClient) RequestVolunteers(ctx context.Context, req domain.VolunteerRequest) (json.RawMessage, error) {
	return c.form(ctx, "/volunteer/requests", req)
}

func (c *SocialClient) ContactGuide(ctx context.Context, contact domain.GuideContact) (json.RawMessage, error) {
	return c.form(ctx, "/tour_guide/contact", contact)
}

func (c *SocialClient) RequestInspection(ctx context.Context, req domain.InspectionRequest) (json.RawMessage, error) {
	return c.form(ctx, "/inspector/requests", req)
}

// form posts a role request and hands back the answer untouched. Non-JSON
// answers are returned as a JSON string.
func (c *SocialClient) form(ctx context.Context, path string, body any) (json.RawMessage, error) {
	resp, err := c.backend.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return json.RawMessage("null"), nil
	}
	if json.Valid(resp.Body) {
		return json.RawMessage(resp.Body), nil
	}
	quoted, err := json.Marshal(resp.Text())
	if err != nil {
		return nil, err
	}
	return quoted, nil
}

func feedDefaults(q domain.FeedQuery) domain.FeedQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultFeedPageSize
	}
	if q.Filter == "" {
		q.Filter = domain.FeedAll
	}
	return q
}
