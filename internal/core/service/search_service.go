package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/pkg/metrics"
)

const (
	searchSourceLimit = 100
	searchMaxResults  = 10
)

const (
	ResultBusiness = "negocio"
	ResultProduct  = "producto"
	ResultService  = "servicio"
	ResultUser     = "usuario"
)

// candidate is a searchable entry: the result it produces and the texts it
// is matched on.
type candidate struct {
	result domain.SearchResult
	fields []string
}

// SearchService answers the global search box with a case-insensitive
// substring match over the first page of businesses, products, services and
// users. First pages are cached per visitor.
type SearchService struct {
	ecoguia  ports.EcoguiaAPI
	users    ports.UsersAPI
	sessions ports.SessionLocator
	cache    *expirable.LRU[string, []candidate]
	log      zerolog.Logger
}

func NewSearchService(ecoguia ports.EcoguiaAPI, users ports.UsersAPI, sessions ports.SessionLocator, cacheSize int, ttl time.Duration, log zerolog.Logger) *SearchService {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	return &SearchService{
		ecoguia:  ecoguia,
		users:    users,
		sessions: sessions,
		cache:    expirable.NewLRU[string, []candidate](cacheSize, nil, ttl),
		log:      log,
	}
}

// Search returns at most ten results for term, businesses first. A blank
// term yields no results. A failing business listing fails the search; the
// other sources degrade to empty unless the backend rejected the visitor's
// credentials.
func (s *SearchService) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(term))
	if q == "" {
		return []domain.SearchResult{}, nil
	}

	owner, cacheable := s.owner(ctx)
	sources := []struct {
		name     string
		load     func(context.Context) ([]candidate, error)
		required bool
	}{
		{"business", s.loadBusinesses, true},
		{"product", s.loadProducts, false},
		{"service", s.loadServices, false},
		{"user", s.loadUsers, false},
	}

	lists := make([][]candidate, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			var (
				list []candidate
				err  error
			)
			if cacheable {
				list, err = s.cached(gctx, src.name+":"+owner, src.name, src.load)
			} else {
				list, err = src.load(gctx)
			}
			if err != nil {
				if src.required || errors.Is(err, domain.ErrUnauthenticated) {
					return fmt.Errorf("search %s: %w", src.name, err)
				}
				s.log.Debug().Err(err).Str("source", src.name).Msg("search source unavailable")
				list = nil
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, searchMaxResults)
	for _, list := range lists {
		for _, c := range list {
			if !matches(c.fields, q) {
				continue
			}
			results = append(results, c.result)
			if len(results) == searchMaxResults {
				return results, nil
			}
		}
	}
	return results, nil
}

// owner keys the cache on the visitor's user id. Visitors without one are
// not cached.
func (s *SearchService) owner(ctx context.Context) (string, bool) {
	if s.sessions == nil {
		return "", false
	}
	if sess := s.sessions(ctx); sess != nil {
		if id, ok := sess.UserID(ctx); ok {
			return strconv.FormatInt(id, 10), true
		}
	}
	return "", false
}

// cached returns the candidates under key, loading them on a miss. Failed
// loads are not cached.
func (s *SearchService) cached(ctx context.Context, key, source string, load func(context.Context) ([]candidate, error)) ([]candidate, error) {
	if list, ok := s.cache.Get(key); ok {
		metrics.SearchCacheTotal.WithLabelValues(source, "hit").Inc()
		return list, nil
	}
	metrics.SearchCacheTotal.WithLabelValues(source, "miss").Inc()

	list, err := load(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, list)
	return list, nil
}

func (s *SearchService) loadBusinesses(ctx context.Context) ([]candidate, error) {
	page, err := s.ecoguia.ListBusinesses(ctx, domain.PageQuery{Limit: searchSourceLimit})
	if err != nil {
		return nil, err
	}
	out := make([]candidate, 0, len(page.Items))
	for _, b := range page.Items {
		subtitle := b.LocationLabel
		if subtitle == "" {
			subtitle = b.CategoryLabel
		}
		out = append(out, candidate{
			result: domain.SearchResult{
				Type:     ResultBusiness,
				Title:    b.Name,
				Subtitle: subtitle,
				Route:    fmt.Sprintf("/ecoguia/%d", b.ID),
			},
			fields: []string{b.Name, b.Short, b.CategoryLabel, b.LocationLabel},
		})
	}
	return out, nil
}

func (s *SearchService) loadProducts(ctx context.Context) ([]candidate, error) {
	page, err := s.ecoguia.ListProducts(ctx, domain.PageQuery{Limit: searchSourceLimit})
	if err != nil {
		return nil, err
	}
	out := make([]candidate, 0, len(page.Items))
	for _, p := range page.Items {
		out = append(out, candidate{
			result: domain.SearchResult{
				Type:     ResultProduct,
				Title:    p.Name,
				Subtitle: p.Short,
				Route:    fmt.Sprintf("/ecoguia/product/%d", p.ID),
			},
			fields: []string{p.Name, p.Short},
		})
	}
	return out, nil
}

func (s *SearchService) loadServices(ctx context.Context) ([]candidate, error) {
	page, err := s.ecoguia.ListServices(ctx, domain.PageQuery{Limit: searchSourceLimit})
	if err != nil {
		return nil, err
	}
	out := make([]candidate, 0, len(page.Items))
	for _, sv := range page.Items {
		out = append(out, candidate{
			result: domain.SearchResult{
				Type:     ResultService,
				Title:    sv.Name,
				Subtitle: sv.Short,
				Route:    fmt.Sprintf("/ecoguia/service/%d", sv.ID),
			},
			fields: []string{sv.Name, sv.Short},
		})
	}
	return out, nil
}

func (s *SearchService) loadUsers(ctx context.Context) ([]candidate, error) {
	page, err := s.users.List(ctx, domain.UserListQuery{Limit: searchSourceLimit})
	if err != nil {
		return nil, err
	}
	out := make([]candidate, 0, len(page.Items))
	for _, u := range page.Items {
		subtitle := u.Email
		if u.Username != "" {
			subtitle = "@" + u.Username
		}
		out = append(out, candidate{
			result: domain.SearchResult{
				Type:     ResultUser,
				Title:    strings.TrimSpace(u.Name + " " + u.Lastname),
				Subtitle: subtitle,
				Route:    fmt.Sprintf("/users/%d", u.ID),
			},
			fields: []string{u.Name, u.Lastname, u.Username, u.Email},
		})
	}
	return out, nil
}

func matches(fields []string, q string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
