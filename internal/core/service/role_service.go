package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/pkg/metrics"
)

// RoleProbe ties a role to the backend tables listing its members. A role
// is held when any of its tables lists the user.
type RoleProbe struct {
	Role  string
	Paths []string
}

// DefaultRoleProbes is the known role catalogue. The tour guide table is
// probed twice; both probes are independent.
var DefaultRoleProbes = []RoleProbe{
	{Role: domain.RoleSuperAdmin, Paths: []string{"/superadmin"}},
	{Role: domain.RoleAdmin, Paths: []string{"/admin"}},
	{Role: domain.RoleVIP, Paths: []string{"/vip"}},
	{Role: domain.RoleCSAgent, Paths: []string{"/csagent"}},
	{Role: domain.RoleVolunteer, Paths: []string{"/volunteer"}},
	{Role: domain.RoleInspector, Paths: []string{"/inspector"}},
	{Role: domain.RoleTourGuide, Paths: []string{"/tour_guide", "/tour_guide"}},
}

// RoleService resolves the authoritative role set of a user by probing each
// role table, and answers role requirements for the current visitor.
type RoleService struct {
	checker  ports.MembershipChecker
	sessions ports.SessionLocator
	probes   []RoleProbe
	timeout  time.Duration
	log      zerolog.Logger
}

// NewRoleService returns a RoleService over the default probes. A positive
// timeout bounds a whole resolution.
func NewRoleService(checker ports.MembershipChecker, sessions ports.SessionLocator, timeout time.Duration, log zerolog.Logger) *RoleService {
	return &RoleService{
		checker:  checker,
		sessions: sessions,
		probes:   DefaultRoleProbes,
		timeout:  timeout,
		log:      log,
	}
}

// ResolveRoles returns the roles userID holds, in catalogue order. Probes run
// concurrently; a failed probe counts as "not a member" and never fails the
// resolution. Only a done ctx is reported as an error.
func (s *RoleService) ResolveRoles(ctx context.Context, userID int64) ([]string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	defer func() { metrics.RoleResolutionDuration.Observe(time.Since(start).Seconds()) }()

	held := make([][]bool, len(s.probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, probe := range s.probes {
		held[i] = make([]bool, len(probe.Paths))
		for j, path := range probe.Paths {
			g.Go(func() error {
				held[i][j] = s.probe(gctx, probe.Role, path, userID)
				return nil
			})
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(s.probes))
	for i, probe := range s.probes {
		for _, ok := range held[i] {
			if ok {
				roles = append(roles, probe.Role)
				break
			}
		}
	}
	return roles, nil
}

func (s *RoleService) probe(ctx context.Context, role, path string, userID int64) bool {
	ok, err := s.checker.HasMember(ctx, path, userID)
	if err != nil {
		metrics.RoleChecksTotal.WithLabelValues(role, "error").Inc()
		s.log.Debug().Err(err).Str("role", role).Str("path", path).Msg("role probe failed")
		return false
	}
	if ok {
		metrics.RoleChecksTotal.WithLabelValues(role, "match").Inc()
	} else {
		metrics.RoleChecksTotal.WithLabelValues(role, "no_match").Inc()
	}
	return ok
}

// EffectiveRoles returns the roles requirements are evaluated against: the
// authoritative set when it can be resolved and is non-empty, the session's
// role hint otherwise.
func (s *RoleService) EffectiveRoles(ctx context.Context) []string {
	sess := s.sessions(ctx)
	if sess == nil {
		return []string{}
	}

	if userID, ok := sess.UserID(ctx); ok {
		roles, err := s.ResolveRoles(ctx, userID)
		if err == nil && len(roles) > 0 {
			return roles
		}
		if err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("role resolution unavailable, using session hint")
		}
	}
	return sess.RoleHint(ctx)
}

// HasRole evaluates required against the visitor's effective roles.
func (s *RoleService) HasRole(ctx context.Context, required []string, mode domain.MatchMode) bool {
	return domain.NewRoleSet(s.EffectiveRoles(ctx)...).Satisfies(required, mode)
}
