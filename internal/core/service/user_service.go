package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

// UserService implements the admin account operations.
type UserService struct {
	repo    ports.UserRepository
	auditor ports.SecurityAuditor
	log     zerolog.Logger
	now     func() time.Time
}

func NewUserService(repo ports.UserRepository, auditor ports.SecurityAuditor, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, auditor: auditor, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *UserService) List(ctx context.Context, in ports.ListUsersInput) (*ports.Page[*domain.User], error) {
	page, limit := ports.NormalizePage(in.Page, in.Limit)
	users, total, err := s.repo.List(ctx, ports.ListUsersFilter{
		Role:   strings.TrimSpace(in.Role),
		Banned: in.Banned,
		Search: strings.TrimSpace(in.Search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ports.NewPage(users, total, page, limit), nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// AssignRole replaces the user's role. The previous role set, legacy entries
// included, is discarded so the account always ends up with exactly one role.
func (s *UserService) AssignRole(ctx context.Context, actor *domain.User, userID, role string) (*domain.User, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.ID == userID && r != domain.RoleAdmin {
		return nil, domain.ErrSelfModification
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	before := target.RoleNames()

	if err := s.repo.SetRole(ctx, userID, r, s.now()); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}

	s.audit(actor, target, domain.EventRoleChanged, fmt.Sprintf("%v -> %s", before, r))
	return s.repo.FindByID(ctx, userID)
}

// ShadowBan marks the account inactive. The user is not told; their next
// gated request logs them out.
func (s *UserService) ShadowBan(ctx context.Context, actor *domain.User, userID, reason string) (*domain.User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrBanReasonRequired
	}
	if actor != nil && actor.ID == userID {
		return nil, domain.ErrSelfModification
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetShadowBan(ctx, userID, true, reason, s.now()); err != nil {
		return nil, fmt.Errorf("shadow ban: %w", err)
	}

	s.audit(actor, target, domain.EventShadowBanned, reason)
	return s.repo.FindByID(ctx, userID)
}

func (s *UserService) LiftShadowBan(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	if actor != nil && actor.ID == userID {
		return nil, domain.ErrSelfModification
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetShadowBan(ctx, userID, false, "", s.now()); err != nil {
		return nil, fmt.Errorf("lift shadow ban: %w", err)
	}

	s.audit(actor, target, domain.EventShadowBanLifted, "")
	return s.repo.FindByID(ctx, userID)
}

// NormalizeRoles collapses imported multi-role assignments into the single
// role field. A set that resolves to exactly one known role keeps it; anything
// ambiguous is demoted to customer and reported.
func (s *UserService) NormalizeRoles(ctx context.Context) ([]ports.RoleRepair, error) {
	users, err := s.repo.FindWithLegacyRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("normalize roles: %w", err)
	}

	repairs := make([]ports.RoleRepair, 0, len(users))
	for _, u := range users {
		before := u.RoleNames()
		target := domain.RoleCustomer
		demoted := true
		if !u.HasAmbiguousRoles() && len(before) == 1 {
			target = domain.Role(before[0])
			demoted = false
		}

		if err := s.repo.SetRole(ctx, u.ID, target, s.now()); err != nil {
			return repairs, fmt.Errorf("normalize roles: user %s: %w", u.ID, err)
		}

		repairs = append(repairs, ports.RoleRepair{
			UserID:  u.ID,
			Email:   u.Email,
			Before:  before,
			After:   target,
			Demoted: demoted,
		})
		s.audit(nil, u, domain.EventRolesNormalized, fmt.Sprintf("%v -> %s", before, target))
	}

	s.log.Info().Int("repaired", len(repairs)).Msg("legacy roles normalized")
	return repairs, nil
}

func (s *UserService) audit(actor, target *domain.User, kind domain.SecurityEventKind, detail string) {
	actorID := "system"
	if actor != nil {
		actorID = actor.ID
	}
	s.log.Info().
		Str("kind", string(kind)).
		Str("actor_id", actorID).
		Str("user_id", target.ID).
		Str("detail", detail).
		Msg("account changed")

	if s.auditor == nil {
		return
	}
	s.auditor.Record(domain.SecurityEvent{
		Kind:      kind,
		Severity:  domain.SeverityInfo,
		UserID:    target.ID,
		Email:     target.Email,
		Roles:     target.RoleNames(),
		Detail:    fmt.Sprintf("by %s: %s", actorID, detail),
		Timestamp: s.now(),
	})
}
