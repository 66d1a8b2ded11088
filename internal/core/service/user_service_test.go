package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

func seededUsers() *stubUserRepo {
	return newStubUserRepo(
		&domain.User{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin},
		&domain.User{ID: "cust-1", Email: "cust@example.com", Role: domain.RoleCustomer},
		&domain.User{ID: "multi-1", Email: "multi@example.com", Role: domain.RoleAdmin, LegacyRoles: []domain.Role{domain.RoleCustomer}},
		&domain.User{ID: "legacy-1", Email: "legacy@example.com", LegacyRoles: []domain.Role{domain.RoleAdmin}},
		&domain.User{ID: "odd-1", Email: "odd@example.com", LegacyRoles: []domain.Role{"editor"}},
	)
}

func TestUserService_AssignRole_ReplacesWholeRoleSet(t *testing.T) {
	repo := seededUsers()
	auditor := &stubAuditor{}
	svc := NewUserService(repo, auditor, zerolog.Nop())
	actor := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	user, err := svc.AssignRole(context.Background(), actor, "multi-1", "customer")
	require.NoError(t, err)
	assert.Equal(t, []string{"customer"}, user.RoleNames())
	assert.False(t, user.HasAmbiguousRoles())

	require.Len(t, auditor.events, 1)
	assert.Equal(t, domain.EventRoleChanged, auditor.events[0].Kind)
	assert.Equal(t, "multi-1", auditor.events[0].UserID)
}

func TestUserService_AssignRole_RejectsUnknownRole(t *testing.T) {
	svc := NewUserService(seededUsers(), nil, zerolog.Nop())

	_, err := svc.AssignRole(context.Background(), nil, "cust-1", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserService_AssignRole_AdminCannotDemoteSelf(t *testing.T) {
	svc := NewUserService(seededUsers(), nil, zerolog.Nop())
	actor := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	_, err := svc.AssignRole(context.Background(), actor, "admin-1", "customer")
	assert.ErrorIs(t, err, domain.ErrSelfModification)
}

func TestUserService_AssignRole_UnknownUser(t *testing.T) {
	svc := NewUserService(seededUsers(), nil, zerolog.Nop())

	_, err := svc.AssignRole(context.Background(), nil, "nobody", "customer")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_ShadowBan(t *testing.T) {
	repo := seededUsers()
	auditor := &stubAuditor{}
	svc := NewUserService(repo, auditor, zerolog.Nop())
	actor := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	_, err := svc.ShadowBan(context.Background(), actor, "cust-1", "   ")
	assert.ErrorIs(t, err, domain.ErrBanReasonRequired)

	_, err = svc.ShadowBan(context.Background(), actor, "admin-1", "testing")
	assert.ErrorIs(t, err, domain.ErrSelfModification)

	user, err := svc.ShadowBan(context.Background(), actor, "cust-1", "chargeback fraud")
	require.NoError(t, err)
	assert.True(t, user.IsShadowBanned)
	assert.Equal(t, "chargeback fraud", user.ShadowBanReason)
	require.NotNil(t, user.ShadowBannedAt)

	user, err = svc.LiftShadowBan(context.Background(), actor, "cust-1")
	require.NoError(t, err)
	assert.False(t, user.IsShadowBanned)
	assert.Nil(t, user.ShadowBannedAt)

	require.Len(t, auditor.events, 2)
	assert.Equal(t, domain.EventShadowBanned, auditor.events[0].Kind)
	assert.Equal(t, domain.EventShadowBanLifted, auditor.events[1].Kind)
}

func TestUserService_NormalizeRoles(t *testing.T) {
	repo := seededUsers()
	svc := NewUserService(repo, &stubAuditor{}, zerolog.Nop())

	repairs, err := svc.NormalizeRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, repairs, 3)

	byID := map[string]domain.Role{}
	demoted := map[string]bool{}
	for _, r := range repairs {
		byID[r.UserID] = r.After
		demoted[r.UserID] = r.Demoted
	}

	assert.Equal(t, domain.RoleAdmin, byID["legacy-1"], "a single legacy role is kept")
	assert.False(t, demoted["legacy-1"])
	assert.Equal(t, domain.RoleCustomer, byID["multi-1"], "ambiguous sets fall back to customer")
	assert.True(t, demoted["multi-1"])
	assert.Equal(t, domain.RoleCustomer, byID["odd-1"])
	assert.True(t, demoted["odd-1"])

	for _, id := range []string{"legacy-1", "multi-1", "odd-1"} {
		u, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Len(t, u.RoleNames(), 1, "user %s still ambiguous", id)
		assert.Empty(t, u.LegacyRoles)
	}

	again, err := svc.NormalizeRoles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestUserService_NormalizeRoles_StopsOnWriteError(t *testing.T) {
	repo := seededUsers()
	repo.setErr = errors.New("write conflict")
	svc := NewUserService(repo, nil, zerolog.Nop())

	_, err := svc.NormalizeRoles(context.Background())
	assert.Error(t, err)
}

func TestUserService_List_NormalizesPaging(t *testing.T) {
	svc := NewUserService(seededUsers(), nil, zerolog.Nop())

	page, err := svc.List(context.Background(), ports.ListUsersInput{Role: "customer", Page: 0, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.Limit)
	assert.EqualValues(t, 2, page.Total)
}
