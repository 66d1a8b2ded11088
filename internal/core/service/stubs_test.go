package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atelier/storefront/internal/core/domain"
	"github.com/atelier/storefront/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	setErr error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.LegacyRoles = append([]domain.Role(nil), u.LegacyRoles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if f.Role != "" && !u.HasRole(domain.Role(f.Role)) {
			continue
		}
		if f.Banned != nil && u.IsShadowBanned != *f.Banned {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) SetRole(_ context.Context, id string, role domain.Role, at time.Time) error {
	if r.setErr != nil {
		return r.setErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	u.LegacyRoles = nil
	u.UpdatedAt = at
	return nil
}

func (r *stubUserRepo) SetShadowBan(_ context.Context, id string, banned bool, reason string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsShadowBanned = banned
	u.ShadowBanReason = reason
	if banned {
		ts := at
		u.ShadowBannedAt = &ts
	} else {
		u.ShadowBannedAt = nil
	}
	return nil
}

func (r *stubUserRepo) FindWithLegacyRoles(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if len(u.LegacyRoles) > 0 {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Stats(_ context.Context) (*ports.UserStats, error) {
	st := &ports.UserStats{ByRole: map[string]int64{}}
	for _, u := range r.users {
		st.Total++
		st.ByRole[string(u.Role)]++
		if u.IsShadowBanned {
			st.Banned++
		}
	}
	return st, nil
}

type stubAuditor struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
}

func (a *stubAuditor) Record(e domain.SecurityEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

// ---------------------------------------------------------------------------
// Artworks, favorites, recent views
// ---------------------------------------------------------------------------

type stubArtworkRepo struct {
	byID       map[string]*domain.Artwork
	createErr  error
	released   []string
	reserveErr error
}

func newStubArtworkRepo(artworks ...*domain.Artwork) *stubArtworkRepo {
	r := &stubArtworkRepo{byID: make(map[string]*domain.Artwork)}
	for _, a := range artworks {
		r.byID[a.ID] = cloneArtwork(a)
	}
	return r
}

func cloneArtwork(a *domain.Artwork) *domain.Artwork {
	clone := *a
	clone.Editions = append([]domain.Edition(nil), a.Editions...)
	return &clone
}

func (r *stubArtworkRepo) Create(_ context.Context, a *domain.Artwork) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Slug == a.Slug {
			return domain.ErrArtworkExists
		}
	}
	r.byID[a.ID] = cloneArtwork(a)
	return nil
}

func (r *stubArtworkRepo) Update(_ context.Context, a *domain.Artwork) error {
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrArtworkNotFound
	}
	r.byID[a.ID] = cloneArtwork(a)
	return nil
}

func (r *stubArtworkRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrArtworkNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubArtworkRepo) FindByID(_ context.Context, id string) (*domain.Artwork, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrArtworkNotFound
	}
	return cloneArtwork(a), nil
}

func (r *stubArtworkRepo) FindBySlug(_ context.Context, slug string) (*domain.Artwork, error) {
	for _, a := range r.byID {
		if a.Slug == slug {
			return cloneArtwork(a), nil
		}
	}
	return nil, domain.ErrArtworkNotFound
}

func (r *stubArtworkRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Artwork, error) {
	var out []*domain.Artwork
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out = append(out, cloneArtwork(a))
		}
	}
	return out, nil
}

func (r *stubArtworkRepo) FindBySlugs(ctx context.Context, slugs []string) ([]*domain.Artwork, error) {
	var out []*domain.Artwork
	for _, slug := range slugs {
		if a, err := r.FindBySlug(ctx, slug); err == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubArtworkRepo) List(_ context.Context, f ports.ListArtworksFilter) ([]*domain.Artwork, int64, error) {
	var out []*domain.Artwork
	for _, a := range r.byID {
		if !f.IncludeUnpublished && !a.Published {
			continue
		}
		out = append(out, cloneArtwork(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, int64(len(out)), nil
}

func (r *stubArtworkRepo) Counts(_ context.Context) (*ports.ArtworkCounts, error) {
	c := &ports.ArtworkCounts{}
	for _, a := range r.byID {
		c.Total++
		if a.Published {
			c.Published++
		}
	}
	return c, nil
}

func (r *stubArtworkRepo) ReserveEdition(_ context.Context, artworkID string, edition domain.Edition, qty int) error {
	if r.reserveErr != nil {
		return r.reserveErr
	}
	a := r.byID[artworkID]
	for i := range a.Editions {
		if a.Editions[i].ID == edition.ID {
			if a.Editions[i].Remaining() < qty {
				return domain.ErrEditionSoldOut
			}
			a.Editions[i].Sold += qty
			return nil
		}
	}
	return domain.ErrEditionNotFound
}

func (r *stubArtworkRepo) ReleaseEdition(_ context.Context, artworkID, editionID string, qty int) error {
	r.released = append(r.released, artworkID+"/"+editionID)
	a := r.byID[artworkID]
	for i := range a.Editions {
		if a.Editions[i].ID == editionID {
			a.Editions[i].Sold -= qty
		}
	}
	return nil
}

func (r *stubArtworkRepo) ReserveOriginal(_ context.Context, artworkID string) error {
	a := r.byID[artworkID]
	if !a.OriginalAvailable {
		return domain.ErrOriginalSold
	}
	a.OriginalAvailable = false
	return nil
}

func (r *stubArtworkRepo) ReleaseOriginal(_ context.Context, artworkID string) error {
	r.released = append(r.released, artworkID)
	r.byID[artworkID].OriginalAvailable = true
	return nil
}

type stubFavorites struct {
	ids map[string][]string
}

func newStubFavorites() *stubFavorites {
	return &stubFavorites{ids: make(map[string][]string)}
}

func (f *stubFavorites) Add(_ context.Context, userID, artworkID string) error {
	for _, id := range f.ids[userID] {
		if id == artworkID {
			return nil
		}
	}
	f.ids[userID] = append([]string{artworkID}, f.ids[userID]...)
	return nil
}

func (f *stubFavorites) Remove(_ context.Context, userID, artworkID string) error {
	kept := f.ids[userID][:0]
	for _, id := range f.ids[userID] {
		if id != artworkID {
			kept = append(kept, id)
		}
	}
	f.ids[userID] = kept
	return nil
}

func (f *stubFavorites) ListArtworkIDs(_ context.Context, userID string) ([]string, error) {
	return append([]string(nil), f.ids[userID]...), nil
}

func (f *stubFavorites) Count(_ context.Context, userID string) (int64, error) {
	return int64(len(f.ids[userID])), nil
}

type stubViews struct {
	slugs   map[string][]string
	pushErr error
	listErr error
}

func newStubViews() *stubViews {
	return &stubViews{slugs: make(map[string][]string)}
}

func (v *stubViews) Push(_ context.Context, userID, slug string) error {
	if v.pushErr != nil {
		return v.pushErr
	}
	v.slugs[userID] = append([]string{slug}, v.slugs[userID]...)
	return nil
}

func (v *stubViews) List(_ context.Context, userID string, limit int) ([]string, error) {
	if v.listErr != nil {
		return nil, v.listErr
	}
	s := v.slugs[userID]
	if len(s) > limit {
		s = s[:limit]
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Orders and security events
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	byNumber  map[string]*domain.Order
	createErr error
}

func newStubOrderRepo(orders ...*domain.Order) *stubOrderRepo {
	r := &stubOrderRepo{byNumber: make(map[string]*domain.Order)}
	for _, o := range orders {
		clone := *o
		r.byNumber[o.Number] = &clone
	}
	return r
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *o
	r.byNumber[o.Number] = &clone
	return nil
}

func (r *stubOrderRepo) FindByNumber(_ context.Context, number, userID string) (*domain.Order, error) {
	o, ok := r.byNumber[number]
	if !ok || (userID != "" && o.UserID != userID) {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, o := range r.byNumber {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		clone := *o
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	total := int64(len(out))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, number string, from, to domain.OrderStatus, at time.Time, notes string) error {
	o, ok := r.byNumber[number]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != from {
		return domain.ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = at
	o.StatusHistory = append(o.StatusHistory, domain.StatusHistoryEntry{Status: to, Timestamp: at, Notes: notes})
	return nil
}

func (r *stubOrderRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, o := range r.byNumber {
		out[string(o.Status)]++
	}
	return out, nil
}

type stubEventRepo struct {
	events []*domain.SecurityEvent
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.SecurityEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *stubEventRepo) List(_ context.Context, f ports.SecurityEventFilter) ([]*domain.SecurityEvent, int64, error) {
	var out []*domain.SecurityEvent
	for _, e := range r.events {
		if f.Kind != "" && string(e.Kind) != f.Kind {
			continue
		}
		out = append(out, e)
	}
	total := int64(len(out))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}
