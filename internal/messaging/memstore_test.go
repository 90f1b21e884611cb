package messaging_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turnkeeper/turnkeeper/internal/directory"
	"github.com/turnkeeper/turnkeeper/internal/domain"
)

// In-memory fakes implementing the repository contracts, including the
// conditional-write semantics of Activate/Deactivate, so service tests can
// exercise full add/remove sequences.

type memThreadRepo struct {
	mu           sync.Mutex
	threads      map[uuid.UUID]*domain.Thread
	participants *memParticipantRepo
}

func newMemThreadRepo(participants *memParticipantRepo) *memThreadRepo {
	return &memThreadRepo{
		threads:      make(map[uuid.UUID]*domain.Thread),
		participants: participants,
	}
}

func (r *memThreadRepo) Create(_ context.Context, t *domain.Thread, roster []*domain.ThreadParticipant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.threads[t.ID] = t
	for _, p := range roster {
		r.participants.put(p)
	}
	return nil
}

func (r *memThreadRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.threads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (r *memThreadRepo) ListByParticipant(_ context.Context, userID uuid.UUID) ([]*domain.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Thread
	for _, t := range r.threads {
		p := r.participants.get(t.ID, userID)
		if p.Active() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivityAt.After(out[j].LastActivityAt)
	})
	return out, nil
}

func (r *memThreadRepo) TouchActivity(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.threads[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.LastActivityAt = time.Now()
	return nil
}

type participantKey struct {
	threadID uuid.UUID
	userID   uuid.UUID
}

type memParticipantRepo struct {
	mu   sync.Mutex
	rows map[participantKey]*domain.ThreadParticipant
}

func newMemParticipantRepo() *memParticipantRepo {
	return &memParticipantRepo{rows: make(map[participantKey]*domain.ThreadParticipant)}
}

func (r *memParticipantRepo) put(p *domain.ThreadParticipant) {
	r.rows[participantKey{threadID: p.ThreadID, userID: p.UserID}] = p
}

func (r *memParticipantRepo) get(threadID, userID uuid.UUID) *domain.ThreadParticipant {
	return r.rows[participantKey{threadID: threadID, userID: userID}]
}

func (r *memParticipantRepo) Get(_ context.Context, threadID, userID uuid.UUID) (*domain.ThreadParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.get(threadID, userID)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memParticipantRepo) ListByThread(_ context.Context, threadID uuid.UUID) ([]*domain.ThreadParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.ThreadParticipant
	for key, p := range r.rows {
		if key.threadID == threadID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memParticipantRepo) Activate(_ context.Context, threadID, userID uuid.UUID, role domain.ParticipantRole) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	existing := r.get(threadID, userID)
	if existing == nil {
		r.put(&domain.ThreadParticipant{
			ID:        uuid.New(),
			ThreadID:  threadID,
			UserID:    userID,
			Role:      role,
			Status:    domain.ParticipantStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return true, nil
	}
	if existing.Status == domain.ParticipantStatusActive {
		return false, nil
	}
	existing.Status = domain.ParticipantStatusActive
	existing.Role = role
	existing.UpdatedAt = now
	return true, nil
}

func (r *memParticipantRepo) Deactivate(_ context.Context, threadID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.get(threadID, userID)
	if !target.Active() {
		return domain.ErrNotFound
	}

	if target.Role == domain.ParticipantRoleOwner || target.Role == domain.ParticipantRoleAdmin {
		others := 0
		for key, p := range r.rows {
			if key.threadID != threadID || key.userID == userID {
				continue
			}
			if p.CanManageRoster() {
				others++
			}
		}
		if others == 0 {
			return domain.ErrInvariantViolation
		}
	}

	target.Status = domain.ParticipantStatusRemoved
	target.UpdatedAt = time.Now()
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memUserRepo) addUser(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.addUser(u)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(context.Context, uuid.UUID, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) Update(context.Context, *domain.User) error { return nil }

func (r *memUserRepo) List(context.Context, uuid.UUID) ([]*domain.User, error) { return nil, nil }

// memScopeSource returns a fixed scope per user; users absent from the map
// resolve to an empty scope.
type memScopeSource struct {
	scopes map[uuid.UUID]directory.Scope
}

func (m *memScopeSource) Scope(_ context.Context, userID uuid.UUID) (directory.Scope, error) {
	return m.scopes[userID], nil
}
