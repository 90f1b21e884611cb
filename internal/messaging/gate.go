// Package messaging gates access to conversation threads. Visibility follows
// one rule: a thread is visible to a user iff that user holds an active
// participant row. No tenant, team, or workgroup filter ever substitutes for
// it, which is why the package exposes only participant-keyed query paths.
package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/turnkeeper/turnkeeper/internal/directory"
	"github.com/turnkeeper/turnkeeper/internal/domain"
)

// ScopeSource yields a user's reduced membership scope. *directory.Service
// satisfies this interface.
type ScopeSource interface {
	Scope(ctx context.Context, userID uuid.UUID) (directory.Scope, error)
}

// ManageContext is the resolved (user, thread, participant) triple returned by
// CanManageThreadMembers so the caller does not repeat the lookups.
type ManageContext struct {
	User        *domain.User
	Thread      *domain.Thread
	Participant *domain.ThreadParticipant
}

// Service enforces thread visibility and executes roster mutations.
type Service struct {
	threads      domain.ThreadRepository
	participants domain.ThreadParticipantRepository
	users        domain.UserRepository
	scopes       ScopeSource
}

func NewService(threads domain.ThreadRepository, participants domain.ThreadParticipantRepository, users domain.UserRepository, scopes ScopeSource) *Service {
	return &Service{
		threads:      threads,
		participants: participants,
		users:        users,
		scopes:       scopes,
	}
}

// CanViewThread reports whether the user holds an active participant row for
// the thread. A removed or absent row means invisible, regardless of any
// organizational relationship to other participants. The thread itself is
// never loaded here: the answer must not leak whether the thread exists.
func (s *Service) CanViewThread(ctx context.Context, userID, threadID uuid.UUID) (bool, error) {
	p, err := s.participants.Get(ctx, threadID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("messaging.CanViewThread: %w", err)
	}
	return p.Active(), nil
}

// ListThreadsForUser returns every thread the user actively participates in,
// most recent activity first. Every surface that lists threads goes through
// this method; there is no per-surface variant.
func (s *Service) ListThreadsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Thread, error) {
	threads, err := s.threads.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("messaging.ListThreadsForUser: %w", err)
	}
	return threads, nil
}

// GetThread returns the thread if the user may view it. Invisible and absent
// threads are indistinguishable: both yield domain.ErrNotFound.
func (s *Service) GetThread(ctx context.Context, userID, threadID uuid.UUID) (*domain.Thread, error) {
	ok, err := s.CanViewThread(ctx, userID, threadID)
	if err != nil {
		return nil, fmt.Errorf("messaging.GetThread: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("messaging.GetThread: %w", domain.ErrNotFound)
	}

	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("messaging.GetThread: %w", err)
	}
	return thread, nil
}

// ListParticipants returns the full roster of a thread the user may view,
// removed rows included.
func (s *Service) ListParticipants(ctx context.Context, userID, threadID uuid.UUID) ([]*domain.ThreadParticipant, error) {
	ok, err := s.CanViewThread(ctx, userID, threadID)
	if err != nil {
		return nil, fmt.Errorf("messaging.ListParticipants: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("messaging.ListParticipants: %w", domain.ErrNotFound)
	}

	roster, err := s.participants.ListByThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("messaging.ListParticipants: %w", err)
	}
	return roster, nil
}

// CanManageThreadMembers authorizes roster mutation. The acting user must
// (a) hold at least one active membership somewhere, i.e. be a recognized
// organizational actor, and (b) be an active owner/admin participant of this
// specific thread. Fails with domain.ErrNotFound if the thread does not
// exist and domain.ErrForbidden if either condition is unmet.
func (s *Service) CanManageThreadMembers(ctx context.Context, actingUserID, threadID uuid.UUID) (*ManageContext, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("messaging.CanManageThreadMembers: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("messaging.CanManageThreadMembers: %w", err)
	}

	scope, err := s.scopes.Scope(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("messaging.CanManageThreadMembers: %w", err)
	}
	if scope.Empty() {
		return nil, fmt.Errorf("messaging.CanManageThreadMembers: no active membership: %w", domain.ErrForbidden)
	}

	participant, err := s.participants.Get(ctx, threadID, actingUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("messaging.CanManageThreadMembers: %w", domain.ErrForbidden)
		}
		return nil, fmt.Errorf("messaging.CanManageThreadMembers: %w", err)
	}
	if !participant.CanManageRoster() {
		return nil, fmt.Errorf("messaging.CanManageThreadMembers: %w", domain.ErrForbidden)
	}

	user, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("messaging.CanManageThreadMembers: %w", err)
	}

	return &ManageContext{User: user, Thread: thread, Participant: participant}, nil
}
