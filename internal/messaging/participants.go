package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/turnkeeper/turnkeeper/internal/domain"
)

// CreateThread creates a thread with its initial roster. The creator must be
// a recognized organizational actor and becomes the owner. Direct threads
// take exactly one peer and their roster is fixed forever; group threads may
// start with any number of additional members.
func (s *Service) CreateThread(ctx context.Context, creatorID uuid.UUID, threadType domain.ThreadType, subject string, memberIDs []uuid.UUID) (*domain.Thread, error) {
	scope, err := s.scopes.Scope(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("messaging.CreateThread: %w", err)
	}
	if scope.Empty() {
		return nil, fmt.Errorf("messaging.CreateThread: no active membership: %w", domain.ErrForbidden)
	}

	if threadType == domain.ThreadTypeDirect && len(memberIDs) != 1 {
		return nil, fmt.Errorf("messaging.CreateThread: direct thread needs exactly one peer: %w", domain.ErrInvalidThreadType)
	}

	now := time.Now()
	thread := &domain.Thread{
		ID:             uuid.New(),
		Type:           threadType,
		Subject:        subject,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	roster := []*domain.ThreadParticipant{{
		ID:        uuid.New(),
		ThreadID:  thread.ID,
		UserID:    creatorID,
		Role:      domain.ParticipantRoleOwner,
		Status:    domain.ParticipantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	for _, memberID := range memberIDs {
		if memberID == creatorID {
			continue
		}
		if _, err := s.users.GetByID(ctx, memberID); err != nil {
			return nil, fmt.Errorf("messaging.CreateThread: member %s: %w", memberID, err)
		}
		roster = append(roster, &domain.ThreadParticipant{
			ID:        uuid.New(),
			ThreadID:  thread.ID,
			UserID:    memberID,
			Role:      domain.ParticipantRoleMember,
			Status:    domain.ParticipantStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.threads.Create(ctx, thread, roster); err != nil {
		return nil, fmt.Errorf("messaging.CreateThread: %w", err)
	}

	log.Info().
		Str("thread_id", thread.ID.String()).
		Str("type", string(threadType)).
		Int("participants", len(roster)).
		Msg("messaging: thread created")

	return thread, nil
}

// AddParticipant adds targetUserID to a group thread as a member. The caller
// must hold a ManageContext from CanManageThreadMembers for the same thread.
// Adding someone who is already active is a no-op success; a previously
// removed participant is reactivated on the existing row, so duplicate active
// rows for one (user, thread) pair cannot exist.
func (s *Service) AddParticipant(ctx context.Context, mctx *ManageContext, targetUserID uuid.UUID) error {
	if mctx.Thread.Type != domain.ThreadTypeGroup {
		return fmt.Errorf("messaging.AddParticipant: %w", domain.ErrInvalidThreadType)
	}

	if _, err := s.users.GetByID(ctx, targetUserID); err != nil {
		return fmt.Errorf("messaging.AddParticipant: target: %w", err)
	}

	changed, err := s.participants.Activate(ctx, mctx.Thread.ID, targetUserID, domain.ParticipantRoleMember)
	if err != nil {
		return fmt.Errorf("messaging.AddParticipant: %w", err)
	}

	if changed {
		log.Info().
			Str("thread_id", mctx.Thread.ID.String()).
			Str("acting_user_id", mctx.User.ID.String()).
			Str("target_user_id", targetUserID.String()).
			Msg("messaging: participant added")
	}

	return nil
}

// RemoveParticipant soft-removes an active participant from a group thread.
// The target must currently be active. The repository re-checks the
// active-administrator invariant atomically with the status flip, so two
// concurrent removals of different admins cannot both succeed and leave the
// thread without one; the loser fails with domain.ErrInvariantViolation
// rather than promoting another member.
func (s *Service) RemoveParticipant(ctx context.Context, mctx *ManageContext, targetUserID uuid.UUID) error {
	if mctx.Thread.Type != domain.ThreadTypeGroup {
		return fmt.Errorf("messaging.RemoveParticipant: %w", domain.ErrInvalidThreadType)
	}

	err := s.participants.Deactivate(ctx, mctx.Thread.ID, targetUserID)
	if err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			return fmt.Errorf("messaging.RemoveParticipant: last active admin: %w", domain.ErrInvariantViolation)
		}
		return fmt.Errorf("messaging.RemoveParticipant: %w", err)
	}

	log.Info().
		Str("thread_id", mctx.Thread.ID.String()).
		Str("acting_user_id", mctx.User.ID.String()).
		Str("target_user_id", targetUserID.String()).
		Msg("messaging: participant removed")

	return nil
}
