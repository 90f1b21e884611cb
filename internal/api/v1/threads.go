package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/turnkeeper/turnkeeper/internal/domain"
	"github.com/turnkeeper/turnkeeper/internal/server/middleware"
)

type CreateThreadInput struct {
	Body struct {
		Type      string      `json:"type" enum:"direct,group" doc:"Thread type"`
		Subject   string      `json:"subject,omitempty" maxLength:"255" doc:"Thread subject"`
		MemberIDs []uuid.UUID `json:"member_ids" minItems:"1" doc:"Initial participants besides the creator"`
	}
}

type CreateThreadOutput struct {
	Body *domain.Thread
}

type ListThreadsInput struct{}

type ListThreadsOutput struct {
	Body []*domain.Thread
}

type GetThreadInput struct {
	ID uuid.UUID `path:"id" doc:"Thread ID"`
}

type GetThreadOutput struct {
	Body *domain.Thread
}

type ListThreadParticipantsInput struct {
	ID uuid.UUID `path:"id" doc:"Thread ID"`
}

type ListThreadParticipantsOutput struct {
	Body []*domain.ThreadParticipant
}

type AddThreadParticipantInput struct {
	ID   uuid.UUID `path:"id" doc:"Thread ID"`
	Body struct {
		UserID uuid.UUID `json:"user_id" doc:"User to add"`
	}
}

type RemoveThreadParticipantInput struct {
	ID     uuid.UUID `path:"id" doc:"Thread ID"`
	UserID uuid.UUID `path:"userID" doc:"Participant user ID"`
}

func RegisterThreadRoutes(api huma.API, gate MessagingService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-thread",
		Method:      http.MethodPost,
		Path:        "/threads",
		Summary:     "Create a conversation thread",
		Description: "The caller becomes the thread owner. Direct threads take exactly one other member and their roster is immutable afterwards.",
		Tags:        []string{"Threads"},
	}, func(ctx context.Context, input *CreateThreadInput) (*CreateThreadOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		thread, err := gate.CreateThread(ctx, userID, domain.ThreadType(input.Body.Type), input.Body.Subject, input.Body.MemberIDs)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrForbidden):
				return nil, huma.Error403Forbidden("active team membership required to start threads")
			case errors.Is(err, domain.ErrInvalidThreadType):
				return nil, huma.Error422UnprocessableEntity("direct threads take exactly one other member")
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("member not found")
			default:
				return nil, huma.Error500InternalServerError("failed to create thread", err)
			}
		}

		return &CreateThreadOutput{Body: thread}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-threads",
		Method:      http.MethodGet,
		Path:        "/threads",
		Summary:     "List threads the caller participates in",
		Description: "Threads where the caller has no active participant row are absent, whatever their organizational relationship to other participants.",
		Tags:        []string{"Threads"},
	}, func(ctx context.Context, _ *ListThreadsInput) (*ListThreadsOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		threads, err := gate.ListThreadsForUser(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list threads", err)
		}

		return &ListThreadsOutput{Body: threads}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-thread",
		Method:      http.MethodGet,
		Path:        "/threads/{id}",
		Summary:     "Get a thread",
		Description: "An invisible thread is indistinguishable from a nonexistent one.",
		Tags:        []string{"Threads"},
	}, func(ctx context.Context, input *GetThreadInput) (*GetThreadOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		thread, err := gate.GetThread(ctx, userID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("thread not found")
			}
			return nil, huma.Error500InternalServerError("failed to get thread", err)
		}

		return &GetThreadOutput{Body: thread}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-thread-participants",
		Method:      http.MethodGet,
		Path:        "/threads/{id}/participants",
		Summary:     "List a thread's participants",
		Tags:        []string{"Threads"},
	}, func(ctx context.Context, input *ListThreadParticipantsInput) (*ListThreadParticipantsOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		participants, err := gate.ListParticipants(ctx, userID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("thread not found")
			}
			return nil, huma.Error500InternalServerError("failed to list participants", err)
		}

		return &ListThreadParticipantsOutput{Body: participants}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-thread-participant",
		Method:      http.MethodPost,
		Path:        "/threads/{id}/participants",
		Summary:     "Add a participant to a group thread",
		Description: "Adding a previously removed user reactivates their original participant row. Adding an active participant is a no-op.",
		Tags:        []string{"Threads"},
	}, func(ctx context.Context, input *AddThreadParticipantInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		mctx, err := gate.CanManageThreadMembers(ctx, userID, input.ID)
		if err != nil {
			return nil, mapRosterErr(err)
		}

		if err := gate.AddParticipant(ctx, mctx, input.Body.UserID); err != nil {
			return nil, mapRosterErr(err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-thread-participant",
		Method:      http.MethodDelete,
		Path:        "/threads/{id}/participants/{userID}",
		Summary:     "Remove a participant from a group thread",
		Description: "Removal is a soft status flip so history keeps its attribution. The last active owner or admin cannot be removed.",
		Tags:        []string{"Threads"},
	}, func(ctx context.Context, input *RemoveThreadParticipantInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		mctx, err := gate.CanManageThreadMembers(ctx, userID, input.ID)
		if err != nil {
			return nil, mapRosterErr(err)
		}

		if err := gate.RemoveParticipant(ctx, mctx, input.UserID); err != nil {
			return nil, mapRosterErr(err)
		}

		return nil, nil
	})
}

// mapRosterErr translates roster mutation failures to HTTP status errors.
func mapRosterErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound("thread or participant not found")
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden("not allowed to manage this thread's roster")
	case errors.Is(err, domain.ErrInvalidThreadType):
		return huma.Error422UnprocessableEntity("direct thread rosters are immutable")
	case errors.Is(err, domain.ErrInvariantViolation):
		return huma.Error409Conflict("thread must keep at least one active owner or admin")
	default:
		return huma.Error500InternalServerError("roster operation failed", err)
	}
}
