package relation

import (
	"context"

	"github.com/google/uuid"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
)

type (
	// RelationService is the single engine behind favorites, shopping carts
	// and subscriptions. Keeping the three kinds behind one interface keeps
	// the conflict and self-reference rules identical across all of them.
	RelationService interface {
		Add(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) error
		Remove(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) (int64, error)
		Exists(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) (bool, error)
		ListTargets(ctx context.Context, kind entities.RelationKind, actorID uuid.UUID) ([]uuid.UUID, error)
	}

	relationService struct {
		relationRepository RelationRepository
	}
)

func NewRelationService(relationRepository RelationRepository) RelationService {
	return &relationService{relationRepository: relationRepository}
}

// Add creates the relation and fails with ErrRelationAlreadyExists when the
// (actor, target) pair is already present for the kind. The existence check
// answers the common case; the unique index catches the race where two
// identical adds run concurrently.
func (s *relationService) Add(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) error {
	if kind == entities.RelationSubscription && actorID == targetID {
		return domain.ErrSelfSubscription
	}

	exists, err := s.relationRepository.Exists(ctx, kind, actorID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrRelationAlreadyExists
	}

	if err := s.relationRepository.Create(ctx, kind, actorID, targetID); err != nil {
		// A concurrent writer may have inserted between the check and the
		// create; the unique index rejects the duplicate.
		if dup, dupErr := s.relationRepository.Exists(ctx, kind, actorID, targetID); dupErr == nil && dup {
			return domain.ErrRelationAlreadyExists
		}
		return err
	}
	return nil
}

// Remove deletes the relation and reports how many rows went away. Zero is a
// valid outcome, not an error; callers decide how to surface it.
func (s *relationService) Remove(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) (int64, error) {
	return s.relationRepository.Delete(ctx, kind, actorID, targetID)
}

func (s *relationService) Exists(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) (bool, error) {
	return s.relationRepository.Exists(ctx, kind, actorID, targetID)
}

func (s *relationService) ListTargets(ctx context.Context, kind entities.RelationKind, actorID uuid.UUID) ([]uuid.UUID, error) {
	return s.relationRepository.ListTargets(ctx, kind, actorID)
}
