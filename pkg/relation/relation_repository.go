package relation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Foodgram-Backend/entities"
)

type (
	// RelationRepository persists the three relation kinds. Favorite and
	// shopping-cart rows share the kind-discriminated user_recipe_relations
	// table; subscriptions live in their own table. Uniqueness is enforced
	// by composite indexes, so a concurrent duplicate insert fails at the
	// storage layer rather than producing a second row.
	RelationRepository interface {
		Create(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) error
		Delete(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) (int64, error)
		Exists(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) (bool, error)
		ListTargets(ctx context.Context, kind entities.RelationKind, actorID uuid.UUID) ([]uuid.UUID, error)
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) Create(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) error {
	if kind == entities.RelationSubscription {
		sub := entities.Subscription{
			ID:           uuid.New(),
			SubscriberID: actorID,
			AuthorID:     targetID,
			CreatedAt:    time.Now(),
		}
		return r.db.WithContext(ctx).Create(&sub).Error
	}

	rel := entities.UserRecipeRelation{
		ID:        uuid.New(),
		UserID:    actorID,
		RecipeID:  targetID,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&rel).Error
}

func (r *relationRepository) Delete(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) (int64, error) {
	var res *gorm.DB
	if kind == entities.RelationSubscription {
		res = r.db.WithContext(ctx).
			Where("subscriber_id = ? AND author_id = ?", actorID, targetID).
			Delete(&entities.Subscription{})
	} else {
		res = r.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ? AND kind = ?", actorID, targetID, kind).
			Delete(&entities.UserRecipeRelation{})
	}
	return res.RowsAffected, res.Error
}

func (r *relationRepository) Exists(ctx context.Context, kind entities.RelationKind, actorID, targetID uuid.UUID) (bool, error) {
	var count int64
	var err error
	if kind == entities.RelationSubscription {
		err = r.db.WithContext(ctx).
			Model(&entities.Subscription{}).
			Where("subscriber_id = ? AND author_id = ?", actorID, targetID).
			Count(&count).Error
	} else {
		err = r.db.WithContext(ctx).
			Model(&entities.UserRecipeRelation{}).
			Where("user_id = ? AND recipe_id = ? AND kind = ?", actorID, targetID, kind).
			Count(&count).Error
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *relationRepository) ListTargets(ctx context.Context, kind entities.RelationKind, actorID uuid.UUID) ([]uuid.UUID, error) {
	var targets []uuid.UUID
	var err error
	if kind == entities.RelationSubscription {
		err = r.db.WithContext(ctx).
			Model(&entities.Subscription{}).
			Where("subscriber_id = ?", actorID).
			Order("created_at asc").
			Pluck("author_id", &targets).Error
	} else {
		err = r.db.WithContext(ctx).
			Model(&entities.UserRecipeRelation{}).
			Where("user_id = ? AND kind = ?", actorID, kind).
			Order("created_at asc").
			Pluck("recipe_id", &targets).Error
	}
	if err != nil {
		return nil, err
	}
	return targets, nil
}
