package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Username  string    `gorm:"uniqueIndex" json:"username"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID" json:"-"`
	Timestamp
}

// Subscription links a follower to a recipe author. The (subscriber, author)
// pair is unique; subscriber == author is rejected before the row is written
// and backstopped by a CHECK constraint in the migration.
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID uuid.UUID `gorm:"not null;uniqueIndex:idx_subscriber_author" json:"subscriber_id"`
	AuthorID     uuid.UUID `gorm:"not null;uniqueIndex:idx_subscriber_author" json:"author_id"`
	CreatedAt    time.Time `gorm:"type:timestamp" json:"created_at"`

	Subscriber *User `gorm:"foreignKey:SubscriberID" json:"-"`
	Author     *User `gorm:"foreignKey:AuthorID" json:"-"`
}
