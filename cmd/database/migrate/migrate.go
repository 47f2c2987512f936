package migration

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Foodgram-Backend/entities"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Subscription{}); err != nil {
		log.Fatalf("Error migrating subscription database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		log.Fatalf("Error migrating ingredient database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.RecipeIngredient{}); err != nil {
		log.Fatalf("Error migrating recipe ingredient database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UserRecipeRelation{}); err != nil {
		log.Fatalf("Error migrating user recipe relation database: %v", err)
		return err
	}

	// Self-subscription is rejected in the service layer; the constraint
	// keeps hand-written SQL honest too.
	db.Exec(`ALTER TABLE subscriptions DROP CONSTRAINT IF EXISTS prevent_self_subscription;`)
	db.Exec(`ALTER TABLE subscriptions ADD CONSTRAINT prevent_self_subscription CHECK (subscriber_id <> author_id);`)

	fmt.Println("Database migration complete")
	return nil
}

// SeedIngredients loads reference ingredients, skipping (name, unit) pairs
// that are already present.
func SeedIngredients(db *gorm.DB, ingredients []entities.Ingredient) error {
	for i := range ingredients {
		if ingredients[i].ID == uuid.Nil {
			ingredients[i].ID = uuid.New()
		}
		res := db.Where(
			"name = ? AND measurement_unit = ?",
			ingredients[i].Name, ingredients[i].MeasurementUnit,
		).FirstOrCreate(&ingredients[i])
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}
