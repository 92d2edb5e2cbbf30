package seed

import (
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/catalog"
	"context"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"
)

// Seed loads the ingredient catalog from the CSV configured under
// INGREDIENTS_CSV. Missing config or a missing file is not fatal, the
// catalog can also be filled by hand.
func Seed(db *gorm.DB) error {
	path := utils.GetConfig("INGREDIENTS_CSV")
	if path == "" {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		log.Printf("skipping ingredient import, cannot open %s: %v", path, err)
		return nil
	}
	defer file.Close()

	catalogService := catalog.NewCatalogService(catalog.NewCatalogRepository(db))
	inserted, err := catalogService.ImportIngredients(context.Background(), file)
	if err != nil {
		return err
	}
	if inserted > 0 {
		fmt.Printf("Imported %d ingredients\n", inserted)
	}
	return nil
}
