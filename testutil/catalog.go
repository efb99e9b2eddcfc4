package testutil

import (
	"context"
	"testing"

	"github.com/farmwise/farmwise/core/catalog"
)

// SeedCatalog stores the default tutorials in repo.
func SeedCatalog(t *testing.T, repo catalog.Repository) []catalog.Tutorial {
	tutorials := catalog.DefaultTutorials()
	for _, tut := range tutorials {
		if _, err := repo.SaveTutorial(context.Background(), tut); err != nil {
			t.Fatalf("SeedCatalog() failed: %v", err)
		}
	}
	return tutorials
}
