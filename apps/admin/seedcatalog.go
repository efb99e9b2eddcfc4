package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core/catalog"
)

func (cli *commandLine) seedCatalog() error {
	ctx := context.Background()
	for _, t := range catalog.DefaultTutorials() {
		saved, err := cli.catalogSvc.Save(ctx, t)
		if err != nil {
			return errors.Wrapf(err, "saving tutorial %q", t.Slug)
		}
		logger.Printf("saved tutorial %q (%d lessons)", saved.Slug, len(saved.Lessons))
	}
	fmt.Println("catalog seeded")
	return nil
}
