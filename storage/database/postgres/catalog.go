package pgrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core/catalog"
)

const tutorialColumns = `id, slug, title, description, category, image_url, lessons`

type tutorialRow struct {
	ID          string `db:"id"`
	Slug        string `db:"slug"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Category    string `db:"category"`
	ImageURL    string `db:"image_url"`
	Lessons     []byte `db:"lessons"`
}

func (r tutorialRow) toTutorial() (catalog.Tutorial, error) {
	t := catalog.Tutorial{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Category:    catalog.Category(r.Category),
		ImageURL:    r.ImageURL,
	}
	if err := (&jsonb{v: &t.Lessons}).Scan(r.Lessons); err != nil {
		return catalog.Tutorial{}, errors.Wrap(err, "decoding lessons")
	}
	return t, nil
}

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil)

func NewCatalogRepository(db *sqlx.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) QueryTutorials(ctx context.Context) ([]catalog.Tutorial, error) {
	var rows []tutorialRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT `+tutorialColumns+` FROM tutorials ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "selecting tutorials")
	}
	tutorials := make([]catalog.Tutorial, 0, len(rows))
	for _, r := range rows {
		t, err := r.toTutorial()
		if err != nil {
			return nil, err
		}
		tutorials = append(tutorials, t)
	}
	return tutorials, nil
}

func (repo *catalogRepository) GetTutorial(ctx context.Context, slug string) (catalog.Tutorial, error) {
	var row tutorialRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+tutorialColumns+` FROM tutorials WHERE slug = $1`, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Tutorial{}, catalog.ErrNotFound
		}
		return catalog.Tutorial{}, errors.Wrap(err, "selecting tutorial")
	}
	return row.toTutorial()
}

func (repo *catalogRepository) GetLesson(ctx context.Context, slug string) (catalog.Lesson, string, error) {
	var (
		lesson       catalog.Lesson
		tutorialSlug string
	)
	err := repo.db.QueryRowContext(
		ctx,
		`SELECT t.slug, l.value
		FROM tutorials t CROSS JOIN LATERAL jsonb_array_elements(t.lessons) AS l(value)
		WHERE l.value->>'slug' = $1
		LIMIT 1`,
		slug,
	).Scan(&tutorialSlug, &jsonb{v: &lesson})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Lesson{}, "", catalog.ErrNotFound
		}
		return catalog.Lesson{}, "", errors.Wrap(err, "selecting lesson")
	}
	return lesson, tutorialSlug, nil
}

func (repo *catalogRepository) SaveTutorial(ctx context.Context, t catalog.Tutorial) (catalog.Tutorial, error) {
	lessons := t.Lessons
	if lessons == nil {
		lessons = []catalog.Lesson{}
	}
	_, err := repo.db.ExecContext(
		ctx,
		`INSERT INTO tutorials (`+tutorialColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description, category = EXCLUDED.category,
			image_url = EXCLUDED.image_url, lessons = EXCLUDED.lessons`,
		t.ID, t.Slug, t.Title, t.Description, string(t.Category), t.ImageURL, jsonb{v: lessons},
	)
	if err != nil {
		return catalog.Tutorial{}, errors.Wrap(err, "saving tutorial")
	}
	return t, nil
}
