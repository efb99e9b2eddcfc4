package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/catalog"
	inmemdb "github.com/farmwise/farmwise/storage/database/inmem"
	"github.com/farmwise/farmwise/testutil"
)

func slugs(tutorials []catalog.Tutorial) []string {
	res := make([]string, 0, len(tutorials))
	for _, t := range tutorials {
		res = append(res, t.Slug)
	}
	return res
}

func TestFilter(t *testing.T) {
	tutorials := catalog.DefaultTutorials()

	tests := []struct {
		name string
		q    catalog.Query
		want []string
	}{
		{name: "empty query", want: []string{"soil-health-basics", "intro-fish-farming", "organic-pest-control", "effective-fertilizer-use"}},
		{name: "soil, all categories", q: catalog.Query{Search: "soil", Category: catalog.CategoryAll}, want: []string{"soil-health-basics"}},
		{name: "soil, crop production", q: catalog.Query{Search: "soil", Category: catalog.CategoryCropProduction}, want: []string{"soil-health-basics"}},
		{name: "soil, fish farming", q: catalog.Query{Search: "soil", Category: catalog.CategoryFishFarming}, want: []string{}},
		{name: "case insensitive", q: catalog.Query{Search: "FISH"}, want: []string{"intro-fish-farming"}},
		{name: "matches description", q: catalog.Query{Search: "yield"}, want: []string{"soil-health-basics", "effective-fertilizer-use"}},
		{name: "category only", q: catalog.Query{Category: catalog.CategoryCropProduction}, want: []string{"soil-health-basics", "effective-fertilizer-use"}},
		{name: "mixed-case wildcard", q: catalog.Query{Category: "ALL"}, want: []string{"soil-health-basics", "intro-fish-farming", "organic-pest-control", "effective-fertilizer-use"}},
		{name: "no match", q: catalog.Query{Search: "blockchain"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugs(catalog.Filter(tutorials, tt.q)))
		})
	}

	// input is left untouched
	assert.Equal(t, catalog.DefaultTutorials(), tutorials)
}

func TestFilter_composition(t *testing.T) {
	tutorials := catalog.DefaultTutorials()

	searches := []string{"", "soil", "FISH", "yield", "organic", "blockchain"}
	categories := []catalog.Category{"", catalog.CategoryAll, catalog.CategoryCropProduction, catalog.CategoryFishFarming, catalog.CategoryPestControl, catalog.CategoryGeneral}

	for _, s := range searches {
		for _, c := range categories {
			name := fmt.Sprintf("search=%q category=%q", s, c)
			t.Run(name, func(t *testing.T) {
				combined := catalog.Filter(tutorials, catalog.Query{Search: s, Category: c})
				categoryFirst := catalog.Filter(catalog.Filter(tutorials, catalog.Query{Category: c}), catalog.Query{Search: s})
				searchFirst := catalog.Filter(catalog.Filter(tutorials, catalog.Query{Search: s}), catalog.Query{Category: c})

				assert.Equal(t, combined, categoryFirst)
				assert.Equal(t, combined, searchFirst)

				q := catalog.Query{Search: s, Category: c}
				assert.Equal(t, combined, catalog.Filter(combined, q))
			})
		}
	}
}

func TestTutorial_Validate(t *testing.T) {
	valid := catalog.DefaultTutorials()[0]
	assert.NoError(t, valid.Validate())

	invalid := catalog.Tutorial{
		Category: "Beekeeping",
		Lessons: []catalog.Lesson{
			{Slug: "hives"},
			{Slug: "hives", Quiz: []catalog.QuizQuestion{{Question: "Queens per hive?", Options: []string{"1", "2"}, CorrectAnswer: "3"}}},
			{},
		},
	}
	err := invalid.Validate()
	require.Error(t, err)
	verr, ok := err.(*core.ValidationError)
	require.True(t, ok)

	fields := make(map[string]string)
	for _, f := range verr.Fields {
		fields[f.Field] = f.Error
	}
	assert.Equal(t, map[string]string{
		"slug":               "this field is required",
		"title":              "this field is required",
		"category":           "invalid category",
		"lessons[1].slug":    "duplicate lesson slug",
		"lessons[1].quiz[0]": `correct answer of question "Queens per hive?" is not one of its options`,
		"lessons[2].slug":    "this field is required",
	}, fields)
}

func TestTutorial_Validate_slugs(t *testing.T) {
	tests := []struct {
		name       string
		slug       string
		lessonSlug string
		wantFields map[string]string
	}{
		{name: "valid", slug: "soil-health-2", lessonSlug: "intro-to-soil"},
		{name: "dotted lesson", slug: "soil", lessonSlug: "lesson-1.2", wantFields: map[string]string{"lessons[0].slug": "must be lower-case letters and digits separated by hyphens"}},
		{name: "dollar lesson", slug: "soil", lessonSlug: "$set", wantFields: map[string]string{"lessons[0].slug": "must be lower-case letters and digits separated by hyphens"}},
		{name: "upper case tutorial", slug: "Soil", lessonSlug: "intro", wantFields: map[string]string{"slug": "must be lower-case letters and digits separated by hyphens"}},
		{name: "spaces", slug: "soil health", lessonSlug: "intro to soil", wantFields: map[string]string{
			"slug":            "must be lower-case letters and digits separated by hyphens",
			"lessons[0].slug": "must be lower-case letters and digits separated by hyphens",
		}},
		{name: "dangling hyphen", slug: "soil-", lessonSlug: "-intro", wantFields: map[string]string{
			"slug":            "must be lower-case letters and digits separated by hyphens",
			"lessons[0].slug": "must be lower-case letters and digits separated by hyphens",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tut := catalog.Tutorial{
				Slug:     tt.slug,
				Title:    "Soil",
				Category: catalog.CategoryGeneral,
				Lessons:  []catalog.Lesson{{Slug: tt.lessonSlug}},
			}
			err := tut.Validate()
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			verr, ok := err.(*core.ValidationError)
			require.True(t, ok, "err = %v", err)
			fields := make(map[string]string)
			for _, f := range verr.Fields {
				fields[f.Field] = f.Error
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}

	// every seeded slug passes
	for _, tut := range catalog.DefaultTutorials() {
		assert.NoError(t, tut.Validate(), tut.Slug)
	}
}

func TestQuery_validation(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		category catalog.Category
		wantErr  bool
	}{
		{category: ""},
		{category: "all"},
		{category: "All"},
		{category: catalog.CategoryPestControl},
		{category: "Beekeeping", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := validate.Struct(catalog.Query{Category: tt.category})
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	repo := inmemdb.NewCatalogRepository(db)
	svc := catalog.NewService(repo)
	testutil.SeedCatalog(t, repo)

	t.Run("list", func(t *testing.T) {
		got, err := svc.List(ctx, catalog.Query{Search: "  Soil ", Category: " Crop Production "})
		require.NoError(t, err)
		assert.Equal(t, []string{"soil-health-basics"}, slugs(got))
	})

	t.Run("get tutorial", func(t *testing.T) {
		got, err := svc.GetTutorial(ctx, "intro-fish-farming")
		require.NoError(t, err)
		assert.Equal(t, "Introduction to Fish Farming", got.Title)

		_, err = svc.GetTutorial(ctx, "beekeeping")
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("get lesson", func(t *testing.T) {
		lesson, owner, err := svc.GetLesson(ctx, "soil-testing")
		require.NoError(t, err)
		assert.Equal(t, "How to Test Your Soil", lesson.Title)
		assert.Equal(t, "soil-health-basics", owner)

		_, _, err = svc.GetLesson(ctx, "hives")
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("total lessons", func(t *testing.T) {
		total, err := svc.TotalLessons(ctx)
		require.NoError(t, err)
		var want int
		for _, tut := range catalog.DefaultTutorials() {
			want += len(tut.Lessons)
		}
		assert.Equal(t, want, total)
	})

	t.Run("save new", func(t *testing.T) {
		saved, err := svc.Save(ctx, catalog.Tutorial{
			Slug:     " beekeeping ",
			Title:    "Beekeeping",
			Category: catalog.CategoryGeneral,
			Lessons:  []catalog.Lesson{{Slug: "hives", Title: "Hives"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "beekeeping", saved.Slug)
		assert.NotEmpty(t, saved.ID)
		assert.NotEmpty(t, saved.Lessons[0].ID)
	})

	t.Run("save replaces same slug", func(t *testing.T) {
		orig, err := svc.GetTutorial(ctx, "beekeeping")
		require.NoError(t, err)

		saved, err := svc.Save(ctx, catalog.Tutorial{
			Slug:     "beekeeping",
			Title:    "Beekeeping 101",
			Category: catalog.CategoryGeneral,
			Lessons:  []catalog.Lesson{{Slug: "hives", Title: "Hives"}, {Slug: "honey", Title: "Honey"}},
		})
		require.NoError(t, err)
		assert.Equal(t, orig.ID, saved.ID)
		assert.Len(t, saved.Lessons, 2)
	})

	t.Run("lesson owned by another tutorial", func(t *testing.T) {
		_, err := svc.Save(ctx, catalog.Tutorial{
			Slug:     "soil-again",
			Title:    "Soil Again",
			Category: catalog.CategoryGeneral,
			Lessons:  []catalog.Lesson{{Slug: "intro-to-soil"}},
		})
		require.Error(t, err)
		_, ok := err.(*core.ValidationError)
		assert.True(t, ok)
	})

	t.Run("lesson slug with a dot", func(t *testing.T) {
		_, err := svc.Save(ctx, catalog.Tutorial{
			Slug:     "ponds",
			Title:    "Ponds",
			Category: catalog.CategoryFishFarming,
			Lessons:  []catalog.Lesson{{Slug: "pond-1.2"}},
		})
		require.Error(t, err)
		_, ok := err.(*core.ValidationError)
		assert.True(t, ok)

		_, _, err = svc.GetLesson(ctx, "pond-1.2")
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := svc.Save(ctx, catalog.Tutorial{Slug: "x", Title: "X", Category: "Nope"})
		require.Error(t, err)
		_, ok := err.(*core.ValidationError)
		assert.True(t, ok)
	})
}
