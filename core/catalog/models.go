package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/farmwise/farmwise/core"
)

// slugs are used as document field names: lower-case words joined by hyphens
var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const invalidSlugText = "must be lower-case letters and digits separated by hyphens"

type Category string

const (
	CategoryCropProduction Category = "Crop Production"
	CategoryFishFarming    Category = "Fish Farming"
	CategoryPestControl    Category = "Pest Control"
	CategoryGeneral        Category = "General"

	// CategoryAll matches every category when filtering.
	CategoryAll Category = "all"
)

var Categories = []Category{CategoryCropProduction, CategoryFishFarming, CategoryPestControl, CategoryGeneral}

func (c Category) IsValid() bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

func (c Category) isWildcard() bool {
	return c == "" || strings.EqualFold(string(c), string(CategoryAll))
}

type QuizQuestion struct {
	Question      string   `json:"question" bson:"question"`
	Options       []string `json:"options" bson:"options"`
	CorrectAnswer string   `json:"correct_answer" bson:"correctAnswer"`
}

// Validate checks that the question is answerable: the correct answer must be one of the options.
func (q QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %q needs at least 2 options", q.Question)
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("correct answer of question %q is not one of its options", q.Question)
}

type Lesson struct {
	ID       string         `json:"id" bson:"id"`
	Slug     string         `json:"slug" bson:"slug"`
	Title    string         `json:"title" bson:"title"`
	Content  string         `json:"content" bson:"content"`
	VideoURL string         `json:"video_url,omitempty" bson:"videoUrl,omitempty"`
	Quiz     []QuizQuestion `json:"quiz" bson:"quiz"`
}

type Tutorial struct {
	ID          string   `json:"id" bson:"_id"`
	Slug        string   `json:"slug" bson:"slug"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Category    Category `json:"category" bson:"category"`
	ImageURL    string   `json:"image_url" bson:"imageUrl"`
	Lessons     []Lesson `json:"lessons" bson:"lessons"`
}

// Validate checks a tutorial before it is saved to the catalog.
func (t Tutorial) Validate() error {
	var flds []core.FieldError
	if strings.TrimSpace(t.Slug) == "" {
		flds = append(flds, core.FieldError{Field: "slug", Error: "this field is required"})
	} else if !slugRe.MatchString(t.Slug) {
		flds = append(flds, core.FieldError{Field: "slug", Error: invalidSlugText})
	}
	if strings.TrimSpace(t.Title) == "" {
		flds = append(flds, core.FieldError{Field: "title", Error: "this field is required"})
	}
	if !t.Category.IsValid() {
		flds = append(flds, core.FieldError{Field: "category", Error: "invalid category"})
	}

	slugs := make(map[string]struct{}, len(t.Lessons))
	for i, l := range t.Lessons {
		fld := fmt.Sprintf("lessons[%d]", i)
		if strings.TrimSpace(l.Slug) == "" {
			flds = append(flds, core.FieldError{Field: fld + ".slug", Error: "this field is required"})
		} else if !slugRe.MatchString(l.Slug) {
			flds = append(flds, core.FieldError{Field: fld + ".slug", Error: invalidSlugText})
		} else if _, dup := slugs[l.Slug]; dup {
			flds = append(flds, core.FieldError{Field: fld + ".slug", Error: "duplicate lesson slug"})
		}
		slugs[l.Slug] = struct{}{}
		for j, q := range l.Quiz {
			if err := q.Validate(); err != nil {
				flds = append(flds, core.FieldError{Field: fmt.Sprintf("%s.quiz[%d]", fld, j), Error: err.Error()})
			}
		}
	}

	if len(flds) > 0 {
		return core.NewValidationError(fmt.Errorf("invalid tutorial %q", t.Slug), flds...)
	}
	return nil
}

// Query filters the catalog listing.
type Query struct {
	Search   string   `query:"search" json:"search"`
	Category Category `query:"category" json:"category" validate:"omitempty,category"`
}

func (q *Query) Clean() {
	q.Search = core.CleanString(q.Search)
	q.Category = Category(core.CleanString(string(q.Category)))
}
