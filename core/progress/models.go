package progress

import (
	"math"
	"sort"
	"strings"
	"time"
)

type QuizResult struct {
	LessonSlug     string    `json:"lesson_slug" bson:"lessonSlug"`
	Score          int       `json:"score" bson:"score"`
	TotalQuestions int       `json:"total_questions" bson:"totalQuestions"`
	CompletedAt    time.Time `json:"completed_at" bson:"completedAt"` // UTC
}

// Progress is the per-user record of quiz completions, at most one result per lesson.
type Progress struct {
	Quizzes map[string]QuizResult `json:"quizzes" bson:"quizzes"` // {lessonSlug: result}
}

// Answers maps a question index to the chosen option.
type Answers map[int]string

// CompletedLessons returns the slugs of the lessons with a recorded quiz, sorted.
func (p Progress) CompletedLessons() []string {
	slugs := make([]string, 0, len(p.Quizzes))
	for slug := range p.Quizzes {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Summary is the human-readable progress line handed to the tutor and the module suggestions.
func (p Progress) Summary() string {
	if len(p.Quizzes) == 0 {
		return "No quizzes completed yet."
	}
	return "Completed quizzes for: " + strings.Join(p.CompletedLessons(), ", ")
}

// CompletionPercent returns the share of lessons with a completed quiz, rounded, capped at 100.
func (p Progress) CompletionPercent(totalLessons int) int {
	if totalLessons <= 0 {
		return 0
	}
	pct := int(math.Round(float64(len(p.Quizzes)) / float64(totalLessons) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// Upsert sets the result for its lesson, replacing any previous one.
func (p *Progress) Upsert(result QuizResult) {
	if p.Quizzes == nil {
		p.Quizzes = make(map[string]QuizResult)
	}
	p.Quizzes[result.LessonSlug] = result
}

// Copy returns a Progress that shares no memory with p.
func (p Progress) Copy() Progress {
	cp := Progress{Quizzes: make(map[string]QuizResult, len(p.Quizzes))}
	for k, v := range p.Quizzes {
		cp.Quizzes[k] = v
	}
	return cp
}

type (
	QuestionFeedback struct {
		Question      string `json:"question"`
		Chosen        string `json:"chosen"`
		CorrectAnswer string `json:"correct_answer"`
		IsCorrect     bool   `json:"is_correct"`
	}

	Submission struct {
		Result   QuizResult         `json:"result"`
		Feedback []QuestionFeedback `json:"feedback"`
	}
)
