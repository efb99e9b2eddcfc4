package progress

import "github.com/farmwise/farmwise/core/catalog"

// Score counts the answers equal to the question's correct answer.
// Answers for indices outside the question list are ignored. CompletedAt is left to the caller.
func Score(lessonSlug string, questions []catalog.QuizQuestion, answers Answers) (QuizResult, []QuestionFeedback) {
	result := QuizResult{LessonSlug: lessonSlug, TotalQuestions: len(questions)}
	feedback := make([]QuestionFeedback, 0, len(questions))
	for i, q := range questions {
		chosen, answered := answers[i]
		correct := answered && chosen == q.CorrectAnswer
		if correct {
			result.Score++
		}
		feedback = append(feedback, QuestionFeedback{
			Question:      q.Question,
			Chosen:        chosen,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
		})
	}
	return result, feedback
}
