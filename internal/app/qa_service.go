package app

import (
	"context"

	"compboard/internal/domain"
)

// previewAnswerLimit caps how many answers a question list item carries.
const previewAnswerLimit = 2

// QAService implements the Q&A forum use cases.
type QAService struct {
	qa QARepository
}

func NewQAService(qa QARepository) *QAService {
	return &QAService{qa: qa}
}

// Questions lists all questions newest first, each with its answer count and a
// short preview tail. One admin answer, if any, is surfaced ahead of the rest.
func (s *QAService) Questions(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.qa.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		answers, err := s.qa.ListAnswers(ctx, questions[i].ID)
		if err != nil {
			return nil, err
		}
		questions[i].AnswerCount = len(answers)
		questions[i].LatestAnswers = previewAnswers(answers)
	}
	return questions, nil
}

// previewAnswers picks up to previewAnswerLimit answers, newest first,
// prioritizing a single admin response.
func previewAnswers(answers []domain.Answer) []domain.Answer {
	newest := make([]domain.Answer, len(answers))
	copy(newest, answers)
	// ListAnswers returns ascending creation order; previews want newest first.
	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}

	var admin, rest []domain.Answer
	for _, a := range newest {
		if a.AuthorIsAdmin {
			if len(admin) == 0 {
				admin = append(admin, a)
			}
			continue
		}
		rest = append(rest, a)
	}
	preview := append(admin, rest...)
	if len(preview) > previewAnswerLimit {
		preview = preview[:previewAnswerLimit]
	}
	if preview == nil {
		preview = []domain.Answer{}
	}
	return preview
}

// Question fetches one question with its full answer thread in posting order.
func (s *QAService) Question(ctx context.Context, id int64) (domain.QuestionDetail, error) {
	question, err := s.qa.GetQuestion(ctx, id)
	if err != nil {
		return domain.QuestionDetail{}, err
	}
	answers, err := s.qa.ListAnswers(ctx, id)
	if err != nil {
		return domain.QuestionDetail{}, err
	}
	question.AnswerCount = len(answers)
	question.LatestAnswers = []domain.Answer{}
	return domain.QuestionDetail{Question: question, AllAnswers: answers}, nil
}

// Ask posts a new question.
func (s *QAService) Ask(ctx context.Context, teamID int64, title, content string) (domain.Question, error) {
	question, err := s.qa.CreateQuestion(ctx, teamID, title, content)
	if err != nil {
		return domain.Question{}, err
	}
	question.LatestAnswers = []domain.Answer{}
	return question, nil
}

// Answer posts a reply to an existing question.
func (s *QAService) Answer(ctx context.Context, questionID, teamID int64, content string) (domain.Answer, error) {
	if _, err := s.qa.GetQuestion(ctx, questionID); err != nil {
		return domain.Answer{}, err
	}
	return s.qa.CreateAnswer(ctx, questionID, teamID, content)
}

// DeleteQuestion removes a question and its answers. Admin only.
func (s *QAService) DeleteQuestion(ctx context.Context, id int64) error {
	return s.qa.DeleteQuestion(ctx, id)
}

// DeleteAnswer removes one answer. Admin only.
func (s *QAService) DeleteAnswer(ctx context.Context, id int64) error {
	return s.qa.DeleteAnswer(ctx, id)
}
