package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"compboard/internal/domain"
)

// QAStore is an in-memory implementation of app.QARepository. Author names are
// resolved against the team store at read time, like the SQL joins do.
type QAStore struct {
	teams *TeamStore

	mu         sync.RWMutex
	nextQID    int64
	nextAID    int64
	questions  map[int64]domain.Question
	answers    map[int64]domain.Answer
	clock      func() time.Time
}

func NewQAStore(teams *TeamStore) *QAStore {
	return &QAStore{
		teams:     teams,
		nextQID:   1,
		nextAID:   1,
		questions: make(map[int64]domain.Question),
		answers:   make(map[int64]domain.Answer),
		clock:     time.Now,
	}
}

func (s *QAStore) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	questions := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		questions = append(questions, q)
	}
	s.mu.RUnlock()

	sort.Slice(questions, func(i, j int) bool {
		if !questions[i].CreatedAt.Equal(questions[j].CreatedAt) {
			return questions[i].CreatedAt.After(questions[j].CreatedAt)
		}
		return questions[i].ID > questions[j].ID
	})
	for i := range questions {
		s.fillAuthor(ctx, &questions[i])
	}
	return questions, nil
}

func (s *QAStore) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	question, ok := s.questions[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	s.fillAuthor(ctx, &question)
	return question, nil
}

func (s *QAStore) ListAnswers(ctx context.Context, questionID int64) ([]domain.Answer, error) {
	s.mu.RLock()
	answers := make([]domain.Answer, 0)
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			answers = append(answers, a)
		}
	}
	s.mu.RUnlock()

	sort.Slice(answers, func(i, j int) bool {
		if !answers[i].CreatedAt.Equal(answers[j].CreatedAt) {
			return answers[i].CreatedAt.Before(answers[j].CreatedAt)
		}
		return answers[i].ID < answers[j].ID
	})
	for i := range answers {
		if team, err := s.teams.GetByID(ctx, answers[i].TeamID); err == nil {
			answers[i].AuthorName = team.Name
			answers[i].AuthorIsAdmin = team.IsAdmin
		}
	}
	return answers, nil
}

func (s *QAStore) CreateQuestion(ctx context.Context, teamID int64, title, content string) (domain.Question, error) {
	s.mu.Lock()
	now := s.clock()
	question := domain.Question{
		ID:        s.nextQID,
		TeamID:    teamID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.questions[question.ID] = question
	s.nextQID++
	s.mu.Unlock()

	s.fillAuthor(ctx, &question)
	return question, nil
}

func (s *QAStore) CreateAnswer(ctx context.Context, questionID, teamID int64, content string) (domain.Answer, error) {
	s.mu.Lock()
	if _, ok := s.questions[questionID]; !ok {
		s.mu.Unlock()
		return domain.Answer{}, domain.ErrQuestionNotFound
	}
	now := s.clock()
	answer := domain.Answer{
		ID:         s.nextAID,
		QuestionID: questionID,
		TeamID:     teamID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.answers[answer.ID] = answer
	s.nextAID++
	s.mu.Unlock()

	if team, err := s.teams.GetByID(ctx, teamID); err == nil {
		answer.AuthorName = team.Name
		answer.AuthorIsAdmin = team.IsAdmin
	}
	return answer, nil
}

func (s *QAStore) DeleteQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	for aid, a := range s.answers {
		if a.QuestionID == id {
			delete(s.answers, aid)
		}
	}
	return nil
}

func (s *QAStore) DeleteAnswer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.answers[id]; !ok {
		return domain.ErrAnswerNotFound
	}
	delete(s.answers, id)
	return nil
}

func (s *QAStore) fillAuthor(ctx context.Context, q *domain.Question) {
	if team, err := s.teams.GetByID(ctx, q.TeamID); err == nil {
		q.AuthorName = team.Name
		q.AuthorIsAdmin = team.IsAdmin
	}
}
