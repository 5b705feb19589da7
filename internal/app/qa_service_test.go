package app_test

import (
	"context"
	"errors"
	"testing"

	"compboard/internal/app"
	"compboard/internal/domain"
	"compboard/internal/infra/memory"
)

func TestQuestionPreviewPrioritizesAdminAnswer(t *testing.T) {
	ctx := context.Background()
	teams := memory.NewTeamStore()
	store := memory.NewQAStore(teams)
	svc := app.NewQAService(store)

	asker, _ := teams.Create(ctx, "asker", "hash", false)
	replier, _ := teams.Create(ctx, "replier", "hash", false)
	admin, _ := teams.Create(ctx, "admin", "hash", true)

	question, err := svc.Ask(ctx, asker.ID, "Scoring question", "How is the combined score computed?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	if _, err := svc.Answer(ctx, question.ID, replier.ID, "first reply"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := svc.Answer(ctx, question.ID, admin.ID, "official reply"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := svc.Answer(ctx, question.ID, replier.ID, "second reply"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := svc.Answer(ctx, question.ID, replier.ID, "third reply"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	questions, err := svc.Questions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	q := questions[0]
	if q.AnswerCount != 4 {
		t.Fatalf("expected answer count 4, got %d", q.AnswerCount)
	}
	if len(q.LatestAnswers) != 2 {
		t.Fatalf("expected preview capped at 2, got %d", len(q.LatestAnswers))
	}
	// admin answer first, then the newest non-admin answer
	if !q.LatestAnswers[0].AuthorIsAdmin || q.LatestAnswers[0].Content != "official reply" {
		t.Fatalf("expected admin answer first, got %+v", q.LatestAnswers[0])
	}
	if q.LatestAnswers[1].Content != "third reply" {
		t.Fatalf("expected newest non-admin answer second, got %+v", q.LatestAnswers[1])
	}
}

func TestQuestionPreviewNewestFirstWithoutAdmin(t *testing.T) {
	ctx := context.Background()
	teams := memory.NewTeamStore()
	store := memory.NewQAStore(teams)
	svc := app.NewQAService(store)

	asker, _ := teams.Create(ctx, "asker", "hash", false)
	question, _ := svc.Ask(ctx, asker.ID, "Deadline", "When does the competition close?")

	for _, content := range []string{"one", "two", "three"} {
		if _, err := svc.Answer(ctx, question.ID, asker.ID, content); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}

	questions, err := svc.Questions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	preview := questions[0].LatestAnswers
	if len(preview) != 2 || preview[0].Content != "three" || preview[1].Content != "two" {
		t.Fatalf("expected the two newest answers, got %+v", preview)
	}
}

func TestQuestionDetailListsAnswersInPostingOrder(t *testing.T) {
	ctx := context.Background()
	teams := memory.NewTeamStore()
	store := memory.NewQAStore(teams)
	svc := app.NewQAService(store)

	asker, _ := teams.Create(ctx, "asker", "hash", false)
	question, _ := svc.Ask(ctx, asker.ID, "Data format", "What columns does the submission need?")

	for _, content := range []string{"one", "two", "three"} {
		if _, err := svc.Answer(ctx, question.ID, asker.ID, content); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}

	detail, err := svc.Question(ctx, question.ID)
	if err != nil {
		t.Fatalf("question detail: %v", err)
	}
	if detail.AnswerCount != 3 || len(detail.AllAnswers) != 3 {
		t.Fatalf("expected 3 answers, got %+v", detail)
	}
	if detail.AllAnswers[0].Content != "one" || detail.AllAnswers[2].Content != "three" {
		t.Fatalf("expected posting order, got %+v", detail.AllAnswers)
	}
	if detail.AuthorName != "asker" {
		t.Fatalf("expected author resolved, got %q", detail.AuthorName)
	}
}

func TestAnswerUnknownQuestionFails(t *testing.T) {
	teams := memory.NewTeamStore()
	svc := app.NewQAService(memory.NewQAStore(teams))

	_, err := svc.Answer(context.Background(), 42, 1, "into the void")
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestDeleteQuestionRemovesAnswers(t *testing.T) {
	ctx := context.Background()
	teams := memory.NewTeamStore()
	store := memory.NewQAStore(teams)
	svc := app.NewQAService(store)

	asker, _ := teams.Create(ctx, "asker", "hash", false)
	question, _ := svc.Ask(ctx, asker.ID, "Temp", "to be deleted")
	answer, _ := svc.Answer(ctx, question.ID, asker.ID, "reply")

	if err := svc.DeleteQuestion(ctx, question.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if _, err := svc.Question(ctx, question.ID); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question gone, got %v", err)
	}
	if err := store.DeleteAnswer(ctx, answer.ID); !errors.Is(err, domain.ErrAnswerNotFound) {
		t.Fatalf("expected answers cascaded, got %v", err)
	}
}
