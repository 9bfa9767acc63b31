package repository

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/gokatarajesh/trivia-api/internal/db/pgstore"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

type questionStore interface {
	CountQuestions(ctx context.Context) (int, error)
	ListQuestionsPage(ctx context.Context, arg pgstore.ListQuestionsPageParams) ([]pgstore.Question, error)
	InsertQuestion(ctx context.Context, arg pgstore.InsertQuestionParams) (int, error)
	DeleteQuestion(ctx context.Context, id int) (int64, error)
	SearchQuestions(ctx context.Context, pattern string) ([]pgstore.Question, error)
	ListQuestionsByCategory(ctx context.Context, category int) ([]pgstore.Question, error)
	ListQuizPool(ctx context.Context, arg pgstore.ListQuizPoolParams) ([]pgstore.Question, error)
}

// QuestionRepository wraps the question queries.
type QuestionRepository struct {
	store questionStore
}

var _ trivia.QuestionStore = (*QuestionRepository)(nil)

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

func (r *QuestionRepository) CountQuestions(ctx context.Context) (int, error) {
	n, err := r.store.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// ListQuestions returns one window of the questions ordered by id.
func (r *QuestionRepository) ListQuestions(ctx context.Context, limit, offset int) ([]trivia.Question, error) {
	rows, err := r.store.ListQuestionsPage(ctx, pgstore.ListQuestionsPageParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questionsToDomain(rows), nil
}

// CreateQuestion inserts q and returns the generated id.
func (r *QuestionRepository) CreateQuestion(ctx context.Context, q trivia.NewQuestion) (int, error) {
	id, err := r.store.InsertQuestion(ctx, pgstore.InsertQuestionParams{
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	})
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int) error {
	if !fitsInt4(id) {
		return fmt.Errorf("question %d: %w", id, trivia.ErrRecordNotFound)
	}
	n, err := r.store.DeleteQuestion(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("question %d: %w", id, trivia.ErrRecordNotFound)
	}
	return nil
}

// SearchQuestions runs a case-insensitive substring match. LIKE
// metacharacters in term match literally.
func (r *QuestionRepository) SearchQuestions(ctx context.Context, term string) ([]trivia.Question, error) {
	rows, err := r.store.SearchQuestions(ctx, "%"+escapeLike(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	return questionsToDomain(rows), nil
}

func (r *QuestionRepository) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]trivia.Question, error) {
	if !fitsInt4(categoryID) {
		return nil, nil
	}
	rows, err := r.store.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list questions of category %d: %w", categoryID, err)
	}
	return questionsToDomain(rows), nil
}

func (r *QuestionRepository) ListQuizPool(ctx context.Context, filter trivia.QuizFilter) ([]trivia.Question, error) {
	if filter.Category != nil && !fitsInt4(*filter.Category) {
		return nil, nil
	}
	// Ids outside the column range match no row, so they exclude nothing.
	exclude := make([]int, 0, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		if fitsInt4(id) {
			exclude = append(exclude, id)
		}
	}
	rows, err := r.store.ListQuizPool(ctx, pgstore.ListQuizPoolParams{
		Category:   filter.Category,
		ExcludeIDs: exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("list quiz pool: %w", err)
	}
	return questionsToDomain(rows), nil
}

// fitsInt4 reports whether v can be bound to an INTEGER/SERIAL column.
func fitsInt4(v int) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func questionsToDomain(rows []pgstore.Question) []trivia.Question {
	out := make([]trivia.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, trivia.Question{
			ID:         row.ID,
			Question:   row.Question,
			Answer:     row.Answer,
			Category:   row.Category,
			Difficulty: row.Difficulty,
		})
	}
	return out
}
