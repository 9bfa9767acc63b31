// Package memstore is an in-memory implementation of the trivia stores,
// used by tests and by the memory storage driver.
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// DefaultCategories mirrors the categories seeded by the SQL migrations.
var DefaultCategories = []trivia.Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}

type Store struct {
	mu         sync.RWMutex
	categories []trivia.Category
	questions  []trivia.Question
	nextID     int
}

var (
	_ trivia.CategoryStore = (*Store)(nil)
	_ trivia.QuestionStore = (*Store)(nil)
)

// New returns a store holding the given categories and no questions.
func New(categories ...trivia.Category) *Store {
	return &Store{
		categories: slices.Clone(categories),
		nextID:     1,
	}
}

// NewSeeded returns a store holding DefaultCategories.
func NewSeeded() *Store {
	return New(DefaultCategories...)
}

// AddQuestions inserts questions and returns their ids in order.
func (s *Store) AddQuestions(questions ...trivia.NewQuestion) []int {
	ids := make([]int, 0, len(questions))
	for _, q := range questions {
		// CreateQuestion on the in-memory store never returns an error.
		id, _ := s.CreateQuestion(context.Background(), q)
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) ListCategories(_ context.Context) ([]trivia.Category, error) {
	s.mu.RLock()
	out := slices.Clone(s.categories)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id int) (trivia.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return trivia.Category{}, trivia.ErrRecordNotFound
}

func (s *Store) CountQuestions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

func (s *Store) ListQuestions(_ context.Context, limit, offset int) ([]trivia.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset < 0 || offset >= len(s.questions) {
		return nil, nil
	}
	end := min(offset+limit, len(s.questions))
	return slices.Clone(s.questions[offset:end]), nil
}

func (s *Store) CreateQuestion(_ context.Context, q trivia.NewQuestion) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.questions = append(s.questions, trivia.Question{
		ID:         id,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	})
	return id, nil
}

func (s *Store) DeleteQuestion(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.questions, func(q trivia.Question) bool { return q.ID == id })
	if idx < 0 {
		return trivia.ErrRecordNotFound
	}
	s.questions = slices.Delete(s.questions, idx, idx+1)
	return nil
}

func (s *Store) SearchQuestions(_ context.Context, term string) ([]trivia.Question, error) {
	needle := strings.ToLower(term)
	return s.filter(func(q trivia.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	}), nil
}

func (s *Store) ListQuestionsByCategory(_ context.Context, categoryID int) ([]trivia.Question, error) {
	return s.filter(func(q trivia.Question) bool {
		return q.Category == categoryID
	}), nil
}

func (s *Store) ListQuizPool(_ context.Context, filter trivia.QuizFilter) ([]trivia.Question, error) {
	return s.filter(func(q trivia.Question) bool {
		if filter.Category != nil && q.Category != *filter.Category {
			return false
		}
		return !slices.Contains(filter.ExcludeIDs, q.ID)
	}), nil
}

func (s *Store) filter(keep func(trivia.Question) bool) []trivia.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []trivia.Question
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}
