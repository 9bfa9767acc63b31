package trivia

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/gokatarajesh/trivia-api/internal/logging"
)

// CategoryStore reads the pre-seeded categories.
type CategoryStore interface {
	// ListCategories returns every category ordered by type.
	ListCategories(ctx context.Context) ([]Category, error)
	// GetCategory returns ErrRecordNotFound for unknown ids.
	GetCategory(ctx context.Context, id int) (Category, error)
}

// QuestionStore persists questions. Every listing is ordered by id.
type QuestionStore interface {
	CountQuestions(ctx context.Context) (int, error)
	ListQuestions(ctx context.Context, limit, offset int) ([]Question, error)
	CreateQuestion(ctx context.Context, q NewQuestion) (int, error)
	// DeleteQuestion returns ErrRecordNotFound when no row was removed.
	DeleteQuestion(ctx context.Context, id int) error
	// SearchQuestions is a case-insensitive substring match on the text.
	SearchQuestions(ctx context.Context, term string) ([]Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error)
	ListQuizPool(ctx context.Context, filter QuizFilter) ([]Question, error)
}

// CategoryCache keeps the category listing out of the database. A miss
// is reported with ok == false and a nil error.
type CategoryCache interface {
	Get(ctx context.Context) (categories []Category, ok bool, err error)
	Set(ctx context.Context, categories []Category) error
}

type ServiceOptions struct {
	QuestionsPerPage int
	// IntN returns a uniform integer in [0, n). Defaults to math/rand/v2.
	IntN func(n int) int
	Now  func() time.Time
}

// Service implements the trivia operations on top of the stores.
type Service struct {
	categories CategoryStore
	questions  QuestionStore
	cache      CategoryCache
	perPage    int
	intN       func(n int) int
	now        func() time.Time
}

// NewService wires a Service. cache may be nil.
func NewService(categories CategoryStore, questions QuestionStore, cache CategoryCache, opts ServiceOptions) *Service {
	s := &Service{
		categories: categories,
		questions:  questions,
		cache:      cache,
		perPage:    opts.QuestionsPerPage,
		intN:       opts.IntN,
		now:        opts.Now,
	}
	if s.perPage <= 0 {
		s.perPage = DefaultQuestionsPerPage
	}
	if s.intN == nil {
		s.intN = rand.IntN
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ListCategories returns all categories ordered by type.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	const op = "list categories"

	categories, err := s.loadCategories(ctx)
	if err != nil {
		return nil, newError(op, KindInternal, err)
	}
	if len(categories) == 0 {
		return nil, newError(op, KindNotFound, nil)
	}
	return categories, nil
}

// ListQuestions returns the 1-based page of questions ordered by id.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	const op = "list questions"

	// Pages whose offset would not fit in an int lie beyond any data.
	if page < 1 || page-1 > math.MaxInt/s.perPage {
		return QuestionPage{}, newError(op, KindNotFound, nil)
	}

	total, err := s.questions.CountQuestions(ctx)
	if err != nil {
		return QuestionPage{}, newError(op, KindInternal, err)
	}

	questions, err := s.questions.ListQuestions(ctx, s.perPage, (page-1)*s.perPage)
	if err != nil {
		return QuestionPage{}, newError(op, KindInternal, err)
	}
	if len(questions) == 0 {
		return QuestionPage{}, newError(op, KindNotFound, nil)
	}

	categories, err := s.loadCategories(ctx)
	if err != nil {
		return QuestionPage{}, newError(op, KindInternal, err)
	}

	return QuestionPage{Questions: questions, Total: total, Categories: categories}, nil
}

// DeleteQuestion removes the question identified by the raw path value.
// A well-formed id that matches nothing reports deleted == false without
// an error.
func (s *Service) DeleteQuestion(ctx context.Context, rawID string) (id int, deleted bool, err error) {
	const op = "delete question"

	id, err = strconv.Atoi(rawID)
	if err != nil {
		return 0, false, newError(op, KindUnprocessable, err)
	}

	if err := s.questions.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return id, false, nil
		}
		return id, false, newError(op, KindInternal, err)
	}
	return id, true, nil
}

// CreateQuestion persists q and returns its id.
func (s *Service) CreateQuestion(ctx context.Context, q NewQuestion) (int, error) {
	id, err := s.questions.CreateQuestion(ctx, q)
	if err != nil {
		return 0, newError("create question", KindUnprocessable, err)
	}
	return id, nil
}

// SearchQuestions matches term against question text. An empty term is
// treated as a lookup for nothing.
func (s *Service) SearchQuestions(ctx context.Context, term string) (QuestionList, error) {
	const op = "search questions"

	if term == "" {
		return QuestionList{}, newError(op, KindNotFound, nil)
	}

	questions, err := s.questions.SearchQuestions(ctx, term)
	if err != nil {
		return QuestionList{}, newError(op, KindInternal, err)
	}
	return QuestionList{Questions: questions, Total: len(questions)}, nil
}

// QuestionsByCategory lists the questions of an existing category.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int) (QuestionList, error) {
	const op = "questions by category"

	category, err := s.categories.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return QuestionList{}, newError(op, KindNotFound, err)
		}
		return QuestionList{}, newError(op, KindInternal, err)
	}

	questions, err := s.questions.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return QuestionList{}, newError(op, KindInternal, err)
	}
	return QuestionList{Questions: questions, Total: len(questions), Category: &category}, nil
}

// QuizRequest selects the next quiz question.
type QuizRequest struct {
	CategoryID        int
	CategoryType      string
	PreviousQuestions []int
}

// QuizRound is the outcome of a quiz draw. Question is nil once the pool
// is exhausted.
type QuizRound struct {
	Question  *Question
	Timestamp time.Time
}

// NextQuizQuestion draws a random question from the quiz pool.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (QuizRound, error) {
	filter := QuizFilter{ExcludeIDs: req.PreviousQuestions}
	if req.CategoryType != AllCategoriesType {
		id := req.CategoryID
		filter.Category = &id
	}

	pool, err := s.questions.ListQuizPool(ctx, filter)
	if err != nil {
		return QuizRound{}, newError("next quiz question", KindUnprocessable, err)
	}

	round := QuizRound{Timestamp: s.now()}
	if len(pool) > 0 {
		picked := pool[s.intN(len(pool))]
		round.Question = &picked
	}
	return round, nil
}

func (s *Service) loadCategories(ctx context.Context) ([]Category, error) {
	logger := logging.FromContext(ctx)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("category cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(categories) > 0 {
		if err := s.cache.Set(ctx, categories); err != nil {
			logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}
