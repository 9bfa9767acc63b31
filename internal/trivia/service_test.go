package trivia_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
	"github.com/gokatarajesh/trivia-api/internal/trivia/memstore"
)

type memoryCache struct {
	categories []trivia.Category
	gets       int
	sets       int
	getErr     error
}

func (c *memoryCache) Get(_ context.Context) ([]trivia.Category, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	if c.categories == nil {
		return nil, false, nil
	}
	return c.categories, true, nil
}

func (c *memoryCache) Set(_ context.Context, categories []trivia.Category) error {
	c.sets++
	c.categories = categories
	return nil
}

// brokenStore fails every call routed through it.
type brokenStore struct {
	*memstore.Store
	err error
}

func (b brokenStore) ListCategories(context.Context) ([]trivia.Category, error) {
	return nil, b.err
}

func (b brokenStore) GetCategory(context.Context, int) (trivia.Category, error) {
	return trivia.Category{}, b.err
}

func (b brokenStore) CountQuestions(context.Context) (int, error) {
	return 0, b.err
}

func (b brokenStore) CreateQuestion(context.Context, trivia.NewQuestion) (int, error) {
	return 0, b.err
}

func (b brokenStore) DeleteQuestion(context.Context, int) error {
	return b.err
}

func (b brokenStore) ListQuizPool(context.Context, trivia.QuizFilter) ([]trivia.Question, error) {
	return nil, b.err
}

func seededStore(n int) *memstore.Store {
	store := memstore.NewSeeded()
	for i := 0; i < n; i++ {
		store.AddQuestions(trivia.NewQuestion{
			Question:   "question",
			Answer:     "answer",
			Category:   i%2 + 1,
			Difficulty: 1,
		})
	}
	return store
}

func newService(store *memstore.Store, cache trivia.CategoryCache) *trivia.Service {
	return trivia.NewService(store, store, cache, trivia.ServiceOptions{})
}

func TestListCategories(t *testing.T) {
	svc := newService(memstore.NewSeeded(), nil)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 6)
	assert.Equal(t, "Art", categories[0].Type)
}

func TestListCategoriesEmptyIsNotFound(t *testing.T) {
	svc := newService(memstore.New(), nil)

	_, err := svc.ListCategories(context.Background())
	assert.Equal(t, trivia.KindNotFound, trivia.KindOf(err))
}

func TestListCategoriesStoreFailureIsInternal(t *testing.T) {
	store := brokenStore{Store: memstore.NewSeeded(), err: errors.New("db down")}
	svc := trivia.NewService(store, store, nil, trivia.ServiceOptions{})

	_, err := svc.ListCategories(context.Background())
	assert.Equal(t, trivia.KindInternal, trivia.KindOf(err))
	assert.ErrorContains(t, err, "db down")
}

func TestListCategoriesUsesCache(t *testing.T) {
	cache := &memoryCache{}
	svc := newService(memstore.NewSeeded(), cache)

	_, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// A store that fails proves the second read is served from the cache.
	broken := brokenStore{Store: memstore.NewSeeded(), err: errors.New("db down")}
	svc = trivia.NewService(broken, broken, cache, trivia.ServiceOptions{})
	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 6)
	assert.Equal(t, 1, cache.sets)
}

func TestListCategoriesCacheErrorFallsThrough(t *testing.T) {
	cache := &memoryCache{getErr: errors.New("redis down")}
	svc := newService(memstore.NewSeeded(), cache)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 6)
}

func TestListQuestionsPagination(t *testing.T) {
	svc := newService(seededStore(19), nil)

	first, err := svc.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, first.Questions, 10)
	assert.Equal(t, 19, first.Total)
	assert.Equal(t, 1, first.Questions[0].ID)
	assert.Len(t, first.Categories, 6)

	second, err := svc.ListQuestions(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, second.Questions, 9)
	assert.Equal(t, 11, second.Questions[0].ID)
}

func TestListQuestionsBeyondLastPageIsNotFound(t *testing.T) {
	svc := newService(seededStore(19), nil)

	for _, page := range []int{3, 5555, 0, -1} {
		_, err := svc.ListQuestions(context.Background(), page)
		assert.Equal(t, trivia.KindNotFound, trivia.KindOf(err), "page %d", page)
	}
}

// offsetRecorder captures the window requested from the store.
type offsetRecorder struct {
	*memstore.Store
	offsets []int
}

func (o *offsetRecorder) ListQuestions(ctx context.Context, limit, offset int) ([]trivia.Question, error) {
	o.offsets = append(o.offsets, offset)
	return o.Store.ListQuestions(ctx, limit, offset)
}

func TestListQuestionsHugePageNeverReachesStore(t *testing.T) {
	store := &offsetRecorder{Store: seededStore(3)}
	svc := trivia.NewService(store, store, nil, trivia.ServiceOptions{})

	for _, page := range []int{922337203685477582, math.MaxInt} {
		_, err := svc.ListQuestions(context.Background(), page)
		assert.Equal(t, trivia.KindNotFound, trivia.KindOf(err), "page %d", page)
	}
	assert.Empty(t, store.offsets)

	// The largest page whose offset still fits is passed through unchanged.
	last := math.MaxInt/trivia.DefaultQuestionsPerPage + 1
	_, err := svc.ListQuestions(context.Background(), last)
	assert.Equal(t, trivia.KindNotFound, trivia.KindOf(err))
	require.Len(t, store.offsets, 1)
	assert.GreaterOrEqual(t, store.offsets[0], 0)
}

func TestListQuestionsCustomPageSize(t *testing.T) {
	store := seededStore(5)
	svc := trivia.NewService(store, store, nil, trivia.ServiceOptions{QuestionsPerPage: 2})

	page, err := svc.ListQuestions(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, page.Questions, 1)
	assert.Equal(t, 5, page.Questions[0].ID)
}

func TestDeleteQuestion(t *testing.T) {
	store := seededStore(3)
	svc := newService(store, nil)
	ctx := context.Background()

	id, deleted, err := svc.DeleteQuestion(ctx, "2")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 2, id)

	_, deleted, err = svc.DeleteQuestion(ctx, "2")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, _, err = svc.DeleteQuestion(ctx, "abc")
	assert.Equal(t, trivia.KindUnprocessable, trivia.KindOf(err))

	total, _ := store.CountQuestions(ctx)
	assert.Equal(t, 2, total)
}

func TestDeleteQuestionStoreFailureIsInternal(t *testing.T) {
	store := brokenStore{Store: memstore.NewSeeded(), err: errors.New("db down")}
	svc := trivia.NewService(store, store, nil, trivia.ServiceOptions{})

	_, _, err := svc.DeleteQuestion(context.Background(), "1")
	assert.Equal(t, trivia.KindInternal, trivia.KindOf(err))
}

func TestCreateQuestion(t *testing.T) {
	store := seededStore(2)
	svc := newService(store, nil)

	id, err := svc.CreateQuestion(context.Background(), trivia.NewQuestion{
		Question: "new question", Answer: "new answer", Category: 1, Difficulty: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	total, _ := store.CountQuestions(context.Background())
	assert.Equal(t, 3, total)
}

func TestCreateQuestionStoreFailureIsUnprocessable(t *testing.T) {
	store := brokenStore{Store: memstore.NewSeeded(), err: errors.New("constraint")}
	svc := trivia.NewService(store, store, nil, trivia.ServiceOptions{})

	_, err := svc.CreateQuestion(context.Background(), trivia.NewQuestion{})
	assert.Equal(t, trivia.KindUnprocessable, trivia.KindOf(err))
}

func TestSearchQuestions(t *testing.T) {
	store := memstore.NewSeeded()
	store.AddQuestions(
		trivia.NewQuestion{Question: "What is the Title of this book?"},
		trivia.NewQuestion{Question: "Who painted the Mona Lisa?"},
	)
	svc := newService(store, nil)

	result, err := svc.SearchQuestions(context.Background(), "title")
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Questions[0].ID)

	none, err := svc.SearchQuestions(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total)

	_, err = svc.SearchQuestions(context.Background(), "")
	assert.Equal(t, trivia.KindNotFound, trivia.KindOf(err))
}

func TestQuestionsByCategory(t *testing.T) {
	svc := newService(seededStore(5), nil)

	result, err := svc.QuestionsByCategory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	require.NotNil(t, result.Category)
	assert.Equal(t, "Science", result.Category.Type)
	for _, q := range result.Questions {
		assert.Equal(t, 1, q.Category)
	}

	_, err = svc.QuestionsByCategory(context.Background(), 5555)
	assert.Equal(t, trivia.KindNotFound, trivia.KindOf(err))
}

func TestNextQuizQuestionByCategory(t *testing.T) {
	now := time.Unix(1700000000, 500000000)
	store := seededStore(6)
	svc := trivia.NewService(store, store, nil, trivia.ServiceOptions{
		IntN: func(n int) int { return n - 1 },
		Now:  func() time.Time { return now },
	})

	round, err := svc.NextQuizQuestion(context.Background(), trivia.QuizRequest{
		CategoryID:        1,
		CategoryType:      "Science",
		PreviousQuestions: []int{5},
	})
	require.NoError(t, err)
	require.NotNil(t, round.Question)
	assert.Equal(t, 3, round.Question.ID)
	assert.Equal(t, now, round.Timestamp)
}

func TestNextQuizQuestionNeverRepeats(t *testing.T) {
	svc := newService(seededStore(10), nil)
	ctx := context.Background()

	var previous []int
	for {
		round, err := svc.NextQuizQuestion(ctx, trivia.QuizRequest{
			CategoryID:        2,
			CategoryType:      "Art",
			PreviousQuestions: previous,
		})
		require.NoError(t, err)
		if round.Question == nil {
			break
		}
		assert.Equal(t, 2, round.Question.Category)
		assert.NotContains(t, previous, round.Question.ID)
		previous = append(previous, round.Question.ID)
	}
	assert.Len(t, previous, 5)
}

func TestNextQuizQuestionAllCategories(t *testing.T) {
	store := seededStore(4)
	svc := trivia.NewService(store, store, nil, trivia.ServiceOptions{
		IntN: func(int) int { return 0 },
	})

	round, err := svc.NextQuizQuestion(context.Background(), trivia.QuizRequest{
		CategoryID:        0,
		CategoryType:      trivia.AllCategoriesType,
		PreviousQuestions: []int{1},
	})
	require.NoError(t, err)
	require.NotNil(t, round.Question)
	assert.Equal(t, 2, round.Question.ID)
	assert.Equal(t, 2, round.Question.Category)
}

func TestNextQuizQuestionStoreFailureIsUnprocessable(t *testing.T) {
	store := brokenStore{Store: memstore.NewSeeded(), err: errors.New("db down")}
	svc := trivia.NewService(store, store, nil, trivia.ServiceOptions{})

	_, err := svc.NextQuizQuestion(context.Background(), trivia.QuizRequest{CategoryType: "Science", CategoryID: 1})
	assert.Equal(t, trivia.KindUnprocessable, trivia.KindOf(err))
}
