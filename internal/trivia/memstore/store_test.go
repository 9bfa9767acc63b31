package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

func TestListCategoriesOrderedByType(t *testing.T) {
	store := NewSeeded()

	categories, err := store.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, len(DefaultCategories))

	var types []string
	for _, c := range categories {
		types = append(types, c.Type)
	}
	assert.Equal(t, []string{"Art", "Entertainment", "Geography", "History", "Science", "Sports"}, types)
}

func TestGetCategoryUnknown(t *testing.T) {
	_, err := NewSeeded().GetCategory(context.Background(), 42)
	assert.ErrorIs(t, err, trivia.ErrRecordNotFound)
}

func TestCreateListAndDeleteQuestions(t *testing.T) {
	ctx := context.Background()
	store := NewSeeded()
	ids := store.AddQuestions(
		trivia.NewQuestion{Question: "q1", Answer: "a1", Category: 1, Difficulty: 1},
		trivia.NewQuestion{Question: "q2", Answer: "a2", Category: 2, Difficulty: 2},
		trivia.NewQuestion{Question: "q3", Answer: "a3", Category: 1, Difficulty: 3},
	)
	assert.Equal(t, []int{1, 2, 3}, ids)

	page, err := store.ListQuestions(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 2, page[0].ID)
	assert.Equal(t, 3, page[1].ID)

	empty, err := store.ListQuestions(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.DeleteQuestion(ctx, 2))
	assert.ErrorIs(t, store.DeleteQuestion(ctx, 2), trivia.ErrRecordNotFound)

	n, err := store.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	id, err := store.CreateQuestion(ctx, trivia.NewQuestion{Question: "q4"})
	require.NoError(t, err)
	assert.Equal(t, 4, id, "ids are never reused")
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	store := NewSeeded()
	store.AddQuestions(
		trivia.NewQuestion{Question: "What movie earned Tom Hanks his third straight Oscar nomination?"},
		trivia.NewQuestion{Question: "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?"},
		trivia.NewQuestion{Question: "What was the TITLE of the 1990 fantasy directed by Tim Burton?"},
	)

	found, err := store.SearchQuestions(context.Background(), "title")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 2, found[0].ID)
	assert.Equal(t, 3, found[1].ID)
}

func TestListQuizPoolFilters(t *testing.T) {
	ctx := context.Background()
	store := NewSeeded()
	store.AddQuestions(
		trivia.NewQuestion{Question: "a", Category: 1},
		trivia.NewQuestion{Question: "b", Category: 1},
		trivia.NewQuestion{Question: "c", Category: 2},
	)

	science := 1
	pool, err := store.ListQuizPool(ctx, trivia.QuizFilter{Category: &science, ExcludeIDs: []int{1}})
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, 2, pool[0].ID)

	all, err := store.ListQuizPool(ctx, trivia.QuizFilter{ExcludeIDs: []int{2}})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 3, all[1].ID)
}
