package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const questionColumns = `id, question, answer, category, difficulty`

const countQuestions = `SELECT count(*) FROM questions`

func (q *Queries) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRow(ctx, countQuestions).Scan(&n)
	return n, err
}

const listQuestionsPage = `SELECT ` + questionColumns + `
FROM questions
ORDER BY id
LIMIT $1 OFFSET $2`

type ListQuestionsPageParams struct {
	Limit  int
	Offset int
}

func (q *Queries) ListQuestionsPage(ctx context.Context, arg ListQuestionsPageParams) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsPage, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Question])
}

const insertQuestion = `INSERT INTO questions (question, answer, category, difficulty)
VALUES ($1, $2, $3, $4)
RETURNING id`

type InsertQuestionParams struct {
	Question   string
	Answer     string
	Category   int
	Difficulty int
}

func (q *Queries) InsertQuestion(ctx context.Context, arg InsertQuestionParams) (int, error) {
	var id int
	err := q.db.QueryRow(ctx, insertQuestion, arg.Question, arg.Answer, arg.Category, arg.Difficulty).Scan(&id)
	return id, err
}

const deleteQuestion = `DELETE FROM questions WHERE id = $1`

// DeleteQuestion returns the number of removed rows.
func (q *Queries) DeleteQuestion(ctx context.Context, id int) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteQuestion, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const searchQuestions = `SELECT ` + questionColumns + `
FROM questions
WHERE question ILIKE $1
ORDER BY id`

// SearchQuestions matches pattern with ILIKE; callers build the pattern.
func (q *Queries) SearchQuestions(ctx context.Context, pattern string) ([]Question, error) {
	rows, err := q.db.Query(ctx, searchQuestions, pattern)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Question])
}

const listQuestionsByCategory = `SELECT ` + questionColumns + `
FROM questions
WHERE category = $1
ORDER BY id`

func (q *Queries) ListQuestionsByCategory(ctx context.Context, category int) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByCategory, category)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Question])
}

const listQuizPool = `SELECT ` + questionColumns + `
FROM questions
WHERE ($1::int IS NULL OR category = $1::int)
  AND NOT (id = ANY($2::int[]))
ORDER BY id`

type ListQuizPoolParams struct {
	// Category is nil when every category is eligible.
	Category   *int
	ExcludeIDs []int
}

func (q *Queries) ListQuizPool(ctx context.Context, arg ListQuizPoolParams) ([]Question, error) {
	exclude := arg.ExcludeIDs
	if exclude == nil {
		// id = ANY(NULL) is NULL and would filter every row.
		exclude = []int{}
	}
	rows, err := q.db.Query(ctx, listQuizPool, arg.Category, exclude)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Question])
}
