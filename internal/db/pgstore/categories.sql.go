package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const listCategories = `SELECT id, type FROM categories ORDER BY type, id`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Category])
}

const getCategory = `SELECT id, type FROM categories WHERE id = $1`

func (q *Queries) GetCategory(ctx context.Context, id int) (Category, error) {
	var c Category
	err := q.db.QueryRow(ctx, getCategory, id).Scan(&c.ID, &c.Type)
	return c, err
}
