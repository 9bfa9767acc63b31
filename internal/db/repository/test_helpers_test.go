package repository

import "github.com/gokatarajesh/trivia-api/internal/db/pgstore"

func pgQuestion(id, category int) pgstore.Question {
	return pgstore.Question{
		ID:         id,
		Question:   "Question",
		Answer:     "Answer",
		Category:   category,
		Difficulty: 1,
	}
}
