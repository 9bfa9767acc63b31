package pgstore

type Category struct {
	ID   int    `db:"id"`
	Type string `db:"type"`
}

type Question struct {
	ID         int    `db:"id"`
	Question   string `db:"question"`
	Answer     string `db:"answer"`
	Category   int    `db:"category"`
	Difficulty int    `db:"difficulty"`
}
