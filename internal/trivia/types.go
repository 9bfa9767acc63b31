package trivia

// AllCategoriesType is the quiz_category.type the client sends when the
// player picks "All".
const AllCategoriesType = "click"

// DefaultQuestionsPerPage is the page size of the question listing.
const DefaultQuestionsPerPage = 10

// Category is a labeled grouping of questions. Read-only for this service.
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Question is the formatted question payload delivered to clients.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// NewQuestion carries the fields needed to persist a question.
type NewQuestion struct {
	Question   string
	Answer     string
	Category   int
	Difficulty int
}

// QuizFilter describes the quiz pool: questions of Category (all
// categories when nil) minus ExcludeIDs.
type QuizFilter struct {
	Category   *int
	ExcludeIDs []int
}

// CategoryMap renders categories as the id -> type object the client expects.
func CategoryMap(categories []Category) map[int]string {
	out := make(map[int]string, len(categories))
	for _, c := range categories {
		out[c.ID] = c.Type
	}
	return out
}

// QuestionPage is one window of the ordered question listing.
type QuestionPage struct {
	Questions  []Question
	Total      int
	Categories []Category
}

// QuestionList is a filtered set of questions, with the category it was
// filtered by when there is one.
type QuestionList struct {
	Questions []Question
	Total     int
	Category  *Category
}
