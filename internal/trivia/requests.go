package trivia

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FlexibleInt decodes either a JSON number or a numeric JSON string. The
// client sends category ids taken from object keys, which are strings.
type FlexibleInt int

func (n *FlexibleInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		*n = FlexibleInt(v)
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = FlexibleInt(v)
	return nil
}

// CreateQuestionRequest is the body of POST /questions. Pointers tell a
// missing field apart from a zero value.
type CreateQuestionRequest struct {
	Question   *string      `json:"question" validate:"required"`
	Answer     *string      `json:"answer" validate:"required"`
	Difficulty *FlexibleInt `json:"difficulty" validate:"required,min=1,max=5"`
	Category   *FlexibleInt `json:"category" validate:"required,min=1"`
}

func (r *CreateQuestionRequest) Validate() error {
	return validate.Struct(r)
}

func (r *CreateQuestionRequest) ToNewQuestion() NewQuestion {
	return NewQuestion{
		Question:   *r.Question,
		Answer:     *r.Answer,
		Difficulty: int(*r.Difficulty),
		Category:   int(*r.Category),
	}
}

// SearchRequest is the body of POST /questions/search.
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

// Validate accepts any decodable body. A missing or empty term is not a
// schema error: Service.SearchQuestions answers it with not found.
func (r *SearchRequest) Validate() error {
	return nil
}

// Term returns the search term, empty when it was not sent.
func (r *SearchRequest) Term() string {
	if r.SearchTerm == nil {
		return ""
	}
	return *r.SearchTerm
}

// QuizCategory identifies the category a quiz is played in. The id may be
// omitted when Type is the "All" sentinel.
type QuizCategory struct {
	ID   *FlexibleInt `json:"id" validate:"required_unless=Type click"`
	Type string       `json:"type"`
}

// PlayQuizRequest is the body of POST /quizzes.
type PlayQuizRequest struct {
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
	PreviousQuestions []int         `json:"previous_questions" validate:"required"`
}

func (r *PlayQuizRequest) Validate() error {
	return validate.Struct(r)
}

func (r *PlayQuizRequest) ToQuizRequest() QuizRequest {
	req := QuizRequest{
		CategoryType:      r.QuizCategory.Type,
		PreviousQuestions: r.PreviousQuestions,
	}
	if r.QuizCategory.ID != nil {
		req.CategoryID = int(*r.QuizCategory.ID)
	}
	return req
}

// validationSummary flattens validator errors into "field:tag" pairs for logs.
func validationSummary(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+":"+fe.Tag())
	}
	return strings.Join(parts, ",")
}
