package question

type InteractionType string

const (
	TypeQuiz          InteractionType = "quiz"
	TypeProgramming   InteractionType = "programming"
	TypeTypeAnswer    InteractionType = "type_answer"
	TypeDragOrder     InteractionType = "drag_order"
	TypeDragMatch     InteractionType = "drag_match"
	TypeFillBlank     InteractionType = "fill_blank"
	TypePredictOutput InteractionType = "predict_output"
	TypeSliderAdjust  InteractionType = "slider_adjust"
)

// Slider carries the target and tolerance server-side; only label and
// bounds are ever shown to clients.
type Slider struct {
	Label     string  `json:"label"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Target    float64 `json:"target"`
	Tolerance float64 `json:"tolerance"`
}

// Question is the full answer-bearing form as returned by the generator.
// It must never be marshaled to a client; clients only ever see the
// ClientView produced by Sanitize.
type Question struct {
	ID          string          `json:"id"`
	Type        InteractionType `json:"type"`
	Text        string          `json:"text"`
	CodeSnippet string          `json:"code_snippet,omitempty"`

	// quiz / type_answer / predict_output
	Options         []string `json:"options,omitempty"`
	CorrectAnswer   string   `json:"correct_answer,omitempty"`
	AcceptedAnswers []string `json:"accepted_answers,omitempty"`

	// programming; Tests is the public script handed to the client,
	// Solution stays server-side.
	StarterCode string `json:"starter_code,omitempty"`
	Tests       string `json:"tests,omitempty"`
	Solution    string `json:"solution,omitempty"`

	// drag_order
	Items        []string `json:"items,omitempty"`
	CorrectOrder []string `json:"correct_order,omitempty"`

	// drag_match; LeftItems[i] pairs with RightItems[i]
	LeftItems  []string `json:"left_items,omitempty"`
	RightItems []string `json:"right_items,omitempty"`

	// fill_blank
	TextWithBlanks string   `json:"text_with_blanks,omitempty"`
	BlankAnswers   []string `json:"blank_answers,omitempty"`

	// slider_adjust
	Sliders []Slider `json:"sliders,omitempty"`
}

// Answer is what a client submits; the populated field depends on the
// question's interaction type.
type Answer struct {
	Value          string    `json:"value,omitempty"`
	Values         []string  `json:"values,omitempty"`
	Mapping        []int     `json:"mapping,omitempty"`
	Numbers        []float64 `json:"numbers,omitempty"`
	AllTestsPassed bool      `json:"all_tests_passed,omitempty"`
}
