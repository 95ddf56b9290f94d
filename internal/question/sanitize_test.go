package question

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func allVariants() map[InteractionType]Question {
	return map[InteractionType]Question{
		TypeQuiz: {
			ID: "q1", Type: TypeQuiz, Text: "Capital of France?",
			Options: []string{"Paris", "London"}, CorrectAnswer: "Paris",
		},
		TypeProgramming: {
			ID: "q2", Type: TypeProgramming, Text: "Sum two ints",
			StarterCode: "func add(a, b int) int {}", Tests: "assert add(1,2)==3",
			Solution: "return a + b",
		},
		TypeTypeAnswer: {
			ID: "q3", Type: TypeTypeAnswer, Text: "Name Go's lightweight thread",
			AcceptedAnswers: []string{"goroutine"},
		},
		TypeDragOrder: {
			ID: "q4", Type: TypeDragOrder, Text: "Order the phases",
			Items: []string{"b", "a", "c"}, CorrectOrder: []string{"a", "b", "c"},
		},
		TypeDragMatch: {
			ID: "q5", Type: TypeDragMatch, Text: "Match the mascots",
			LeftItems: []string{"Go", "Python"}, RightItems: []string{"gopher", "snake"},
		},
		TypeFillBlank: {
			ID: "q6", Type: TypeFillBlank, Text: "Fill in",
			TextWithBlanks: "a ___ declares a ___", BlankAnswers: []string{"func", "function"},
		},
		TypePredictOutput: {
			ID: "q7", Type: TypePredictOutput, Text: "What prints?",
			CodeSnippet: `fmt.Println(1 + 1)`, AcceptedAnswers: []string{"2"},
		},
		TypeSliderAdjust: {
			ID: "q8", Type: TypeSliderAdjust, Text: "Tune the knobs",
			Sliders: []Slider{{Label: "threads", Min: 0, Max: 100, Target: 42, Tolerance: 2}},
		},
	}
}

func TestSanitize_NeverLeaksAnswerFields(t *testing.T) {
	leaky := []string{
		"correct_answer", "accepted_answers", "solution",
		"correct_order", "blank_answers", "target", "tolerance",
	}

	for typ, q := range allVariants() {
		perm := []int{0, 1}
		view := Sanitize(q, perm)

		data, err := json.Marshal(view)
		require.NoError(t, err)
		payload := string(data)

		for _, field := range leaky {
			require.NotContains(t, payload, field, "type %s leaks %s", typ, field)
		}
		require.NotContains(t, payload, "return a + b", "type %s leaks the solution", typ)
	}
}

func TestSanitize_KeepsPresentationFields(t *testing.T) {
	qs := allVariants()

	quiz := Sanitize(qs[TypeQuiz], nil)
	require.Equal(t, []string{"Paris", "London"}, quiz.Options)

	prog := Sanitize(qs[TypeProgramming], nil)
	require.Equal(t, "assert add(1,2)==3", prog.Tests)
	require.Equal(t, "func add(a, b int) int {}", prog.StarterCode)

	blank := Sanitize(qs[TypeFillBlank], nil)
	require.Equal(t, "a ___ declares a ___", blank.TextWithBlanks)
	require.Equal(t, 2, blank.BlankCount)

	slider := Sanitize(qs[TypeSliderAdjust], nil)
	require.Len(t, slider.Sliders, 1)
	require.Equal(t, "threads", slider.Sliders[0].Label)
	require.Equal(t, 100.0, slider.Sliders[0].Max)
}

func TestSanitize_DragMatch_AppliesPermutation(t *testing.T) {
	q := allVariants()[TypeDragMatch]

	view := Sanitize(q, []int{1, 0})
	require.Equal(t, []string{"Go", "Python"}, view.LeftItems)
	require.Equal(t, []string{"snake", "gopher"}, view.RightItems)

	// The permuted view still pairs correctly through Validate.
	require.True(t, Validate(q, Answer{Mapping: []int{1, 0}}, []int{1, 0}))
}

func TestReveal_PerVariant(t *testing.T) {
	qs := allVariants()

	require.Equal(t, "Paris", Reveal(qs[TypeQuiz]))
	require.Equal(t, "return a + b", Reveal(qs[TypeProgramming]))
	require.Equal(t, "goroutine", Reveal(qs[TypeTypeAnswer]))
	require.Equal(t, []string{"a", "b", "c"}, Reveal(qs[TypeDragOrder]))
	require.Equal(t, map[string]string{"Go": "gopher", "Python": "snake"}, Reveal(qs[TypeDragMatch]))
	require.Equal(t, []string{"func", "function"}, Reveal(qs[TypeFillBlank]))
	require.Equal(t, []float64{42}, Reveal(qs[TypeSliderAdjust]))
}
