package question

// ClientSlider is the presentation subset of a Slider.
type ClientSlider struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// ClientView is the only form of a question that may cross the wire to a
// client. Answer-revealing fields have no representation here at all.
type ClientView struct {
	ID          string          `json:"id"`
	Type        InteractionType `json:"type"`
	Text        string          `json:"text"`
	CodeSnippet string          `json:"code_snippet,omitempty"`

	Options        []string       `json:"options,omitempty"`
	StarterCode    string         `json:"starter_code,omitempty"`
	Tests          string         `json:"tests,omitempty"`
	Items          []string       `json:"items,omitempty"`
	LeftItems      []string       `json:"left_items,omitempty"`
	RightItems     []string       `json:"right_items,omitempty"`
	TextWithBlanks string         `json:"text_with_blanks,omitempty"`
	BlankCount     int            `json:"blank_count,omitempty"`
	Sliders        []ClientSlider `json:"sliders,omitempty"`
}

// Sanitize strips every answer-bearing field and keeps only the
// presentation fields for the question's interaction type. matchPerm is
// the room-cached permutation for drag_match questions and is ignored for
// every other type.
func Sanitize(q Question, matchPerm []int) ClientView {
	view := ClientView{
		ID:          q.ID,
		Type:        q.Type,
		Text:        q.Text,
		CodeSnippet: q.CodeSnippet,
	}

	switch q.Type {
	case TypeQuiz:
		view.Options = append([]string(nil), q.Options...)

	case TypeProgramming:
		view.StarterCode = q.StarterCode
		view.Tests = q.Tests

	case TypeTypeAnswer, TypePredictOutput:
		// text only

	case TypeDragOrder:
		view.Items = append([]string(nil), q.Items...)

	case TypeDragMatch:
		view.LeftItems = append([]string(nil), q.LeftItems...)
		view.RightItems = make([]string, len(q.RightItems))
		for shown, canonical := range matchPerm {
			view.RightItems[shown] = q.RightItems[canonical]
		}

	case TypeFillBlank:
		view.TextWithBlanks = q.TextWithBlanks
		view.BlankCount = len(q.BlankAnswers)

	case TypeSliderAdjust:
		view.Sliders = make([]ClientSlider, len(q.Sliders))
		for i, s := range q.Sliders {
			view.Sliders[i] = ClientSlider{Label: s.Label, Min: s.Min, Max: s.Max}
		}
	}

	return view
}

// Reveal returns the canonical answer in a client-presentable form. It is
// sent only to a player who has just submitted their own attempt.
func Reveal(q Question) any {
	switch q.Type {
	case TypeQuiz:
		return q.CorrectAnswer
	case TypeProgramming:
		return q.Solution
	case TypeTypeAnswer, TypePredictOutput:
		if len(q.AcceptedAnswers) > 0 {
			return q.AcceptedAnswers[0]
		}
		return q.CorrectAnswer
	case TypeDragOrder:
		return q.CorrectOrder
	case TypeDragMatch:
		pairs := make(map[string]string, len(q.LeftItems))
		for i, left := range q.LeftItems {
			if i < len(q.RightItems) {
				pairs[left] = q.RightItems[i]
			}
		}
		return pairs
	case TypeFillBlank:
		return q.BlankAnswers
	case TypeSliderAdjust:
		targets := make([]float64, len(q.Sliders))
		for i, s := range q.Sliders {
			targets[i] = s.Target
		}
		return targets
	}
	return nil
}
