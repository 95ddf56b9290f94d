package question

import (
	"math"
	"strings"
	"time"

	"arena-service/internal/constants"
)

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// Validate checks a submitted answer against the question's answer key.
// matchPerm must be the same permutation that was used to sanitize a
// drag_match question for this room.
func Validate(q Question, ans Answer, matchPerm []int) bool {
	switch q.Type {
	case TypeQuiz:
		return norm(ans.Value) == norm(q.CorrectAnswer)

	case TypeProgramming:
		return ans.AllTestsPassed

	case TypeTypeAnswer, TypePredictOutput:
		accepted := q.AcceptedAnswers
		if len(accepted) == 0 && q.CorrectAnswer != "" {
			accepted = []string{q.CorrectAnswer}
		}
		for _, a := range accepted {
			if norm(ans.Value) == norm(a) {
				return true
			}
		}
		return false

	case TypeDragOrder:
		if len(ans.Values) != len(q.CorrectOrder) {
			return false
		}
		for i, v := range ans.Values {
			if v != q.CorrectOrder[i] {
				return false
			}
		}
		return true

	case TypeDragMatch:
		// Mapping[i] is the shown right-column index the player chose for
		// left item i; the permutation maps it back to the canonical index.
		if len(ans.Mapping) != len(q.LeftItems) {
			return false
		}
		for i, shown := range ans.Mapping {
			if shown < 0 || shown >= len(matchPerm) {
				return false
			}
			if matchPerm[shown] != i {
				return false
			}
		}
		return true

	case TypeFillBlank:
		if len(ans.Values) != len(q.BlankAnswers) {
			return false
		}
		for i, v := range ans.Values {
			if norm(v) != norm(q.BlankAnswers[i]) {
				return false
			}
		}
		return true

	case TypeSliderAdjust:
		if len(ans.Numbers) != len(q.Sliders) {
			return false
		}
		for i, v := range ans.Numbers {
			if math.Abs(v-q.Sliders[i].Target) > q.Sliders[i].Tolerance {
				return false
			}
		}
		return true
	}
	return false
}

// Points computes base points plus the speed bonus for a correct answer.
// elapsed is measured from when this player received the question.
func Points(t InteractionType, elapsed time.Duration) int {
	base, maxBonus, decay := constants.QuizBasePoints, constants.QuizMaxBonus, constants.QuizDecayWindow
	if t == TypeProgramming {
		base, maxBonus, decay = constants.ProgrammingBasePoints, constants.ProgrammingMaxBonus, constants.ProgrammingDecayWindow
	}

	bonus := int(math.Floor(float64(maxBonus) * (1 - elapsed.Seconds()/decay.Seconds())))
	if bonus < 0 {
		bonus = 0
	}
	return base + bonus
}
