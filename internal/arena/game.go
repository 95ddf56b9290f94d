package arena

import (
	"context"
	"log"
	"time"

	"arena-service/internal/constants"
	"arena-service/internal/models"
	"arena-service/internal/question"
)

// Generator is the external question-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, settings models.RoomSettings) ([]question.Question, error)
}

const generateTimeout = 120 * time.Second

// Start moves a waiting room into generating and kicks off question
// generation in the background. Host only; a category must be selected.
func (r *Room) Start(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return ErrNotHost
	}
	if r.status != constants.RoomStatusWaiting {
		return ErrBadState
	}
	if r.settings.Category == "" {
		return ErrNoCategory
	}
	if len(r.players) == 0 {
		return ErrBadState
	}

	r.status = constants.RoomStatusGenerating
	r.genEpoch++
	epoch := r.genEpoch
	settings := r.settings

	r.broadcastLocked(EventGameStatus, GameStatusPayload{Status: GameStatusGenerating})

	go r.generate(epoch, settings)
	return nil
}

// generate runs off the room lock so a slow collaborator never stalls
// other rooms. The epoch check discards a result that lands after a
// cancel (or a cancel-then-restart).
func (r *Room) generate(epoch int, settings models.RoomSettings) {
	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	questions, err := r.registry.generator.Generate(ctx, settings)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.genEpoch != epoch || r.status != constants.RoomStatusGenerating {
		log.Printf("Discarding stale generation result: room=%s", r.Code)
		return
	}

	if err != nil {
		log.Printf("Question generation failed: room=%s, err=%v", r.Code, err)
		r.status = constants.RoomStatusWaiting
		r.broadcastLocked(EventGameStatus, GameStatusPayload{
			Status:  GameStatusError,
			Message: "Question generation failed, please try again",
		})
		return
	}

	if len(questions) > settings.TotalQuestions {
		questions = questions[:settings.TotalQuestions]
	}
	if len(questions) == 0 {
		r.status = constants.RoomStatusWaiting
		r.broadcastLocked(EventGameStatus, GameStatusPayload{
			Status:  GameStatusError,
			Message: "Generator returned no questions",
		})
		return
	}

	r.questions = questions
	r.matchPerms = make(map[int][]int)
	for i, q := range questions {
		if q.Type == question.TypeDragMatch {
			r.matchPerms[i] = r.registry.perm(len(q.RightItems))
		}
	}

	r.status = constants.RoomStatusReady
	r.broadcastLocked(EventGameStatus, GameStatusPayload{
		Status:         GameStatusReady,
		TotalQuestions: len(questions),
	})
}

// Launch moves a ready room into active play: question 0 goes to every
// player and the countdown starts. Host only.
func (r *Room) Launch(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return ErrNotHost
	}
	if r.status != constants.RoomStatusReady {
		return ErrBadState
	}

	r.status = constants.RoomStatusActive
	r.startTime = time.Now()

	r.broadcastLocked(EventGameStarted, GameStartedPayload{
		TimerDuration:  r.settings.TimerDuration,
		TotalQuestions: len(r.questions),
		StartTime:      r.startTime.UnixMilli(),
	})

	for _, p := range r.players {
		p.CurrentQuestionIndex = 0
		p.LastQuestionTime = r.startTime
		r.sendQuestionLocked(p)
	}

	r.timerStop = make(chan struct{})
	go r.runTimer(r.timerStop)

	log.Printf("Game launched: room=%s, players=%d, questions=%d",
		r.Code, len(r.players), len(r.questions))
	return nil
}

// Cancel reverts a generating or ready room to waiting and discards any
// generated questions. Host only.
func (r *Room) Cancel(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return ErrNotHost
	}
	if r.status != constants.RoomStatusGenerating && r.status != constants.RoomStatusReady {
		return ErrBadState
	}

	r.status = constants.RoomStatusWaiting
	r.questions = nil
	r.matchPerms = make(map[int][]int)
	r.genEpoch++

	r.broadcastLocked(EventGameStatus, GameStatusPayload{Status: GameStatusCancelled})
	return nil
}

// SubmitAnswer validates and scores a submission. Stale or out-of-turn
// calls are silent no-ops: they come from client/server races, not user
// mistakes.
func (r *Room) SubmitAnswer(userID string, questionIndex int, ans question.Answer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != constants.RoomStatusActive {
		return
	}
	p := r.findPlayerLocked(userID)
	if p == nil || p.Finished || questionIndex != p.CurrentQuestionIndex {
		return
	}
	if questionIndex < 0 || questionIndex >= len(r.questions) {
		return
	}

	q := r.questions[questionIndex]
	elapsed := time.Since(p.LastQuestionTime)
	correct := question.Validate(q, ans, r.matchPerms[questionIndex])

	points := 0
	if correct {
		points = question.Points(q.Type, elapsed)
		p.Score += points
		p.CorrectAnswers++
	}
	p.CurrentQuestionIndex++

	p.Conn.SendEvent(EventAnswerResult, AnswerResult{
		Correct:       correct,
		PointsEarned:  points,
		TotalScore:    p.Score,
		QuestionIndex: questionIndex,
		CorrectAnswer: question.Reveal(q),
		TimeSpentMs:   elapsed.Milliseconds(),
	})

	if p.CurrentQuestionIndex >= len(r.questions) {
		p.Finished = true
		p.FinishTime = time.Now()
		r.broadcastLocked(EventPlayerFinished, PlayerFinishedPayload{
			UserID: p.ID,
			Name:   p.Name,
			Score:  p.Score,
		})
	} else {
		p.LastQuestionTime = time.Now()
		r.sendQuestionLocked(p)
	}

	r.broadcastLocked(EventLeaderboardUpdate, LeaderboardPayload{
		Leaderboard: r.leaderboardLocked(),
	})

	if r.allFinishedLocked() {
		r.finalizeLocked()
	}
}

// sendQuestionLocked delivers the player's current question, sanitized.
func (r *Room) sendQuestionLocked(p *models.Player) {
	idx := p.CurrentQuestionIndex
	if idx < 0 || idx >= len(r.questions) {
		return
	}
	q := r.questions[idx]
	p.Conn.SendEvent(EventNextQuestion, NextQuestionPayload{
		Question:       question.Sanitize(q, r.matchPerms[idx]),
		QuestionIndex:  idx,
		TotalQuestions: len(r.questions),
	})
}

// runTimer ticks once a second for the life of the active game,
// broadcasting the remaining time and finalizing on expiry.
func (r *Room) runTimer(stop chan struct{}) {
	ticker := time.NewTicker(constants.TimerTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.status != constants.RoomStatusActive {
				r.mu.Unlock()
				return
			}
			remaining := r.settings.TimerDuration - int(time.Since(r.startTime).Seconds())
			if remaining <= 0 {
				r.broadcastLocked(EventTimerUpdate, TimerUpdatePayload{RemainingSeconds: 0})
				r.finalizeLocked()
				r.mu.Unlock()
				return
			}
			r.broadcastLocked(EventTimerUpdate, TimerUpdatePayload{RemainingSeconds: remaining})
			r.mu.Unlock()
		}
	}
}

func (r *Room) stopTimerLocked() {
	if r.timerStop != nil {
		close(r.timerStop)
		r.timerStop = nil
	}
}

// finalizeLocked ends the game exactly once. Timer expiry and the final
// submission can both observe the terminal condition; the status check
// here is the compare-and-transition that makes the second caller a
// no-op.
func (r *Room) finalizeLocked() {
	if r.status != constants.RoomStatusActive {
		return
	}
	r.status = constants.RoomStatusFinished
	r.stopTimerLocked()

	leaderboard := r.leaderboardLocked()
	r.broadcastLocked(EventGameOver, GameOverPayload{Leaderboard: leaderboard})

	results := make([]models.GameResult, 0, len(leaderboard))
	now := time.Now()
	for _, e := range leaderboard {
		p := r.findPlayerLocked(e.UserID)
		if p == nil {
			continue
		}
		results = append(results, models.GameResult{
			UserID:         p.ID,
			RoomCode:       r.Code,
			Username:       p.Name,
			AvatarURL:      p.AvatarURL,
			Score:          p.Score,
			CorrectAnswers: p.CorrectAnswers,
			TotalQuestions: len(r.questions),
			Rank:           nullRank(e.Rank),
			CompletedAt:    now,
		})
	}
	go r.registry.recorder.RecordCompleted(results)

	r.registry.disposeAfter(r.Code, constants.DisposeGracePeriod)
	log.Printf("Game finished: room=%s, players=%d", r.Code, len(leaderboard))
}
