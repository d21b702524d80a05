package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"fitcoach/assistant-app/internal/domain"
	"fitcoach/assistant-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrNoProfile         = errors.New("profile not set up")
	ErrProfileIncomplete = errors.New("profile is not complete yet")
	ErrProgramActive     = errors.New("program already started; reset it to start over")
)

// MessageKind tells the messaging layer which reply template to use.
type MessageKind string

const (
	MessagePlanReady       MessageKind = "plan_ready"
	MessageWorkoutDone     MessageKind = "workout_done"
	MessageProgramComplete MessageKind = "program_complete"
)

// WorkoutMessage is the outcome of a workout request or completion
// event.
type WorkoutMessage struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
	Week int         `json:"week,omitempty"`
	Day  int         `json:"day,omitempty"`
}

// ProfileUpdate reports the state of profile collection after a
// submission.
type ProfileUpdate struct {
	State         domain.ProgramState `json:"state"`
	MissingFields []string            `json:"missing_fields,omitempty"`
	Program       *domain.UserProgram `json:"program,omitempty"`
}

// Card is the user's progress card.
type Card struct {
	Profile         domain.Profile      `json:"profile"`
	AgeGroup        string              `json:"age_group"`
	CompletedCount  int                 `json:"completed_count"`
	TotalWorkouts   int                 `json:"total_workouts"`
	CurrentWeek     int                 `json:"current_week"`
	PercentComplete int                 `json:"percent_complete"`
	State           domain.ProgramState `json:"state"`
}

// ProgramService drives the per-user 28-day program state machine:
// NO_PROFILE → COLLECTING_PROFILE → ACTIVE(week, day) → COMPLETE.
type ProgramService interface {
	StartProfile(ctx context.Context, userID string) (*domain.UserProgram, error)
	SubmitProfile(ctx context.Context, userID string, fields domain.Profile) (ProfileUpdate, error)
	RequestWorkout(ctx context.Context, userID string) (WorkoutMessage, error)
	CompleteWorkout(ctx context.Context, userID string) (WorkoutMessage, error)
	ShowCard(ctx context.Context, userID string) (*Card, error)
	Reset(ctx context.Context, userID string) error
}

// programService implements ProgramService.
type programService struct {
	programs  repository.ProgramRepository
	retrieval RetrievalService
	renderer  PlanRenderer

	// Per-user serialization point: two concurrent completion events
	// from the same user must not race the read-modify-write cycle.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProgramService creates a new instance of programService.
func NewProgramService(programs repository.ProgramRepository, retrieval RetrievalService, renderer PlanRenderer) ProgramService {
	return &programService{
		programs:  programs,
		retrieval: retrieval,
		renderer:  renderer,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *programService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// StartProfile begins (or restarts) profile collection for a user.
// A program that already activated cannot be restarted this way; only
// an explicit Reset discards progress.
func (s *programService) StartProfile(ctx context.Context, userID string) (*domain.UserProgram, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.programs.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err == nil && (existing.State == domain.StateActive || existing.State == domain.StateComplete) {
		return nil, ErrProgramActive
	}

	program := &domain.UserProgram{
		UserID: userID,
		State:  domain.StateCollectingProfile,
	}
	if err := s.programs.Save(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// SubmitProfile merges parsed profile fields into the user's program.
// When every required field is present the program activates at week
// 1, day 1.
func (s *programService) SubmitProfile(ctx context.Context, userID string, fields domain.Profile) (ProfileUpdate, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	program, err := s.programs.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return ProfileUpdate{}, err
		}
		program = &domain.UserProgram{
			UserID: userID,
			State:  domain.StateCollectingProfile,
		}
	}

	program.Profile.Merge(fields)

	// An active or finished program takes the field updates only. The
	// workout day never decreases and history is never erased outside
	// Reset, so the activation branch below is off limits here.
	if program.State == domain.StateActive || program.State == domain.StateComplete {
		program.AgeGroup = domain.AgeGroupForAge(program.Profile.Age)
		if err := s.programs.Save(ctx, program); err != nil {
			return ProfileUpdate{}, err
		}
		return ProfileUpdate{State: program.State, Program: program}, nil
	}

	if missing := program.Profile.MissingFields(); len(missing) > 0 {
		program.State = domain.StateCollectingProfile
		if err := s.programs.Save(ctx, program); err != nil {
			return ProfileUpdate{}, err
		}
		return ProfileUpdate{State: program.State, MissingFields: missing, Program: program}, nil
	}

	if program.Profile.Limitations == "" {
		program.Profile.Limitations = "none"
	}
	program.State = domain.StateActive
	program.AgeGroup = domain.AgeGroupForAge(program.Profile.Age)
	program.WorkoutDay = 1
	program.CurrentWeek = 1
	program.InWorkout = false
	program.WorkoutsCompleted = []domain.CompletedWorkout{}

	if err := s.programs.Save(ctx, program); err != nil {
		return ProfileUpdate{}, err
	}
	return ProfileUpdate{State: program.State, Program: program}, nil
}

// RequestWorkout emits the next workout's rendered text and marks the
// user as mid-workout. Repeated requests re-issue the same day until a
// completion event advances it.
func (s *programService) RequestWorkout(ctx context.Context, userID string) (WorkoutMessage, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	program, err := s.getProgram(ctx, userID)
	if err != nil {
		return WorkoutMessage{}, err
	}
	if program.State == domain.StateCollectingProfile {
		return WorkoutMessage{}, ErrProfileIncomplete
	}

	if program.Finished() {
		// A document past day 28 can still carry state=active, e.g.
		// after an out-of-band edit; settle the transition here.
		if program.State != domain.StateComplete {
			program.State = domain.StateComplete
			if err := s.programs.Save(ctx, program); err != nil {
				return WorkoutMessage{}, err
			}
		}
		return WorkoutMessage{Kind: MessageProgramComplete, Text: completionText()}, nil
	}

	week := program.CurrentWeek
	day := program.WorkoutDay

	result, err := s.retrieval.GetWorkoutPlan(ctx, program.Profile.Gender, program.AgeGroup, week, day)
	if err != nil {
		return WorkoutMessage{}, err
	}
	if result.Fidelity == domain.PlanAbsent {
		result.Plan = &domain.PlanRecord{
			Key:            domain.PlanKey(program.Profile.Gender, program.AgeGroup, week, day),
			Name:           fmt.Sprintf("Workout %d.%d", week, day),
			Category:       domain.PlanCategory{Gender: program.Profile.Gender, AgeGroup: program.AgeGroup},
			Week:           week,
			Day:            day,
			IntensityLevel: domain.IntensityMedium,
		}
	}

	warmup, err := s.retrieval.GetWarmup(ctx)
	if err != nil {
		// A missing warmup routine degrades the message, it does not
		// block the workout.
		warmup = nil
	}

	text, err := s.renderer.Render(ctx, result.Plan, warmup, program.LastWorkout)
	if err != nil {
		return WorkoutMessage{}, err
	}

	program.LastWorkout = &domain.WorkoutSnapshot{Week: week, Day: day, Text: text}
	program.InWorkout = true
	if err := s.programs.Save(ctx, program); err != nil {
		return WorkoutMessage{}, err
	}

	return WorkoutMessage{Kind: MessagePlanReady, Text: text, Week: week, Day: day}, nil
}

// CompleteWorkout records a completion event and advances the program.
// A completion with no workout in progress is still accepted and
// advances the day; the original product behaves this way, so it is
// logged rather than rejected.
func (s *programService) CompleteWorkout(ctx context.Context, userID string) (WorkoutMessage, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	program, err := s.getProgram(ctx, userID)
	if err != nil {
		return WorkoutMessage{}, err
	}
	if program.State == domain.StateCollectingProfile {
		return WorkoutMessage{}, ErrProfileIncomplete
	}

	if !program.InWorkout {
		log.Printf("WARN: completion event for user %s with no workout in progress", userID)
	}

	week := program.CurrentWeek
	day := program.WorkoutDay

	program.WorkoutsCompleted = append(program.WorkoutsCompleted, domain.CompletedWorkout{
		Week:        week,
		Day:         day,
		CompletedAt: time.Now().UTC(),
	})
	program.InWorkout = false

	if day < domain.ProgramDays {
		program.WorkoutDay = day + 1
		program.CurrentWeek = domain.WeekForDay(program.WorkoutDay)
		if err := s.programs.Save(ctx, program); err != nil {
			return WorkoutMessage{}, err
		}

		percent := day * 100 / domain.ProgramDays
		text := fmt.Sprintf("Workout %d.%d complete!\nProgress: %d%% (day %d of %d), week %d of %d.",
			week, day, percent, day, domain.ProgramDays, week, domain.ProgramWeeks)
		return WorkoutMessage{Kind: MessageWorkoutDone, Text: text, Week: program.CurrentWeek, Day: program.WorkoutDay}, nil
	}

	// Day 28 completed: the whole curriculum is done.
	program.WorkoutDay = domain.ProgramDays + 1
	program.State = domain.StateComplete
	if err := s.programs.Save(ctx, program); err != nil {
		return WorkoutMessage{}, err
	}
	return WorkoutMessage{Kind: MessageProgramComplete, Text: completionText()}, nil
}

// ShowCard returns the user's progress card.
func (s *programService) ShowCard(ctx context.Context, userID string) (*Card, error) {
	program, err := s.getProgram(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := len(program.WorkoutsCompleted)
	return &Card{
		Profile:         program.Profile,
		AgeGroup:        program.AgeGroup,
		CompletedCount:  completed,
		TotalWorkouts:   domain.ProgramDays,
		CurrentWeek:     program.CurrentWeek,
		PercentComplete: completed * 100 / domain.ProgramDays,
		State:           program.State,
	}, nil
}

// Reset deletes all persisted program state for the user. Resetting a
// user that never started is a no-op.
func (s *programService) Reset(ctx context.Context, userID string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.programs.Delete(ctx, userID)
}

func (s *programService) getProgram(ctx context.Context, userID string) (*domain.UserProgram, error) {
	program, err := s.programs.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoProfile
		}
		return nil, err
	}
	if program.State == domain.StateNoProfile {
		return nil, ErrNoProfile
	}
	return program, nil
}

func completionText() string {
	return fmt.Sprintf("Congratulations! You finished the %d-week program: all %d workouts done.\n"+
		"You built a training habit, learned the base movements and improved your conditioning.\n"+
		"Reset your program to start over.",
		domain.ProgramWeeks, domain.ProgramDays)
}
