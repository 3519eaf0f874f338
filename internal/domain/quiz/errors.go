package quiz

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadyRunning     = errors.New("quiz is already running in this chat")
	ErrNoActiveSession    = errors.New("no active session in this chat")
	ErrNoSubjectChosen    = errors.New("subject is not chosen")
	ErrUnknownSubject     = errors.New("unknown subject")
	ErrNoContentAvailable = errors.New("no subjects loaded")
	ErrSubjectDisappeared = errors.New("subject disappeared during session")
	ErrUnknownSection     = errors.New("unknown section")
)

// AlreadyRunningError несет подсказку, сколько осталось до конца текущего раздела
type AlreadyRunningError struct {
	QuestionsLeft int
	TimeLeft      time.Duration
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("%s: %d questions left, about %s", ErrAlreadyRunning, e.QuestionsLeft, e.TimeLeft)
}

func (e *AlreadyRunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}
