package prompt

import (
	"context"
	"fmt"
)

// Script replays canned answers in order. It records every question asked,
// which makes it useful both for tests and for piping a fixed session.
type Script struct {
	Answers []string
	Asked   []string
	next    int
}

func NewScript(answers ...string) *Script {
	return &Script{Answers: answers}
}

func (s *Script) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.Asked = append(s.Asked, q.Label)
	if s.next >= len(s.Answers) {
		return "", ErrAborted
	}
	answer := s.Answers[s.next]
	s.next++
	return answer, nil
}

func (s *Script) Select(ctx context.Context, label string, choices []string) (int, error) {
	for {
		answer, err := s.Ask(ctx, Question{Label: label})
		if err != nil {
			return 0, err
		}
		if idx, ok := matchChoice(answer, choices); ok {
			return idx, nil
		}
		if len(choices) == 0 {
			return 0, fmt.Errorf("select %s: no choices", label)
		}
	}
}

// Remaining reports how many answers were not consumed.
func (s *Script) Remaining() int {
	return len(s.Answers) - s.next
}
