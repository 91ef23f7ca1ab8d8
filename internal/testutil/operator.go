package testutil

import (
	"context"
	"fmt"
	"sync"
)

// Operator answers confirmation prompts from a script.
//
// Each prompt consumes the next answer; once the script is exhausted
// prompts fail. Every phrase asked is recorded.
type Operator struct {
	mu      sync.Mutex
	answers []string
	asked   []string
}

// NewOperator creates an operator that gives answers in order.
func NewOperator(answers ...string) *Operator {
	return &Operator{answers: answers}
}

// Prompt has the signature of archive.Prompt.
func (o *Operator) Prompt(ctx context.Context, phrase string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.asked = append(o.asked, phrase)
	if len(o.answers) == 0 {
		return "", fmt.Errorf("operator has no answer for prompt %d", len(o.asked))
	}
	answer := o.answers[0]
	o.answers = o.answers[1:]
	return answer, nil
}

// Asked returns the phrases prompted so far.
func (o *Operator) Asked() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.asked...)
}

// Env returns a lookup over vars, standing in for os.Getenv.
func Env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}
