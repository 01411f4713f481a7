// Package confirm defines the operator confirmation port used at the two
// human checkpoints of the intake workflow: identifier reservation and stage
// advancement. Injecting the port keeps business logic testable with scripted
// responses.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the operator a yes/no question. Only an affirmative answer
// returns true; any other input, including EOF, is a decline.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Terminal reads confirmations from an input stream, prompting on out.
type Terminal struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminal builds a Confirmer over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(in), out: out}
}

// Confirm prints the prompt and reads one line. "yes" in any casing affirms.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(t.out, "%s\nType 'Yes'/'yes'. Anything else will skip: ", prompt)
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		// EOF without input is a decline, not a failure.
		if err == io.EOF {
			fmt.Fprintln(t.out)
			return false, nil
		}
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return Affirmative(line), nil
}

// Affirmative reports whether a raw response counts as a yes.
func Affirmative(response string) bool {
	return strings.EqualFold(strings.TrimSpace(response), "yes")
}

// Scripted replays a fixed sequence of answers; exhausted scripts decline.
type Scripted struct {
	answers []bool
	// Prompts records every prompt seen, in order.
	Prompts []string
}

// NewScripted builds a scripted Confirmer for tests.
func NewScripted(answers ...bool) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) Confirm(prompt string) (bool, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.answers) == 0 {
		return false, nil
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

// Assume answers every prompt with a fixed response; used by --yes flags.
type Assume bool

func (a Assume) Confirm(string) (bool, error) { return bool(a), nil }
