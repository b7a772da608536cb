package session

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Answer is the candidate's current response to one question: a single
// option index for single-answer questions, or a set of indices for
// multiple-answer questions. On the wire it is a bare number or a
// sorted array, matching the service's submit payload shape.
type Answer struct {
	multi   bool
	single  int
	indices []int
}

// SingleAnswer returns an Answer holding one option index.
func SingleAnswer(idx int) Answer {
	return Answer{single: idx}
}

// MultiAnswer returns an Answer holding a set of option indices.
func MultiAnswer(indices ...int) Answer {
	set := slices.Clone(indices)
	slices.Sort(set)
	set = slices.Compact(set)
	return Answer{multi: true, indices: set}
}

// IsMulti reports whether the answer is a set of indices.
func (a Answer) IsMulti() bool { return a.multi }

// Single returns the stored option index for a single-answer response.
func (a Answer) Single() int { return a.single }

// Indices returns the sorted option indices for a multi-answer response.
func (a Answer) Indices() []int { return slices.Clone(a.indices) }

// Contains reports whether idx is part of the response.
func (a Answer) Contains(idx int) bool {
	if a.multi {
		return slices.Contains(a.indices, idx)
	}
	return a.single == idx
}

// Empty reports whether a multi-answer response has no indices left.
func (a Answer) Empty() bool {
	return a.multi && len(a.indices) == 0
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		return json.Marshal(a.indices)
	}
	return json.Marshal(a.single)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var set []int
	if err := json.Unmarshal(data, &set); err == nil {
		*a = MultiAnswer(set...)
		return nil
	}
	var idx int
	if err := json.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("answer must be an index or an index array: %w", err)
	}
	*a = SingleAnswer(idx)
	return nil
}

// Ledger maps question id to the candidate's current response.
// Absence of a key means "unanswered".
type Ledger map[int]Answer

// Select applies one selection to the ledger. For a single-answer
// question the stored response is overwritten with idx. For a
// multiple-answer question membership of idx is toggled; toggling the
// last index off removes the key entirely, so presence in the map
// always means "answered".
func (l Ledger) Select(q Question, idx int) {
	if !q.MultipleChoice {
		l[q.ID] = SingleAnswer(idx)
		return
	}

	cur, ok := l[q.ID]
	if !ok {
		l[q.ID] = MultiAnswer(idx)
		return
	}

	set := cur.Indices()
	if pos := slices.Index(set, idx); pos >= 0 {
		set = slices.Delete(set, pos, pos+1)
	} else {
		set = append(set, idx)
	}

	if len(set) == 0 {
		delete(l, q.ID)
		return
	}
	l[q.ID] = MultiAnswer(set...)
}

// Answered reports whether the question has a recorded response.
func (l Ledger) Answered(questionID int) bool {
	_, ok := l[questionID]
	return ok
}

// WirePayload returns the ledger keyed the way the scoring service
// expects it: "q<id>" mapped to a number or index array.
func (l Ledger) WirePayload() map[string]Answer {
	out := make(map[string]Answer, len(l))
	for id, a := range l {
		out[fmt.Sprintf("q%d", id)] = a
	}
	return out
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for id, a := range l {
		out[id] = a
	}
	return out
}
