// Package roster decides whether the user's roster may take the floor.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/preston-bernstein/nba-playoffs-service/internal/domain/players"
)

// RejectionKind names why a roster was refused.
type RejectionKind string

const (
	KindInjuredStarters RejectionKind = "InjuredStarters"
	KindInvalidMinutes  RejectionKind = "InvalidMinutes"
)

// Remediation hints shown next to a rejection.
const (
	HintInjuredStarters = "Go to Lineup and move injured players out of the starting five."
	HintInvalidMinutes  = "Go to Lineup and rebalance rotation minutes."
)

// Rejection is a structured, recoverable refusal of a Play or Simulate action.
type Rejection struct {
	Kind         RejectionKind `json:"kind"`
	Count        int           `json:"count,omitempty"`
	Names        []string      `json:"names,omitempty"`
	TotalMinutes int           `json:"totalMinutes,omitempty"`
	Message      string        `json:"message"`
	Hint         string        `json:"hint"`
}

func (r *Rejection) Error() string {
	return r.Message
}

// AsRejection unwraps a roster rejection.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// Validate checks injured starters first, then the rotation minutes total.
// It returns nil when the roster is legal.
func Validate(r players.Roster) *Rejection {
	var injured []string
	for _, p := range r.Starters() {
		if p.Injured {
			injured = append(injured, p.DisplayName())
		}
	}
	if n := len(injured); n > 0 {
		noun := "starter"
		if n > 1 {
			noun = "starters"
		}
		names := strings.Join(injured, ", ")
		return &Rejection{
			Kind:    KindInjuredStarters,
			Count:   n,
			Names:   injured,
			Message: fmt.Sprintf("%d injured %s in the lineup: %s", n, noun, names),
			Hint:    HintInjuredStarters,
		}
	}

	if total := r.TotalMinutes(); total != players.RegulationMinutes {
		return &Rejection{
			Kind:         KindInvalidMinutes,
			TotalMinutes: total,
			Message:      fmt.Sprintf("rotation minutes total %d, expected exactly %d", total, players.RegulationMinutes),
			Hint:         HintInvalidMinutes,
		}
	}
	return nil
}

// Check is Validate as a plain error, nil when the roster is legal.
func Check(r players.Roster) error {
	if rej := Validate(r); rej != nil {
		return rej
	}
	return nil
}
