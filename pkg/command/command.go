// Package command parses the serial command tokens and buffers the bytes the
// receive side collects for the main loop.
package command

import (
	"errors"
	"fmt"
)

// Kind identifies a command.
type Kind int

const (
	Online Kind = iota // oN: enable on-line mode every N seconds
	Stop               // s: leave on-line mode
	Hour               // h: minutes of the last hour
	Day                // d: hours of the last day
	Month              // m: days of the last month
	Year               // y: months of the last year
	Clear              // c: clear statistics
	Max                // max: highest current sampled
	List               // l: list commands
)

var kindNames = [...]string{
	Online: "online",
	Stop:   "stop",
	Hour:   "hour",
	Day:    "day",
	Month:  "month",
	Year:   "year",
	Clear:  "clear",
	Max:    "max",
	List:   "list",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

var (
	// ErrUnknown is returned for tokens outside the command set.
	ErrUnknown = errors.New("unknown command. Send l to list commands")
	// ErrOnlineInterval is returned for an o command without a 1..9 digit.
	ErrOnlineInterval = errors.New("use oX with 1 <= X <= 9")
)

// Command is a parsed command token.
type Command struct {
	Kind     Kind
	Interval uint64 // on-line polling interval in ms, Online only
}

// Parse parses one command token.
func Parse(token string) (Command, error) {
	if len(token) > 0 && token[0] == 'o' {
		if len(token) != 2 || token[1] < '1' || token[1] > '9' {
			return Command{}, fmt.Errorf("%q: %w", token, ErrOnlineInterval)
		}
		return Command{Kind: Online, Interval: uint64(token[1]-'0') * 1000}, nil
	}

	if token == "max" {
		return Command{Kind: Max}, nil
	}

	if len(token) == 1 {
		switch token[0] {
		case 's':
			return Command{Kind: Stop}, nil
		case 'h':
			return Command{Kind: Hour}, nil
		case 'd':
			return Command{Kind: Day}, nil
		case 'm':
			return Command{Kind: Month}, nil
		case 'y':
			return Command{Kind: Year}, nil
		case 'c':
			return Command{Kind: Clear}, nil
		case 'l':
			return Command{Kind: List}, nil
		}
	}

	return Command{}, fmt.Errorf("%q: %w", token, ErrUnknown)
}
