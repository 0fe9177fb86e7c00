package device

import (
	"errors"
	"fmt"
	"io"

	"github.com/itohio/goacm/pkg/command"
	"github.com/itohio/goacm/pkg/stats"
)

// ErrNotOnline is returned by the stop command outside on-line mode.
var ErrNotOnline = errors.New("not in on-line mode!")

// Banner is printed once at start-up.
const Banner = "Welcome to the current meter! Available commands:\n"

// Help lists the commands.
const Help = "" +
	"  oX = enable on-line mode, sampling every 1 <= X <= 9 seconds\n" +
	"  s = exit on-line mode\n" +
	"  h = last hour stats (60 minutes)\n" +
	"  d = last day stats (24 hours)\n" +
	"  m = last month stats (30 days)\n" +
	"  y = last year stats (12 months)\n" +
	"  c = clear statistics\n" +
	"  max = maximum value sampled until now\n" +
	"  l = list commands\n"

var dumps = map[command.Kind]struct {
	level stats.Level
	title string
}{
	command.Hour:  {stats.Minute, "last hour stats (every minute):"},
	command.Day:   {stats.Hour, "last day stats (every hour):"},
	command.Month: {stats.Day, "last month stats (every day):"},
	command.Year:  {stats.Month, "last year stats (every month):"},
}

// Execute applies cmd to the state and writes its response to w.
// Command errors leave the state unchanged.
func (s *State) Execute(w io.Writer, cmd command.Command) error {
	switch cmd.Kind {
	case command.Online:
		if cmd.Interval < 1000 || cmd.Interval > 9000 {
			return command.ErrOnlineInterval
		}
		s.interval = cmd.Interval
		s.online = true
		fmt.Fprintf(w, "on-line mode enabled, sampling every %d second(s)\n", s.interval/1000)

	case command.Stop:
		if !s.online {
			return ErrNotOnline
		}
		s.online = false
		fmt.Fprint(w, "exited on-line mode!\n")

	case command.Hour, command.Day, command.Month, command.Year:
		dump := dumps[cmd.Kind]
		fmt.Fprintln(w, dump.title)
		// Array order, not chronological: slot 0 is not the oldest after a wrap.
		for i, v := range s.stats.Buckets(dump.level) {
			fmt.Fprintf(w, "%s #%d: %d mA\n", dump.level, i+1, v)
		}

	case command.Clear:
		s.stats.Clear()
		fmt.Fprint(w, "stats cleared!\n")

	case command.Max:
		fmt.Fprintf(w, "highest current sampled: %dmA\n", s.max)

	case command.List:
		fmt.Fprint(w, Help)

	default:
		return fmt.Errorf("%s: %w", cmd.Kind, command.ErrUnknown)
	}

	return nil
}

var userErrors = []error{
	command.ErrUnknown,
	command.ErrOnlineInterval,
	ErrNotOnline,
}

// errorText returns the message shown to the operator for err.
func errorText(err error) string {
	for _, e := range userErrors {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	return err.Error()
}
