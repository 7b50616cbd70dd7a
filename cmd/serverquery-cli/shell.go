package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/pior/serverquery"
	"github.com/pior/serverquery/query"
)

const helpText = `Type a command as the server expects it, key=value pairs are escaped:
  serverinfo
  clientlist
  sendtextmessage targetmode=3 target=1 msg=hello world

Built-ins:
  help   - show this help
  stats  - show client statistics
  quit   - exit the shell`

type shell struct {
	client  serverquery.Querier
	base    *serverquery.Client
	retries *serverquery.RetryClient
	out     io.Writer
}

// handle runs one input line. It returns false when the shell should exit.
func (s *shell) handle(ctx context.Context, line string) bool {
	command, args := parseLine(line)

	switch command {
	case "":
		return true
	case "help":
		fmt.Fprintln(s.out, helpText)
		return true
	case "stats":
		s.printStats()
		return true
	case "quit", "exit":
		return false
	}

	res, err := s.client.Execute(ctx, command, args...)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return true
	}
	if res == nil {
		// deferred until the first command that needs the server
		fmt.Fprintln(s.out, "queued")
		return true
	}
	printResult(s.out, res)
	return true
}

func (s *shell) printStats() {
	cs := s.base.Stats()
	rs := s.retries.Stats()
	fmt.Fprintf(s.out, "connects=%d commands=%d protocol_errors=%d unknown_commands=%d transport_errors=%d\n",
		cs.Connects, cs.Commands, cs.ProtocolErrors, cs.UnknownCommands, cs.TransportErrors)
	fmt.Fprintf(s.out, "attempts=%d retries=%d exhausted=%d\n", rs.Attempts, rs.Retries, rs.Exhausted)
}

// parseLine splits an input line into a command name and its arguments.
// key=value tokens become parameters, options like -uid and other tokens are
// sent verbatim. Plain words following the last parameter are joined into its
// value, so "msg=hello world" sends one message.
func parseLine(line string) (string, []any) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return "", nil
	}

	var args []any
	for i := 1; i < len(tokens); i++ {
		key, value, ok := strings.Cut(tokens[i], "=")
		if !ok {
			args = append(args, tokens[i])
			continue
		}

		for i+1 < len(tokens) && isWord(tokens[i+1]) && isTrailing(tokens[i+1:]) {
			i++
			value += " " + tokens[i]
		}
		args = append(args, query.P(key, value))
	}
	return tokens[0], args
}

func isWord(token string) bool {
	return !strings.HasPrefix(token, "-") && !strings.Contains(token, "=")
}

// isTrailing reports whether tokens hold no further parameter.
func isTrailing(tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(t, "=") {
			return false
		}
	}
	return true
}

func printResult(w io.Writer, res *query.Result) {
	switch res.Shape {
	case query.ShapeList:
		for _, rec := range res.Records {
			fmt.Fprintln(w, formatRecord(rec, "=", " "))
		}
		fmt.Fprintf(w, "(%d entries)\n", len(res.Records))
	case query.ShapeInfo:
		fmt.Fprintln(w, formatRecord(res.Record, ": ", "\n"))
	default:
		if len(res.Record) > 0 {
			fmt.Fprintln(w, formatRecord(res.Record, "=", " "))
		}
		fmt.Fprintln(w, res.Status.Message)
	}
}

func formatRecord(rec query.Record, kvSep, sep string) string {
	parts := make([]string, 0, len(rec))
	for _, key := range slices.Sorted(maps.Keys(rec)) {
		if rec[key] == nil {
			parts = append(parts, key)
			continue
		}
		value, _ := rec.String(key)
		parts = append(parts, key+kvSep+value)
	}
	return strings.Join(parts, sep)
}
