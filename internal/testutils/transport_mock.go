package testutils

import (
	"fmt"
	"regexp"
	"time"
)

// Call is one command received by a TransportMock.
type Call struct {
	Line    string
	Match   string
	Timeout time.Duration
}

type reply struct {
	text string
	err  error
}

// TransportMock is a scripted line transport. Each Command consumes the next
// queued reply; a command without a queued reply fails the call.
type TransportMock struct {
	Greeting    string
	GreetingErr error

	WaitForCalls int
	Calls        []Call
	Closed       bool

	replies []reply
}

// NewTransportMock creates a transport answering commands with the given
// responses, in order.
func NewTransportMock(responses ...string) *TransportMock {
	m := &TransportMock{Greeting: "TS3\n"}
	for _, r := range responses {
		m.Reply(r)
	}
	return m
}

// Reply queues a response text.
func (m *TransportMock) Reply(text string) *TransportMock {
	m.replies = append(m.replies, reply{text: text})
	return m
}

// Fail queues a transport error.
func (m *TransportMock) Fail(err error) *TransportMock {
	m.replies = append(m.replies, reply{err: err})
	return m
}

func (m *TransportMock) WaitFor(match *regexp.Regexp, timeout time.Duration) (string, error) {
	m.WaitForCalls++
	if m.GreetingErr != nil {
		return "", m.GreetingErr
	}
	if !match.MatchString(m.Greeting) {
		return m.Greeting, fmt.Errorf("testutils: greeting %q does not match %s", m.Greeting, match)
	}
	return m.Greeting, nil
}

func (m *TransportMock) Command(line string, match *regexp.Regexp, timeout time.Duration) (string, error) {
	m.Calls = append(m.Calls, Call{Line: line, Match: match.String(), Timeout: timeout})

	if len(m.replies) == 0 {
		return "", fmt.Errorf("testutils: unexpected command %q", line)
	}

	r := m.replies[0]
	m.replies = m.replies[1:]
	return r.text, r.err
}

func (m *TransportMock) Close() error {
	m.Closed = true
	return nil
}

// Lines returns the command lines received, in order.
func (m *TransportMock) Lines() []string {
	lines := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		lines[i] = c.Line
	}
	return lines
}

// Remaining returns the number of queued replies not consumed yet.
func (m *TransportMock) Remaining() int {
	return len(m.replies)
}
