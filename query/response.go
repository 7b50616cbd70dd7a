package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Shape is the response layout a command is expected to produce.
type Shape uint8

const (
	ShapePlain Shape = iota // status line only
	ShapeInfo               // one data line of key=value tokens, then status
	ShapeList               // one data line of |-separated records, then status
)

func (s Shape) String() string {
	switch s {
	case ShapeInfo:
		return "info"
	case ShapeList:
		return "list"
	default:
		return "plain"
	}
}

var (
	statusPattern         = regexp.MustCompile(`error id=\d+`)
	anchoredStatusPattern = regexp.MustCompile(`(?m)^error id=\d+`)
	unknownCommandPattern = regexp.MustCompile(`error id=256\D`)

	intPattern   = regexp.MustCompile(`^\d+$`)
	floatPattern = regexp.MustCompile(`^\d+\.\d+$`)
)

// Classify returns the response shape for a command, based on its name only.
func Classify(command string) Shape {
	switch {
	case strings.HasSuffix(command, "list"):
		return ShapeList
	case strings.HasSuffix(command, "info"), command == "whoami", command == "version":
		return ShapeInfo
	default:
		return ShapePlain
	}
}

// MatchPattern returns the pattern that marks the end of a response of the
// given shape. Plain responses must start with the status line; info and list
// responses carry a data line first, so their pattern is not anchored.
func MatchPattern(shape Shape) *regexp.Regexp {
	if shape == ShapePlain {
		return anchoredStatusPattern
	}
	return statusPattern
}

// Status is the decoded trailing status line of a response.
type Status struct {
	ID      int
	Message string
	Extra   map[string]string
}

// OK reports whether the status signals success.
func (s Status) OK() bool {
	return s.ID == 0
}

// Result is the parsed response of one command.
type Result struct {
	Shape  Shape
	Status Status

	// OK is true when a plain command was answered with "msg=ok".
	OK bool

	// Record holds the data line of info commands. Plain commands that
	// nevertheless answered with a data line get it here too.
	Record Record

	// Records holds the entries of list commands, in server order.
	Records []Record
}

// Check rejects absent responses and unknown command errors before any
// further parsing.
func Check(raw string) error {
	if raw == "" {
		return &ProtocolError{ID: statusNoResponse, Message: "response is nil"}
	}
	if unknownCommandPattern.MatchString(raw) {
		_, statusLine := splitResponse(raw)
		status := parseStatusTokens(strings.TrimPrefix(statusLine, "error "))
		return NewProtocolError(StatusUnknownCommand, status.Message, status.Extra)
	}
	return nil
}

// Parse decodes raw according to shape.
func Parse(shape Shape, raw string) (*Result, error) {
	if err := Check(raw); err != nil {
		return nil, err
	}

	data, statusLine := splitResponse(raw)
	status, err := ParseStatus(statusLine)
	if err != nil {
		return nil, err
	}

	res := &Result{Shape: shape, Status: status}
	switch shape {
	case ShapeList:
		res.Records = parseRecords(data)
	case ShapeInfo:
		res.Record = ParseRecord(data)
	default:
		res.OK = status.Message == "ok"
		if data != "" {
			res.Record = ParseRecord(data)
		}
	}
	return res, nil
}

// ParsePlain decodes a status-only response. It returns true when the server
// answered "ok".
func ParsePlain(raw string) (bool, error) {
	res, err := Parse(ShapePlain, raw)
	if err != nil {
		return false, err
	}
	return res.OK, nil
}

// ParseInfo decodes a response made of one record followed by the status line.
func ParseInfo(raw string) (Record, error) {
	res, err := Parse(ShapeInfo, raw)
	if err != nil {
		return nil, err
	}
	return res.Record, nil
}

// ParseList decodes a response made of |-separated records followed by the
// status line.
func ParseList(raw string) ([]Record, error) {
	res, err := Parse(ShapeList, raw)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// ParseStatus decodes an "error id=<n> msg=<text>" line. A non-zero id is
// returned as an error.
func ParseStatus(line string) (Status, error) {
	rest, ok := strings.CutPrefix(line, "error ")
	if !ok {
		return Status{}, &ProtocolError{ID: statusNoResponse, Message: "malformed status line: " + line}
	}

	status := parseStatusTokens(rest)
	if status.ID == statusNoResponse {
		return Status{}, &ProtocolError{ID: statusNoResponse, Message: "malformed status line: " + line}
	}
	if status.ID != 0 {
		return status, NewProtocolError(status.ID, status.Message, status.Extra)
	}
	return status, nil
}

func parseStatusTokens(s string) Status {
	status := Status{ID: statusNoResponse}
	for _, token := range strings.Fields(s) {
		key, value, _ := strings.Cut(token, "=")
		value = Unescape(value)

		switch key {
		case "id":
			if id, err := strconv.Atoi(value); err == nil {
				status.ID = id
			}
		case "msg":
			status.Message = value
		default:
			if status.Extra == nil {
				status.Extra = make(map[string]string)
			}
			status.Extra[key] = value
		}
	}
	return status
}

// splitResponse separates the data line from the trailing status line.
// Lines may end in "\n", "\r\n" or the server's own "\n\r".
func splitResponse(raw string) (data, status string) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}

	switch len(lines) {
	case 0:
		return "", ""
	case 1:
		return "", lines[0]
	default:
		return lines[0], lines[len(lines)-1]
	}
}

func parseRecords(data string) []Record {
	if data == "" {
		return []Record{}
	}

	segments := strings.Split(data, "|")
	records := make([]Record, 0, len(segments))
	for _, segment := range segments {
		records = append(records, ParseRecord(segment))
	}
	return records
}

// ParseRecord decodes whitespace-separated key=value tokens. A bare key maps
// to nil. Values are unescaped, then coerced to int64 or float64 when they
// look numeric.
func ParseRecord(line string) Record {
	record := make(Record)
	for _, token := range strings.Fields(line) {
		key, value, found := strings.Cut(token, "=")
		if !found {
			record[key] = nil
			continue
		}
		record[key] = coerce(Unescape(value))
	}
	return record
}

func coerce(value string) any {
	switch {
	case intPattern.MatchString(value):
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	case floatPattern.MatchString(value):
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return value
}
