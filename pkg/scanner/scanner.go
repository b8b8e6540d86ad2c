package scanner

import (
	"strings"
)

// EmitFunc receives each captured function, header through closing brace,
// and returns the text to write in its place.
type EmitFunc func(name, text string) string

// Result is the output of a scan.
type Result struct {
	// Text is the source with every captured function replaced by the
	// value its EmitFunc returned.
	Text string
	// Captured counts completed function captures.
	Captured int
	// Unterminated names the function whose capture was still open at the
	// end of the input, if any. Its lines are copied to Text unchanged.
	Unterminated string
}

// Scanner extracts named functions from source text.
type Scanner interface {
	Scan(src string, names []string, emit EmitFunc) Result
}

type state int

const (
	scanning state = iota
	headerContinuation
	waitBrace
	inBody
)

// BraceScanner is the line-oriented brace counting Scanner.
type BraceScanner struct{}

// NewBraceScanner returns the default Scanner.
func NewBraceScanner() Scanner {
	return BraceScanner{}
}

// Scan walks src line by line. Once a header of one of names is found, lines
// are buffered until the brace depth of the body returns to zero, then the
// buffer is handed to emit. Brace counting sees raw text, so braces inside
// comments and string or char literals are counted too. Only the parenthesis
// balance of a multi-line header is comment-stripped.
//
// A partial header always consumes at least one more line, and braces on the
// partial header line itself are ignored. A multi-line prototype ending in ";"
// does not end the capture: the scanner keeps waiting for the next "{".
func (BraceScanner) Scan(src string, names []string, emit EmitFunc) Result {
	s := &scan{det: NewDetector(names), emit: emit}
	for _, line := range SplitLines(src) {
		s.feed(line)
	}
	return s.finish()
}

type scan struct {
	det  *Detector
	emit EmitFunc

	out      strings.Builder
	state    state
	current  string
	buf      []string
	depth    int
	parens   int
	captured int
}

func (s *scan) feed(line string) {
	body := strings.TrimRight(line, "\r\n")

	switch s.state {
	case scanning:
		name, m := s.det.Detect(body)
		if m == NoHeader {
			s.out.WriteString(line)
			return
		}
		s.current = name
		s.buf = []string{line}
		if m == PartialHeader {
			s.parens = parenDelta(StripComments(body))
			s.state = headerContinuation
			return
		}
		s.openBody(body)

	case headerContinuation:
		s.buf = append(s.buf, line)
		s.parens += parenDelta(StripComments(body))
		if s.parens > 0 {
			return
		}
		s.openBody(body)

	case waitBrace:
		s.buf = append(s.buf, line)
		if strings.Contains(body, "{") {
			s.depth = braceDelta(body)
			s.state = inBody
			s.closeIfDone()
		}

	case inBody:
		s.buf = append(s.buf, line)
		s.depth += braceDelta(body)
		s.closeIfDone()
	}
}

// openBody handles the line that completes a header.
func (s *scan) openBody(body string) {
	if strings.Contains(body, "{") && !strings.HasSuffix(strings.TrimSpace(body), ";") {
		s.depth = braceDelta(body)
		s.state = inBody
		s.closeIfDone()
		return
	}
	s.state = waitBrace
}

func (s *scan) closeIfDone() {
	if s.depth > 0 {
		return
	}
	s.out.WriteString(s.emit(s.current, strings.Join(s.buf, "")))
	s.captured++
	s.reset()
}

// release writes the buffer unchanged and resumes scanning.
func (s *scan) release() {
	s.out.WriteString(strings.Join(s.buf, ""))
	s.reset()
}

func (s *scan) reset() {
	s.state = scanning
	s.current = ""
	s.buf = nil
	s.depth = 0
	s.parens = 0
}

func (s *scan) finish() Result {
	res := Result{Captured: s.captured}
	if len(s.buf) > 0 {
		res.Unterminated = s.current
		s.release()
	}
	res.Text = s.out.String()
	return res
}

func braceDelta(s string) int {
	return strings.Count(s, "{") - strings.Count(s, "}")
}

func parenDelta(s string) int {
	return strings.Count(s, "(") - strings.Count(s, ")")
}

// SplitLines splits s after every "\n", keeping the terminators. A final
// line without terminator is kept as is.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
