// Package report implements the line-oriented run log.
//
// The run log is a de facto contract with its consumers: every line may
// carry a bracketed severity token ([INFO], [WARN], [ERROR]) and/or an
// action token ([BACKUP CREATED], [REPLACE LINE], ...). Consumers colour
// and count lines by these tokens, so their spelling must not change.
//
// A Stream counts [ERROR] and [WARN] occurrences for the end-of-run
// summary and mirrors every line to the diagnostic zerolog logger.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/rs/zerolog"
)

// Token is a bracketed marker understood by run log consumers.
type Token string

// Severity tokens
const (
	TokenInfo  Token = "[INFO]"
	TokenWarn  Token = "[WARN]"
	TokenError Token = "[ERROR]"
)

// Action tokens
const (
	TokenBackupCreated   Token = "[BACKUP CREATED]"
	TokenReplaceLine     Token = "[REPLACE LINE]"
	TokenReplaceFunction Token = "[REPLACE FUNCTION]"
	TokenReplaceFileLine Token = "[REPLACE FILE-LINE]"
	TokenAddStart        Token = "[ADD START]"
	TokenAddEnd          Token = "[ADD END]"
	TokenAddSkip         Token = "[ADD SKIP]"
	TokenFileReplace     Token = "[FILE REPLACE]"
	TokenUpdateFile      Token = "[UPDATE FILE]"
	TokenNoChange        Token = "[NO CHANGE]"
	TokenDryRun          Token = "[DRY RUN]"
	TokenSummary         Token = "[SUMMARY]"
	TokenReport          Token = "[REPORT]"
)

// Sink receives finished run log lines.
type Sink interface {
	WriteLine(line string)
}

// WriterSink writes each line, newline terminated, to an io.Writer. Decorate,
// when set, transforms the line before writing (used for terminal colours).
type WriterSink struct {
	Out      io.Writer
	Decorate func(string) string
}

// WriteLine implements Sink
func (w WriterSink) WriteLine(line string) {
	if w.Decorate != nil {
		line = w.Decorate(line)
	}
	_, _ = fmt.Fprintln(w.Out, line)
}

// ChannelSink forwards lines to a channel, for consumers that poll the
// run log from another goroutine.
type ChannelSink chan string

// WriteLine implements Sink
func (c ChannelSink) WriteLine(line string) {
	c <- line
}

// Stream is the run log of a single engine invocation. A nil *Stream
// discards everything.
type Stream struct {
	mu       sync.Mutex
	sinks    []Sink
	logger   zerolog.Logger
	lines    []string
	errors   int
	warnings int
}

// NewStream creates a stream writing to the given sinks.
func NewStream(sinks ...Sink) *Stream {
	return &Stream{
		sinks:  sinks,
		logger: logging.GetLogger("report"),
	}
}

// NewWriterStream is a shortcut for a stream with a single undecorated
// WriterSink.
func NewWriterStream(out io.Writer) *Stream {
	return NewStream(WriterSink{Out: out})
}

// Printf emits one formatted line. Multi-line messages are split so every
// physical line reaches the sinks on its own.
func (s *Stream) Printf(format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.Line(msg)
}

// Line emits text verbatim, one sink line per physical line.
func (s *Stream) Line(text string) {
	for _, line := range strings.Split(text, "\n") {
		s.emit(line)
	}
}

// Info emits an [INFO] line.
func (s *Stream) Info(format string, args ...interface{}) {
	s.Printf(string(TokenInfo)+" "+format, args...)
}

// Warn emits a [WARN] line.
func (s *Stream) Warn(format string, args ...interface{}) {
	s.Printf(string(TokenWarn)+" "+format, args...)
}

// Error emits an [ERROR] line.
func (s *Stream) Error(format string, args ...interface{}) {
	s.Printf(string(TokenError)+" "+format, args...)
}

// Errors returns the number of [ERROR] lines emitted so far.
func (s *Stream) Errors() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// Warnings returns the number of [WARN] lines emitted so far.
func (s *Stream) Warnings() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warnings
}

// Lines returns a copy of every line emitted so far.
func (s *Stream) Lines() []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// String joins all emitted lines.
func (s *Stream) String() string {
	return strings.Join(s.Lines(), "\n")
}

func (s *Stream) emit(line string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.lines = append(s.lines, line)
	if strings.Contains(line, string(TokenError)) {
		s.errors++
	}
	if strings.Contains(line, string(TokenWarn)) {
		s.warnings++
	}
	sinks := s.sinks
	s.mu.Unlock()

	s.logger.Debug().Str("line", line).Msg("run log")
	for _, sink := range sinks {
		sink.WriteLine(line)
	}
}

// Truncate shortens s to at most n runes, used for quoting specs in log lines.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Collapse folds every whitespace run in s into a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
