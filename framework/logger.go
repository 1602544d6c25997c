package framework

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger receives debug output describing the requests and responses of a test.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

// CapturedMessage is one line of debug output with the time it was logged.
type CapturedMessage struct {
	Time time.Time
	Text string
}

// CapturedOutput is the debug output of one test, in log order.
type CapturedOutput []CapturedMessage

// Dump writes every captured line to dest, each one timestamped and prefixed.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format("2006-01-02 15:04:05.000"),
			m.Text,
		)
	}
}

// CapturingLogger accumulates debug output in memory so that it can be dumped after a
// test finishes, rather than interleaving it with the progress output. It is safe for
// concurrent use.
type CapturingLogger struct {
	output CapturedOutput
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Text: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

// Output returns a copy of everything logged so far.
func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append(CapturedOutput(nil), l.output...)
	l.lock.Unlock()
	return ret
}
