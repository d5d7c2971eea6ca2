package ringlog

import (
	"io"
	"os"
)

// openSink resolves a console_target to a writer. The console device falls
// back to stdout when it cannot be opened.
func openSink(target, device string) *sink {
	switch target {
	case "stdout":
		return &sink{w: os.Stdout}
	case "stderr":
		return &sink{w: os.Stderr}
	case "discard":
		return &sink{w: io.Discard}
	default:
		f, err := os.OpenFile(device, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return &sink{w: os.Stdout}
		}
		return &sink{w: f, f: f}
	}
}

// close releases a device opened by openSink; shared writers are left alone
func (s *sink) close() error {
	if s == nil || s.f == nil {
		return nil
	}
	return s.f.Close()
}

// getSink returns the current output
func (l *Logger) getSink() *sink {
	return l.state.Sink.Load().(*sink)
}

// SetOutput replaces the output sink. The writer is used only by the drain
// goroutine, so it does not need to be safe for concurrent use.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	old := l.state.Sink.Swap(&sink{w: w})
	if s, ok := old.(*sink); ok {
		if err := s.close(); err != nil {
			l.internalLog("warning - failed to close previous output: %v\n", err)
		}
	}
}
