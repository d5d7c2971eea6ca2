// FILE: lixenwraith/ringlog/type.go
package ringlog

import (
	"io"
	"os"
)

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
	f *os.File // set when the logger opened the device itself and must close it
}

// clockBox lets differently typed clocks share one atomic pointer
type clockBox struct {
	c Clock
}
