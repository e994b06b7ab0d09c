package debug

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
)

// Switches may be flipped by Enable while machines are reducing.
type debug struct {
	Reduce atomic.Bool
	Load   atomic.Bool
	Step   atomic.Bool
}

var (
	d  *debug
	mu sync.Mutex
	w  io.Writer = os.Stderr
)

func init() {
	d = &debug{}
	d.Reduce.Store(boolEnv("SMALLSTEP_DEBUG_REDUCE"))
	d.Load.Store(boolEnv("SMALLSTEP_DEBUG_LOAD"))
	d.Step.Store(boolEnv("SMALLSTEP_DEBUG_STEP"))
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Reduce() bool {
	return d.Reduce.Load()
}
func Load() bool {
	return d.Load.Load()
}
func Step() bool {
	return d.Step.Load()
}

// Logf writes one debug line to the current output.
func Logf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(w, "debug: "+format+"\n", args...)
}

// SetOutput redirects debug lines and returns the previous writer.
func SetOutput(out io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := w
	w = out
	return prev
}

// Enable overrides the environment switches and returns a func that
// restores the previous values.
func Enable(reduce, load, step bool) func() {
	prevReduce := d.Reduce.Swap(reduce)
	prevLoad := d.Load.Swap(load)
	prevStep := d.Step.Swap(step)
	return func() {
		d.Reduce.Store(prevReduce)
		d.Load.Store(prevLoad)
		d.Step.Store(prevStep)
	}
}
