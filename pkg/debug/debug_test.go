package debug

import (
	"io"
	"strings"
	"sync"
	"testing"
)

func TestLogfWritesToOutput(t *testing.T) {
	var buf strings.Builder
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	Logf("step %d: %s", 3, "x = 1")
	if got := buf.String(); got != "debug: step 3: x = 1\n" {
		t.Fatalf("Logf wrote %q", got)
	}
}

func TestEnableRestores(t *testing.T) {
	before := [3]bool{Reduce(), Load(), Step()}
	restore := Enable(true, true, true)
	if !Reduce() || !Load() || !Step() {
		t.Fatalf("Enable did not switch flags on")
	}
	restore()
	if after := [3]bool{Reduce(), Load(), Step()}; after != before {
		t.Fatalf("flags after restore = %v, want %v", after, before)
	}
}

func TestBoolEnv(t *testing.T) {
	t.Setenv("SMALLSTEP_TEST_FLAG", "true")
	if !boolEnv("SMALLSTEP_TEST_FLAG") {
		t.Fatalf("expected true")
	}
	t.Setenv("SMALLSTEP_TEST_FLAG", "nope")
	if boolEnv("SMALLSTEP_TEST_FLAG") {
		t.Fatalf("unparseable values should be false")
	}
}

func TestEnableWhileReading(t *testing.T) {
	prev := SetOutput(io.Discard)
	defer SetOutput(prev)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if Reduce() || Step() || Load() {
					Logf("tick")
				}
			}
		}()
	}
	for i := range 100 {
		restore := Enable(i%2 == 0, i%3 == 0, true)
		restore()
	}
	wg.Wait()
}
