package tt

import (
	"fmt"
	"testing"
)

// testT implements the T interface and records Errorf calls.
type testT []string

func (t *testT) Helper() {}

func (t *testT) Errorf(format string, args ...any) {
	*t = append(*t, fmt.Sprintf(format, args...))
}

func add(x, y int) int { return x + y }

func TestPass(t *testing.T) {
	var mockT testT
	Test(&mockT, add, Args(1, 2).Rets(3), Args(1, -1).Rets(0))
	if len(mockT) > 0 {
		t.Errorf("Test called Errorf on matching cases: %v", mockT)
	}
}

func TestFail(t *testing.T) {
	var mockT testT
	Test(&mockT, add, Args(1, 2).Rets(4))
	if len(mockT) != 1 {
		t.Errorf("Test called Errorf %d times, want 1", len(mockT))
	}
}

func TestAnyMatcher(t *testing.T) {
	var mockT testT
	Test(&mockT, add, Args(1, 2).Rets(Any))
	if len(mockT) > 0 {
		t.Errorf("Test called Errorf with the Any matcher: %v", mockT)
	}
}
