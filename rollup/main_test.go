package rollup

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain fails the package if any test leaves worker goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
