package sessions

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/goliatone/go-lawnquote/pkg/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction(testsupport.ExpirableCleanupFunction))
}
