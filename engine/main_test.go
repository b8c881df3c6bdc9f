// engine/main_test.go
package engine

import (
	"os"
	"testing"

	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}
