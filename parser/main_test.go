// parser/main_test.go
package parser

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/MZain-ul-Abideen/MAS-Explainability/config"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	if err := config.InitConfig(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
