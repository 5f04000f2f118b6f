package helper

import (
	"fmt"
	"time"

	"github.com/songquanpeng/finlogs/common/random"
)

// GenRequestID returns a sortable request id: a timestamp prefix plus random hex.
func GenRequestID() string {
	return fmt.Sprintf("%s%s", time.Now().Format("20060102150405"), random.GetUUID()[:8])
}
