package common

import (
	"sync/atomic"

	"github.com/songquanpeng/finlogs/common/config"
)

var (
	UsingSQLite     atomic.Bool
	UsingPostgreSQL atomic.Bool
	UsingMySQL      atomic.Bool
)

var SQLitePath = config.SQLitePath
var SQLiteBusyTimeout = config.SQLiteBusyTimeout
