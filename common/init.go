package common

import (
	"flag"

	"github.com/Laisky/zap"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/logger"
)

var (
	Port   = flag.Int("port", 3000, "the listening port")
	LogDir = flag.String("log-dir", "./logs", "specify the log directory")
)

// Init parses server flags and prepares the log directory.
func Init() {
	flag.Parse()

	if config.SessionSecretEnvValue == "random_string" {
		logger.Logger.Error("SESSION_SECRET is set to an example value, please change it to a random string.")
	}
	SQLitePath = config.SQLitePath

	if *LogDir != "" {
		dir, err := EnsureDir(*LogDir)
		if err != nil {
			logger.Logger.Fatal("failed to prepare log dir", zap.Error(err))
		}
		logger.Logger.Info("set log dir", zap.String("log_dir", dir))
		logger.LogDir = dir
		*LogDir = dir
	}
}
