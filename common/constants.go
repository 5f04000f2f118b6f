package common

import "time"

// Version is overwritten at build time with -ldflags.
var Version = "v0.0.0"

var StartTime = time.Now().Unix()
