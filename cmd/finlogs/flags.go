package main

import (
	"flag"
	"io"
	"strings"

	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/controller"
)

// filterFlags are the query filters shared by query and export.
type filterFlags struct {
	key       string
	logType   string
	modelName string
	group     string
	start     string
	end       string
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.key, "key", config.TokenKey, "token key whose logs are listed (FINLOGS_TOKEN_KEY)")
	fs.StringVar(&f.logType, "type", "0", "log type: 0 all, 1 recharge, 2 consumption, 3 management, 4 system, 5 error")
	fs.StringVar(&f.modelName, "model", "", "model name filter")
	fs.StringVar(&f.group, "group", "", "group filter")
	fs.StringVar(&f.start, "start", "", "range start, e.g. \"2024-05-01 00:00:00\" (default: today 00:00)")
	fs.StringVar(&f.end, "end", "", "range end (default: now + 1h)")
}

func (f *filterFlags) form() controller.FormState {
	return controller.FormState{
		Type:      f.logType,
		ModelName: f.modelName,
		Group:     f.group,
		DateRange: [2]string{f.start, f.end},
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// splitList parses "a,b , c" into its non-empty items.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// flagWasSet reports whether name was given on the command line.
func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
