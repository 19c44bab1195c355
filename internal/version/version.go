// Package version хранит сведения о сборке, заполняемые через -ldflags.
package version

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info returns version information populated via -ldflags.
func Info() (v, c, d string) { return version, commit, date }

func GetVersion() string { return version }

func GetCommit() string { return commit }

func GetDate() string { return date }

func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}

// Fields возвращает сведения о сборке для стартового лога.
func Fields() log.Fields {
	return log.Fields{
		"version":    version,
		"commit":     commit,
		"build_date": date,
	}
}
