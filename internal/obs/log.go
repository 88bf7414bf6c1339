// Package obs carries the logging and metrics plumbing shared by the
// citeapi binaries.
package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide logger. All structured output (access
// log, audit trail) funnels through it so tests can swap the writer.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest emits one JSON line per served request.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"type":"log_error","msg":"entry marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
