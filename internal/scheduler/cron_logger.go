package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/Gunvolt24/mesasync/internal/ports"
)

var _ cron.Logger = (*CronLogger)(nil)

// CronLogger — адаптер ports.Logger под cron.Logger.
// Info у cron очень шумный (каждый wake/run), поэтому уходит только при verbose.
type CronLogger struct {
	log     ports.Logger
	verbose bool
}

func NewCronLogger(log ports.Logger) *CronLogger { return &CronLogger{log: log} }

// Verbose — включить информационные сообщения cron.
func (l *CronLogger) Verbose() *CronLogger {
	l.verbose = true
	return l
}

func (l *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	if !l.verbose {
		return
	}
	l.log.Infof(context.Background(), "cron: %s%s", msg, formatKV(keysAndValues))
}

func (l *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorf(context.Background(), "cron: %s%s: %v", msg, formatKV(keysAndValues), err)
}

func formatKV(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, " %v", kv[i])
		}
	}
	return b.String()
}
