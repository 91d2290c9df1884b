package log

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend/common/conf"
)

// number of messages kept per level for the admin endpoints
const historySize = 20

func meansStdout(s string) bool {
	switch strings.ToLower(s) {
	case "", "stdout", "/dev/stdout":
		return true
	default:
		return false
	}
}

// ParseLevel maps a level name to a go-toolkit log level. Unknown names map to info.
func ParseLevel(name string) int {
	switch strings.ToUpper(name) {
	case "VERBOSE":
		return logging.LevelVerbose
	case "DEBUG":
		return logging.LevelDebug
	case "WARNING", "WARN":
		return logging.LevelWarning
	case "ERROR":
		return logging.LevelError
	case "NONE":
		return logging.LevelNone
	default:
		return logging.LevelInfo
	}
}

// BuildFromConfig creates a logger from a config. The returned slack writer is nil when slack is not configured.
func BuildFromConfig(cfg *conf.Logging, prefix string, slackCfg *conf.Slack) (*HistoricLoggerWrapper, *SlackWriter) {
	var err error
	var mainWriter io.Writer = os.Stdout

	if !meansStdout(cfg.Output) {
		mainWriter, err = logging.NewFileRotate(&logging.FileRotateOptions{
			MaxBytes:    cfg.RotationMaxSize * 1024,
			BackupCount: int(cfg.RotationMaxFiles),
			Path:        cfg.Output,
		})
		if err != nil {
			fmt.Printf("Error opening log output file: %s. Disabling logs!\n", err.Error())
			mainWriter = io.Discard
		} else {
			fmt.Printf("Log file: %s \n", cfg.Output)
		}
	}

	var slackWriter *SlackWriter
	nonDebugWriter := mainWriter
	if _, err = url.ParseRequestURI(slackCfg.Webhook); err == nil && slackCfg.Channel != "" {
		slackWriter = NewSlackWriter(slackCfg.Webhook, slackCfg.Channel, prefix)
		nonDebugWriter = io.MultiWriter(mainWriter, slackWriter)
	}

	// buffer error, warning & info. don't buffer debug and verbose
	buffered := [logLevelCount]bool{true, true, true, false, false}
	return NewHistoricLoggerWrapper(logging.NewLogger(&logging.LoggerOptions{
		StandardLoggerFlags: log.Ldate | log.Ltime | log.Lshortfile,
		Prefix:              prefix,
		VerboseWriter:       mainWriter,
		DebugWriter:         mainWriter,
		InfoWriter:          nonDebugWriter,
		WarningWriter:       nonDebugWriter,
		ErrorWriter:         nonDebugWriter,
		LogLevel:            ParseLevel(cfg.Level),
		ExtraFramesToSkip:   1,
	}), buffered, historySize), slackWriter
}
