// Package archivist is the scoring core's structured logger, carried over
// from the host runtime's own logging idiom: leveled methods, an optional
// formatted variant of each, and a separate debug verbosity dial that
// gates debug output independently of info/warning output.
package archivist

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/oakleaf-learning/scoring-core/src/system/interfaces"
)

const (
	LEVEL_DEBUG   = 1
	LEVEL_INFO    = 2
	LEVEL_WARNING = 3
	LEVEL_ERROR   = 4
	LEVEL_FATAL   = 5
)

// Granular debug levels, checked only when LogLevel == LEVEL_DEBUG.
const (
	DEBUG_LEVEL_TRACE  = iota + 1 // execution flow: phase entry/exit, enqueue/dequeue
	DEBUG_LEVEL_INFO              // short informational notes
	DEBUG_LEVEL_DETAIL            // per-set detail during a batch
	DEBUG_LEVEL_DUMP              // dumps of query columns, tuples, models
	DEBUG_LEVEL_MAX               // everything, including per-attribute match traces
)

type Archivist struct {
	logFlags   [5]bool
	logger     interfaces.Logger
	debugLevel int
	phase      string
	setID      string
}

type Config struct {
	Logger     interfaces.Logger
	LogLevel   int
	DebugLevel int
}

func New(conf *Config) *Archivist {
	a := &Archivist{
		logFlags: [5]bool{false, true, true, true, true},
	}
	a.SetLogger(conf.Logger)
	a.SetLogLevel(conf.LogLevel)
	if conf.LogLevel == LEVEL_DEBUG {
		a.SetDebugLevel(conf.DebugLevel)
	}
	return a
}

// WithScope returns a child Archivist that tags every line it logs with the
// lifecycle phase and/or set id driving the call, sharing the parent's
// logger, level flags and debug verbosity. Sets and the renderer scope a
// logger once per dispatch instead of spelling "phase:"/"set id:" into
// every message by hand.
func (a *Archivist) WithScope(phase, setID string) *Archivist {
	scoped := *a
	scoped.phase = phase
	scoped.setID = setID
	return &scoped
}

func (a *Archivist) store(message string, stype string, dump bool, formatted bool, params []interface{}) {
	_, file, line, _ := runtime.Caller(2)
	arrPackagePath := strings.Split(file, "/")
	packageFile := arrPackagePath[len(arrPackagePath)-1]

	logLine := time.Now().Format("2006-01-02 15:04:05") + "|" + stype + "|" + packageFile + "#" + strconv.Itoa(line) + "|"
	if a.phase != "" {
		logLine += "phase=" + a.phase + "|"
	}
	if a.setID != "" {
		logLine += "set=" + a.setID + "|"
	}
	if dump {
		if formatted {
			logLine = logLine + fmt.Sprintf(message, params...)
		} else {
			logLine = logLine + message + "|" + fmt.Sprintf("%+v", params)
		}
	} else {
		logLine = logLine + message
	}

	a.logger.Println(logLine)
}

func (a *Archivist) Error(message string, params ...interface{}) {
	if a.logFlags[LEVEL_ERROR-1] {
		if len(params) == 0 {
			a.store(message, "error", false, false, nil)
		} else {
			a.store(message, "error", true, false, params)
		}
	}
}

func (a *Archivist) ErrorF(message string, params ...interface{}) {
	if a.logFlags[LEVEL_ERROR-1] {
		a.store(message, "error", true, true, params)
	}
}

func (a *Archivist) Fatal(message string, params ...interface{}) {
	if a.logFlags[LEVEL_FATAL-1] {
		if len(params) == 0 {
			a.store(message, "fatal", false, false, nil)
		} else {
			a.store(message, "fatal", true, false, params)
		}
	}
}

func (a *Archivist) Info(message string, params ...interface{}) {
	if a.logFlags[LEVEL_INFO-1] {
		if len(params) == 0 {
			a.store(message, "info", false, false, nil)
		} else {
			a.store(message, "info", true, false, params)
		}
	}
}

func (a *Archivist) InfoF(message string, params ...interface{}) {
	if a.logFlags[LEVEL_INFO-1] {
		a.store(message, "info", true, true, params)
	}
}

func (a *Archivist) Warning(message string, params ...interface{}) {
	if a.logFlags[LEVEL_WARNING-1] {
		if len(params) == 0 {
			a.store(message, "warning", false, false, nil)
		} else {
			a.store(message, "warning", true, false, params)
		}
	}
}

func (a *Archivist) Debug(level int, message string, params ...interface{}) {
	if a.logFlags[LEVEL_DEBUG-1] && level <= a.debugLevel {
		if len(params) == 0 {
			a.store(message, "debug", false, false, nil)
		} else {
			a.store(message, "debug", true, false, params)
		}
	}
}

func (a *Archivist) DebugF(level int, message string, params ...interface{}) {
	if a.logFlags[LEVEL_DEBUG-1] && level <= a.debugLevel {
		a.store(message, "debug", true, true, params)
	}
}

func (a *Archivist) SetLogLevel(logLevel int) {
	if logLevel == 0 {
		logLevel = LEVEL_WARNING
	}

	if logLevel >= LEVEL_DEBUG && logLevel <= LEVEL_FATAL {
		for index := range a.logFlags {
			a.logFlags[index] = logLevel-1 <= index
		}
	} else {
		a.Error("Given LOG_LEVEL is unknown, defaulting to LEVEL_WARNING provided was: ", logLevel)
		a.SetLogLevel(LEVEL_WARNING)
	}
}

func (a *Archivist) SetDebugLevel(level int) {
	if level < 0 {
		level = 0
	}
	a.debugLevel = level
}

func (a *Archivist) SetLogger(logger interfaces.Logger) {
	if nil == logger {
		logger = log.New(os.Stdout, "", 0)
	}
	a.logger = logger
}
