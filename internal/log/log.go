// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

var traceEnabled bool

// Fields are the key/value pairs attached to an entry.
type Fields = log.Fields

// InitLogger sets up Apex with a custom handler and a log level from the
// DATDIFF_LOG env variable.
func InitLogger() {
	envLevel := strings.ToLower(os.Getenv("DATDIFF_LOG"))
	if envLevel == "" {
		envLevel = "error"
	}
	traceEnabled = envLevel == "trace"
	log.SetHandler(&CustomHandler{Writer: os.Stderr})
	log.SetLevel(ParseLevel(envLevel))
}

// ParseLevel maps a DATDIFF_LOG value onto an apex level. Unknown values fall
// back to error.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "trace", "debug":
		// trace is debug with the TRACE: prefixed messages let through.
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.ErrorLevel
	}
}

// CustomHandler formats log messages as single terse lines. Output goes to
// stderr by default so it never mixes with json/yaml results on stdout.
type CustomHandler struct {
	Writer io.Writer
}

// levelTags are the single letter level markers.
var levelTags = map[log.Level]string{
	log.DebugLevel: "D",
	log.InfoLevel:  "I",
	log.WarnLevel:  "W",
	log.ErrorLevel: "E",
	log.FatalLevel: "F",
}

const tracePrefix = "TRACE: "

// HandleLog implements the log.Handler interface. Fields follow the message
// as key=value pairs, error first.
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	w := h.Writer
	if w == nil {
		w = os.Stderr
	}

	message := e.Message
	tag, ok := levelTags[e.Level]
	if !ok {
		tag = "?"
	}
	if rest, found := strings.CutPrefix(message, tracePrefix); found {
		tag, message = "T", rest
	}

	var b strings.Builder
	b.WriteString(message)
	if len(e.Fields) > 0 {
		b.WriteString(":")
		if errVal, ok := e.Fields["error"]; ok {
			fmt.Fprintf(&b, " error=%v", errVal)
		}
		for _, k := range e.Fields.Names() {
			if k != "error" {
				fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
			}
		}
	}

	fmt.Fprintf(w, "%s %s %s\n", time.Now().Format("2006-01-02 15:04:05"), tag, b.String())
	return nil
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug(tracePrefix + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

// WithFields returns an entry carrying fields.
func WithFields(fields Fields) *log.Entry {
	return log.WithFields(fields)
}
