// Package logger configures LogSentinel's own diagnostics.
package logger

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/logsentinel/logsentinel/pkg/output"
	"github.com/logsentinel/logsentinel/pkg/webhook"
)

// DefaultLevel keeps normal runs quiet.
const DefaultLevel = log.WarnLevel

// Setup configures the standard logrus logger to write JSON lines to w.
// An unparsable level falls back to DefaultLevel.
func Setup(level string, w io.Writer) {
	loggerLevel, err := log.ParseLevel(level)
	log.SetOutput(w)
	log.SetReportCaller(true)

	log.SetFormatter(&log.JSONFormatter{
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			return "", fmt.Sprintf("%s:%d", path.Base(frame.File), frame.Line)
		},
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err != nil {
		log.SetLevel(DefaultLevel)
		log.Warnf("Level setup default %s, err: %v", DefaultLevel, err)
	} else {
		log.SetLevel(loggerLevel)
	}
}

func LogParsed(file, format string, parsed int, elapsed time.Duration) {
	log.WithFields(log.Fields{
		"path":    file,
		"format":  format,
		"entries": parsed,
		"elapsed": elapsed.String(),
	}).Debug("Parsed export")
}

func LogFiltered(report *output.Report) {
	log.WithFields(log.Fields{
		"run_id":    report.Metadata.RunID,
		"parsed":    report.Summary.Parsed,
		"displayed": report.Summary.Displayed,
		"errors":    report.Summary.Errors,
	}).Debug("Filtered entries")
}

func LogDelivery(d webhook.Delivery) {
	fields := log.Fields{
		"webhook":  d.Webhook.DisplayName(),
		"trigger":  string(d.Webhook.Trigger),
		"duration": d.Response.Duration.String(),
	}
	if d.Response.StatusCode != 0 {
		fields["status"] = d.Response.StatusCode
	}
	if d.Response.Success() {
		log.WithFields(fields).Info("Webhook sent")
		return
	}
	fields["error"] = d.Response.Error
	log.WithFields(fields).Warn("Webhook failed")
}
