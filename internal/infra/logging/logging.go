package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Newはアプリ共通のlogrusロガー
// prodはJSON、それ以外はテキスト
func New(level string, prod bool) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, prod)
}

func NewWithOutput(out io.Writer, level string, prod bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	if prod {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lv, err := logrus.ParseLevel(level)
	if err != nil {
		lv = logrus.InfoLevel
	}
	l.SetLevel(lv)
	return l
}

// gormのログもlogrusに流す（warn以上・200ms超はスロークエリ）
func GormLogger(l *logrus.Logger) gormlogger.Interface {
	return gormlogger.New(
		gormWriter{l: l},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// gormはPrintfしか呼ばないのでwarnで出す
type gormWriter struct {
	l *logrus.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.l.Warnf(format, args...)
}
