package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	log *logrus.Logger
}

func New() *Logger {
	return NewWithWriter(os.Stdout)
}

func NewWithWriter(writer io.Writer) *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(writer)
	return &Logger{log: l}
}

// SetLevel parses a logrus level name, falling back to info.
func (l *Logger) SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.log.SetLevel(parsed)
}

func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.log.WithField(key, value)
}

func (l *Logger) WithError(err error) *logrus.Entry {
	return l.log.WithError(err)
}

func (l *Logger) Debug(v ...interface{}) {
	l.log.Debugln(v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.log.Debugf(format, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.log.Infoln(v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log.Warnln(v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.log.Warnf(format, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.log.Errorln(v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}
