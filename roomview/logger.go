package roomview

import (
	"github.com/sirupsen/logrus"
)

var logger *logrus.Entry

func init() {
	logger = logrus.NewEntry(logrus.New())
}

func SetLogger(l *logrus.Entry) {
	logger = l
}
