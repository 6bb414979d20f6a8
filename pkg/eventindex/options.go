package eventindex

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
	All      Direction = "all"
)

// Observer is notified about index rebuilds and queries.
type Observer interface {
	ObserveRebuild(events int, took time.Duration)
	ObserveQuery(direction Direction)
}

type Option func(*options)

type options struct {
	log      logrus.FieldLogger
	observer Observer
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

type nopObserver struct{}

func (nopObserver) ObserveRebuild(int, time.Duration) {}
func (nopObserver) ObserveQuery(Direction)            {}
