package notifsvc

import (
	"fmt"

	"github.com/tutorhub/backend/core"
)

// ConsoleSink forwards notices to the logger; useful in DEV and as a tap in
// front of another sink.
type ConsoleSink struct {
	logger core.Logger
	next   core.NotificationSink
}

var _ core.NotificationSink = (*ConsoleSink)(nil)

// NewConsoleSink logs each notice and, if next is non-nil, forwards it.
func NewConsoleSink(logger core.Logger, next core.NotificationSink) *ConsoleSink {
	return &ConsoleSink{logger: logger, next: next}
}

func (s *ConsoleSink) Notify(userID string, notice core.Notice) {
	s.logger.Info(fmt.Sprintf("notify %s [%s] %s: %s", userID, notice.Kind, notice.Title, notice.Message))
	if s.next != nil {
		s.next.Notify(userID, notice)
	}
}
