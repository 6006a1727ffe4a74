package logging

import (
	"go.uber.org/zap"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
)

// Journal is a nexus.UIEventListener that logs every notification.
// Progress is logged at debug level since it arrives on every tick.
type Journal struct {
	log     *zap.Logger
	current interval.Kind
}

// NewJournal returns a Journal writing to log.
func NewJournal(log *zap.Logger) *Journal {
	return &Journal{log: log.Named("journal")}
}

func (j *Journal) IntervalStart(iv interval.Interval) {
	j.current = iv.Kind()
	fields := []zap.Field{
		zap.String("kind", string(iv.Kind())),
		zap.Time("start", iv.Bounds().Start),
	}
	if d, ok := interval.Target(iv); ok {
		fields = append(fields, zap.Duration("duration", d))
	}
	switch v := iv.(type) {
	case interval.Pomodoro:
		fields = append(fields, zap.String("intention", v.IntentionID))
	case interval.GracePeriod:
		fields = append(fields, zap.String("follows", v.Follows.IntentionID))
	}
	j.log.Info("interval started", fields...)
}

func (j *Journal) IntervalProgress(fraction float64) {
	j.log.Debug("interval progress",
		zap.String("kind", string(j.current)),
		zap.Float64("fraction", fraction),
	)
}

func (j *Journal) IntervalEnd() {
	j.log.Info("interval ended", zap.String("kind", string(j.current)))
}

func (j *Journal) IntentionAdded(in intention.Intention) {
	fields := []zap.Field{
		zap.String("id", in.ID),
		zap.String("description", in.Description),
	}
	if in.Estimate != nil {
		fields = append(fields, zap.Int("estimate", *in.Estimate))
	}
	j.log.Info("intention added", fields...)
}

func (j *Journal) IntentionAbandoned(in intention.Intention) {
	j.log.Info("intention abandoned", zap.String("id", in.ID), zap.String("description", in.Description))
}

func (j *Journal) IntentionCompleted(in intention.Intention) {
	j.log.Info("intention completed", zap.String("id", in.ID), zap.String("description", in.Description))
}
