package pipeline

import (
	"context"
	"time"

	"github.com/alexanderramin/kurikula/internal/domain"
	"go.uber.org/zap"
)

// StageEvent reports one finished submission, successful or not.
type StageEvent struct {
	Stage    domain.Stage
	Items    int            // records returned by the generator
	Cleared  []domain.Stage // downstream stages invalidated by the commit
	Duration time.Duration
	Err      error
}

// StageObserver is told about every stage submission.
type StageObserver interface {
	StageFinished(ctx context.Context, event StageEvent)
}

// StageObserverFunc adapts a function to StageObserver.
type StageObserverFunc func(ctx context.Context, event StageEvent)

func (f StageObserverFunc) StageFinished(ctx context.Context, e StageEvent) { f(ctx, e) }

type noopStageObserver struct{}

func (noopStageObserver) StageFinished(context.Context, StageEvent) {}

type logStageObserver struct {
	log *zap.Logger
}

// NewLogStageObserver logs one "stage_finished" line per submission.
func NewLogStageObserver(log *zap.Logger) StageObserver {
	if log == nil {
		return noopStageObserver{}
	}
	return &logStageObserver{log: log.Named("pipeline")}
}

func (o *logStageObserver) StageFinished(_ context.Context, e StageEvent) {
	fields := []zap.Field{
		zap.String("stage", string(e.Stage)),
		zap.Int("items", e.Items),
		zap.Duration("duration", e.Duration),
	}
	if len(e.Cleared) > 0 {
		cleared := make([]string, len(e.Cleared))
		for i, s := range e.Cleared {
			cleared[i] = string(s)
		}
		fields = append(fields, zap.Strings("cleared", cleared))
	}
	if e.Err != nil {
		o.log.Warn("stage_finished", append(fields, zap.Error(e.Err))...)
		return
	}
	o.log.Info("stage_finished", fields...)
}
