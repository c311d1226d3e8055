package llm

import (
	"time"

	"go.uber.org/zap"
)

// CallEvent describes one finished Generate call, retries included.
type CallEvent struct {
	Task        TaskType
	Provider    Provider
	Model       string
	Structured  bool // a response schema was sent
	PromptChars int
	ReplyChars  int
	Latency     time.Duration
	Attempts    int
	ErrorCode   string // empty on success
}

// OK reports whether the call produced a reply.
func (e CallEvent) OK() bool { return e.ErrorCode == "" }

// Observer is told about every Generate call.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(CallEvent)

func (f ObserverFunc) OnCallComplete(e CallEvent) { f(e) }

// NoopObserver drops events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

// LogObserver logs one "llm_call" line per event: debug on success, warn on
// failure.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log.Named("llm")}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	fields := []zap.Field{
		zap.String("task", string(e.Task)),
		zap.String("provider", string(e.Provider)),
		zap.String("model", e.Model),
		zap.Bool("structured", e.Structured),
		zap.Int("prompt_chars", e.PromptChars),
		zap.Duration("latency", e.Latency),
		zap.Int("attempts", e.Attempts),
	}
	if !e.OK() {
		o.log.Warn("llm_call", append(fields, zap.String("error_code", e.ErrorCode))...)
		return
	}
	o.log.Debug("llm_call", append(fields, zap.Int("reply_chars", e.ReplyChars))...)
}
