package flow

import (
	"log/slog"
	"sync/atomic"
)

// Observer receives lifecycle events from the controller and from page
// runtimes. Implementations should return quickly.
type Observer interface {
	// OnPageEnter is called whenever a page becomes active, including the
	// initial page on Start.
	OnPageEnter(index int, page Instance)

	// OnExpand is called when a conditional page splices its nested pages.
	OnExpand(page Instance, inserted int)

	// OnBlocked is called when forward navigation is refused.
	OnBlocked(index int, page Instance)

	// OnComplete is called once when the flow completes.
	OnComplete(totalPages int)

	// OnFieldFailure is called when an asynchronous field pipeline fails.
	OnFieldFailure(pageID, fieldID string, err error)
}

// NoopObserver ignores every event.
type NoopObserver struct{}

func (NoopObserver) OnPageEnter(int, Instance)            {}
func (NoopObserver) OnExpand(Instance, int)               {}
func (NoopObserver) OnBlocked(int, Instance)              {}
func (NoopObserver) OnComplete(int)                       {}
func (NoopObserver) OnFieldFailure(string, string, error) {}

// CompositeObserver fans events out to several observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver returns an observer forwarding to every non-nil
// entry of obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	switch len(filtered) {
	case 0:
		return NoopObserver{}
	case 1:
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnPageEnter(index int, page Instance) {
	for _, o := range c.observers {
		o.OnPageEnter(index, page)
	}
}

func (c *CompositeObserver) OnExpand(page Instance, inserted int) {
	for _, o := range c.observers {
		o.OnExpand(page, inserted)
	}
}

func (c *CompositeObserver) OnBlocked(index int, page Instance) {
	for _, o := range c.observers {
		o.OnBlocked(index, page)
	}
}

func (c *CompositeObserver) OnComplete(total int) {
	for _, o := range c.observers {
		o.OnComplete(total)
	}
}

func (c *CompositeObserver) OnFieldFailure(pageID, fieldID string, err error) {
	for _, o := range c.observers {
		o.OnFieldFailure(pageID, fieldID, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver logs through logger, or slog.Default when nil.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnPageEnter(index int, page Instance) {
	o.Logger.Debug("page_enter",
		slog.Int("index", index),
		slog.String("page_id", page.ID),
		slog.String("page_type", string(page.Page.Type)),
	)
}

func (o *LoggingObserver) OnExpand(page Instance, inserted int) {
	o.Logger.Info("page_expand",
		slog.String("page_id", page.ID),
		slog.Int("inserted", inserted),
	)
}

func (o *LoggingObserver) OnBlocked(index int, page Instance) {
	o.Logger.Debug("next_blocked",
		slog.Int("index", index),
		slog.String("page_id", page.ID),
	)
}

func (o *LoggingObserver) OnComplete(total int) {
	o.Logger.Info("flow_complete", slog.Int("total_pages", total))
}

func (o *LoggingObserver) OnFieldFailure(pageID, fieldID string, err error) {
	o.Logger.Error("field_pipeline_failed",
		slog.String("page_id", pageID),
		slog.String("field_id", fieldID),
		slog.Any("error", err),
	)
}

// Metrics counts lifecycle events.
type Metrics struct {
	PagesEntered  atomic.Int64
	Expansions    atomic.Int64
	Blocked       atomic.Int64
	Completions   atomic.Int64
	FieldFailures atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	PagesEntered  int64 `json:"pagesEntered"`
	Expansions    int64 `json:"expansions"`
	Blocked       int64 `json:"blocked"`
	Completions   int64 `json:"completions"`
	FieldFailures int64 `json:"fieldFailures"`
}

func (m *Metrics) OnPageEnter(int, Instance)            { m.PagesEntered.Add(1) }
func (m *Metrics) OnExpand(Instance, int)               { m.Expansions.Add(1) }
func (m *Metrics) OnBlocked(int, Instance)              { m.Blocked.Add(1) }
func (m *Metrics) OnComplete(int)                       { m.Completions.Add(1) }
func (m *Metrics) OnFieldFailure(string, string, error) { m.FieldFailures.Add(1) }

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		PagesEntered:  m.PagesEntered.Load(),
		Expansions:    m.Expansions.Load(),
		Blocked:       m.Blocked.Load(),
		Completions:   m.Completions.Load(),
		FieldFailures: m.FieldFailures.Load(),
	}
}
