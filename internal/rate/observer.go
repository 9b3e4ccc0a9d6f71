package rate

import (
	"fxresolver/internal/domain"

	"github.com/sirupsen/logrus"
)

// Observer receives resolver events. The resolver itself never logs; logging,
// metrics and event publishing all hang off this interface.
type Observer interface {
	Resolved(q Quote)
	ResolveFailed(pair domain.RatePair, err error)
	ProviderFailed(provider string, pair domain.RatePair, err error)
	PersistFailed(pair domain.RatePair, err error)
	RateUpdated(record domain.RateRecord)
	RefreshCompleted(summary RefreshSummary)
}

// NopObserver ignores every event. Embed it to implement only some hooks.
type NopObserver struct{}

func (NopObserver) Resolved(Quote)                               {}
func (NopObserver) ResolveFailed(domain.RatePair, error)         {}
func (NopObserver) ProviderFailed(string, domain.RatePair, error) {}
func (NopObserver) PersistFailed(domain.RatePair, error)         {}
func (NopObserver) RateUpdated(domain.RateRecord)                {}
func (NopObserver) RefreshCompleted(RefreshSummary)              {}

type multiObserver []Observer

// Observers fans every event out to each non-nil observer, in order.
func Observers(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multiObserver) Resolved(q Quote) {
	for _, o := range m {
		o.Resolved(q)
	}
}

func (m multiObserver) ResolveFailed(pair domain.RatePair, err error) {
	for _, o := range m {
		o.ResolveFailed(pair, err)
	}
}

func (m multiObserver) ProviderFailed(provider string, pair domain.RatePair, err error) {
	for _, o := range m {
		o.ProviderFailed(provider, pair, err)
	}
}

func (m multiObserver) PersistFailed(pair domain.RatePair, err error) {
	for _, o := range m {
		o.PersistFailed(pair, err)
	}
}

func (m multiObserver) RateUpdated(record domain.RateRecord) {
	for _, o := range m {
		o.RateUpdated(record)
	}
}

func (m multiObserver) RefreshCompleted(summary RefreshSummary) {
	for _, o := range m {
		o.RefreshCompleted(summary)
	}
}

// LogObserver writes resolver events as structured logrus entries.
type LogObserver struct {
	log logrus.FieldLogger
}

func (l *LogObserver) Resolved(q Quote) {
	l.log.WithFields(logrus.Fields{
		"pair":   q.Pair.String(),
		"tier":   q.Tier,
		"source": q.Source,
		"rate":   q.Rate,
	}).Debug("Rate resolved")
}

func (l *LogObserver) ResolveFailed(pair domain.RatePair, err error) {
	l.log.WithError(err).WithField("pair", pair.String()).Warn("Rate unavailable on every tier")
}

func (l *LogObserver) ProviderFailed(provider string, pair domain.RatePair, err error) {
	l.log.WithError(err).WithFields(logrus.Fields{
		"pair":     pair.String(),
		"provider": provider,
	}).Warn("Rate provider failed, trying next")
}

func (l *LogObserver) PersistFailed(pair domain.RatePair, err error) {
	l.log.WithError(err).WithField("pair", pair.String()).Error("Rate store access failed")
}

func (l *LogObserver) RateUpdated(record domain.RateRecord) {
	l.log.WithFields(logrus.Fields{
		"pair":   record.Pair.String(),
		"rate":   record.Rate,
		"source": record.Source,
	}).Debug("Rate updated from provider")
}

func (l *LogObserver) RefreshCompleted(summary RefreshSummary) {
	entry := l.log.WithFields(logrus.Fields{
		"attempted":      summary.Attempted,
		"updated":        summary.Updated,
		"failed":         len(summary.Failed),
		"persist_failed": summary.PersistFailed,
		"duration":       summary.Duration.String(),
	})
	if len(summary.Failed) > 0 {
		entry.Warn("Rate refresh finished with failures")
		return
	}
	entry.Info("Rate refresh finished")
}

// NewLogObserver logs through logger, or the standard logrus logger when nil.
func NewLogObserver(logger logrus.FieldLogger) *LogObserver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogObserver{log: logger}
}
