package rate

import (
	"errors"
	"testing"
	"time"

	"fxresolver/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestObservers_FanOutSkipsNil(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	obs := Observers(a, nil, b)

	obs.ProviderFailed("p1", usdAED, errAPI)
	obs.RateUpdated(domain.RateRecord{Pair: usdAED, Rate: 3.67})
	obs.Resolved(Quote{Pair: usdAED, Tier: TierCache})

	for _, o := range []*recordingObserver{a, b} {
		require.Equal(t, []string{"p1"}, o.providerFailed)
		require.Len(t, o.updated, 1)
		require.Equal(t, []Tier{TierCache}, o.resolvedTiers)
	}
}

func TestLogObserver_WritesStructuredEntries(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	obs := NewLogObserver(logger)

	obs.ProviderFailed("Fixer.io", usdAED, errors.New("timeout"))
	last := hook.LastEntry()
	require.Equal(t, logrus.WarnLevel, last.Level)
	require.Equal(t, "Fixer.io", last.Data["provider"])
	require.Equal(t, "USD/AED", last.Data["pair"])
	require.Error(t, last.Data[logrus.ErrorKey].(error))

	obs.PersistFailed(usdAED, domain.ErrPersistence)
	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	obs.Resolved(Quote{Pair: usdAED, Rate: 3.67, Tier: TierStaleCache})
	require.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	require.Equal(t, TierStaleCache, hook.LastEntry().Data["tier"])

	obs.RefreshCompleted(RefreshSummary{Attempted: 2, Updated: 2, Duration: time.Second})
	require.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)

	obs.RefreshCompleted(RefreshSummary{Attempted: 2, Updated: 1, Failed: []PairFailure{{Pair: "AED/USD", Error: "x"}}})
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	require.Equal(t, 1, hook.LastEntry().Data["failed"])

	require.Len(t, hook.AllEntries(), 5)
}

func TestNewLogObserver_DefaultsToStandardLogger(t *testing.T) {
	obs := NewLogObserver(nil)
	require.Equal(t, logrus.StandardLogger(), obs.log)
}
