package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btcEthDCA/internal/report"
)

type recorder struct {
	mu    sync.Mutex
	calls []int64
	last  string
}

func (r *recorder) SendReport(chatID int64, trigger string, _ report.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, chatID)
	r.last = trigger
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestScheduler_Fires(t *testing.T) {
	rec := &recorder{}
	s, err := New("* * * * * *", 42, rec, report.Request{AssetA: "BTC-USD", AssetB: "ETH-USD"})
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return rec.count() > 0 }, 3*time.Second, 50*time.Millisecond)
	rec.mu.Lock()
	assert.Equal(t, int64(42), rec.calls[0])
	assert.Equal(t, "cron", rec.last)
	rec.mu.Unlock()
}

func TestScheduler_InvalidCron(t *testing.T) {
	_, err := New("not a cron", 1, &recorder{}, report.Request{})
	assert.Error(t, err)

	// five-field specs need the seconds column
	_, err = New("0 9 1 * *", 1, &recorder{}, report.Request{})
	assert.Error(t, err)
}
