package telegram

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btcEthDCA/internal/dca"
	"btcEthDCA/internal/report"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) messages() []tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.Chattable(nil), f.sent...)
}

type fakeRunner struct {
	mu   sync.Mutex
	reqs []report.Request
	err  error
}

func (f *fakeRunner) Run(_ context.Context, trigger string, req report.Request) (*report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &report.Report{RunID: "run", Chart: []byte("png"), Text: "Total invested: $3,000 over 6 months"}, nil
}

func defaults() report.Request {
	return report.Request{AssetA: "BTC-USD", AssetB: "ETH-USD", Years: 5, Params: dca.DefaultParams()}
}

func msg(text string) *tgbotapi.Message {
	return &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 99}}
}

func TestParseDCA(t *testing.T) {
	tests := []struct {
		in      string
		budget  float64
		years   int
		wantErr bool
	}{
		{"/dca", 500, 5, false},
		{"/dca 250", 250, 5, false},
		{"/dca $1000 3y", 1000, 3, false},
		{"/dca@my_bot 100 2", 100, 2, false},
		{"/dca abc", 0, 0, true},
		{"/dca -5", 0, 0, true},
		{"/dca NaN", 0, 0, true},
		{"/dca nan 3y", 0, 0, true},
		{"/dca Inf", 0, 0, true},
		{"/dca +Inf 2", 0, 0, true},
		{"/dca 0", 0, 0, true},
		{"/dca 100 99y", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			req, err := parseDCA(tt.in, defaults())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.budget, req.Params.MonthlyBudget)
			assert.Equal(t, tt.years, req.Years)
			assert.Equal(t, "BTC-USD", req.AssetA)
		})
	}
}

func TestHandleMessage_DCASendsPhoto(t *testing.T) {
	api := &fakeSender{}
	runner := &fakeRunner{}
	h := NewHandlers(api, runner, defaults())

	h.HandleMessage(msg("/dca 300 2y"))

	require.Len(t, runner.reqs, 1)
	assert.Equal(t, 300.0, runner.reqs[0].Params.MonthlyBudget)
	assert.Equal(t, 2, runner.reqs[0].Years)

	sent := api.messages()
	require.Len(t, sent, 2)
	photo, ok := sent[1].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(99), photo.ChatID)
	assert.Contains(t, photo.Caption, "Total invested")
	file, ok := photo.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "dca_btc-usd_eth-usd_2y.png", file.Name)
}

func TestHandleMessage_Errors(t *testing.T) {
	api := &fakeSender{}
	runner := &fakeRunner{err: errors.New("insufficient data: need at least 12 monthly points, got 3")}
	h := NewHandlers(api, runner, defaults())

	h.HandleMessage(msg("/dca"))
	sent := api.messages()
	require.Len(t, sent, 2)
	reply, ok := sent[1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, reply.Text, "insufficient data")

	h.HandleMessage(msg("/dca nope"))
	sent = api.messages()
	require.Len(t, sent, 3)
	assert.Contains(t, sent[2].(tgbotapi.MessageConfig).Text, "Usage")
	assert.Len(t, runner.reqs, 1)
}

func TestHandleMessage_HelpAndIgnored(t *testing.T) {
	api := &fakeSender{}
	h := NewHandlers(api, &fakeRunner{}, defaults())

	h.HandleMessage(msg("/start"))
	h.HandleMessage(msg("hello there"))
	sent := api.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].(tgbotapi.MessageConfig).Text, "/dca")
}

func TestTruncateCaption(t *testing.T) {
	short := "ok"
	assert.Equal(t, short, truncateCaption(short))
	long := strings.Repeat("x", 2000)
	assert.Len(t, []rune(truncateCaption(long)), 1024)
}

func TestWebhookHandler(t *testing.T) {
	api := &fakeSender{}
	h := NewHandlers(api, &fakeRunner{}, defaults())
	handler := webhookHandler(h)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(`{"update_id":1}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := []byte(`{"update_id":2,"message":{"message_id":1,"date":0,"chat":{"id":99,"type":"private"},"text":"/help"}}`)
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Eventually(t, func() bool { return len(api.messages()) == 1 }, time.Second, 10*time.Millisecond)
}
