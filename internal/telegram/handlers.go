package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"btcEthDCA/internal/dca"
	"btcEthDCA/internal/finance"
	"btcEthDCA/internal/report"
)

var (
	// /dca [budget] [years]
	reDCA = regexp.MustCompile(`^/dca(?:@[\w_]+)?(?:\s+(\S+))?(?:\s+(\S+))?$`)
	// /help or /start
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

// Sender is the subset of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Runner produces a comparison report.
type Runner interface {
	Run(ctx context.Context, trigger string, req report.Request) (*report.Report, error)
}

type Handlers struct {
	api      Sender
	runner   Runner
	defaults report.Request
	timeout  time.Duration
}

func NewHandlers(api Sender, runner Runner, defaults report.Request) *Handlers {
	return &Handlers{
		api:      api,
		runner:   runner,
		defaults: defaults,
		timeout:  90 * time.Second,
	}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	txt := strings.TrimSpace(m.Text)
	switch {
	case reDCA.MatchString(txt):
		req, err := parseDCA(txt, h.defaults)
		if err != nil {
			h.reply(m.Chat.ID, err.Error()+"\nUsage: /dca [budget] [years], e.g. /dca 500 5y")
			return
		}
		h.reply(m.Chat.ID, fmt.Sprintf("Simulating $%.0f/month over %dy…", req.Params.MonthlyBudget, req.Years))
		h.SendReport(m.Chat.ID, "bot", req)

	case reHelp.MatchString(txt):
		h.handleHelp(m.Chat.ID)
	}
}

// SendReport runs req and posts the chart with the summary to chatID.
func (h *Handlers) SendReport(chatID int64, trigger string, req report.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	rep, err := h.runner.Run(ctx, trigger, req)
	if err != nil {
		log.Error().Err(err).Str("component", "telegram").Int64("chat_id", chatID).Msg("telegram: report failed")
		h.reply(chatID, "DCA simulation failed: "+err.Error())
		return
	}
	name := fmt.Sprintf("dca_%s_%s_%dy.png", strings.ToLower(req.AssetA), strings.ToLower(req.AssetB), req.Years)
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: rep.Chart})
	photo.Caption = truncateCaption(rep.Text)
	if _, err := h.api.Send(photo); err != nil {
		log.Error().Err(err).Str("component", "telegram").Int64("chat_id", chatID).Msg("telegram: send photo failed")
	}
}

// parseDCA reads the optional budget and years arguments of /dca.
func parseDCA(txt string, defaults report.Request) (report.Request, error) {
	req := defaults
	g := reDCA.FindStringSubmatch(txt)
	if g == nil {
		return req, fmt.Errorf("not a /dca command")
	}
	if g[1] != "" {
		budget, err := strconv.ParseFloat(strings.TrimPrefix(g[1], "$"), 64)
		if err != nil || !dca.PositiveFinite(budget) {
			return req, fmt.Errorf("invalid budget %q", g[1])
		}
		req.Params.MonthlyBudget = budget
	}
	if g[2] != "" {
		years, err := finance.ParseYears(g[2])
		if err != nil {
			return req, err
		}
		req.Years = years
	}
	return req, nil
}

// Telegram limits photo captions to 1024 characters.
func truncateCaption(s string) string {
	const limit = 1024
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /dca [budget] [years] - Compare ATH, market-cap and 50/50 monthly DCA into " +
		h.defaults.AssetA + " + " + h.defaults.AssetB +
		fmt.Sprintf(" (default: $%.0f, %dy, max %dy)\n", h.defaults.Params.MonthlyBudget, h.defaults.Years, finance.MaxYears) +
		"\nMonthly closes from Yahoo Finance; months missing for either asset are dropped."
	h.reply(chatID, help)
}

func (h *Handlers) reply(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Str("component", "telegram").Int64("chat_id", chatID).Msg("telegram: send message failed")
	}
}
