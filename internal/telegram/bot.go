package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"btcEthDCA/internal/report"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

func NewBot(token, webhookURL string, runner Runner, defaults report.Request) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	// set webhook
	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log.Info().Str("component", "telegram").Str("webhook", webhookURL).Msg("telegram: webhook set")

	return &Bot{api: api, h: NewHandlers(api, runner, defaults)}, nil
}

// Handlers exposes the command handlers, e.g. for scheduled reports.
func (b *Bot) Handlers() *Handlers { return b.h }

// WebhookHandler returns the HTTP handler registered at /telegram/webhook.
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	webhookHandler(b.h)(w, r)
}

func webhookHandler(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		if update.Message == nil {
			log.Debug().Str("component", "telegram").Msg("webhook: non-message update received")
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Info().Str("component", "telegram").Int64("chat_id", update.Message.Chat.ID).
			Str("text", update.Message.Text).Msg("webhook: message received")
		go h.HandleMessage(update.Message)
		w.WriteHeader(http.StatusOK)
	}
}
