// Package telegram is a thin Telegram frontend over the chat dispatcher.
// Every text message is handled as one independent question; the bot keeps
// no dialog state.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/codeware/chatbot-backend/internal/config"
	"github.com/codeware/chatbot-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Usecase is the chat dispatcher consumed by the bot.
type Usecase interface {
	Ask(ctx context.Context, userID, question string) (*entity.ChatResponse, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	usecase Usecase
	limiter *RateLimiter
	timeout int
	logger  *zap.Logger
}

func NewBot(cfg *config.TelegramConfig, usecase Usecase, logger *zap.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:     api,
		usecase: usecase,
		limiter: NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		timeout: cfg.UpdateTimeout,
		logger:  logger,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Telegram bot started", zap.String("username", b.api.Self.UserName))

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(updateCfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Telegram bot stopped")
			return nil
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	if !b.limiter.Allow(userID) {
		b.logger.Warn("rate limit exceeded", zap.Int64("user_id", userID))
		b.reply(msg.Chat.ID, "You're sending messages too fast. Please wait a moment.")
		return
	}

	resp, err := b.usecase.Ask(ctx, strconv.FormatInt(userID, 10), msg.Text)
	if err != nil {
		b.logger.Error("failed to answer question", zap.Int64("user_id", userID), zap.Error(err))
		b.reply(msg.Chat.ID, "Something went wrong while answering your question. Please try again later.")
		return
	}

	b.reply(msg.Chat.ID, renderResponse(resp))
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func renderResponse(resp *entity.ChatResponse) string {
	if resp.Triggered || len(resp.Sources) == 0 {
		return resp.Answer
	}
	return fmt.Sprintf("%s\n\nSources: %s", resp.Answer, strings.Join(resp.Sources, ", "))
}
