package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aiwb/chatbot-backend/internal/config"
	"github.com/aiwb/chatbot-backend/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QueryUsecase is the slice of the query pipeline the bot needs.
type QueryUsecase interface {
	Answer(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

// Bot is a thin Telegram front-end over the query pipeline. Each chat is
// bound to a tenant with /business and gets its own conversation history.
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	queryUC     QueryUsecase
	state       *chatState
	logger      *zap.Logger
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewBot creates a new Telegram bot
func NewBot(cfg *config.TelegramConfig, queryUC QueryUsecase, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return &Bot{
		api:      api,
		cfg:      cfg,
		queryUC:  queryUC,
		state:    newChatState(),
		logger:   logger,
		stopChan: make(chan struct{}),
	}, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(30 * time.Second):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed")
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update := <-b.updatesChan:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						b.logger.Error("panic while handling message", zap.Any("panic", r))
					}
				}()
				b.handleMessage(ctxzap.ToContext(context.Background(), b.logger), msg)
			}(update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	businessID, ok := b.state.Business(message.Chat.ID)
	if !ok {
		businessID = b.cfg.DefaultBusinessID
	}
	if businessID == "" {
		b.send(message.Chat.ID, "No business is selected. Use /business <id> to choose whose documents to search.")
		return
	}

	ctxzap.Info(ctx, "telegram query",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("business_id", businessID),
	)

	b.api.Send(tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping))

	result, err := b.queryUC.Answer(ctx, &entity.QueryRequest{
		Query:          text,
		BusinessID:     businessID,
		ConversationID: conversationID(message.Chat.ID),
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to answer telegram query", zap.Error(err))
		b.send(message.Chat.ID, "Something went wrong while looking that up. Please try again later.")
		return
	}

	b.sendAnswer(message.Chat.ID, result)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.send(message.Chat.ID,
			"Hi! I answer questions based on uploaded company documents.\n\n"+
				"Use /business <id> to pick a business, then just ask your question.\n"+
				"/reset clears our conversation history.")
	case "business":
		businessID := strings.TrimSpace(message.CommandArguments())
		if businessID == "" {
			b.send(message.Chat.ID, "Usage: /business <id>")
			return
		}
		b.state.SetBusiness(message.Chat.ID, businessID)
		b.send(message.Chat.ID, fmt.Sprintf("Got it, searching documents of business '%s'.", businessID))
	case "reset":
		err := b.queryUC.DeleteConversation(ctx, conversationID(message.Chat.ID))
		if err != nil && !errors.Is(err, entity.ErrConversationNotFound) {
			ctxzap.Error(ctx, "failed to reset conversation", zap.Error(err))
		}
		b.send(message.Chat.ID, "Conversation history cleared.")
	default:
		b.send(message.Chat.ID, "Unknown command. Try /start, /business <id> or /reset.")
	}
}

func (b *Bot) sendAnswer(chatID int64, result *entity.QueryResult) {
	var sb strings.Builder
	sb.WriteString(result.Answer)

	if len(result.Sources) > 0 {
		sb.WriteString("\n\nSources:\n")
		for _, src := range result.Sources {
			sb.WriteString(fmt.Sprintf("- %s, page %d\n", src.Filename, src.PageNumber))
		}
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		// Markdown from the model can be malformed; retry as plain text.
		msg.ParseMode = ""
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error("failed to send telegram message", zap.Error(err))
		}
	}
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("failed to send telegram message", zap.Error(err))
	}
}
