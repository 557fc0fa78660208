package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot owns the long-poll loop and fans updates out per chat.
type Bot struct {
	api *tgbotapi.BotAPI
	log *zap.SugaredLogger

	handler *Handler
}

func NewBot(token string, creator QuizCreator, tempDir string, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	files := &botFileDownloader{
		api:  api,
		http: &http.Client{Timeout: 30 * time.Second},
	}
	handler := NewHandler(api, files, NewSessionManager(log), creator, tempDir, log)

	return &Bot{
		api:     api,
		log:     log,
		handler: handler,
	}, nil
}

// Start blocks until ctx is cancelled or the update channel closes.
func (b *Bot) Start(ctx context.Context) {
	b.log.Infow("authorized", "username", b.api.Self.UserName)

	disp := newDispatcher(func(u tgbotapi.Update) {
		b.handler.HandleUpdate(ctx, u)
	})
	defer disp.stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			chatID, ok := updateChatID(update)
			if !ok {
				continue
			}
			disp.dispatch(chatID, update)
		}
	}
}

func updateChatID(u tgbotapi.Update) (int64, bool) {
	switch {
	case u.Message != nil:
		return u.Message.Chat.ID, true
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		return u.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}

// botFileDownloader fetches uploaded documents via the Bot API file
// endpoint.
type botFileDownloader struct {
	api  *tgbotapi.BotAPI
	http *http.Client
}

func (d *botFileDownloader) Download(ctx context.Context, fileID, dest string) error {
	url, err := d.api.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}
