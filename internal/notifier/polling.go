package notifier

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"
)

// pollTimeout is the long-poll window handed to getUpdates, in seconds.
const pollTimeout = 30

// CommandHandler answers one chat command. An empty reply sends nothing.
type CommandHandler func(ctx context.Context, command string) string

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type message struct {
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Text string `json:"text"`
}

// StartPolling long-polls getUpdates and feeds commands from the configured
// chat to handler. It blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	var offset int64
	failures := 0
	for {
		if ctx.Err() != nil {
			log.Println("[INFO] telegram polling stopped")
			return
		}

		var updates []update
		err := t.call(ctx, "getUpdates", map[string]any{
			"offset":          offset,
			"timeout":         pollTimeout,
			"allowed_updates": []string{"message"},
		}, &updates)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			wait := t.retryDelay(min(failures, 5), err)
			failures++
			log.Printf("[WARN] telegram getUpdates failed: %v, retrying in %v", err, wait)
			sleepCtx(ctx, wait)
			continue
		}
		failures = 0

		for _, u := range updates {
			offset = u.UpdateID + 1
			t.dispatch(ctx, u.Message, handler)
		}
	}
}

func (t *TelegramNotifier) dispatch(ctx context.Context, msg *message, handler CommandHandler) {
	if msg == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	if chatID != t.ChatID {
		log.Printf("[WARN] ignore command from chat %s", chatID)
		return
	}
	log.Printf("[INFO] received command: %s", text)
	reply := handler(ctx, text)
	if reply == "" {
		return
	}
	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := t.sendTo(sendCtx, chatID, reply); err != nil {
		log.Printf("[ERROR] send reply: %v", err)
	}
}
