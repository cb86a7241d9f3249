// Package telegram posts moderator notices to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"unicode/utf8"

	"whodidit/backend/internal/localization"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const snippetLength = 80

// Sender is the part of tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends one-line notices about new and decided items. Sending is
// synchronous and best-effort: failures are logged and swallowed. A nil
// Notifier, or one without a sender, does nothing.
type Notifier struct {
	sender    Sender
	chatID    int64
	localizer *localization.Localizer
	lang      string
	log       *logger.Logger
}

func NewNotifier(sender Sender, chatID int64, localizer *localization.Localizer, lang string, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{sender: sender, chatID: chatID, localizer: localizer, lang: lang, log: log.With("telegram")}
}

// NewBotNotifier authorizes against the Bot API. An empty token or chat id
// yields a disabled notifier.
func NewBotNotifier(token string, chatID int64, localizer *localization.Localizer, lang string, log *logger.Logger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return NewNotifier(nil, 0, localizer, lang, log), nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorize: %w", err)
	}
	bot.Debug = false
	n := NewNotifier(bot, chatID, localizer, lang, log)
	n.log.Infof("Authorized on account %s", bot.Self.UserName)
	return n, nil
}

func (n *Notifier) enabled() bool {
	return n != nil && n.sender != nil && n.chatID != 0 && n.localizer != nil
}

func (n *Notifier) ClaimSubmitted(ctx context.Context, claim *models.Claim, providerName string) {
	if !n.enabled() {
		return
	}
	n.send(ctx, n.localizer.Format(n.lang, "notify.claim_submitted", claim.ID, providerName, claimant(claim)))
}

func (n *Notifier) ClaimDecided(ctx context.Context, claim *models.Claim, providerName string) {
	if !n.enabled() {
		return
	}
	key := "notify.claim_rejected"
	if claim.Status == models.ClaimApproved {
		key = "notify.claim_approved"
	}
	decidedBy := ""
	if claim.DecidedBy != nil {
		decidedBy = *claim.DecidedBy
	}
	n.send(ctx, n.localizer.Format(n.lang, key, claim.ID, providerName, decidedBy))
}

func (n *Notifier) ContactSubmitted(ctx context.Context, msg *models.ContactMessage) {
	if !n.enabled() {
		return
	}
	n.send(ctx, n.localizer.Format(n.lang, "notify.contact_submitted", msg.ID, snippet(msg.Body)))
}

func (n *Notifier) send(ctx context.Context, text string) {
	if ctx.Err() != nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.sender.Send(msg); err != nil {
		n.log.Warnf("Failed to notify moderators: %v", err)
	}
}

func claimant(c *models.Claim) string {
	if c.ClaimantEmail != "" {
		return c.ClaimantEmail
	}
	return c.ClaimantID
}

func snippet(s string) string {
	if utf8.RuneCountInString(s) <= snippetLength {
		return s
	}
	r := []rune(s)
	return string(r[:snippetLength]) + "…"
}
