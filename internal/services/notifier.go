package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gopkg.in/gomail.v2"

	"github.com/versin01/vertical-systems-crm/internal/models"
	"github.com/versin01/vertical-systems-crm/internal/pipeline"
)

// Notifier is told about stage changes that close a deal.
type Notifier interface {
	DealClosed(ctx context.Context, deal models.Deal, from models.Stage) error
}

type NopNotifier struct{}

func (NopNotifier) DealClosed(context.Context, models.Deal, models.Stage) error { return nil }

// MultiNotifier fans out to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) DealClosed(ctx context.Context, deal models.Deal, from models.Stage) error {
	var errs []error
	for _, n := range m {
		if err := n.DealClosed(ctx, deal, from); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closedHeadline(deal models.Deal) string {
	if deal.Stage == models.StageContractSigned {
		return "Deal won"
	}
	return "Deal lost"
}

func stageLabel(s models.Stage) string {
	if info, ok := pipeline.Lookup(s); ok {
		return info.Label
	}
	return string(s)
}

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts closed deals to a sales chat.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) DealClosed(_ context.Context, deal models.Deal, from models.Stage) error {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return nil
	}
	text := fmt.Sprintf("<b>%s</b>: %s\nValue: %.2f\nMoved from: %s",
		closedHeadline(deal), html.EscapeString(deal.Name), deal.DealValue, html.EscapeString(stageLabel(from)))

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails closed deals to a fixed recipient list.
type EmailNotifier struct {
	dialer     mailSender
	from       string
	recipients []string
}

func NewEmailNotifier(smtpHost string, smtpPort int, smtpUser, smtpPassword, from string, recipients []string) *EmailNotifier {
	return &EmailNotifier{
		dialer:     gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:       from,
		recipients: recipients,
	}
}

func (e *EmailNotifier) DealClosed(_ context.Context, deal models.Deal, from models.Stage) error {
	if e == nil || len(e.recipients) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.recipients...)
	m.SetHeader("Subject", fmt.Sprintf("%s: %s", closedHeadline(deal), deal.Name))

	body := fmt.Sprintf(`
		<h3>%s</h3>
		<p><strong>%s</strong> moved from %s to %s.</p>
		<p>Value: %.2f, probability: %d%%</p>
	`, closedHeadline(deal), html.EscapeString(deal.Name),
		html.EscapeString(stageLabel(from)), html.EscapeString(stageLabel(deal.Stage)),
		deal.DealValue, deal.Probability)
	m.SetBody("text/html", body)

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send deal email: %w", err)
	}
	return nil
}
