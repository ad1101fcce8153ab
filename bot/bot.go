package bot

import (
	"strings"

	"restaurant-bot/logger"
	"restaurant-bot/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the customer bot (TOKEN): shows the menu, opening status and order totals.
type Bot struct {
	api        *tgbotapi.BotAPI
	restaurant *services.Restaurant
	log        *logger.Logger
}

func New(token string, r *services.Restaurant, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, restaurant: r, log: log}, nil
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "menu", Description: "Show the menu"},
			{Command: "open", Description: "Is the restaurant open now?"},
			{Command: "price", Description: "Total for items, comma separated"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) Start() {
	if err := b.setBotCommands(); err != nil {
		b.log.Error("set_commands", "failed to register bot commands", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		msg := update.Message
		if reply := b.reply(strings.TrimSpace(msg.Text)); reply != "" {
			b.send(msg.Chat.ID, reply)
		}
	}
}

// Stop ends the update loop started by Start.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// reply computes the answer for a customer message; "" means no answer.
func (b *Bot) reply(text string) string {
	r := b.restaurant
	switch commandName(text) {
	case "/start":
		return formatStatus(r, r.IsOpen()) + "\n\n" + formatMenu(r) +
			"\n\nSend /price <item>, <item> to get a total."
	case "/menu":
		return formatMenu(r)
	case "/open":
		return formatStatus(r, r.IsOpen())
	case "/price":
		names := parseItemList(commandArgs(text))
		if len(names) == 0 {
			return "Usage: /price Sweet corn soup, Vegetable lasagne"
		}
		total, err := r.CalculatePriceOfItems(names)
		if err != nil {
			return errorText(err)
		}
		return formatTotal(names, total)
	}
	return ""
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", "send error", err, "chat_id", chatID)
	}
}
