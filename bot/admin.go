package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"restaurant-bot/logger"
	"restaurant-bot/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	roleSuper = "super"
	roleAdmin = "admin"
)

// Authenticator checks a restaurant admin's password.
type Authenticator interface {
	AuthenticateAdmin(ctx context.Context, tgUserID, restaurantID int64, plain string) (bool, error)
	RegisterAdmin(ctx context.Context, tgUserID, restaurantID int64) (string, error)
}

// LoginThrottle slows down repeated wrong passwords. Authenticators may implement it.
type LoginThrottle interface {
	LoginWait(ctx context.Context, tgUserID int64) (time.Duration, error)
	RecordLoginFailed(ctx context.Context, tgUserID int64) error
	RecordLoginSuccess(ctx context.Context, tgUserID int64) error
}

// PostgresAuth uses the restaurant_admins and login_throttle tables.
type PostgresAuth struct{}

func (PostgresAuth) AuthenticateAdmin(ctx context.Context, tgUserID, restaurantID int64, plain string) (bool, error) {
	return services.AuthenticateAdmin(ctx, tgUserID, restaurantID, plain)
}

func (PostgresAuth) RegisterAdmin(ctx context.Context, tgUserID, restaurantID int64) (string, error) {
	return services.RegisterAdmin(ctx, tgUserID, restaurantID)
}

func (PostgresAuth) LoginWait(ctx context.Context, tgUserID int64) (time.Duration, error) {
	return services.LoginWait(ctx, tgUserID)
}

func (PostgresAuth) RecordLoginFailed(ctx context.Context, tgUserID int64) error {
	return services.RecordLoginFailed(ctx, tgUserID)
}

func (PostgresAuth) RecordLoginSuccess(ctx context.Context, tgUserID int64) error {
	return services.RecordLoginSuccess(ctx, tgUserID)
}

// AdminBot is the menu admin bot (ADDER_TOKEN). The super admin (ADMIN_ID) logs in with LOGIN;
// restaurant admins use the password issued by /register.
type AdminBot struct {
	api          *tgbotapi.BotAPI
	menu         *services.MenuService
	auth         Authenticator
	throttle     LoginThrottle // nil when auth does not implement it
	login        string
	superAdminID int64
	log          *logger.Logger

	sessionMu sync.RWMutex
	sessions  map[int64]string // tg user id -> role
}

func NewAdminBot(token string, menu *services.MenuService, auth Authenticator, login string, superAdminID int64, log *logger.Logger) (*AdminBot, error) {
	if token == "" {
		return nil, fmt.Errorf("ADDER_TOKEN not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newAdminBot(api, menu, auth, login, superAdminID, log), nil
}

func newAdminBot(api *tgbotapi.BotAPI, menu *services.MenuService, auth Authenticator, login string, superAdminID int64, log *logger.Logger) *AdminBot {
	a := &AdminBot{
		api:          api,
		menu:         menu,
		auth:         auth,
		login:        login,
		superAdminID: superAdminID,
		log:          log,
		sessions:     make(map[int64]string),
	}
	if t, ok := auth.(LoginThrottle); ok {
		a.throttle = t
	}
	return a
}

func (a *AdminBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := a.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		msg := update.Message
		reply := a.handle(context.Background(), msg.From.ID, strings.TrimSpace(msg.Text))
		if reply != "" {
			a.send(msg.Chat.ID, reply)
		}
	}
}

func (a *AdminBot) Stop() {
	a.api.StopReceivingUpdates()
}

func (a *AdminBot) role(userID int64) string {
	a.sessionMu.RLock()
	defer a.sessionMu.RUnlock()
	return a.sessions[userID]
}

func (a *AdminBot) setRole(userID int64, role string) {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	if role == "" {
		delete(a.sessions, userID)
		return
	}
	a.sessions[userID] = role
}

// handle processes one admin message and returns the reply text.
func (a *AdminBot) handle(ctx context.Context, userID int64, text string) string {
	cmd := commandName(text)
	if cmd == "/start" {
		if a.role(userID) != "" {
			return a.panel()
		}
		return "🔒 Send your admin password to manage the menu."
	}

	role := a.role(userID)
	if role == "" {
		// Commands are never passwords and must not count towards the throttle.
		if strings.HasPrefix(text, "/") {
			return "🔒 Send your admin password to manage the menu."
		}
		return a.tryLogin(ctx, userID, text)
	}

	r := a.menu.Restaurant()
	switch cmd {
	case "/menu":
		return formatMenu(r)
	case "/add":
		name, price, err := parseAddArgs(commandArgs(text))
		if err != nil {
			return err.Error()
		}
		if err := a.menu.Add(ctx, name, price); err != nil {
			return errorText(err)
		}
		return fmt.Sprintf("✅ %s: %d. Menu now has %d item(s).", name, price, len(r.Menu()))
	case "/remove":
		name := commandArgs(text)
		if name == "" {
			return "usage: /remove <name>"
		}
		if err := a.menu.Remove(ctx, name); err != nil {
			return errorText(err)
		}
		return fmt.Sprintf("🗑 Removed %s. Menu now has %d item(s).", name, len(r.Menu()))
	case "/register":
		if role != roleSuper {
			return "Only the super admin can register admins."
		}
		return a.register(ctx, commandArgs(text))
	case "/logout":
		a.setRole(userID, "")
		return "Logged out."
	}
	return a.panel()
}

func (a *AdminBot) tryLogin(ctx context.Context, userID int64, password string) string {
	if a.throttle != nil {
		wait, err := a.throttle.LoginWait(ctx, userID)
		if err != nil {
			a.log.Error("admin_login", "failed to read login throttle", err, "tg_user_id", userID)
		} else if wait > 0 {
			return fmt.Sprintf("⏳ Too many attempts. Try again in %d s.", int(wait/time.Second))
		}
	}

	role := ""
	if a.superAdminID != 0 && userID == a.superAdminID && a.login != "" && password == a.login {
		role = roleSuper
	} else if a.auth != nil {
		ok, err := a.auth.AuthenticateAdmin(ctx, userID, a.menu.Restaurant().ID, password)
		if err != nil {
			a.log.Error("admin_login", "failed to check admin password", err, "tg_user_id", userID)
			return "❌ Login failed, try again later."
		}
		if ok {
			role = roleAdmin
		}
	}

	if role == "" {
		if a.throttle != nil {
			if err := a.throttle.RecordLoginFailed(ctx, userID); err != nil {
				a.log.Error("admin_login", "failed to record failed login", err, "tg_user_id", userID)
			}
		}
		return "🔒 Wrong password."
	}
	if a.throttle != nil {
		if err := a.throttle.RecordLoginSuccess(ctx, userID); err != nil {
			a.log.Error("admin_login", "failed to reset login throttle", err, "tg_user_id", userID)
		}
	}
	a.setRole(userID, role)
	a.log.Info("admin_login", "admin logged in", "tg_user_id", userID, "role", role)
	return a.panel()
}

func (a *AdminBot) register(ctx context.Context, args string) string {
	tgUserID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || tgUserID <= 0 {
		return "usage: /register <telegram user id>"
	}
	if a.auth == nil {
		return "❌ Admin registration is not available."
	}
	plain, err := a.auth.RegisterAdmin(ctx, tgUserID, a.menu.Restaurant().ID)
	if err != nil {
		a.log.Error("admin_register", "failed to register admin", err, "tg_user_id", tgUserID)
		return "❌ " + err.Error()
	}
	a.log.Info("admin_register", "admin registered", "tg_user_id", tgUserID)
	return fmt.Sprintf("✅ Admin %d registered. Password: %s", tgUserID, plain)
}

func (a *AdminBot) panel() string {
	r := a.menu.Restaurant()
	return fmt.Sprintf("%s admin panel\n"+
		"/menu – show the menu\n"+
		"/add <name> <price> – add or update an item\n"+
		"/remove <name> – remove an item\n"+
		"/register <tg id> – issue an admin password (super admin)\n"+
		"/logout", r.Name())
}

func (a *AdminBot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := a.api.Send(msg); err != nil {
		a.log.Error("send", "send error", err, "chat_id", chatID)
	}
}
