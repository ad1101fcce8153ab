package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"restaurant-bot/services"
)

// commandArgs strips "/cmd" (and an optional "@botname" suffix) from text.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	i := strings.IndexAny(text, " \n")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i+1:])
}

// commandName returns "/cmd" without arguments or "@botname".
func commandName(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, " \n"); i >= 0 {
		text = text[:i]
	}
	if i := strings.Index(text, "@"); i >= 0 {
		text = text[:i]
	}
	return text
}

// parseItemList splits "a, b\nc" into item names. Duplicates are kept.
func parseItemList(args string) []string {
	var names []string
	for _, part := range strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == '\n' || r == ';' }) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// parseAddArgs reads "<name> <price>"; the last word is the price so names may contain spaces.
func parseAddArgs(args string) (string, int64, error) {
	args = strings.TrimSpace(args)
	i := strings.LastIndexAny(args, " \t|")
	if i <= 0 {
		return "", 0, errors.New("usage: /add <name> <price>")
	}
	name := strings.TrimSpace(strings.TrimRight(args[:i], " \t|"))
	price, err := strconv.ParseInt(strings.TrimSpace(args[i+1:]), 10, 64)
	if err != nil || name == "" {
		return "", 0, errors.New("usage: /add <name> <price>")
	}
	return name, price, nil
}

func formatMenu(r *services.Restaurant) string {
	menu := r.Menu()
	if len(menu) == 0 {
		return fmt.Sprintf("%s has nothing on the menu yet.", r.Name())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 %s, %s\n", r.Name(), r.Location())
	for _, it := range menu {
		fmt.Fprintf(&b, "• %s: %d\n", it.Name, it.Price)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStatus(r *services.Restaurant, open bool) string {
	state := "closed"
	if open {
		state = "open"
	}
	return fmt.Sprintf("%s is %s now. Hours: %s – %s.", r.Name(), state, r.Opening(), r.Closing())
}

func formatTotal(names []string, total int64) string {
	return fmt.Sprintf("Total for %d item(s): %d", len(names), total)
}

// errorText turns service errors into a chat reply.
func errorText(err error) string {
	var nf *services.ItemNotFoundError
	switch {
	case errors.As(err, &nf):
		return fmt.Sprintf("❌ «%s» is not on the menu.", nf.Name)
	case errors.Is(err, services.ErrInvalidPrice):
		return "❌ Price must be zero or more."
	case errors.Is(err, services.ErrPriceOverflow):
		return "❌ The total is too large to calculate."
	default:
		return "❌ " + err.Error()
	}
}
