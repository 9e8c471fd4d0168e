package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/restaurants/internal/models"
)

// handle выполняет одну команду формы. Возвращает true для выхода.
func (c *Cli) handle(ctx context.Context, line string) (bool, error) {
	command, value, _ := strings.Cut(strings.TrimSpace(line), " ")
	if command == "" {
		return false, nil
	}

	if field, ok := models.ParseField(command); ok {
		return false, c.core.SetField(ctx, field, strings.TrimSpace(value))
	}

	switch command {
	case "submit":
		created, err := c.core.Submit(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to submit restaurant: %w", err)
		}
		return false, c.render("submitted", created)
	case "show":
		snapshot := c.core.Snapshot()
		if err := c.render("restaurants", snapshot); err != nil {
			return false, err
		}
		return false, c.render("draft", snapshot.Draft)
	case "help":
		return false, c.render("usage", nil)
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s. Type 'help' for the list of commands", command)
	}
}
