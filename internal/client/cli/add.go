package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/restaurants/internal/client/state"
)

// RunAdd создает один ресторан из переданных значений.
// Возвращается после завершения запроса создания.
func (c *Cli) RunAdd(ctx context.Context, draft state.Draft) error {
	if err := c.core.Start(ctx); err != nil {
		c.retire()
		return fmt.Errorf("failed to start client: %w", err)
	}
	defer c.retire()

	<-c.core.Fetched()

	if err := c.setDraft(ctx, draft); err != nil {
		return err
	}

	created, err := c.core.Submit(ctx)
	if err != nil {
		return fmt.Errorf("failed to submit restaurant: %w", err)
	}

	return c.render("submitted", created)
}
