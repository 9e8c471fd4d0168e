package cli

import (
	"context"
	"fmt"
)

// RunList загружает список ресторанов один раз и печатает его
func (c *Cli) RunList(ctx context.Context) error {
	if err := c.core.Start(ctx); err != nil {
		c.retire()
		return fmt.Errorf("failed to start client: %w", err)
	}
	defer c.retire()

	if err := c.core.FetchErr(); err != nil {
		return fmt.Errorf("failed to list restaurants: %w", err)
	}

	return c.render("restaurants", c.core.Snapshot())
}
