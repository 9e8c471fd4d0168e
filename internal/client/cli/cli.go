// Package cli терминальный интерфейс клиента: читает команды формы,
// передает их в ядро и печатает снимки состояния.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/iudanet/restaurants/internal/client/app"
	"github.com/iudanet/restaurants/internal/client/iocli"
	"github.com/iudanet/restaurants/internal/client/state"
	"github.com/iudanet/restaurants/internal/models"
)

const prompt = "> "

type Cli struct {
	io     iocli.IO
	core   *app.Core
	logger *slog.Logger

	// outMu не дает уведомлениям наблюдателя смешиваться с выводом команд
	outMu sync.Mutex
}

func New(io iocli.IO, core *app.Core, logger *slog.Logger) *Cli {
	return &Cli{
		io:     io,
		core:   core,
		logger: logger,
	}
}

type inputLine struct {
	text string
	err  error
}

// RunInteractive запускает ядро и обрабатывает команды до quit, конца ввода
// или отмены ctx. Ядро останавливается при любом выходе.
func (c *Cli) RunInteractive(ctx context.Context) error {
	if err := c.core.Start(ctx); err != nil {
		c.retire()
		return fmt.Errorf("failed to start client: %w", err)
	}
	defer c.retire()

	select {
	case <-c.core.Fetched():
	case <-ctx.Done():
		return nil
	}

	unsubscribe, err := c.watch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer unsubscribe()

	requests := make(chan struct{})
	lines := make(chan inputLine)
	done := make(chan struct{})
	defer close(done)
	go c.readLines(requests, lines, done)

	subDone := c.core.SubscriptionDone()
	waiting := false
	for {
		// Следующая строка читается только по запросу, чтобы не забирать
		// ввод после quit
		if !waiting {
			select {
			case requests <- struct{}{}:
				waiting = true
			case <-ctx.Done():
				return nil
			}
		}

		select {
		case line := <-lines:
			waiting = false
			if line.err != nil {
				if errors.Is(line.err, io.EOF) {
					return nil
				}
				return fmt.Errorf("failed to read command: %w", line.err)
			}

			quit, err := c.handle(ctx, line.text)
			if err != nil {
				c.printf("Error: %v\n", err)
			}
			if quit {
				return nil
			}
		case err := <-subDone:
			subDone = nil
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				c.printf("Live updates stopped: %v\n", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// watch печатает начальный список и подписывает announce. Снимок и регистрация
// наблюдателя атомарны: добавления после снимка придут в announce, более
// ранние уже есть в списке. outMu удерживается до конца печати, поэтому
// уведомления не опережают список.
func (c *Cli) watch(ctx context.Context) (func(), error) {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	snapshot, unsubscribe, err := c.core.Watch(ctx, c.announce)
	if err != nil {
		return nil, fmt.Errorf("failed to watch restaurants: %w", err)
	}
	if err := c.execute("restaurants", snapshot); err != nil {
		unsubscribe()
		return nil, err
	}
	if err := c.execute("usage", nil); err != nil {
		unsubscribe()
		return nil, err
	}
	return unsubscribe, nil
}

// readLines читает по одной строке на каждый запрос. Блокирующий ReadInput
// не прерывается; горутина завершается после закрытия done.
func (c *Cli) readLines(requests <-chan struct{}, lines chan<- inputLine, done <-chan struct{}) {
	for {
		select {
		case <-requests:
		case <-done:
			return
		}

		text, err := c.io.ReadInput(prompt)
		select {
		case lines <- inputLine{text: text, err: err}:
		case <-done:
			return
		}
	}
}

// announce печатает рестораны, добавленные другими клиентами
func (c *Cli) announce(t state.Transition, _ state.ViewState) {
	if appended, ok := t.(state.Append); ok {
		if err := c.render("appended", appended.Restaurant); err != nil {
			c.logger.Error("Failed to render restaurant", "error", err)
		}
	}
}

func (c *Cli) render(name string, data any) error {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	return c.execute(name, data)
}

func (c *Cli) execute(name string, data any) error {
	if err := templates.ExecuteTemplate(c.io, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

func (c *Cli) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	c.io.Printf(format, args...)
}

func (c *Cli) retire() {
	if err := c.core.Retire(); err != nil {
		c.logger.Error("Failed to stop client", "error", err)
	}
}

func (c *Cli) setDraft(ctx context.Context, draft state.Draft) error {
	for _, field := range models.Fields() {
		if err := c.core.SetField(ctx, field, draft.Get(field)); err != nil {
			return fmt.Errorf("failed to set %s: %w", field, err)
		}
	}
	return nil
}
