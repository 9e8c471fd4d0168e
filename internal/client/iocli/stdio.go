package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Stdio реализация IO поверх потоков процесса.
// Приглашения печатаются только если ввод идет с терминала.
type Stdio struct {
	in          *bufio.Reader
	out         io.Writer
	mu          sync.Mutex
	interactive bool
}

func NewStdio() IO {
	return &Stdio{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// NewStream создает IO поверх произвольных потоков
func NewStream(in io.Reader, out io.Writer, interactive bool) IO {
	return &Stdio{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

func (s *Stdio) Println(a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	if s.interactive && prompt != "" {
		s.Printf("%s", prompt)
	}
	input, err := s.in.ReadString('\n')
	if err != nil {
		// Последняя строка без перевода строки
		if err == io.EOF && input != "" {
			return strings.TrimSpace(input), nil
		}
		return "", err
	}
	return strings.TrimSpace(input), nil
}
