package ui

import (
	"fmt"
	"io"
	"sync"
)

// Console renders the page capabilities as lines of text.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	width     int
	imageSrc  string
	imageSize int
}

func NewConsole(out io.Writer, width int) *Console {
	return &Console{out: out, width: width}
}

func (c *Console) Alert(message string) {
	c.printf("! %s\n", message)
}

func (c *Console) Width() int { return c.width }

func (c *Console) SetImage(src string, width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageSrc = src
	c.imageSize = width
}

func (c *Console) Show() {
	c.mu.Lock()
	src, size := c.imageSrc, c.imageSize
	c.mu.Unlock()
	c.printf("Justificatif: %s (largeur %d)\n", src, size)
}

// ErrorSlot returns a slot that prints under the given label.
func (c *Console) ErrorSlot(label string) ErrorSlot {
	return &consoleSlot{c: c, label: label}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

type consoleSlot struct {
	c     *Console
	label string
}

func (s *consoleSlot) SetText(text string) {
	if text == "" {
		return
	}
	s.c.printf("[%s] %s\n", s.label, text)
}

// PathInput is a FileInput holding the selected path.
type PathInput struct {
	Path string
}

func (p *PathInput) Reset() { p.Path = "" }
