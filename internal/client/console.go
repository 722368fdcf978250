package client

import (
	"fmt"
	"io"
	"sync"
)

// DefaultPrompt is shown while waiting for input.
const DefaultPrompt = "You: "

// Console serializes all terminal output so background replies never
// interleave with the foreground prompt.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	prompt string
}

// NewConsole writes to out using prompt.
func NewConsole(out io.Writer, prompt string) *Console {
	return &Console{out: out, prompt: prompt}
}

// Prompt prints the input prompt.
func (c *Console) Prompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, c.prompt)
}

// Reply prints an assistant reply and restores the prompt.
func (c *Console) Reply(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\nAI: %s\n\n%s", text, c.prompt)
}

// Println prints one line.
func (c *Console) Println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// Noticef prints an informational line and restores the prompt.
func (c *Console) Noticef(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n* %s\n%s", fmt.Sprintf(format, args...), c.prompt)
}

// Errorf prints an error line and restores the prompt.
func (c *Console) Errorf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n%s\n%s", fmt.Sprintf(format, args...), c.prompt)
}

// Clear wipes the terminal.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, "\033[H\033[2J")
}
