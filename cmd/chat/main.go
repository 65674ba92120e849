package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"carechat-backend/internal/chatui"
	"carechat-backend/internal/logging"
	"carechat-backend/internal/models"
)

type CLI struct {
	RelayURL     string `help:"The URL of the chat relay." env:"RELAY_URL" default:"http://localhost:3000"`
	Model        string `help:"The model to request." env:"CHAT_MODEL" default:"gemini-1.5-pro"`
	PreambleFile string `help:"File whose contents replace the default prompt preamble." env:"CHAT_PREAMBLE_FILE" default:""`
	LogFile      string `help:"Write logs to this file instead of discarding them." env:"CHAT_LOG_FILE" default:""`
	LogLevel     string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c CLI) Run(ctx context.Context) error {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if c.LogFile != "" {
		fileLog, closer, err := logging.NewFileLogger(c.LogFile, c.LogLevel, "json")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer closer.Close()
		log = fileLog
	}

	preamble := chatui.DefaultPreamble
	if c.PreambleFile != "" {
		b, err := os.ReadFile(c.PreambleFile)
		if err != nil {
			return fmt.Errorf("failed to read preamble file: %w", err)
		}
		preamble = string(b)
	}

	client := chatui.NewClient(c.RelayURL,
		chatui.WithModel(c.Model),
		chatui.WithPreamble(preamble),
		chatui.WithLogger(log))

	var p *tea.Program
	session := chatui.NewSession(client, chatui.WithOnChange(func(turns []models.ChatTurn, typing bool) {
		p.Send(sessionMsg{turns: turns, typing: typing})
	}))

	p = tea.NewProgram(newModel(ctx, session), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func main() {
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli,
		kong.Description("Terminal chat client for the carechat relay."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
