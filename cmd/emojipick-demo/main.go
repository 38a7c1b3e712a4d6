package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/iw2rmb/emojipick"
	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/picker"
	"github.com/iw2rmb/emojipick/renderer"
)

type flags struct {
	config   string
	locale   string
	theme    string
	position string
	renderer string
	logPath  string
	version  bool
}

func parseFlags(args []string, out io.Writer) (flags, error) {
	var f flags
	fs := pflag.NewFlagSet("emojipick-demo", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&f.config, "config", "c", "", "YAML or TOML picker config file")
	fs.StringVar(&f.locale, "locale", "", "emoji data locale (default en)")
	fs.StringVar(&f.theme, "theme", "", "light, dark or auto")
	fs.StringVarP(&f.position, "position", "p", "", "placement such as bottom-start")
	fs.StringVar(&f.renderer, "renderer", "", "native or twemoji")
	fs.StringVar(&f.logPath, "log", "", "write debug logs to this file")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: emojipick-demo [flags]\n\nFlags:\n%s", fs.FlagUsages())
	}
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	return f, nil
}

// buildConfig layers command-line flags over the config file.
func buildConfig(f flags, anchor picker.Anchor, logger *slog.Logger) (picker.Config, error) {
	cfg := picker.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = picker.LoadConfigFile(f.config); err != nil {
			return picker.Config{}, err
		}
	}
	if f.locale != "" {
		cfg.Locale = f.locale
	}
	if f.theme != "" {
		cfg.Theme = picker.Theme(f.theme)
	}
	if f.position != "" {
		pos, err := picker.ParsePosition(f.position)
		if err != nil {
			return picker.Config{}, err
		}
		cfg.Position = pos
	}
	switch f.renderer {
	case "":
	case "native":
		cfg.Renderer = renderer.Native{}
	case "twemoji":
		cfg.Renderer = renderer.Twemoji{Format: renderer.FormatSVG}
	default:
		return picker.Config{}, fmt.Errorf("%w: renderer %q", picker.ErrInvalidConfig, f.renderer)
	}
	cfg.Reference = anchor
	cfg.Logger = logger
	return cfg, nil
}

type demoKeys struct {
	Toggle key.Binding
	Quit   key.Binding
}

func (k demoKeys) ShortHelp() []key.Binding  { return []key.Binding{k.Toggle, k.Quit} }
func (k demoKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// button is the anchor the picker opens next to.
type button struct {
	label string
	rect  picker.Rect
}

func (b *button) Bounds() picker.Rect { return b.rect }

const (
	buttonRow = 2
	buttonCol = 2
)

type model struct {
	picker *picker.Picker
	button *button
	keys   demoKeys
	help   help.Model

	picked []string
	status string
	width  int
	height int
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	buttonStyle = lipgloss.NewStyle().Reverse(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func newModel(f flags, logger *slog.Logger) (*model, error) {
	b := &button{label: "[ 😀 Pick emoji ]"}
	b.rect = picker.Rect{X: buttonCol, Y: buttonRow, Width: lipgloss.Width(b.label), Height: 1}

	cfg, err := buildConfig(f, b, logger)
	if err != nil {
		return nil, err
	}
	p, err := picker.New(cfg)
	if err != nil {
		return nil, err
	}
	m := &model{
		picker: p,
		button: b,
		keys: demoKeys{
			Toggle: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "toggle picker")),
			Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		},
		help: help.New(),
	}
	p.On(picker.EventSelect, func(v any) {
		sel, _ := v.(emoji.Selection)
		m.picked = append(m.picked, sel.Emoji)
		m.status = "picked " + sel.Label
		if sel.URL != "" {
			m.status += " (" + sel.URL + ")"
		}
	})
	p.On(picker.EventError, func(v any) {
		if err, ok := v.(error); ok {
			m.status = "error: " + err.Error()
		}
	})
	return m, nil
}

func (m *model) Init() tea.Cmd { return m.picker.Init() }

func (m *model) toggle() tea.Cmd {
	cmd, err := m.picker.TogglePicker()
	if err != nil {
		m.status = "error: " + err.Error()
	}
	return cmd
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.picker.DestroyPicker()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m, m.toggle()
		}
		if !m.picker.IsPickerVisible() {
			return m, nil
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.button.rect.Contains(msg.X, msg.Y) {
			return m, m.toggle()
		}
	}
	return m, m.picker.Update(msg)
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("emojipick " + emojipick.Version()))
	b.WriteString("\n\n")
	b.WriteString(strings.Repeat(" ", buttonCol) + buttonStyle.Render(m.button.label))
	b.WriteString("\n\n  Picked: " + strings.Join(m.picked, " "))
	if m.status != "" {
		b.WriteString("\n  " + mutedStyle.Render(m.status))
	}
	b.WriteString("\n\n  " + m.help.View(m.keys))
	if m.picker.IsPickerVisible() {
		b.WriteString("\n  " + m.help.View(m.picker.KeyMap()))
	}
	return m.picker.Root().Render(b.String())
}

func openLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}

func run(args []string) error {
	f, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if f.version {
		locale := f.locale
		if locale == "" {
			locale = "en"
		}
		desc, err := emojipick.Describe(context.Background(), locale)
		if err != nil {
			return err
		}
		fmt.Println(desc)
		return nil
	}
	logger, closeLog, err := openLog(f.logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := newModel(f, logger)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
