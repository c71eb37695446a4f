package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/tribble/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	// MaxInputSize bounds one answer in bytes. Zero means DefaultMaxInputSize.
	MaxInputSize int

	styles    styles
	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

type styles struct {
	crumb   lipgloss.Style
	current lipgloss.Style
	label   lipgloss.Style
	errMsg  lipgloss.Style
	hint    lipgloss.Style
	report  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		crumb:   r.NewStyle().Faint(true),
		current: r.NewStyle().Bold(true).Underline(true),
		label:   r.NewStyle().Bold(true),
		errMsg:  r.NewStyle().Foreground(lipgloss.Color("9")),
		hint:    r.NewStyle().Faint(true).Italic(true),
		report:  r.NewStyle().Border(lipgloss.NormalBorder(), true, false).Padding(0, 1),
	}
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithMaxInputSize bounds the size of one typed answer.
func WithMaxInputSize(n int) TextHandlerOption {
	return func(h *TextHandler) {
		h.MaxInputSize = n
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		styles: newStyles(w),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so a pending read never blocks
// cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) render(markdown string) string {
	if h.Renderer == nil {
		return markdown
	}
	out, err := h.Renderer(markdown)
	if err != nil {
		return markdown
	}
	return out
}

// Output prints breadcrumbs, then either the section elements in order or
// the endpoint.
func (h *TextHandler) Output(ctx context.Context, snap *domain.Snapshot) error {
	w := h.Writer
	fmt.Fprintln(w)
	if len(snap.Breadcrumbs) > 0 {
		crumbs := make([]string, len(snap.Breadcrumbs))
		for i, b := range snap.Breadcrumbs {
			label := fmt.Sprintf("%d %s", b.Index+1, b.Label)
			if b.Current {
				crumbs[i] = h.styles.current.Render(label)
			} else {
				crumbs[i] = h.styles.crumb.Render(label)
			}
		}
		fmt.Fprintln(w, strings.Join(crumbs, " > "))
		fmt.Fprintln(w)
	}

	if snap.Terminal() {
		return h.outputEndpoint(snap)
	}

	fields := make(map[string]domain.Field, len(snap.Fields))
	for _, f := range snap.Fields {
		fields[f.Input.ID] = f
	}
	fieldNo, progNo := 0, 0
	for _, elem := range snap.Elements {
		switch elem.Kind {
		case domain.ElementText:
			fmt.Fprintln(w, strings.TrimSpace(h.render(elem.Text)))
		case domain.ElementInput:
			fieldNo++
			h.outputField(fieldNo, fields[elem.Input.ID], snap.InputErrorMessage)
		case domain.ElementProgression:
			progNo++
			fmt.Fprintf(w, "  %d) %s\n", progNo, elem.Progression.Text)
		}
	}
	fmt.Fprintln(w, h.styles.hint.Render("Enter a number to continue, e <field> to edit, j <n> to go back, q to quit."))
	return nil
}

func (h *TextHandler) outputField(n int, f domain.Field, errMsg string) {
	in := f.Input
	var notes []string
	switch {
	case in.Select != nil && in.Select.Multiple:
		notes = append(notes, "choose any")
	case in.Select != nil:
		notes = append(notes, "choose one")
	case in.TextLike.Type != domain.InputText:
		notes = append(notes, string(in.TextLike.Type))
	}
	if in.Optional {
		notes = append(notes, "optional")
	}
	head := fmt.Sprintf("  #%d %s", n, h.styles.label.Render(in.Label))
	if len(notes) > 0 {
		head += " (" + strings.Join(notes, ", ") + ")"
	}
	fmt.Fprintf(h.Writer, "%s: %s\n", head, f.Value)
	if f.HasError {
		fmt.Fprintln(h.Writer, "     "+h.styles.errMsg.Render(errMsg))
	}
}

func (h *TextHandler) outputEndpoint(snap *domain.Snapshot) error {
	ep := snap.Endpoint
	if ep == nil {
		return fmt.Errorf("endpoint %s cannot be rendered", snap.Location.Name())
	}
	if ep.Kind == domain.EndpointReport {
		if ep.Preamble != "" {
			fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(ep.Preamble)))
			fmt.Fprintln(h.Writer)
		}
		fmt.Fprintln(h.Writer, h.styles.report.Render(ep.Text))
		fmt.Fprintln(h.Writer, h.styles.hint.Render("Enter c to copy the report, j <n> to go back, q to quit."))
		return nil
	}
	fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(ep.Text)))
	fmt.Fprintln(h.Writer, h.styles.hint.Render("Enter j <n> to go back, q to quit."))
	return nil
}

// Input reads commands until one parses. An edit without a value prompts
// for it, listing the options of a select.
func (h *TextHandler) Input(ctx context.Context, snap *domain.Snapshot) (Command, error) {
	for {
		line, err := h.readLine(ctx, "> ")
		if err != nil {
			return Command{}, err
		}
		cmd, err := ParseCommand(line)
		if errors.Is(err, ErrEmptyCommand) {
			continue
		}
		if err != nil {
			h.SystemOutput(ctx, err.Error())
			continue
		}
		if cmd.Kind != CommandEdit {
			return cmd, nil
		}

		field, err := ResolveField(snap, cmd.ID)
		if err != nil {
			h.SystemOutput(ctx, err.Error())
			continue
		}
		raw := cmd.Value
		if raw == "" {
			h.describeInput(field.Input)
			if raw, err = h.readLine(ctx, field.Input.Label+": "); err != nil {
				return Command{}, err
			}
		}
		value, err := ParseValue(field.Input, raw)
		if err != nil {
			h.SystemOutput(ctx, err.Error())
			continue
		}
		return Command{Kind: CommandEdit, ID: field.Input.ID, Value: value}, nil
	}
}

func (h *TextHandler) describeInput(in domain.InputElement) {
	switch {
	case in.Select != nil:
		for i, opt := range in.Select.Options {
			fmt.Fprintf(h.Writer, "  %d) %s\n", i+1, opt.Text)
		}
		if in.Select.Multiple {
			fmt.Fprintln(h.Writer, h.styles.hint.Render("Separate several choices with commas."))
		}
	case in.IsBoolean():
		fmt.Fprintln(h.Writer, h.styles.hint.Render("Answer y or n."))
	}
}

func (h *TextHandler) readLine(ctx context.Context, prompt string) (string, error) {
	h.initPump()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, prompt)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := Sanitize(strings.TrimSpace(res.text), h.MaxInputSize)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a meta-message on its own line.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintln(h.Writer, h.styles.errMsg.Render("! "+msg))
	return nil
}
