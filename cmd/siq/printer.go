package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/wippyai/sitypes/config"
	"github.com/wippyai/sitypes/errors"
	"github.com/wippyai/sitypes/si"
)

// printer writes command results in the configured format.
type printer struct {
	w         io.Writer
	format    string
	precision int

	valueStyle lipgloss.Style
	unitStyle  lipgloss.Style
	keyStyle   lipgloss.Style
}

func newPrinter(w io.Writer, out config.Output) *printer {
	r := lipgloss.NewRenderer(w)
	switch {
	case out.Color == config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case out.Color == config.ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case !isTerminal(w):
		r.SetColorProfile(termenv.Ascii)
	}
	return &printer{
		w:          w,
		format:     out.Format,
		precision:  out.Precision,
		valueStyle: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#90EE90")),
		unitStyle:  r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		keyStyle:   r.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// scalar writes s as text or as a CBOR item.
func (p *printer) scalar(s *si.Scalar) error {
	if p.format == config.OutputCBOR {
		data, err := s.MarshalCBOR()
		if err != nil {
			return err
		}
		_, err = p.w.Write(data)
		return err
	}
	_, err := fmt.Fprintln(p.w, p.renderScalar(s))
	return err
}

func (p *printer) renderScalar(s *si.Scalar) string {
	text := s.Format(p.precision)
	sym := s.Unit().Symbol()
	if sym == "" {
		return p.valueStyle.Render(text)
	}
	value := strings.TrimSuffix(text, " "+sym)
	return p.valueStyle.Render(value) + " " + p.unitStyle.Render(sym)
}

type field struct {
	key, value string
}

// fields writes aligned key/value lines. Only text output supports them.
func (p *printer) fields(fs []field) error {
	if p.format == config.OutputCBOR {
		return errors.InvalidInput(errors.PhaseEncode, "cbor output is only available for scalar results")
	}
	width := 0
	for _, f := range fs {
		width = max(width, len(f.key))
	}
	for _, f := range fs {
		key := p.keyStyle.Render(f.key + ":" + strings.Repeat(" ", width-len(f.key)))
		if _, err := fmt.Fprintln(p.w, key, f.value); err != nil {
			return err
		}
	}
	return nil
}
