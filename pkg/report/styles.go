package report

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// styler colors the severity tag of plain diagnostics when the error channel
// is an interactive terminal. Styling happens after dedup so the seen-set
// keys stay byte-stable.
type styler struct {
	enabled bool
}

func newStyler(w io.Writer) *styler {
	f, ok := w.(*os.File)
	return &styler{enabled: ok && isatty.IsTerminal(f.Fd())}
}

func (s *styler) diagnostic(text string) string {
	if !s.enabled {
		return text
	}
	switch {
	case strings.Contains(text, "(error)"):
		return strings.Replace(text, "(error)", errorStyle.Render("(error)"), 1)
	case strings.Contains(text, "(warning)"):
		return strings.Replace(text, "(warning)", warningStyle.Render("(warning)"), 1)
	case strings.Contains(text, "(information)"):
		return strings.Replace(text, "(information)", infoStyle.Render("(information)"), 1)
	}
	return text
}
