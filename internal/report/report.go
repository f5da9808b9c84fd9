// Package report writes the human-readable result lines on stdout.
package report

import (
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/postalsys/rawping/internal/ping"
	"github.com/postalsys/rawping/internal/runner"
)

// Color modes accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Options controls the output format.
type Options struct {
	// Color enables ANSI colors on the status word.
	Color bool

	// Verbose appends source, sequence, TTL and RTT to successful lines.
	Verbose bool
}

// Reporter formats ping results. It is not safe for concurrent use.
type Reporter struct {
	w       io.Writer
	verbose bool

	ok      lipgloss.Style
	timeout lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// New creates a Reporter writing to w.
func New(w io.Writer, opts Options) *Reporter {
	renderer := lipgloss.NewRenderer(w)
	if opts.Color {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Reporter{
		w:       w,
		verbose: opts.Verbose,
		ok:      renderer.NewStyle().Foreground(lipgloss.Color("2")),
		timeout: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("1")),
		muted:   renderer.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// ColorEnabled resolves a color mode against the output file.
// "auto" enables color only when f is a terminal.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return f != nil && term.IsTerminal(int(f.Fd()))
	}
}

// Header writes "PING <host> (<addr>)".
func (r *Reporter) Header(host string, addr netip.Addr) error {
	_, err := fmt.Fprintf(r.w, "PING %s (%s)\n", host, addr)
	return err
}

// Attempt writes the result line for attempt n.
func (r *Reporter) Attempt(n int, o ping.Outcome) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Request %d: ", n)

	switch o.Status {
	case ping.StatusReplied:
		b.WriteString(r.ok.Render("Ok"))
		if r.verbose {
			b.WriteString(" ")
			b.WriteString(r.muted.Render(replyDetail(o)))
		}
	case ping.StatusTimedOut:
		b.WriteString(r.timeout.Render("Timed out"))
	default:
		detail := "unknown failure"
		if o.Err != nil {
			detail = o.Err.Error()
		}
		b.WriteString(r.failure.Render("Error: " + detail))
	}
	b.WriteString("\n")

	_, err := io.WriteString(r.w, b.String())
	return err
}

func replyDetail(o ping.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "from %s seq=%d", o.From, o.Seq)
	if o.TTL >= 0 {
		fmt.Fprintf(&b, " ttl=%d", o.TTL)
	}
	fmt.Fprintf(&b, " time=%s", formatRTT(o.RTT))
	return b.String()
}

// Summary writes the closing reply count for host.
func (r *Reporter) Summary(host string, s runner.Stats) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- %s ping statistics ---\n", host)
	fmt.Fprintf(&b, "%d requests, %d replies, %.1f%% loss\n", s.Attempts, s.Replies, s.Loss()*100)

	_, err := io.WriteString(r.w, b.String())
	return err
}

func formatRTT(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
