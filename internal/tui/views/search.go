// Package views provides the individual views of the TUI.
package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/sentences/internal/clipboard"
	"github.com/f3rmion/sentences/internal/location"
	"github.com/f3rmion/sentences/internal/pinyin"
	"github.com/f3rmion/sentences/internal/search"
	"github.com/f3rmion/sentences/internal/sentences"
	"github.com/f3rmion/sentences/internal/session"
	"github.com/f3rmion/sentences/internal/tui/banner"
)

const skeletonCards = 5

// Message types
type hydrateMsg struct{}

type lookupDoneMsg struct {
	ticket  search.Ticket
	outcome sentences.Outcome
}

type copyDoneMsg struct {
	err error
}

type clearCopiedMsg struct {
	token uint64 // Must match the latest copy to be accepted
}

func clearCopiedAfter(d time.Duration, token uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{token: token}
	})
}

// SearchDeps are the collaborators of the search view.
type SearchDeps struct {
	Store             *search.Store
	Executor          search.Executor
	History           *location.History
	Sessions          session.Store // May be nil
	Exporter          *clipboard.Exporter
	Banner            *banner.Renderer  // May be nil
	Romanizer         *pinyin.Romanizer // Fills missing pinyin on display, may be nil
	ReferenceLanguage string
	Logger            *slog.Logger
}

// SearchModel is the single-page search view.
type SearchModel struct {
	input   textinput.Model
	spinner spinner.Model

	store     *search.Store
	executor  search.Executor
	history   *location.History
	sync      *location.Synchronizer
	exporter  *clipboard.Exporter
	banner    *banner.Renderer
	romanizer *pinyin.Romanizer
	reference string
	logger    *slog.Logger

	// Clipboard confirmation; copyToken identifies the one outstanding timer
	copied    bool
	copyToken uint64

	scroll int

	width  int
	height int
}

// NewSearchModel creates the search view.
func NewSearchModel(deps SearchDeps) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Enter a word or phrase..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	history := deps.History
	if history == nil {
		history = location.NewHistory(nil)
	}
	store := deps.Store
	if store == nil {
		store = search.NewStore()
	}

	return SearchModel{
		input:     ti,
		spinner:   sp,
		store:     store,
		executor:  deps.Executor,
		history:   history,
		sync:      location.NewSynchronizer(history, deps.Sessions, logger),
		exporter:  deps.Exporter,
		banner:    deps.Banner,
		romanizer: deps.Romanizer,
		reference: deps.ReferenceLanguage,
		logger:    logger,
	}
}

// SetSize updates the view dimensions.
func (m *SearchModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// State returns the current search state.
func (m SearchModel) State() sentences.State {
	return m.store.State()
}

// Address returns the current address, e.g. "/search?q=hello".
func (m SearchModel) Address() string {
	return m.history.Current().String()
}

// Init hydrates the view from the start-up address.
func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return hydrateMsg{} })
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case hydrateMsg:
		term, ok := m.sync.Hydrate(context.Background())
		if !ok {
			return m, nil
		}
		m.input.SetValue(term)
		return m, m.startSearch(term, false)

	case lookupDoneMsg:
		if !m.store.Apply(msg.ticket, msg.outcome) {
			m.logger.Debug("discarding stale outcome",
				slog.String("term", msg.ticket.Term),
				slog.Uint64("generation", msg.ticket.Generation),
			)
			return m, nil
		}
		m.scroll = 0
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, clipboard.ErrNothingToCopy) {
				return m, nil
			}
			m.logger.Error("copying examples", slog.String("error", msg.err.Error()))
			m.store.FailClipboard(clipboard.FailureMessage)
			return m, nil
		}
		m.copied = true
		m.copyToken++
		return m, clearCopiedAfter(clipboard.CopiedDuration, m.copyToken)

	case clearCopiedMsg:
		if msg.token == m.copyToken {
			m.copied = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.store.State().Status != sentences.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.startSearch(m.input.Value(), true)
		case "ctrl+y":
			return m, m.copyAll()
		case "alt+left", "ctrl+p":
			if u, ok := m.history.Back(); ok {
				return m, m.navigate(u)
			}
			return m, nil
		case "alt+right", "ctrl+n":
			if u, ok := m.history.Forward(); ok {
				return m, m.navigate(u)
			}
			return m, nil
		case "up":
			m.scrollBy(-1)
			return m, nil
		case "down":
			m.scrollBy(1)
			return m, nil
		case "pgup":
			m.scrollBy(-m.bodyHeight())
			return m, nil
		case "pgdown":
			m.scrollBy(m.bodyHeight())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.store.SetInput(m.input.Value())
	return m, cmd
}

// startSearch submits raw and returns the command performing the lookup.
// record pushes a history entry; hydration and back/forward do not.
func (m *SearchModel) startSearch(raw string, record bool) tea.Cmd {
	ticket, ok := m.store.Submit(raw)
	if !ok {
		return nil
	}
	if record {
		m.sync.Record(ticket.Term)
	}
	m.scroll = 0
	m.copied = false

	m.logger.Info("searching", slog.String("term", ticket.Term), slog.Uint64("generation", ticket.Generation))

	exec := m.executor
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return lookupDoneMsg{ticket: ticket, outcome: exec.Execute(context.Background(), ticket.Term)}
		},
	)
}

// navigate replays a history entry.
func (m *SearchModel) navigate(u *url.URL) tea.Cmd {
	if term, ok := m.sync.Navigate(u); ok {
		m.input.SetValue(term)
		return m.startSearch(term, false)
	}
	m.store.Reset()
	m.input.SetValue("")
	m.copied = false
	return nil
}

func (m SearchModel) copyAll() tea.Cmd {
	st := m.store.State()
	if st.Status == sentences.StatusLoading || len(st.Examples()) == 0 || m.exporter == nil {
		return nil
	}
	exporter := m.exporter
	result := st.Result
	return func() tea.Msg {
		return copyDoneMsg{err: exporter.Copy(result)}
	}
}

func (m *SearchModel) scrollBy(n int) {
	m.scroll += n
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// View renders the search view.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	body := m.renderBody()
	if h := m.bodyHeight(); h > 0 && body != "" {
		lines := strings.Split(body, "\n")
		start := min(m.scroll, max(len(lines)-h, 0))
		end := min(start+h, len(lines))
		body = strings.Join(lines[start:end], "\n")
	}
	b.WriteString(body)

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m SearchModel) renderHeader() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Example Sentences"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Enter a word or phrase in any language to see usage examples"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	if m.store.State().Status == sentences.StatusLoading {
		b.WriteString("  " + m.spinner.View() + loadingStyle.Render(" Loading"))
	}
	b.WriteString("\n")
	b.WriteString(addressStyle.Render(m.Address()))
	return b.String()
}

// headerHeight is the number of lines renderHeader and its spacing occupy.
const headerHeight = 8

func (m SearchModel) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-headerHeight-2, 3)
}

func (m SearchModel) renderBody() string {
	st := m.store.State()
	var b strings.Builder

	if st.ErrorMessage != "" {
		b.WriteString(errorBannerStyle.Render(st.ErrorMessage))
		b.WriteString("\n")
	}

	switch {
	case st.Status == sentences.StatusLoading:
		b.WriteString(m.renderSkeleton())
	case st.Result != nil && len(st.Result.Examples) > 0:
		b.WriteString(m.renderResults(st.Result))
	case st.Status == sentences.StatusSuccess:
		b.WriteString(helpStyle.Render("No examples returned."))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m SearchModel) cardWidth() int {
	w := 76
	if m.width > 0 && m.width-4 < w {
		w = max(m.width-4, 20)
	}
	return w
}

func (m SearchModel) renderSkeleton() string {
	var b strings.Builder
	b.WriteString(loadingStyle.Render("Loading examples..."))
	b.WriteString("\n")

	w := m.cardWidth() - 6
	bar := func(n int) string { return skeletonStyle.Render(strings.Repeat("░", max(n, 1))) }
	for i := 0; i < skeletonCards; i++ {
		card := bar(w) + "\n" + bar(w*3/4) + "\n" + bar(w)
		b.WriteString(cardStyle.Width(m.cardWidth()).Render(card))
		b.WriteString("\n")
	}
	return b.String()
}

func (m SearchModel) renderResults(r *sentences.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Examples for \"%s\"", termStyle.Render(r.Term)))
	b.WriteString("\n")

	if art := m.banner.Render(r.Term, 12, 6); art != "" {
		b.WriteString(bannerStyle.Render(art))
		b.WriteString("\n")
	}

	if r.DetectedLanguage != "" {
		b.WriteString(badgeStyle.Render("Detected: " + r.DetectedLanguage))
		b.WriteString("\n")
	}

	if m.copied {
		b.WriteString(copiedStyle.Render("Copied!"))
	} else {
		b.WriteString(helpStyle.Render("ctrl+y: Copy All"))
	}
	b.WriteString("\n")
	b.WriteString(disclaimerStyle.Render("Results are generated by AI and may not be accurate."))
	b.WriteString("\n")

	showDetails := !sentences.SameLanguage(r.DetectedLanguage, m.reference)
	textWidth := m.cardWidth() - 6
	for _, ex := range r.Examples {
		pron := m.romanizer.Pronounce(r.DetectedLanguage, ex)
		b.WriteString(renderCard(ex, pron, showDetails, m.cardWidth(), textWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(ex sentences.Example, pronunciation string, showDetails bool, width, textWidth int) string {
	var lines []string
	lines = append(lines, targetStyle.Render(wordWrap(ex.Target, textWidth)))
	if showDetails {
		lines = append(lines, pronunciationStyle.Render(wordWrap(pronunciation, textWidth)))
		lines = append(lines, dividerStyle.Render(strings.Repeat("─", max(textWidth, 1))))
		lines = append(lines, englishStyle.Render(wordWrap(ex.English, textWidth)))
	}
	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m SearchModel) renderHelp() string {
	parts := []string{"enter: search"}
	if len(m.store.State().Examples()) > 0 {
		parts = append(parts, "ctrl+y: copy all")
	}
	parts = append(parts, "alt+←/→: back/forward", "↑/↓: scroll")
	return helpStyle.Render(strings.Join(parts, " • "))
}
