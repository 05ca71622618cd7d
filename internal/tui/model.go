// Package tui renders the interactive surface: six tabs covering spatial
// queries, the map overview, image analysis, semantic search, RAG answers
// and the latency evaluation view.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"georag/internal/images"
	"georag/internal/service"
)

type tabID int

const (
	tabSpatial tabID = iota
	tabMap
	tabImages
	tabSearch
	tabRAG
	tabEval
	tabCount
)

var tabNames = [tabCount]string{
	"Spatial Query",
	"Map View",
	"Image Analysis",
	"Semantic Search",
	"RAG Answer",
	"Evaluation",
}

// Model is the Bubble Tea model for the application.
type Model struct {
	retriever *service.GeoRetriever
	analyzer  *images.Analyzer
	imagesDir string
	imageList []string

	active      tabID
	inputs      [tabCount][]textinput.Model
	focus       int
	imageCursor int
	viewport    viewport.Model
	status      string
	ready       bool
}

// New creates the TUI model. The retriever must already be indexed.
func New(retriever *service.GeoRetriever, analyzer *images.Analyzer, imagesDir string) Model {
	m := Model{
		retriever: retriever,
		analyzer:  analyzer,
		imagesDir: imagesDir,
		imageList: images.List(imagesDir),
		viewport:  viewport.New(0, 0),
		status:    "Ready. Tab/Shift+Tab switches views, Enter runs the current one.",
	}
	m.inputs[tabSpatial] = []textinput.Model{
		newInput("Question", ""),
		newInput("Latitude", "12.9716"),
		newInput("Longitude", "77.5946"),
		newInput("Radius (km)", "5"),
	}
	m.inputs[tabSearch] = []textinput.Model{
		newInput("Semantic query", ""),
		newInput("Top K", "3"),
	}
	m.inputs[tabRAG] = []textinput.Model{
		newInput("Question", ""),
		newInput("Top K", "3"),
		newSecretInput("OpenAI API key (optional)"),
	}
	m.inputs[tabEval] = []textinput.Model{
		newInput("Query", ""),
		newInput("Top K", "3"),
		newInput("Mode (semantic|rag)", "semantic"),
		newSecretInput("OpenAI API key (optional)"),
	}
	m.focusField(0)
	return m
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 0
	return ti
}

func newSecretInput(placeholder string) textinput.Model {
	ti := newInput(placeholder, "")
	ti.EchoMode = textinput.EchoPassword
	return ti
}

// Init initializes the model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameHeight := outputBoxStyle.GetFrameSize()
		reserved := 3 + len(m.inputs[m.active]) + 2 // tab bar, inputs, status, spacer
		height := msg.Height - reserved - frameHeight
		if height < 3 {
			height = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab", "shift+tab":
			if msg.String() == "tab" {
				m.active = (m.active + 1) % tabCount
			} else {
				m.active = (m.active - 1 + tabCount) % tabCount
			}
			m.focus = 0
			m.focusField(0)
			m.enterTab()
			return m, nil
		case "up", "down":
			if m.active == tabImages {
				m.moveImageCursor(msg.String())
				return m, nil
			}
			if fields := len(m.inputs[m.active]); fields > 0 {
				if msg.String() == "down" {
					m.focus = (m.focus + 1) % fields
				} else {
					m.focus = (m.focus - 1 + fields) % fields
				}
				m.focusField(m.focus)
				return m, nil
			}
		case "enter":
			m.runAction()
			return m, nil
		}
	}

	if fields := m.inputs[m.active]; len(fields) > 0 {
		var cmd tea.Cmd
		fields[m.focus], cmd = fields[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) focusField(idx int) {
	for t := tabID(0); t < tabCount; t++ {
		for i := range m.inputs[t] {
			if t == m.active && i == idx {
				m.inputs[t][i].Focus()
			} else {
				m.inputs[t][i].Blur()
			}
		}
	}
}

// enterTab refreshes tabs whose content needs no input.
func (m *Model) enterTab() {
	switch m.active {
	case tabMap:
		m.setOutput(m.retriever.MapSummary())
		m.status = "Collection overview."
	case tabImages:
		m.imageList = images.List(m.imagesDir)
		if len(m.imageList) == 0 {
			m.setOutput("No satellite images found in " + m.imagesDir + ". Please add a sample image.")
		} else {
			m.setOutput("Select an image and press Enter to analyze it.")
		}
		m.status = fmt.Sprintf("%d images available.", len(m.imageList))
	default:
		m.setOutput("")
		m.status = "Fill the fields and press Enter."
	}
}

func (m *Model) moveImageCursor(dir string) {
	if len(m.imageList) == 0 {
		return
	}
	if dir == "down" {
		m.imageCursor = (m.imageCursor + 1) % len(m.imageList)
	} else {
		m.imageCursor = (m.imageCursor - 1 + len(m.imageList)) % len(m.imageList)
	}
}

func (m *Model) runAction() {
	switch m.active {
	case tabSpatial:
		lat := parseFloat(m.inputs[tabSpatial][1].Value(), 12.9716)
		lon := parseFloat(m.inputs[tabSpatial][2].Value(), 77.5946)
		radius := parseFloat(m.inputs[tabSpatial][3].Value(), 5)
		m.setOutput(m.retriever.SpatialQuery(lat, lon, radius))
		m.status = "Spatial query done."

	case tabMap:
		m.setOutput(m.retriever.MapSummary())

	case tabImages:
		if len(m.imageList) == 0 {
			return
		}
		path := filepath.Join(m.imagesDir, m.imageList[m.imageCursor])
		m.setOutput(m.analyzer.Analyze(path))
		m.status = "Analyzed " + m.imageList[m.imageCursor]

	case tabSearch:
		query := strings.TrimSpace(m.inputs[tabSearch][0].Value())
		if query == "" {
			m.status = "Enter a semantic query first."
			return
		}
		topK := parseInt(m.inputs[tabSearch][1].Value(), 3)
		results, err := m.retriever.SemanticSearch(query, topK)
		if err != nil {
			m.status = "Error: " + err.Error()
			return
		}
		if len(results) == 0 {
			m.setOutput("No relevant features found.")
		} else {
			m.setOutput("Top relevant features:\n" + numbered(results))
		}
		m.status = fmt.Sprintf("Results for %q", query)

	case tabRAG:
		query := strings.TrimSpace(m.inputs[tabRAG][0].Value())
		if query == "" {
			m.status = "Enter a question first."
			return
		}
		topK := parseInt(m.inputs[tabRAG][1].Value(), 3)
		apiKey := strings.TrimSpace(m.inputs[tabRAG][2].Value())
		answer, err := m.retriever.RAGAnswer(context.Background(), query, topK, apiKey)
		if err != nil {
			m.status = "Error: " + err.Error()
			return
		}
		m.setOutput(answer)
		m.status = "Answer generated."

	case tabEval:
		query := strings.TrimSpace(m.inputs[tabEval][0].Value())
		if query == "" {
			m.status = "Enter a query first."
			return
		}
		topK := parseInt(m.inputs[tabEval][1].Value(), 3)
		mode := strings.ToLower(strings.TrimSpace(m.inputs[tabEval][2].Value()))
		apiKey := strings.TrimSpace(m.inputs[tabEval][3].Value())
		m.runEvaluation(query, topK, mode, apiKey)
	}
}

func (m *Model) runEvaluation(query string, topK int, mode, apiKey string) {
	if mode == "rag" {
		ev, err := m.retriever.EvaluateRAG(context.Background(), query, topK, apiKey)
		if err != nil {
			m.status = "Error: " + err.Error()
			return
		}
		m.setOutput(fmt.Sprintf("RAG Answer Latency: %.3f seconds\n\nGenerated Answer:\n%s\n\nRetrieved Context:\n%s",
			ev.Latency.Seconds(), ev.Answer, ev.Context))
	} else {
		ev, err := m.retriever.EvaluateSemantic(query, topK)
		if err != nil {
			m.status = "Error: " + err.Error()
			return
		}
		m.setOutput(fmt.Sprintf("Semantic Search Latency: %.3f seconds\n\nRetrieved Context:\n%s",
			ev.Latency.Seconds(), numbered(ev.Results)))
	}
	m.status = "Evaluation done."
}

func (m *Model) setOutput(s string) {
	m.viewport.SetContent(s)
	m.viewport.GotoTop()
}

// View renders the tab bar, the active tab's inputs and the output box.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var parts []string
	parts = append(parts, m.renderTabBar())

	if m.active == tabImages {
		parts = append(parts, m.renderImageList())
	}
	for _, ti := range m.inputs[m.active] {
		parts = append(parts, ti.View())
	}
	parts = append(parts, outputBoxStyle.Render(m.viewport.View()))
	parts = append(parts, statusStyle.Render(m.status))
	return strings.Join(parts, "\n")
}

func (m Model) renderTabBar() string {
	names := make([]string, tabCount)
	for t := tabID(0); t < tabCount; t++ {
		if t == m.active {
			names[t] = activeTabStyle.Render(tabNames[t])
		} else {
			names[t] = inactiveTabStyle.Render(tabNames[t])
		}
	}
	return strings.Join(names, " | ")
}

func (m Model) renderImageList() string {
	if len(m.imageList) == 0 {
		return "(no images)"
	}
	lines := make([]string, len(m.imageList))
	for i, name := range m.imageList {
		marker := "  "
		if i == m.imageCursor {
			marker = "> "
		}
		lines[i] = marker + name
	}
	return strings.Join(lines, "\n")
}

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	outputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return v
}
