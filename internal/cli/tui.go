package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cyclograph/pkg/cache"
	"github.com/matzehuels/cyclograph/pkg/cycles"
	"github.com/matzehuels/cyclograph/pkg/graph"
	"github.com/matzehuels/cyclograph/pkg/graphgen"
	"github.com/matzehuels/cyclograph/pkg/pipeline"
)

// tuiCommand creates the tui command for the interactive front end.
func (c *CLI) tuiCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal front end",
		Long: `Interactive terminal front end for generating graphs and counting cycles.

Enter the node count, the number of cycles to build into the graph, and the
target cycle count, then run the search. The search happens in the background
so the interface stays responsive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			model := newTUIModel(cmd.Context(), runner, cfg.MaxNodes)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// =============================================================================
// Model
// =============================================================================

// Input field indices.
const (
	fieldNodes = iota
	fieldCycles
	fieldTarget
	fieldCount
)

// searchDoneMsg carries the outcome of a background search.
type searchDoneMsg struct {
	result cycles.Result
	cached bool
	edges  int
	err    error
}

// tuiModel is the bubbletea model for the interactive front end.
type tuiModel struct {
	ctx      context.Context
	runner   *pipeline.Runner
	maxNodes int

	inputs  []textinput.Model
	focused int

	running bool
	result  *searchDoneMsg
}

// newTUIModel creates the model with the three input fields. maxNodes bounds
// the accepted node count, like the other front ends; 0 disables the bound.
func newTUIModel(ctx context.Context, runner *pipeline.Runner, maxNodes int) tuiModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.Prompt = ""
		ti.CharLimit = 9
		ti.Width = 10
		ti.Validate = digitsOnly
		inputs[i] = ti
	}
	inputs[fieldNodes].Focus()

	return tuiModel{
		ctx:      ctx,
		runner:   runner,
		maxNodes: maxNodes,
		inputs:   inputs,
	}
}

// digitsOnly rejects non-numeric input at the keystroke level.
func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("digits only")
		}
	}
	return nil
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m.focusField((m.focused + 1) % fieldCount), nil
		case "shift+tab", "up":
			return m.focusField((m.focused + fieldCount - 1) % fieldCount), nil
		case "enter":
			if m.running {
				return m, nil
			}
			return m.startSearch()
		}
	case searchDoneMsg:
		m.running = false
		m.result = &msg
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// focusField moves keyboard focus to the given input.
func (m tuiModel) focusField(i int) tuiModel {
	m.inputs[m.focused].Blur()
	m.focused = i
	m.inputs[i].Focus()
	return m
}

// startSearch validates the inputs and dispatches the pipeline run.
func (m tuiModel) startSearch() (tea.Model, tea.Cmd) {
	nodes, err1 := strconv.Atoi(m.inputs[fieldNodes].Value())
	numCycles, err2 := strconv.Atoi(m.inputs[fieldCycles].Value())
	target, err3 := strconv.ParseInt(m.inputs[fieldTarget].Value(), 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		m.result = &searchDoneMsg{err: fmt.Errorf("all fields need a number")}
		return m, nil
	}
	if target < 0 {
		m.result = &searchDoneMsg{err: fmt.Errorf("target must not be negative")}
		return m, nil
	}
	// Same ceiling the CLI and HTTP API apply, checked before dispatch so an
	// oversized request never starts.
	if err := (graphgen.Spec{Nodes: nodes, Cycles: numCycles}).ValidateBounded(m.maxNodes); err != nil {
		m.result = &searchDoneMsg{err: err}
		return m, nil
	}

	m.running = true
	m.result = nil

	ctx := m.ctx
	runner := m.runner
	maxNodes := m.maxNodes
	return m, func() tea.Msg {
		gen, err := runner.Generate(ctx, pipeline.Options{Nodes: nodes, Cycles: numCycles, MaxNodes: maxNodes})
		if err != nil {
			return searchDoneMsg{err: err}
		}

		data, err := graph.Marshal(gen)
		if err != nil {
			return searchDoneMsg{err: err}
		}

		res, cached, err := runner.SearchWithCacheInfo(ctx, gen, cache.Hash(data), pipeline.Options{Target: target, MaxNodes: maxNodes})
		if err != nil {
			return searchDoneMsg{err: err}
		}
		return searchDoneMsg{
			result: res,
			cached: cached,
			edges:  graph.FromMatrix(gen).EdgeCount(),
		}
	}
}

// =============================================================================
// View
// =============================================================================

var (
	tuiLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	tuiBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(1, 2)
	tuiFocusMarker = lipgloss.NewStyle().Foreground(colorCyan)
)

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Cyclograph"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab/↑/↓ move  ⏎ run  esc quit"))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Nodes", "Cycles", "Target"}
	for i, ti := range m.inputs {
		marker := "  "
		if i == m.focused {
			marker = tuiFocusMarker.Render("▸ ")
		}
		b.WriteString(marker + tuiLabelStyle.Render(labels[i]) + ti.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.statusView())

	return tuiBoxStyle.Render(b.String()) + "\n"
}

// statusView renders the result panel below the inputs.
func (m tuiModel) statusView() string {
	switch {
	case m.running:
		return StyleDim.Render("searching...")
	case m.result == nil:
		return StyleDim.Render("enter values and press ⏎")
	case m.result.err != nil:
		return StyleWarning.Render(m.result.err.Error())
	}

	res := m.result.result
	var b strings.Builder
	if res.Found {
		b.WriteString(StyleSuccess.Render(iconSuccess) + " ")
		b.WriteString(fmt.Sprintf("found %s cycles at power %s",
			StyleNumber.Render(strconv.FormatInt(res.Count, 10)),
			StyleNumber.Render(strconv.Itoa(res.Step))))
	} else {
		b.WriteString(StyleDim.Render(iconInfo) + " ")
		b.WriteString(fmt.Sprintf("no power up to %s matched", StyleNumber.Render(strconv.Itoa(res.Step))))
	}
	b.WriteString("\n")

	status := iconFresh
	if m.result.cached {
		status = iconCached
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d edges · %s · %s", m.result.edges, res.Elapsed.Round(time.Microsecond), status)))
	return b.String()
}
