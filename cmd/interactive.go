package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Beastly713/shadowshare/pkg/pipeline"
)

// Styles
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	cursorStyle  = focusedStyle
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

const browseHelp = "Navigate: ↑/↓ | Enter: Open Dir | Space: Select | 'r': Recover Selected | 'q': Quit"

type fileItem struct {
	path     string
	name     string
	isDir    bool
	selected bool
}

type model struct {
	path      string
	files     []fileItem
	cursor    int
	status    string
	kInput    textinput.Model
	textInput textinput.Model // output file name
	threshold int             // 0 until confirmed in kInput
	naming    bool
	quitting  bool
}

func initialModel(dir string) model {
	ti := textinput.New()
	ti.Placeholder = "secret.bmp"
	ti.CharLimit = 255
	ti.Prompt = "Output file: "

	ki := textinput.New()
	ki.Placeholder = "2"
	ki.CharLimit = 3
	ki.Prompt = "Threshold k: "

	m := model{
		path:      dir,
		status:    browseHelp,
		kInput:    ki,
		textInput: ti,
	}
	m.loadFiles()
	return m
}

func (m *model) loadFiles() {
	entries, err := afero.ReadDir(appFS, m.path)
	if err != nil {
		m.status = "Error reading directory"
		return
	}

	m.files = []fileItem{}
	// Parent directory
	m.files = append(m.files, fileItem{name: "..", isDir: true, path: filepath.Dir(m.path)})

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.EqualFold(filepath.Ext(name), ".bmp") {
			m.files = append(m.files, fileItem{
				name:  name,
				isDir: e.IsDir(),
				path:  filepath.Join(m.path, name),
			})
		}
	}
	m.cursor = 0
}

func (m model) selectedPaths() []string {
	var paths []string
	for _, f := range m.files {
		if f.selected {
			paths = append(paths, f.path)
		}
	}
	return paths
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.naming {
		return m.updateNaming(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}

		case "enter":
			selected := m.files[m.cursor]
			if selected.isDir {
				m.path = selected.path
				m.loadFiles()
			}

		case " ":
			if !m.files[m.cursor].isDir {
				m.files[m.cursor].selected = !m.files[m.cursor].selected
			}

		case "r":
			n := len(m.selectedPaths())
			if n < 2 {
				m.status = "Select at least 2 shadows first!"
				return m, nil
			}
			m.naming = true
			m.threshold = 0
			m.status = fmt.Sprintf("%d shadows selected. Enter: Confirm | Esc: Cancel", n)
			cmd := m.kInput.Focus()
			return m, cmd
		}

	case statusMsg:
		m.status = string(msg)
		if strings.HasPrefix(m.status, "Success") {
			// Clear selections on success
			for i := range m.files {
				m.files[i].selected = false
			}
			m.loadFiles()
		}
	}

	return m, nil
}

func (m model) updateNaming(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "esc":
			m.naming = false
			m.threshold = 0
			m.kInput.Blur()
			m.kInput.Reset()
			m.textInput.Blur()
			m.status = browseHelp
			return m, nil

		case "enter":
			if m.threshold == 0 {
				return m.confirmThreshold()
			}
			name := strings.TrimSpace(m.textInput.Value())
			if name == "" {
				name = m.textInput.Placeholder
			}
			k := m.threshold
			m.naming = false
			m.threshold = 0
			m.kInput.Reset()
			m.textInput.Blur()
			m.textInput.Reset()
			m.status = "Recovering..."
			return m, recoverSelected(m.selectedPaths(), k, filepath.Join(m.path, name))
		}
	}

	var cmd tea.Cmd
	if m.threshold == 0 {
		m.kInput, cmd = m.kInput.Update(msg)
	} else {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

// confirmThreshold accepts k between 2 and the number of selected shadows.
func (m model) confirmThreshold() (tea.Model, tea.Cmd) {
	n := len(m.selectedPaths())
	k, err := strconv.Atoi(strings.TrimSpace(m.kInput.Value()))
	if err != nil || k < 2 || k > n {
		m.status = fmt.Sprintf("k must be a number between 2 and %d", n)
		return m, nil
	}
	m.threshold = k
	m.kInput.Blur()
	m.status = fmt.Sprintf("Recovering with k=%d from %d shadows. Enter: Confirm | Esc: Cancel", k, n)
	cmd := m.textInput.Focus()
	return m, cmd
}

type statusMsg string

// recoverSelected recovers from the selected shadows. Beyond the lowest k
// indices they are ignored, the same as on the command line.
func recoverSelected(paths []string, k int, output string) tea.Cmd {
	return func() tea.Msg {
		res, err := pipeline.Recover(context.Background(), pipeline.RecoverConfig{
			Shadows:   paths,
			Threshold: k,
			Output:    output,
			FS:        appFS,
			Logger:    logger,
		})
		if err != nil {
			return statusMsg(fmt.Sprintf("Error: %v", err))
		}
		return statusMsg(fmt.Sprintf("Success! Secret recovered to %s", res.Output))
	}
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	s := fmt.Sprintf("Directory: %s\n\n", m.path)

	for i, file := range m.files {
		cursor := " " // no cursor
		if m.cursor == i {
			cursor = ">"
			s += cursorStyle.Render(cursor)
		} else {
			s += cursor
		}

		checked := " "
		if file.selected {
			checked = "x"
		}

		line := ""
		if file.isDir {
			line = fmt.Sprintf("[DIR] %s", file.name)
		} else {
			line = fmt.Sprintf("[%s] %s", checked, file.name)
		}

		if file.selected {
			line = checkedStyle.Render(line)
		}

		s += " " + line + "\n"
	}

	if m.naming {
		s += "\n" + m.kInput.View() + "\n"
		if m.threshold > 0 {
			s += m.textInput.View() + "\n"
		}
	}
	s += fmt.Sprintf("\n%s\n", m.status)
	return docStyle.Render(s)
}

// Cobra command setup
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Interactive terminal UI for recovering a secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		p := tea.NewProgram(initialModel(cwd))
		if _, err := p.Run(); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
