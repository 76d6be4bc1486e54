package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// datasetExtensions are the file extensions the picker offers.
var datasetExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// pickDatasetFile lists dataset files in dir and lets the user choose one
// interactively. An empty return value means the user quit without picking.
func pickDatasetFile(dir string) (string, error) {
	files, err := listDatasetFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no dataset files (*.json, *.yaml, *.yml) in %s", dir)
	}

	model := newFileListModel(files)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("file picker: %w", err)
	}

	m, ok := final.(fileListModel)
	if !ok || m.selected == "" {
		return "", nil
	}
	return m.selected, nil
}

func listDatasetFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if datasetExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// fileListModel is the bubbletea model for dataset file selection.
type fileListModel struct {
	files    []string
	cursor   int
	offset   int
	height   int
	selected string
}

func newFileListModel(files []string) fileListModel {
	return fileListModel{files: files, height: 15}
}

func (m fileListModel) Init() tea.Cmd { return nil }

func (m fileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.files[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m fileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Dataset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.files) {
		end = len(m.files)
	}

	for i := m.offset; i < end; i++ {
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(m.files[i]) + "\n")
	}
	return b.String()
}
