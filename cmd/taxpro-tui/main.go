package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxpro/internal/tui"
)

func main() {
	// An optional config file; without one the form starts from the example
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Printf("Error: Config file not found: %s\n", configPath)
			os.Exit(1)
		}
	}

	model := tui.NewModel(configPath)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
