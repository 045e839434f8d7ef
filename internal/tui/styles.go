package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorCream    = lipgloss.Color("#F5EFE6")
	colorSand     = lipgloss.Color("#CDBFA8")
	colorGray     = lipgloss.Color("#888888")
	colorDarkGray = lipgloss.Color("#444444")
	colorBrass    = lipgloss.Color("#C9A227")
	colorWine     = lipgloss.Color("#7B1E3A")
	colorRed      = lipgloss.Color("#D7263D")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrass).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorSand).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCream)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorCream).
			Bold(true)

	commandDescStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				PaddingLeft(1)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorCream).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorSand)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorDarkGray).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)

	// content behind a locked gate
	dimmedStyle = lipgloss.NewStyle().
			Faint(true).
			Foreground(colorDarkGray)

	upsellStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(colorBrass).
			Padding(1, 3).
			Width(56)

	upsellTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBrass)

	primaryActionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCream).
				Background(colorWine).
				Padding(0, 2)

	secondaryActionStyle = lipgloss.NewStyle().
				Foreground(colorSand).
				Padding(0, 2)
)

const logo = `
   ██████╗ ██╗     ██╗  ██╗██╗  ██╗ █████╗ ██████╗ ██╗
  ██╔═══██╗██║     ██║ ██╔╝██║ ██╔╝██╔══██╗██╔══██╗██║
  ██║   ██║██║     █████╔╝ █████╔╝ ███████║██████╔╝██║
  ██║   ██║██║     ██╔═██╗ ██╔═██╗ ██╔══██║██╔══██╗██║
  ╚██████╔╝███████╗██║  ██╗██║  ██╗██║  ██║██║  ██║██║
   ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝
`
