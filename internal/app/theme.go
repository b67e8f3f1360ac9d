package app

import (
	"image/color"

	"pixel-retouch/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// RetouchTheme is the application theme: teal accents on the default look.
type RetouchTheme struct{}

var _ fyne.Theme = (*RetouchTheme)(nil)

func (t *RetouchTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return colorutil.Teal
	case theme.ColorNameHover:
		return color.NRGBA{R: colorutil.Teal.R, G: colorutil.Teal.G, B: colorutil.Teal.B, A: 0x30}
	case theme.ColorNameSelection:
		return color.NRGBA{R: colorutil.TealDark.R, G: colorutil.TealDark.G, B: colorutil.TealDark.B, A: 0x60}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *RetouchTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *RetouchTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *RetouchTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameInputRadius, theme.SizeNameSelectionRadius:
		return 8
	default:
		return theme.DefaultTheme().Size(name)
	}
}
