package charts

import "image/color"

// Theme holds every colour the OHLC chart uses.
type Theme struct {
	Name       string
	Background color.Color
	Plot       color.Color
	Grid       color.Color
	MinorGrid  color.Color
	Axis       color.Color
	Text       color.Color
	Up         color.Color
	Down       color.Color
	Marker     color.Color
	LegendBox  color.Color
}

const DefaultTheme = "darkGold"

var themes = map[string]Theme{
	"darkGold": {
		Name:       "darkGold",
		Background: color.RGBA{18, 16, 12, 255},
		Plot:       color.RGBA{28, 25, 18, 255},
		Grid:       color.RGBA{92, 80, 48, 255},
		MinorGrid:  color.RGBA{52, 46, 30, 255},
		Axis:       color.RGBA{200, 170, 90, 255},
		Text:       color.RGBA{235, 215, 160, 255},
		Up:         color.RGBA{230, 190, 80, 255},
		Down:       color.RGBA{150, 110, 60, 255},
		Marker:     color.RGBA{255, 110, 80, 255},
		LegendBox:  color.RGBA{40, 35, 24, 230},
	},
	"light": {
		Name:       "light",
		Background: color.White,
		Plot:       color.RGBA{250, 250, 252, 255},
		Grid:       color.RGBA{190, 190, 200, 255},
		MinorGrid:  color.RGBA{230, 230, 236, 255},
		Axis:       color.RGBA{60, 60, 70, 255},
		Text:       color.RGBA{30, 30, 36, 255},
		Up:         color.RGBA{0, 150, 90, 255},
		Down:       color.RGBA{210, 50, 50, 255},
		Marker:     color.RGBA{40, 90, 220, 255},
		LegendBox:  color.RGBA{255, 255, 255, 230},
	},
}

// ThemeByName returns the named theme. Unknown names fall back to darkGold
// and report false.
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[name]
	if !ok {
		return themes[DefaultTheme], false
	}
	return t, true
}
