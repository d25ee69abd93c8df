package charts

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	logging "ohlc-logchart/internal/infra/log"
)

var fontPaths = []string{
	"etc/fonts/InterVariable.ttf",
	"etc/fonts/Inter-Regular.ttf",
	"~/Library/Fonts/InterVariable.ttf",
	"~/Library/Fonts/Inter-Regular.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/usr/local/share/fonts/Inter-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

// fontFace is a TTF path; empty means gg's built-in face.
type fontFace string

func (f fontFace) use(dc *gg.Context, size float64) {
	if f == "" {
		return
	}
	if err := dc.LoadFontFace(string(f), size); err != nil {
		logging.LogWarn("Failed to load font face", zap.String("path", string(f)), zap.Error(err))
	}
}

var (
	fontOnce  sync.Once
	foundFont fontFace
)

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

// findFont returns the first loadable font from fontPaths, looked up once per
// process.
func findFont() fontFace {
	fontOnce.Do(func() {
		probe := gg.NewContext(1, 1)
		for _, p := range fontPaths {
			expanded := expandPath(p)
			if _, err := os.Stat(expanded); err != nil {
				continue
			}
			if err := probe.LoadFontFace(expanded, axisFontSize); err != nil {
				logging.LogWarn("Font file exists but failed to load",
					zap.String("path", expanded),
					zap.Error(err))
				continue
			}
			foundFont = fontFace(expanded)
			logging.LogInfo("Loaded chart font", zap.String("path", expanded))
			return
		}
		logging.LogWarn("No TTF font found, using default face",
			zap.Int("paths_checked", len(fontPaths)))
	})
	return foundFont
}
