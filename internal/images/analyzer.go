// Package images lists and inspects the satellite image directory. All
// failure paths collapse to descriptive strings, matching the rest of the
// user-facing surface.
package images

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

var rasterExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".tif":  {},
	".tiff": {},
}

// List returns the raster image file names in dir, sorted. A missing or
// unreadable directory yields an empty list.
func List(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := rasterExtensions[ext]; ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Analyzer inspects raster images and reports their basic properties.
type Analyzer struct{}

// NewAnalyzer creates an image analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze returns a description of the image's format, color mode and pixel
// size, or "Image not found: {path}" / "Error analyzing image: {err}".
func (a *Analyzer) Analyze(path string) string {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Image not found: %s", path)
		}
		return fmt.Sprintf("Error analyzing image: %v", err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return fmt.Sprintf("Error analyzing image: %v", err)
	}
	return fmt.Sprintf("Image info: format=%s mode=%s size=%dx%d",
		strings.ToUpper(format), colorMode(cfg.ColorModel), cfg.Width, cfg.Height)
}

// colorMode names the decoded color model the way image tooling usually
// labels channels.
func colorMode(m color.Model) string {
	switch m {
	case color.RGBAModel:
		return "RGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel:
		return "YCbCr"
	}
	if _, ok := m.(color.Palette); ok {
		return "Paletted"
	}
	return "Unknown"
}
