// Package fonts provides the embedded typeface used for PDF and PNG labels.
//
// The font ships inside the binary via the DejaVu font module, so
// rendering does not depend on fonts installed on the host. SVG output uses
// CSS font names instead and never loads the font data.
package fonts

import (
	"fmt"
	"sync"

	"github.com/go-fonts/dejavu/dejavusans"
	"github.com/tdewolff/canvas"
)

// FontFamily is the CSS font-family used in SVG output.
const FontFamily = `'DejaVu Sans', 'Helvetica Neue', Arial, sans-serif`

// SansTTF returns the raw font data.
func SansTTF() []byte {
	return dejavusans.TTF
}

// Loaded once on first use.
var (
	sans     *canvas.FontFamily
	sansErr  error
	sansOnce sync.Once
)

// Sans returns the shared canvas font family for labels.
func Sans() (*canvas.FontFamily, error) {
	sansOnce.Do(func() {
		family := canvas.NewFontFamily("floorplan-sans")
		if err := family.LoadFont(SansTTF(), 0, canvas.FontRegular); err != nil {
			sansErr = fmt.Errorf("load embedded font: %w", err)
			return
		}
		sans = family
	})
	return sans, sansErr
}
