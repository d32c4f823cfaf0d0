package printing

import (
	"fmt"
	"html/template"
	"strings"
)

// Code 39 element patterns. Each symbol is five bars and four spaces,
// alternating bar/space; a '1' marks a wide element. Location barcodes are
// numeric, so only digits plus the start/stop sentinel are needed.
var code39Patterns = map[rune]string{
	'0': "000110100",
	'1': "100100001",
	'2': "001100001",
	'3': "101100000",
	'4': "000110001",
	'5': "100110000",
	'6': "001110000",
	'7': "000100101",
	'8': "100100100",
	'9': "001100100",
	'-': "010000101",
	'*': "010010100",
}

const code39WideRatio = 3

// barcode39SVG renders value as an inline Code 39 barcode SVG. moduleWidth
// is the narrow element width and height the bar height, both in SVG user
// units (the label stylesheet sizes the element). Characters outside the
// supported set yield an empty string so a malformed value cannot break
// the whole sheet.
func barcode39SVG(value string, moduleWidth, height int) template.HTML {
	if value == "" || moduleWidth <= 0 || height <= 0 {
		return ""
	}
	encoded := "*" + strings.ToUpper(value) + "*"

	type bar struct {
		x, w int
	}
	var bars []bar
	x := 0
	for i, ch := range encoded {
		pattern, ok := code39Patterns[ch]
		if !ok {
			return ""
		}
		if i > 0 {
			x += moduleWidth // inter-character gap
		}
		for j, wide := range pattern {
			w := moduleWidth
			if wide == '1' {
				w = moduleWidth * code39WideRatio
			}
			if j%2 == 0 {
				bars = append(bars, bar{x: x, w: w})
			}
			x += w
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" preserveAspectRatio="none" shape-rendering="crispEdges">`, x, height)
	for _, b := range bars {
		fmt.Fprintf(&sb, `<rect x="%d" y="0" width="%d" height="%d"/>`, b.x, b.w, height)
	}
	sb.WriteString("</svg>")

	return template.HTML(sb.String())
}
