package printing

// PaperSize represents the output paper dimensions for rendering
type PaperSize string

const (
	PaperSizeA4          PaperSize = "A4"           // 210mm x 297mm
	PaperSizeLetter      PaperSize = "LETTER"       // 216mm x 279mm
	PaperSizeLabel100x50 PaperSize = "LABEL_100X50" // 100mm x 50mm adhesive label stock
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeLetter, PaperSizeLabel100x50:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	case PaperSizeLetter:
		return 216, 279
	case PaperSizeLabel100x50:
		return 100, 50
	default:
		return 210, 297 // Default to A4
	}
}

// IsLabelStock returns true for dedicated label printer stock, where each
// label is its own page and sheet margins do not apply
func (p PaperSize) IsLabelStock() bool {
	return p == PaperSizeLabel100x50
}

// AllPaperSizes returns all valid PaperSize values
func AllPaperSizes() []PaperSize {
	return []PaperSize{PaperSizeA4, PaperSizeLetter, PaperSizeLabel100x50}
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// Margins holds page margins in millimeters
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// UniformMargins returns margins with the same value on all sides
func UniformMargins(mm int) Margins {
	return Margins{Top: mm, Right: mm, Bottom: mm, Left: mm}
}
