// Package document holds the one canonical styling constant set shared by
// every serializer. The serializers must visually agree on these decisions;
// keeping them in a single structure is what guarantees that.
package document

// Style is the visual vocabulary for document output. Colors are hex
// triples without the leading '#'; sizes are points; margins millimetres.
type Style struct {
	HeadingSizes [4]float64 // H1..H4
	BodySize     float64
	CodeSize     float64

	BodyFont string
	MonoFont string

	TextColor       string
	BorderColor     string
	AccentColor     string
	CodeBackground  string
	InlineCodeBack  string
	InlineCodeText  string
	QuoteBackground string
	TableHeaderBack string
	TableStripe     string

	MarginTopMM    float64
	MarginBottomMM float64
	MarginLeftMM   float64
	MarginRightMM  float64

	// MaxImageWidthPx caps diagram images; taller/wider renders are scaled
	// down preserving aspect ratio.
	MaxImageWidthPx int
}

// Default returns the canonical style set.
func Default() Style {
	return Style{
		HeadingSizes: [4]float64{18, 14, 12, 11},
		BodySize:     11,
		CodeSize:     10,

		BodyFont: "Segoe UI",
		MonoFont: "Consolas",

		TextColor:       "1A1A2E",
		BorderColor:     "D0D7DE",
		AccentColor:     "0969DA",
		CodeBackground:  "F6F8FA",
		InlineCodeBack:  "EFF1F3",
		InlineCodeText:  "C7254E",
		QuoteBackground: "F0F7FF",
		TableHeaderBack: "F6F8FA",
		TableStripe:     "F8F9FA",

		MarginTopMM:    20,
		MarginBottomMM: 20,
		MarginLeftMM:   15,
		MarginRightMM:  15,

		MaxImageWidthPx: 620,
	}
}
