package styles

import (
	"github.com/alecthomas/chroma/v2"
	chromastyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/willibrandon/squeal/internal/prefs"
)

// Syntax theme names registered with chroma.
const (
	SyntaxDark  = "squeal"
	SyntaxLight = "squeal-light"
)

func init() {
	chromastyles.Register(squealSyntax)
	chromastyles.Register(squealLightSyntax)
}

// DefaultSyntaxTheme returns the chroma style matching theme.
func DefaultSyntaxTheme(theme prefs.Theme) string {
	if theme.IsDark() {
		return SyntaxDark
	}
	return SyntaxLight
}

var squealSyntax = chroma.MustNewStyle(SyntaxDark, chroma.StyleEntries{
	chroma.Background: "bg:#1e1e2e",
	chroma.Text:       "#f8f8f2",
	chroma.Error:      "#ff5555 bold",

	chroma.Keyword:         "bold #bd93f9",
	chroma.KeywordConstant: "#ffb86c",
	chroma.KeywordType:     "#8be9fd",
	chroma.OperatorWord:    "bold #bd93f9",
	chroma.Operator:        "#8be9fd",

	chroma.String:      "#f1fa8c",
	chroma.Number:      "#ffb86c",
	chroma.NameBuiltin: "#ff79c6",

	chroma.Comment:       "italic #6c7086",
	chroma.CommentSingle: "italic #6c7086",
	chroma.Punctuation:   "#a6adc8",
	chroma.Name:          "#f8f8f2",
})

var squealLightSyntax = chroma.MustNewStyle(SyntaxLight, chroma.StyleEntries{
	chroma.Background: "bg:#fafafa",
	chroma.Text:       "#383a42",
	chroma.Error:      "#c62828 bold",

	chroma.Keyword:         "bold #5b3cc4",
	chroma.KeywordConstant: "#b35900",
	chroma.KeywordType:     "#0184bc",
	chroma.OperatorWord:    "bold #5b3cc4",
	chroma.Operator:        "#0184bc",

	chroma.String:      "#2e7d32",
	chroma.Number:      "#b35900",
	chroma.NameBuiltin: "#a626a4",

	chroma.Comment:       "italic #8a8f98",
	chroma.CommentSingle: "italic #8a8f98",
	chroma.Punctuation:   "#4b4f57",
	chroma.Name:          "#383a42",
})
