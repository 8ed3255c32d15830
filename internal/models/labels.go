package models

// DefaultLabels is the enumeration order used when none is configured. The
// order matters: it is the tie-break order for equal scores.
var DefaultLabels = []string{
	"Business",
	"Entertainment",
	"Health",
	"Music Feeds",
	"Sci/Tech",
	"Software and Development",
	"Sports",
	"Toons",
}
