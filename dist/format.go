package dist

import (
	"fmt"
	"strings"
)

// Dist is the distribution of one matrix dimension.
type Dist uint8

const (
	MC Dist = iota
	MR
	VC
	VR
	MD
	STAR
)

// String returns the conventional short name ("*" for STAR).
func (d Dist) String() string {
	switch d {
	case MC:
		return "MC"
	case MR:
		return "MR"
	case VC:
		return "VC"
	case VR:
		return "VR"
	case MD:
		return "MD"
	case STAR:
		return "*"
	default:
		return "?"
	}
}

// coverage reports which grid dimensions a Dist varies over.
func (d Dist) coverage() (row, col bool) {
	switch d {
	case MC:
		return true, false
	case MR:
		return false, true
	case VC, VR, MD:
		return true, true
	default:
		return false, false
	}
}

// Format is the pair of column and row distributions: [Col,Row].
type Format struct {
	Col, Row Dist
}

// The valid formats.
var (
	MCMR     = Format{MC, MR}
	MCStar   = Format{MC, STAR}
	StarMR   = Format{STAR, MR}
	MRMC     = Format{MR, MC}
	MRStar   = Format{MR, STAR}
	StarMC   = Format{STAR, MC}
	VCStar   = Format{VC, STAR}
	StarVC   = Format{STAR, VC}
	VRStar   = Format{VR, STAR}
	StarVR   = Format{STAR, VR}
	MDStar   = Format{MD, STAR}
	StarMD   = Format{STAR, MD}
	StarStar = Format{STAR, STAR}
)

var validFormats = []Format{
	MCMR, MCStar, StarMR, MRMC, MRStar, StarMC,
	VCStar, StarVC, VRStar, StarVR, MDStar, StarMD, StarStar,
}

// Formats returns the 13 valid formats.
func Formats() []Format {
	out := make([]Format, len(validFormats))
	copy(out, validFormats)
	return out
}

// Valid reports whether f is one of the 13 valid formats.
func (f Format) Valid() bool {
	for _, v := range validFormats {
		if v == f {
			return true
		}
	}
	return false
}

// HasMD reports whether either dimension is diagonal.
func (f Format) HasMD() bool { return f.Col == MD || f.Row == MD }

// Transposed returns [Row,Col].
func (f Format) Transposed() Format { return Format{Col: f.Row, Row: f.Col} }

// String renders the format as "[Col,Row]".
func (f Format) String() string { return "[" + f.Col.String() + "," + f.Row.String() + "]" }

// ParseFormat parses the String form, e.g. "[MC,MR]" or "[*,VC]".
func ParseFormat(s string) (Format, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(strings.ReplaceAll(s, " ", ""), "["), "]")
	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return Format{}, preconditionf("ParseFormat", fmt.Errorf("%q: %w", s, ErrInvalidFormat))
	}
	var f Format
	for i, p := range parts {
		d, ok := parseDist(p)
		if !ok {
			return Format{}, preconditionf("ParseFormat", fmt.Errorf("%q: %w", s, ErrInvalidFormat))
		}
		if i == 0 {
			f.Col = d
		} else {
			f.Row = d
		}
	}
	if !f.Valid() {
		return Format{}, preconditionf("ParseFormat", fmt.Errorf("%q: %w", s, ErrInvalidFormat))
	}
	return f, nil
}

func parseDist(s string) (Dist, bool) {
	for d := MC; d <= STAR; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, true
		}
	}
	if strings.EqualFold(s, "STAR") {
		return STAR, true
	}
	return 0, false
}
