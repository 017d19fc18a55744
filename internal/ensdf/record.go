package ensdf

import (
	"fmt"
	"strings"
)

// Kind identifies the physical record type of a card.
type Kind int

const (
	KindIdentification Kind = iota
	KindHistory
	KindComment
	KindLevel
	KindGamma
	KindBeta
	KindEC
	KindAlpha
	KindParent
	KindNormalization
	KindProductionNormalization
	KindQValue
	KindCrossReference
	KindDelayedParticle
	KindReference
)

var kindNames = [...]string{
	KindIdentification:          "identification",
	KindHistory:                 "history",
	KindComment:                 "comment",
	KindLevel:                   "level",
	KindGamma:                   "gamma",
	KindBeta:                    "beta",
	KindEC:                      "ec",
	KindAlpha:                   "alpha",
	KindParent:                  "parent",
	KindNormalization:           "normalization",
	KindProductionNormalization: "production-normalization",
	KindQValue:                  "q-value",
	KindCrossReference:          "cross-reference",
	KindDelayedParticle:         "delayed-particle",
	KindReference:               "reference",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Record is one parsed ENSDF card. The set of implementations is closed:
// every variant lives in this package.
type Record interface {
	Kind() Kind
	// Content is the raw card text, continuation cards joined by newlines.
	Content() string
	// Line is the 1-based source line of the first card.
	Line() int
	sealed()
}

// Emission is implemented by the records that describe radiation leaving
// a level: gamma, beta, electron capture and alpha.
type Emission interface {
	Record
	Energy() Number
	EnergyUnc() Uncertainty
	Intensity() Number
	IntensityUnc() Uncertainty
}

type card struct {
	content string
	line    int
}

func (c *card) Content() string { return c.content }
func (c *card) Line() int       { return c.line }
func (c *card) sealed()         {}

// NormContext carries the dataset state a record may need while it is
// decoded. Only gamma records use it.
type NormContext struct {
	Normalization *Normalization
}

// parseRecord decodes a card into the record of the given kind. Content
// holding continuation cards after the first, as Content returns it, is
// merged card by card. Field errors are returned alongside a usable record.
func parseRecord(kind Kind, content string, line int, nc NormContext) (Record, error) {
	first, rest, merged := strings.Cut(content, "\n")
	d := &decoder{content: first}
	c := card{content: first, line: line}
	var r Record
	switch kind {
	case KindIdentification:
		r = parseIdentification(c, d)
	case KindHistory:
		r = &History{card: c, Text: d.text(10, 80)}
	case KindComment:
		r = parseComment(c, d, commentCode(first))
	case KindLevel:
		r = parseLevel(c, d)
	case KindGamma:
		r = parseGamma(c, d, nc)
	case KindBeta:
		r = parseBeta(c, d)
	case KindEC:
		r = parseEC(c, d)
	case KindAlpha:
		r = parseAlpha(c, d)
	case KindParent:
		r = parseParent(c, d)
	case KindNormalization:
		r = parseNormalization(c, d)
	case KindProductionNormalization:
		r = parseProductionNormalization(c, d)
	case KindQValue:
		r = parseQValue(c, d)
	case KindCrossReference:
		r = &CrossReference{card: c, DSSYM: d.text(9, 9), DSID: d.text(10, 39)}
	case KindDelayedParticle:
		r = parseDelayedParticle(c, d)
	case KindReference:
		r = &Reference{card: c, Mass: d.text(1, 3), KeyNum: d.text(10, 17), Text: d.text(18, 80)}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownRecord, kind)
	}
	if merged {
		for _, next := range strings.Split(rest, "\n") {
			if !continueWith(r, next) {
				return r, fmt.Errorf("%w: continuation of %v", ErrUnknownRecord, kind)
			}
		}
	}
	return r, d.err()
}

// commentCode is the record code a comment card was filed under.
func commentCode(content string) byte {
	code, _ := recordCodes(content)
	return code
}
