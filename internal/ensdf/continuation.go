package ensdf

import (
	"strconv"
	"strings"
)

// subFields splits the KEY=value$KEY=value text of a continuation card
// (columns 10-80) into trimmed tokens.
func subFields(content string) []string {
	text := column(content, 10, RecordWidth)
	parts := strings.Split(text, "$")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// subFieldValue returns the leading numeric token of a KEY=value token.
// Parentheses act as separators, so "0.0902(3)" yields 0.0902.
func subFieldValue(tok string) (float64, bool) {
	i := strings.IndexByte(tok, '=')
	if i < 0 {
		return 0, false
	}
	v := strings.NewReplacer("(", " ", ")", " ").Replace(tok[i+1:])
	fs := strings.Fields(v)
	if len(fs) == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(fs[0], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// continueWith merges one continuation card into r. It reports whether the
// record kind accepts continuation data.
func continueWith(r Record, content string) bool {
	switch rec := r.(type) {
	case *Identification:
		rec.extend(content)
	case *Comment:
		rec.content += "\n" + content
		if t := field(content, 10, RecordWidth); t != "" {
			rec.Text = strings.TrimSpace(rec.Text + " " + t)
		}
	case *Gamma:
		rec.content += "\n" + content
		for _, tok := range subFields(content) {
			rec.mergeCoefficient(tok)
		}
	case *Beta:
		rec.content += "\n" + content
		for _, tok := range subFields(content) {
			if strings.HasPrefix(tok, "EAV=") {
				if v, ok := subFieldValue(tok); ok {
					rec.EAV = Known(v)
				}
			}
		}
	case *EC:
		rec.content += "\n" + content
		for _, tok := range subFields(content) {
			v, ok := subFieldValue(tok)
			if !ok {
				continue
			}
			switch {
			case strings.HasPrefix(tok, "CK="):
				rec.CK = Known(v)
			case strings.HasPrefix(tok, "CL="):
				rec.CL = Known(v)
			case strings.HasPrefix(tok, "CM="):
				rec.CM = Known(v)
			}
		}
	default:
		return false
	}
	return true
}

// mergeCoefficient applies one conversion-coefficient token. Plain K/L/M
// keys only fill unset coefficients, EK/EL/EM keys always overwrite.
func (r *Gamma) mergeCoefficient(tok string) {
	var target *Number
	overwrite := false
	switch {
	case strings.HasPrefix(tok, "KC="):
		target = &r.KC
	case strings.HasPrefix(tok, "LC="):
		target = &r.LC
	case strings.HasPrefix(tok, "MC="):
		target = &r.MC
	case strings.HasPrefix(tok, "EKC="):
		target, overwrite = &r.KC, true
	case strings.HasPrefix(tok, "ELC="):
		target, overwrite = &r.LC, true
	case strings.HasPrefix(tok, "EMC="):
		target, overwrite = &r.MC, true
	default:
		return
	}
	v, ok := subFieldValue(tok)
	if !ok {
		return
	}
	if overwrite || !target.Valid {
		*target = Known(v)
	}
}
