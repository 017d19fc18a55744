package ensdf

import (
	"errors"
	"fmt"
)

// ErrUnknownRecord is returned for a card whose type code is not part of
// the format.
var ErrUnknownRecord = errors.New("unknown record type")

// kindIdentificationContinuation routes a card back to the identification
// record of the dataset being read.
const kindIdentificationContinuation Kind = -1

// recordCodes returns the primary type code (column 8, or column 7 when 8
// is blank) and the secondary code (column 7).
func recordCodes(content string) (code, code2 byte) {
	code2 = charAt(content, 7)
	code = charAt(content, 8)
	if code == ' ' {
		code = code2
	}
	return code, code2
}

// charAt returns the byte at a 1-based column, blank past the end.
func charAt(content string, col int) byte {
	if col < 1 || col > len(content) {
		return ' '
	}
	return content[col-1]
}

// isCommentCard reports whether column 7 marks the card as a comment.
func isCommentCard(content string) bool {
	switch charAt(content, 7) {
	case 'c', 't', 'D', 'd', 'C':
		return true
	}
	return false
}

// isContinuationCard reports whether column 6 marks a continuation card.
// A "1" in column 6 labels the first card and is not a continuation.
func isContinuationCard(content string) bool {
	c := charAt(content, 6)
	return c != ' ' && c != '\t' && c != '1'
}

// dispatch selects the record kind for a card from its type codes. idOpen
// reports whether the dataset identification record is still continued.
func dispatch(code, code2 byte, content string, idOpen bool) (Kind, error) {
	switch {
	case code == 'H':
		return KindHistory, nil
	case code == 'C', code == 'c':
		return KindComment, nil
	case code == 'T', code2 == 'T':
		return KindComment, nil
	case code == 'u', code == 'U':
		return KindComment, nil
	case code == 'G' && code2 == 'P':
		return KindComment, nil
	case code == 'G':
		return KindGamma, nil
	case code == 'B':
		return KindBeta, nil
	case code == 'E':
		return KindEC, nil
	case code == 'N' && code2 == 'P':
		return KindProductionNormalization, nil
	case code == 'N':
		return KindNormalization, nil
	case code == 'Q':
		return KindQValue, nil
	case code == 'D':
		return KindDelayedParticle, nil
	case code == 'L' && code2 == 'P':
		return KindComment, nil
	case code == 'L':
		return KindLevel, nil
	case code == 'P':
		return KindParent, nil
	case code == 'X':
		return KindCrossReference, nil
	case code == 'A':
		return KindAlpha, nil
	case code == 'R':
		return KindReference, nil
	case code == ' ' && isDigit(charAt(content, 6)) && idOpen:
		return kindIdentificationContinuation, nil
	case code == ' ':
		return KindComment, nil
	}
	return 0, fmt.Errorf("%w: code %q", ErrUnknownRecord, code)
}
