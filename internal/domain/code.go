package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeKind scopes a reference code counter.
type CodeKind string

const (
	CodeIssue   CodeKind = "issue"
	CodeDispute CodeKind = "dispute"
	CodeClaim   CodeKind = "claim"
)

type codeFormat struct {
	prefix string
	width  int
}

// Reference codes are a stable contract: prefix plus zero padded digits.
var codeFormats = map[CodeKind]codeFormat{
	CodeIssue:   {prefix: "ISS", width: 8},
	CodeDispute: {prefix: "DIS", width: 8},
	CodeClaim:   {prefix: "CLM", width: 5},
}

func CodeKinds() []CodeKind {
	return []CodeKind{CodeIssue, CodeDispute, CodeClaim}
}

func FormatCode(kind CodeKind, seq int64) (string, error) {
	f, ok := codeFormats[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown code kind %q", ErrValidation, kind)
	}
	if seq <= 0 {
		return "", fmt.Errorf("%w: sequence must be positive, got %d", ErrValidation, seq)
	}
	digits := strconv.FormatInt(seq, 10)
	if len(digits) > f.width {
		return "", fmt.Errorf("%s counter exhausted at %d", kind, seq)
	}
	return f.prefix + strings.Repeat("0", f.width-len(digits)) + digits, nil
}

func ParseCode(code string) (CodeKind, int64, error) {
	for kind, f := range codeFormats {
		if !strings.HasPrefix(code, f.prefix) {
			continue
		}
		digits := code[len(f.prefix):]
		if len(digits) != f.width {
			break
		}
		seq, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || seq <= 0 {
			break
		}
		return kind, seq, nil
	}
	return "", 0, fmt.Errorf("%w: malformed reference code %q", ErrValidation, code)
}
