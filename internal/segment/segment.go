// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package segment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jaydeelew/CompareAI-sub003/internal/config"
)

// =============================================================================
// SEGMENT TYPES
// =============================================================================

// CodeBlock is a fenced code block captured verbatim. RawContent must be
// byte-identical before and after the full pipeline; only the surrounding
// markup may be decorated.
type CodeBlock struct {
	Language   string
	RawContent string
}

// MathSpan is an extracted math region.
type MathSpan struct {
	// Body is the text between the delimiters.
	Body string
	// Raw is the full matched substring including delimiters.
	Raw string
	// Display marks block-level math.
	Display bool
	// Delim is the name of the delimiter that matched.
	Delim string
}

// Document owns the regions extracted from one model response.
type Document struct {
	salt string

	Code        []CodeBlock
	DisplayMath []MathSpan
	InlineMath  []MathSpan
}

// NewDocument returns an empty document with a fresh placeholder salt.
func NewDocument() *Document {
	return &Document{salt: uuid.NewString()[:8]}
}

// Token kinds used in placeholder framing.
const (
	kindCode        = "C"
	kindDisplayMath = "DM"
	kindInlineMath  = "IM"
)

// escDollar is a reversible stand-in for `\$` so the escape survives inline
// math extraction. It contains no dollar sign itself, and \x01 cannot be
// typed by a model any more than \x00 can.
const escDollar = "\x01ESCDLR\x01"

func (d *Document) token(kind string, i int) string {
	return "\x00" + kind + ":" + d.salt + ":" + strconv.Itoa(i) + "\x00"
}

var (
	fencedRe = regexp.MustCompile("(?s)```([a-zA-Z0-9_+#.-]*)[ \t]*\n?(.*?)```")
	anyToken = regexp.MustCompile(`\x00(C|DM|IM):([0-9a-f-]+):([0-9]+)\x00`)
)

// =============================================================================
// EXTRACTION
// =============================================================================

// ExtractCode pulls fenced code blocks out of text, replacing each with a
// placeholder token. An unterminated fence is closed at end of input rather
// than being left for later regexes to chew on.
func (d *Document) ExtractCode(text string) string {
	if strings.Count(text, "```")%2 == 1 {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text += "```"
	}
	return fencedRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := fencedRe.FindStringSubmatch(match)
		block := CodeBlock{
			Language:   strings.TrimSpace(parts[1]),
			RawContent: parts[2],
		}
		d.Code = append(d.Code, block)
		return d.token(kindCode, len(d.Code)-1)
	})
}

// ExtractDisplayMath pulls display math out of text using the config's
// delimiter set, in ascending priority order.
func (d *Document) ExtractDisplayMath(text string, delims []config.Delimiter) string {
	return d.extractMath(text, delims, true)
}

// ExtractInlineMath pulls inline math out of text. `\$` escapes are masked
// for the duration of the pass so an escaped dollar never opens a span.
func (d *Document) ExtractInlineMath(text string, delims []config.Delimiter) string {
	text = strings.ReplaceAll(text, `\$`, escDollar)
	text = d.extractMath(text, delims, false)
	return strings.ReplaceAll(text, escDollar, `\$`)
}

func (d *Document) extractMath(text string, delims []config.Delimiter, display bool) string {
	for i := range delims {
		del := &delims[i]
		re := del.Regexp()
		if re == nil {
			// Delimiter escaped validation; skip rather than panic.
			continue
		}
		text = re.ReplaceAllStringFunc(text, func(match string) string {
			// A match swallowing an existing placeholder would corrupt the
			// document; leave it for the narrower delimiter that produced it.
			if strings.Contains(match, "\x00") {
				return match
			}
			parts := re.FindStringSubmatch(match)
			body := parts[1]
			span := MathSpan{
				Body:    strings.TrimSpace(strings.ReplaceAll(body, escDollar, `\$`)),
				Raw:     strings.ReplaceAll(match, escDollar, `\$`),
				Display: display,
				Delim:   del.Name,
			}
			if display {
				d.DisplayMath = append(d.DisplayMath, span)
				return d.token(kindDisplayMath, len(d.DisplayMath)-1)
			}
			d.InlineMath = append(d.InlineMath, span)
			return d.token(kindInlineMath, len(d.InlineMath)-1)
		})
	}
	return text
}

// =============================================================================
// RESTORATION
// =============================================================================

// RestoreMath replaces every math placeholder with render's output for the
// corresponding span. Tokens from another document or with out-of-range
// indices are left untouched.
func (d *Document) RestoreMath(text string, render func(MathSpan) string) string {
	return anyToken.ReplaceAllStringFunc(text, func(tok string) string {
		kind, salt, i := parseToken(tok)
		if salt != d.salt {
			return tok
		}
		switch kind {
		case kindDisplayMath:
			if i < len(d.DisplayMath) {
				return render(d.DisplayMath[i])
			}
		case kindInlineMath:
			if i < len(d.InlineMath) {
				return render(d.InlineMath[i])
			}
		}
		return tok
	})
}

// RestoreCode replaces every code placeholder with render's output for the
// corresponding block. Invalid tokens are left untouched.
func (d *Document) RestoreCode(text string, render func(CodeBlock) string) string {
	return anyToken.ReplaceAllStringFunc(text, func(tok string) string {
		kind, salt, i := parseToken(tok)
		if salt != d.salt || kind != kindCode || i >= len(d.Code) {
			return tok
		}
		return render(d.Code[i])
	})
}

// TransformMath rewrites every extracted math body through fn. The pipeline
// uses this to run math-specific normalization on spans that were pulled
// out before the normalizer ran.
func (d *Document) TransformMath(fn func(body string, display bool) string) {
	for i := range d.DisplayMath {
		d.DisplayMath[i].Body = fn(d.DisplayMath[i].Body, true)
	}
	for i := range d.InlineMath {
		d.InlineMath[i].Body = fn(d.InlineMath[i].Body, false)
	}
}

// Leaked reports whether text still carries placeholder framing. Final
// output must never leak a token to the user.
func Leaked(text string) bool {
	return strings.ContainsAny(text, "\x00\x01")
}

// StripTokens removes any residual placeholder tokens and framing bytes.
// This is the last defensive pass before output leaves the pipeline.
func StripTokens(text string) string {
	if !Leaked(text) {
		return text
	}
	text = anyToken.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, escDollar, "$")
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.ReplaceAll(text, "\x01", "")
}

func parseToken(tok string) (kind, salt string, index int) {
	parts := anyToken.FindStringSubmatch(tok)
	if parts == nil {
		return "", "", -1
	}
	i, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", "", -1
	}
	return parts[1], parts[2], i
}

var codeTokenLine = regexp.MustCompile(`^\x00C:[0-9a-f-]+:[0-9]+\x00$`)

// CodeTokenLine reports whether a trimmed line consists of exactly one code
// placeholder. The paragraph formatter uses this to keep code blocks out of
// <p> wrappers.
func CodeTokenLine(line string) bool {
	return codeTokenLine.MatchString(strings.TrimSpace(line))
}
