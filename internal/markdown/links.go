// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"html"
	"regexp"
	"strings"
)

// =============================================================================
// LINKS AND IMAGES
// =============================================================================

var (
	reRefDef     = regexp.MustCompile(`(?m)^[ \t]{0,3}\[([^\]\n]+)\]:[ \t]+(\S+)[ \t]*$`)
	reInlineLink = regexp.MustCompile(`\[([^\]\n]*)\]\(([^)\s\n]+)(?:[ \t]+"([^"\n]*)")?\)`)
	reRefLink    = regexp.MustCompile(`\[([^\]\n]+)\]\[([^\]\n]*)\]`)
	reBrokenLink = regexp.MustCompile(`\[([^\]\n]+)\][ \t]*\n?[ \t]*\((https?://[^)\n]+)\)`)
	reImage      = regexp.MustCompile(`!\[([^\]\n]*)\]\(([^)\s\n]+)(?:[ \t]+"([^"\n]*)")?\)`)
)

// safeURL rejects schemes that execute in the reader's browser.
func safeURL(u string) bool {
	u = strings.ToLower(strings.TrimSpace(u))
	for _, scheme := range []string{"javascript:", "data:", "vbscript:"} {
		if strings.HasPrefix(u, scheme) {
			return false
		}
	}
	return true
}

func anchor(label, url, title string) string {
	if !safeURL(url) {
		return label
	}
	attrs := ` href="` + html.EscapeString(url) + `"`
	if title != "" {
		attrs += ` title="` + html.EscapeString(title) + `"`
	}
	return "<a" + attrs + ` target="_blank" rel="noopener noreferrer">` + label + "</a>"
}

// links converts inline and reference-style links. Matches preceded by
// "!" are image syntax and are left for the image pass.
func (f *Formatter) links(text string) string {
	refs := map[string]string{}
	text = reRefDef.ReplaceAllStringFunc(text, func(m string) string {
		sub := reRefDef.FindStringSubmatch(m)
		refs[strings.ToLower(sub[1])] = sub[2]
		return ""
	})

	// Models often drop a space between the bracket and the parenthesis;
	// close the gap before the inline pass so the link still resolves.
	if f.flags.RepairBrokenLinks {
		text = reBrokenLink.ReplaceAllString(text, "[$1]($2)")
	}

	text = replaceGuarded(text, reInlineLink, func(sub []string) string {
		return anchor(sub[1], sub[2], sub[3])
	})
	return replaceGuarded(text, reRefLink, func(sub []string) string {
		id := sub[2]
		if id == "" {
			id = sub[1]
		}
		url, ok := refs[strings.ToLower(id)]
		if !ok {
			return sub[0]
		}
		return anchor(sub[1], url, "")
	})
}

func (f *Formatter) images(text string) string {
	return reImage.ReplaceAllStringFunc(text, func(m string) string {
		sub := reImage.FindStringSubmatch(m)
		if !safeURL(sub[2]) {
			return sub[1]
		}
		img := `<img src="` + html.EscapeString(sub[2]) + `" alt="` + html.EscapeString(sub[1]) + `"`
		if sub[3] != "" {
			img += ` title="` + html.EscapeString(sub[3]) + `"`
		}
		return img + ">"
	})
}

// replaceGuarded rewrites every match whose first byte is not preceded
// by "!". sub[0] is the whole match; absent groups come through empty.
func replaceGuarded(text string, re *regexp.Regexp, conv func(sub []string) string) string {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return text
	}
	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		if loc[0] < last {
			continue
		}
		if loc[0] > 0 && text[loc[0]-1] == '!' {
			continue
		}
		sub := make([]string, 0, len(loc)/2)
		for j := 0; j < len(loc); j += 2 {
			if loc[j] < 0 {
				sub = append(sub, "")
			} else {
				sub = append(sub, text[loc[j]:loc[j+1]])
			}
		}
		sb.WriteString(text[last:loc[0]])
		sb.WriteString(conv(sub))
		last = loc[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}
