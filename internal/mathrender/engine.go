// Copyright (c) 2024-2025 CompareAI
// SPDX-License-Identifier: AGPL-3.0-or-later

package mathrender

import (
	"html"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/wyatt915/treeblood"

	"github.com/jaydeelew/CompareAI-sub003/internal/config"
	"github.com/jaydeelew/CompareAI-sub003/internal/util"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine typesets one LaTeX expression. Implementations must fail soft:
// Render returns displayable HTML for every input and never panics.
type Engine interface {
	Render(latex string, display bool) string
}

// SentinelClass marks regions that already hold rendered math. Delimiter
// and heuristic passes skip anything carrying it.
const SentinelClass = "math-rendered"

// WrapDisplay wraps typeset markup as block-level math.
func WrapDisplay(inner string) string {
	return `<div class="math-display ` + SentinelClass + `">` + inner + `</div>`
}

// WrapInline wraps typeset markup as inline math.
func WrapInline(inner string) string {
	return `<span class="math-inline ` + SentinelClass + `">` + inner + `</span>`
}

// Fallback renders the escaped LaTeX source as a visibly-styled error span.
func Fallback(latex, detail string) string {
	title := "math rendering failed"
	if detail != "" {
		title = html.EscapeString(detail)
	}
	return `<span class="math-error" title="` + title + `">` + html.EscapeString(latex) + `</span>`
}

// =============================================================================
// TREEBLOOD ENGINE
// =============================================================================

// TreebloodEngine typesets through the treeblood LaTeX-to-MathML library,
// bounded by the model's MathOptions.
type TreebloodEngine struct {
	pitz   *treeblood.Pitziil
	opts   config.MathOptions
	logger *log.Logger
}

// NewTreeblood builds an engine with the config's macros precompiled.
func NewTreeblood(opts config.MathOptions, logger *log.Logger) *TreebloodEngine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = config.DefaultMaxSize
	}
	if opts.MaxExpand == 0 {
		opts.MaxExpand = config.DefaultMaxExpand
	}
	return &TreebloodEngine{
		pitz:   treeblood.NewDocument(opts.Macros, false),
		opts:   opts,
		logger: logger,
	}
}

// reExternalCmd matches commands that can reference external resources.
var reExternalCmd = regexp.MustCompile(`\\(href|url|includegraphics|input|include|usepackage)\b`)

// reCommand counts typesetting commands, a proxy for expansion work.
var reCommand = regexp.MustCompile(`\\[a-zA-Z]+`)

// Render implements Engine. Any failure inside the typesetter, including a
// panic, degrades to the escaped-source fallback.
func (e *TreebloodEngine) Render(latex string, display bool) (out string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("mathrender: typesetter panic for %.40q: %v", latex, r)
			out = Fallback(latex, "")
		}
	}()

	if util.RuneLen(latex) > e.opts.MaxSize {
		e.logger.Printf("mathrender: expression over MaxSize (%d runes)", e.opts.MaxSize)
		return Fallback(latex, "expression too large")
	}
	if len(reCommand.FindAllStringIndex(latex, e.opts.MaxExpand+1)) > e.opts.MaxExpand {
		e.logger.Printf("mathrender: expression over MaxExpand (%d commands)", e.opts.MaxExpand)
		return Fallback(latex, "expression too complex")
	}
	latex = e.neutralizeUntrusted(latex)

	var mml string
	var err error
	if display {
		mml, err = e.pitz.DisplayStyle(latex)
	} else {
		mml, err = e.pitz.TextStyle(latex)
	}
	if err != nil || strings.TrimSpace(mml) == "" {
		e.logger.Printf("mathrender: typeset %.40q: %v", latex, err)
		if e.opts.ThrowOnError && err != nil {
			return Fallback(latex, err.Error())
		}
		return Fallback(latex, "")
	}
	if e.opts.Strict && strings.Contains(mml, "<merror") {
		return Fallback(latex, "strict mode: partial parse")
	}
	// Later pipeline stages are line-oriented; typeset markup must not
	// introduce line breaks.
	return strings.ReplaceAll(mml, "\n", "")
}

// neutralizeUntrusted strips external-resource commands the trust predicate
// does not allow, leaving their arguments behind as plain text.
func (e *TreebloodEngine) neutralizeUntrusted(latex string) string {
	return reExternalCmd.ReplaceAllStringFunc(latex, func(cmd string) string {
		name := strings.TrimPrefix(cmd, `\`)
		if e.opts.Trust != nil && e.opts.Trust(name) {
			return cmd
		}
		return ""
	})
}
