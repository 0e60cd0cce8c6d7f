// Package onboarding shows and hides the getting-started page on top of the
// landing page.
package onboarding

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"sync"

	"github.com/me/eduportal/internal/logging"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// SectionID is the id of the injected onboarding section.
const SectionID = "onboarding-page"

// HiddenRegions are the landing page regions covered while onboarding is
// shown.
var HiddenRegions = []string{"#hero", "#features", "#how-it-works", "#dashboard", "#testimonials", "footer"}

//go:embed content/getting-started.md
var gettingStarted []byte

// mdRenderer escapes raw HTML in the source.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderContent converts the getting-started Markdown to HTML.
func RenderContent() (template.HTML, error) {
	var buf bytes.Buffer
	buf.WriteString(`<button class="onboarding-close" data-action="close-onboarding">Close</button>` + "\n")
	if err := mdRenderer.Convert(gettingStarted, &buf); err != nil {
		return "", fmt.Errorf("render onboarding content: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Injector toggles the onboarding page within a Document.
type Injector struct {
	doc    *Document
	logger *slog.Logger

	mu sync.Mutex
	// hidden holds the regions ShowPage hid and ClosePage must restore.
	hidden []string
}

// NewInjector creates an injector operating on doc.
func NewInjector(doc *Document, logger *slog.Logger) *Injector {
	return &Injector{doc: doc, logger: logging.Component(logger, "onboarding")}
}

// ShowPage hides the landing regions, shows the onboarding section and
// jumps to the top. The section is built on first use and reused after.
func (in *Injector) ShowPage() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if _, ok := in.doc.Section(SectionID); !ok {
		html, err := RenderContent()
		if err != nil {
			return err
		}
		if err := in.doc.AppendSection(SectionID, html); err != nil {
			return err
		}
		in.logger.Debug("onboarding section built")
	}

	for _, sel := range HiddenRegions {
		if in.isTracked(sel) {
			continue
		}
		if in.doc.SetRegionHidden(sel, true) {
			in.hidden = append(in.hidden, sel)
		}
	}
	in.doc.SetSectionHidden(SectionID, false)
	in.doc.ScrollTo(0, ScrollInstant)
	return nil
}

// ClosePage hides the onboarding section, makes the landing regions
// visible again and scrolls smoothly to the top.
func (in *Injector) ClosePage() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.doc.SetSectionHidden(SectionID, true)
	for _, sel := range in.hidden {
		in.doc.SetRegionHidden(sel, false)
	}
	in.hidden = nil
	in.doc.ScrollTo(0, ScrollSmooth)
}

// Showing reports whether the onboarding section is visible.
func (in *Injector) Showing() bool {
	s, ok := in.doc.Section(SectionID)
	return ok && !s.Hidden
}

func (in *Injector) isTracked(sel string) bool {
	for _, h := range in.hidden {
		if h == sel {
			return true
		}
	}
	return false
}
