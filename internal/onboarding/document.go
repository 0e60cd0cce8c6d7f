package onboarding

import (
	"fmt"
	"html/template"
	"io"
	"sync"
)

// ScrollBehavior is how a scroll to a position is animated.
type ScrollBehavior string

const (
	ScrollInstant ScrollBehavior = "instant"
	ScrollSmooth  ScrollBehavior = "smooth"
)

// Region is a top-level page element addressed by a CSS selector.
type Region struct {
	Selector string
	Hidden   bool
}

// Section is an element appended to the page body.
type Section struct {
	ID     string
	HTML   template.HTML
	Hidden bool
}

// Document is an in-memory model of the landing page: its regions, the
// sections appended at runtime and the scroll position. It is safe for
// concurrent use.
type Document struct {
	mu         sync.Mutex
	regions    []Region
	sections   []Section
	scrollY    int
	lastScroll ScrollBehavior
}

// LandingRegions are the regions of the public landing page, in page order.
var LandingRegions = []string{"nav", "#hero", "#features", "#how-it-works", "#dashboard", "#testimonials", "footer"}

// NewDocument creates a document with the given regions, all visible.
func NewDocument(selectors ...string) *Document {
	d := &Document{}
	for _, sel := range selectors {
		d.regions = append(d.regions, Region{Selector: sel})
	}
	return d
}

// Region returns the region matching selector.
func (d *Document) Region(selector string) (Region, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.regionIndex(selector); i >= 0 {
		return d.regions[i], true
	}
	return Region{}, false
}

// SetRegionHidden changes the visibility of a region. It reports false when
// no region matches selector.
func (d *Document) SetRegionHidden(selector string, hidden bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.regionIndex(selector)
	if i < 0 {
		return false
	}
	d.regions[i].Hidden = hidden
	return true
}

func (d *Document) regionIndex(selector string) int {
	for i, r := range d.regions {
		if r.Selector == selector {
			return i
		}
	}
	return -1
}

// AppendSection adds a section to the end of the body.
func (d *Document) AppendSection(id string, html template.HTML) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sectionIndex(id) >= 0 {
		return fmt.Errorf("append section: id %q already present", id)
	}
	d.sections = append(d.sections, Section{ID: id, HTML: html})
	return nil
}

// Section returns the section with the given id.
func (d *Document) Section(id string) (Section, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.sectionIndex(id); i >= 0 {
		return d.sections[i], true
	}
	return Section{}, false
}

// SetSectionHidden changes the visibility of a section.
func (d *Document) SetSectionHidden(id string, hidden bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.sectionIndex(id)
	if i < 0 {
		return false
	}
	d.sections[i].Hidden = hidden
	return true
}

// Sections returns a copy of the appended sections.
func (d *Document) Sections() []Section {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Section(nil), d.sections...)
}

func (d *Document) sectionIndex(id string) int {
	for i, s := range d.sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// ScrollTo moves the viewport to y.
func (d *Document) ScrollTo(y int, behavior ScrollBehavior) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrollY = y
	d.lastScroll = behavior
}

// Scroll returns the current position and how the last scroll was animated.
func (d *Document) Scroll() (int, ScrollBehavior) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollY, d.lastScroll
}

var pageTemplate = template.Must(template.New("page").Parse(`<body>
{{- range .Regions}}
<div data-region="{{.Selector}}"{{if .Hidden}} hidden{{end}}></div>
{{- end}}
{{- range .Sections}}
<div id="{{.ID}}"{{if .Hidden}} hidden{{end}}>
{{.HTML}}</div>
{{- end}}
</body>
`))

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	data := struct {
		Regions  []Region
		Sections []Section
	}{
		Regions:  append([]Region(nil), d.regions...),
		Sections: append([]Section(nil), d.sections...),
	}
	d.mu.Unlock()

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}
