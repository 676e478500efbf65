// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"html"
	"strings"
	"sync"
	"time"
)

// ScriptElement is one <script> element appended to the document head.
type ScriptElement struct {
	Src        string    `json:"src"`
	AppendedAt time.Time `json:"appendedAt"`
}

// Document models the page head that script elements are appended to.
type Document struct {
	mu      sync.Mutex
	scripts []ScriptElement
}

func NewDocument() *Document {
	return &Document{}
}

func (d *Document) AppendScript(src string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts = append(d.scripts, ScriptElement{Src: src, AppendedAt: time.Now()})
}

func (d *Document) Scripts() []ScriptElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ScriptElement, len(d.scripts))
	copy(out, d.scripts)
	return out
}

// Count returns how many elements were appended for src.
func (d *Document) Count(src string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, s := range d.scripts {
		if s.Src == src {
			n++
		}
	}
	return n
}

// HeadHTML renders one async script tag per distinct src, in append order.
func (d *Document) HeadHTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	seen := make(map[string]struct{}, len(d.scripts))
	var b strings.Builder
	for _, s := range d.scripts {
		if _, ok := seen[s.Src]; ok {
			continue
		}
		seen[s.Src] = struct{}{}
		b.WriteString(`<script src="`)
		b.WriteString(html.EscapeString(s.Src))
		b.WriteString(`" async></script>`)
		b.WriteByte('\n')
	}
	return b.String()
}

// Container receives widget markup once its scripts are ready.
type Container interface {
	SetHTML(markup string)
}

// Fragment is an in-memory Container.
type Fragment struct {
	mu     sync.Mutex
	markup string
}

func (f *Fragment) SetHTML(markup string) {
	f.mu.Lock()
	f.markup = markup
	f.mu.Unlock()
}

func (f *Fragment) HTML() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markup
}
