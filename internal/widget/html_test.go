// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseElement(t *testing.T, markup string) map[string]string {
	t.Helper()
	z := html.NewTokenizer(strings.NewReader(markup))
	require.Equal(t, html.StartTagToken, z.Next())
	tok := z.Token()
	require.Equal(t, ElementName, tok.Data)

	attrs := make(map[string]string, len(tok.Attr))
	for _, a := range tok.Attr {
		attrs[a.Key] = a.Val
	}

	require.Equal(t, html.EndTagToken, z.Next())
	assert.Equal(t, ElementName, z.Token().Data)
	return attrs
}

func TestCreateWidgetHTML_Newsletter(t *testing.T) {
	m := NewManager(NewRegistry(), newFakeInjector().Inject)
	markup, err := m.CreateWidgetHTML(TypeNewsletter)
	require.NoError(t, err)

	assert.Contains(t, markup, `data-widget-id="ec59331b5f7"`)
	assert.Contains(t, markup, `data-type="prospects"`)

	attrs := parseElement(t, markup)
	assert.Equal(t, map[string]string{
		"data-type":           "prospects",
		"data-widget-partner": "object",
		"data-widget-id":      "ec59331b5f7",
		"data-widget-version": "0",
	}, attrs)
}

func TestCreateWidgetHTML_Registration(t *testing.T) {
	m := NewManager(NewRegistry(), newFakeInjector().Inject)
	markup, err := m.CreateWidgetHTML(TypeRegistration)
	require.NoError(t, err)

	assert.Contains(t, markup, `data-widget-id="ec161013b5f7"`)
	assert.Contains(t, markup, `data-type="registrations"`)
}

func TestCreateWidgetHTML_UnknownType(t *testing.T) {
	m := NewManager(NewRegistry(), newFakeInjector().Inject)
	_, err := m.CreateWidgetHTML("booking")
	assert.ErrorIs(t, err, ErrUnknownWidget)
}

func TestCreateWidgetHTML_EscapesAttributes(t *testing.T) {
	markup := CreateWidgetHTML(Config{DataType: `x" onload="alert(1)`, WidgetID: "<id>"})

	assert.NotContains(t, markup, `onload="alert`)
	attrs := parseElement(t, markup)
	assert.Equal(t, `x" onload="alert(1)`, attrs["data-type"])
	assert.Equal(t, "<id>", attrs["data-widget-id"])
	_, hasPartner := attrs["data-widget-partner"]
	assert.False(t, hasPartner, "optional attributes are omitted when empty")
}
