package markup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/markup"
)

func TestToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "What is 2 + 2?", want: "What is 2 + 2?"},
		{name: "paragraphs", in: "<p>First</p><p>Second</p>", want: "First\n\nSecond"},
		{name: "line break", in: "a<br>b<br/>c", want: "a\nb\nc"},
		{name: "entities", in: "x &lt; y &amp;&amp; y &gt; z", want: "x < y && y > z"},
		{name: "image", in: `<p>See <img src="/GATE/fig1.png"></p>`, want: "See [image: /GATE/fig1.png]"},
		{name: "image without src", in: `<img alt="x">`, want: "[image]"},
		{name: "whitespace collapsed", in: "  lots   of\t space  ", want: "lots of space"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, markup.ToText(tt.in))
		})
	}
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "42.5", markup.StripTags("<p> 42.5 </p>"))
	assert.Equal(t, "10,20", markup.StripTags("<span>10</span>,<span>20</span>"))
	assert.Equal(t, "a & b", markup.StripTags("a &amp; b"))
}
