package username

import (
	"testing"

	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare handle", input: "foo.bar", want: "foo.bar"},
		{name: "leading at", input: "@foo.bar", want: "foo.bar"},
		{name: "whitespace and at and slash", input: "  @Foo.Bar/ ", want: "Foo.Bar"},
		{name: "www profile url", input: "https://www.instagram.com/Foo.Bar", want: "Foo.Bar"},
		{name: "bare profile url", input: "https://instagram.com/foo.bar/", want: "foo.bar"},
		{name: "embedded slash", input: "foo/bar", want: "foobar"},
		{name: "case preserved", input: "@FooBar", want: "FooBar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"  @Foo.Bar/ ", "https://www.instagram.com/someone/", "@a_b.c"}

	for _, input := range inputs {
		first, err := Normalize(input)
		require.NoError(t, err)
		second, err := Normalize(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestNormalizeRejectsEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "@", "@/", "https://www.instagram.com/"} {
		_, err := Normalize(input)
		assert.ErrorIs(t, err, instagram.ErrInvalidUsername, "input %q", input)
	}
}
