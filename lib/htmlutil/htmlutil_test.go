package htmlutil

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{"  Youth   Exchange\n", "Youth Exchange"},
		{"\tBerlin \t Office ", "Berlin Office"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, CleanText(test.input))
	}
}

func TestResolveURL(t *testing.T) {
	base, err := url.Parse("https://www.salto-youth.net")
	require.NoError(t, err)

	cases := []struct {
		href   string
		expect string
	}{
		{"/tools/otlas-partner-finding/organisation/1234", "https://www.salto-youth.net/tools/otlas-partner-finding/organisation/1234"},
		{"https://example.org/profile", "https://example.org/profile"},
		{"", ""},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, ResolveURL(base, test.href))
	}
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<ul>
			<li><a href="/org/1">First   Org</a></li>
			<li><a href="/org/2">Second Org</a></li>
		</ul>
	`))
	require.NoError(t, err)

	anchors := GetAnchors(doc.Find("a"))
	require.Len(t, anchors, 2)
	require.Equal(t, Anchor{Name: "First Org", Href: "/org/1"}, anchors[0])
	require.Equal(t, Anchor{Name: "Second Org", Href: "/org/2"}, anchors[1])
}

func FuzzCleanText(f *testing.F) {
	f.Add("  Youth \n  Bridge ")
	f.Add("plain")
	f.Add("\t\u0000weird\u200btext")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		cleaned := CleanText(input)
		if cleaned != strings.TrimSpace(cleaned) {
			t.Fatalf("output %q has untrimmed edges", cleaned)
		}
		if strings.Contains(cleaned, "  ") {
			t.Fatalf("output %q contains a run of whitespace", cleaned)
		}
		if again := CleanText(cleaned); again != cleaned {
			t.Fatalf("not idempotent: %q became %q", cleaned, again)
		}
	})
}
