package buildlog

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := map[string]Severity{
		"[ERROR] COMPILATION ERROR":          SeverityError,
		"   \t[ERROR] indented":              SeverityError,
		"WARNING: Using platform encoding":   SeverityWarning,
		"  WARNING something":                SeverityWarning,
		"[WARNING] bracketed is not WARNING": SeverityOther,
		"[INFO] BUILD FAILURE":               SeverityOther,
		"":                                   SeverityOther,
		"error: lowercase":                   SeverityOther,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Fatalf("Classify(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2019-05-15T10:32:11+02:00", time.Date(2019, 5, 15, 8, 32, 11, 0, time.UTC)},
		{"2019-05-15T10:32:11.5Z", time.Date(2019, 5, 15, 10, 32, 11, 500_000_000, time.UTC)},
		{"2019-05-15T10:32:11", time.Date(2019, 5, 15, 10, 32, 11, 0, time.UTC)},
		{"2019-05-15 10:32:11", time.Date(2019, 5, 15, 10, 32, 11, 0, time.UTC)},
		{"2019-05-15", time.Date(2019, 5, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := ParseTime(tc.in); !got.Equal(tc.want) {
			t.Fatalf("ParseTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := ParseTime("yesterday"); !got.IsZero() {
		t.Fatalf("want zero time, got %v", got)
	}
	if UnixMilli(time.Time{}) != nil {
		t.Fatalf("zero time should encode as nil")
	}
}

func TestFromEntriesAndCounts(t *testing.T) {
	lines := FromEntries([]Entry{
		{Time: "2020-01-01T00:00:00Z", Log: "[INFO] start"},
		{Time: "2020-01-01T00:00:01Z", Log: "[ERROR] one"},
		{Time: "2020-01-01T00:00:02Z", Log: "WARNING two"},
		{Time: "2020-01-01T00:00:03Z", Log: "[ERROR] three"},
	})
	if len(lines) != 4 {
		t.Fatalf("len = %d", len(lines))
	}
	if lines[1].Message != "[ERROR] one" || lines[1].Severity != SeverityError {
		t.Fatalf("line 1 = %+v", lines[1])
	}
	c := Counts(lines)
	if c[SeverityError] != 2 || c[SeverityWarning] != 1 || c[SeverityOther] != 1 {
		t.Fatalf("counts = %v", c)
	}
}

func TestSafeUnescape(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"plain text":                           "plain text",
		"a &amp;&amp; b":                       "a && b",
		"Map<K, V> has no method":              "Map<K, V> has no method",
		"List<String> cannot be converted":     "List<String> cannot be converted",
		"x <b>bold</b> y":                      "x bold y",
		"<img src=x onerror=alert(1)>tail":     "tail",
		"keep<!-- hidden -->this":              "keepthis",
		"<style>p{}</style>visible":            "visible",
		"a < b and c > d":                      "a < b and c > d",
		"tab\tstays\x00\x07 ctl gone":          "tab\tstays ctl gone",
		"&lt;script&gt;literal&lt;/script&gt;": "<script>literal</script>",

		// capitalised type names are never markup, even when they spell an element
		"incompatible types: List<Object> cannot be converted to List<String>": "incompatible types: List<Object> cannot be converted to List<String>",
		"incompatible types: Set<Time> cannot be converted to Set<Date>":       "incompatible types: Set<Time> cannot be converted to Set<Date>",
		"Map<Table, Data> x":                   "Map<Table, Data> x",
		"Optional<Style> then <b>b</b> end":    "Optional<Style> then b end",
		"Box<Template> and </Template> closed": "Box<Template> and </Template> closed",

		// unfinished or unclosed input keeps its text
		"first type: x<a":              "first type: x<a",
		"a <style>unclosed rest":       "a unclosed rest",
		"<object>one <i>two</i> three": "one two three",
	}
	for in, want := range cases {
		if got := SafeUnescape(in); got != want {
			t.Fatalf("SafeUnescape(%q) = %q, want %q", in, got, want)
		}
	}
}
