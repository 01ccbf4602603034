package buildlog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultSourceRoot is the first path segment of files that receive annotations
const DefaultSourceRoot = "src"

// KindError is the only annotation kind produced
const KindError = "error"

// Annotation is a zero based error marker for one file
type Annotation struct {
	Kind   string
	Row    int
	Column int
	Text   string
	TS     time.Time
}

// Result is the outcome of an extraction
type Result struct {
	Timestamp time.Time
	Errors    *AnnotationsByFile
}

// Extractor matches error lines for a configured source root
// safe for concurrent use
type Extractor struct {
	re  *regexp.Regexp
	now func() time.Time
}

// Option configures an Extractor
type Option func(*Extractor)

// WithSourceRoot changes the root directory error paths must start with
func WithSourceRoot(root string) Option {
	return func(x *Extractor) {
		root = strings.Trim(root, "/")
		if root == "" {
			root = DefaultSourceRoot
		}
		x.re = compile(root)
	}
}

// WithClock sets the clock used for empty input
func WithClock(now func() time.Time) Option {
	return func(x *Extractor) {
		if now != nil {
			x.now = now
		}
	}
}

// compile builds the error line pattern for root
// shape: [ERROR] .../<root>/<path>:[<row>,<col>] <text>
func compile(root string) *regexp.Regexp {
	return regexp.MustCompile(`\[(ERROR)\].*/(` + regexp.QuoteMeta(root) + `/.+):\[(\d+),(\d+)\]\s(.*$)`)
}

// New returns an Extractor with the default source root and wall clock
func New(opts ...Option) *Extractor {
	x := &Extractor{
		re:  compile(DefaultSourceRoot),
		now: time.Now,
	}
	for _, o := range opts {
		o(x)
	}
	return x
}

var std = New()

// ExtractErrors runs the default extractor over lines
func ExtractErrors(lines []LogLine) Result { return std.ExtractErrors(lines) }

// ExtractErrors groups error annotations by file
// the result timestamp is the time of the first line, or now for empty input
// lines that do not match are dropped, nothing here fails
func (x *Extractor) ExtractErrors(lines []LogLine) Result {
	errs := NewAnnotationsByFile()
	if len(lines) == 0 {
		return Result{Timestamp: x.now(), Errors: errs}
	}

	for _, l := range lines {
		file, a, ok := x.match(l)
		if !ok {
			continue
		}
		errs.Add(file, a)
	}
	return Result{Timestamp: lines[0].Timestamp, Errors: errs}
}

// match parses one line into a file path and annotation
// the [ERROR] marker may appear anywhere before the path, severity is not consulted
func (x *Extractor) match(l LogLine) (string, Annotation, bool) {
	m := x.re.FindStringSubmatch(l.Message)
	if len(m) != 6 || m[1] != "ERROR" {
		return "", Annotation{}, false
	}
	return m[2], Annotation{
		Kind:   KindError,
		Row:    coord(m[3]),
		Column: coord(m[4]),
		Text:   SafeUnescape(m[5]),
		TS:     l.Timestamp,
	}, true
}

// coord converts a one based compiler coordinate to zero based, floored at 0
func coord(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		// digits only, so this is overflow
		return 0
	}
	return max(n-1, 0)
}
