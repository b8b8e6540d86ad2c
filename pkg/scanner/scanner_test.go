package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	name string
	text string
}

func collect(src string, names ...string) (Result, []capture) {
	var got []capture
	res := NewBraceScanner().Scan(src, names, func(name, text string) string {
		got = append(got, capture{name, text})
		return text
	})
	return res, got
}

func TestScanCapturesFunction(t *testing.T) {
	src := "#include <x.h>\n\nint Init() {\n    return 0;\n}\n\nint Other() {\n    return 2;\n}\n"
	res, got := collect(src, "Init")

	require.Len(t, got, 1)
	assert.Equal(t, "Init", got[0].name)
	assert.Equal(t, "int Init() {\n    return 0;\n}\n", got[0].text)
	assert.Equal(t, src, res.Text)
	assert.Equal(t, 1, res.Captured)
	assert.Empty(t, res.Unterminated)
}

func TestScanBraceOnNextLine(t *testing.T) {
	src := "void Init(void)\n{\n    if (x) {\n        y();\n    }\n}\ntail\n"
	_, got := collect(src, "Init")

	require.Len(t, got, 1)
	assert.Equal(t, "void Init(void)\n{\n    if (x) {\n        y();\n    }\n}\n", got[0].text)
}

func TestScanMultiLineHeader(t *testing.T) {
	src := "static int Init(int a, // first\n" +
		"                int b)\n" +
		"{\n" +
		"    return a + b;\n" +
		"}\n" +
		"int after;\n"
	res, got := collect(src, "Init")

	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0].text, "static int Init(int a,"))
	assert.True(t, strings.HasSuffix(got[0].text, "return a + b;\n}\n"))
	assert.Equal(t, src, res.Text)
}

func TestScanMultiLineHeaderWithBrace(t *testing.T) {
	src := "int Init(int a,\n         int b) {\n    return 0;\n}\nrest\n"
	_, got := collect(src, "Init")

	require.Len(t, got, 1)
	assert.Equal(t, "int Init(int a,\n         int b) {\n    return 0;\n}\n", got[0].text)
}

func TestScanMultiLinePrototypeWaitsForBrace(t *testing.T) {
	src := "int Init(int a,\n         int b);\nint x;\nint Other() {\n    return 2;\n}\ntail\n"
	res, got := collect(src, "Init", "Other")

	// The prototype is not told apart from a definition: the capture runs
	// to the end of the next body.
	require.Len(t, got, 1)
	assert.Equal(t, "Init", got[0].name)
	assert.Equal(t, "int Init(int a,\n         int b);\nint x;\nint Other() {\n    return 2;\n}\n", got[0].text)
	assert.Equal(t, src, res.Text)
	assert.Empty(t, res.Unterminated)
}

func TestScanMultiLinePrototypeAtEndIsFlushed(t *testing.T) {
	src := "int Init(int a,\n         int b);\nint x;\n"
	res, got := collect(src, "Init")

	assert.Empty(t, got)
	assert.Equal(t, "Init", res.Unterminated)
	assert.Equal(t, src, res.Text)
}

func TestScanPrototypeIgnored(t *testing.T) {
	src := "int Init();\n\nint Init() {\n    return 0;\n}\n"
	_, got := collect(src, "Init")

	require.Len(t, got, 1)
	assert.Equal(t, "int Init() {\n    return 0;\n}\n", got[0].text)
}

func TestScanOneLineFunction(t *testing.T) {
	src := "int Init() { return 0; }\nint next;\n"
	_, got := collect(src, "Init")

	// The complete-header pattern does not allow a body after "{".
	assert.Empty(t, got)
}

func TestScanEmptyBodyOnHeaderLine(t *testing.T) {
	// "{}" after the parameter list makes this a partial header, so its
	// braces are ignored and the capture waits for a later "{".
	src := "void Init() {}\nvoid Foo()\n    x;\n}\n"
	res, got := collect(src, "Init", "Foo")

	assert.Empty(t, got)
	assert.Equal(t, "Init", res.Unterminated)
	assert.Equal(t, src, res.Text)
	assert.Equal(t, 0, res.Captured)
}

func TestScanEmptyBodyOnHeaderLineSwallowsNextFunction(t *testing.T) {
	src := "void Init() {}\nint y;\nvoid Foo() {\n    x;\n}\ntail\n"
	res, got := collect(src, "Init", "Foo")

	require.Len(t, got, 1)
	assert.Equal(t, "Init", got[0].name)
	assert.Equal(t, "void Init() {}\nint y;\nvoid Foo() {\n    x;\n}\n", got[0].text)
	assert.Equal(t, src, res.Text)
}

func TestScanPartialHeaderBraceOnClosingLine(t *testing.T) {
	src := "void Init() {}\nvoid Foo() {\n    x;\n}\n"
	res, got := collect(src, "Init", "Foo")

	// The line that settles the parameter list opens the body when it
	// carries a "{".
	require.Len(t, got, 1)
	assert.Equal(t, "Init", got[0].name)
	assert.Equal(t, src, got[0].text)
	assert.Empty(t, res.Unterminated)
}

func TestScanUnterminatedIsFlushed(t *testing.T) {
	src := "before\nint Init() {\n    if (x) {\n        return 0;\n"
	res, got := collect(src, "Init")

	assert.Empty(t, got)
	assert.Equal(t, "Init", res.Unterminated)
	assert.Equal(t, src, res.Text)
	assert.Equal(t, 0, res.Captured)
}

func TestScanReplacesCapture(t *testing.T) {
	src := "a\nint Init() {\n    return 0;\n}\nb\nvoid Foo()\n{\n}\n"
	res := BraceScanner{}.Scan(src, []string{"Init", "Foo"}, func(name, text string) string {
		return "<" + name + ">\n"
	})

	assert.Equal(t, "a\n<Init>\nb\n<Foo>\n", res.Text)
	assert.Equal(t, 2, res.Captured)
}

func TestScanBracesInStringsAreCounted(t *testing.T) {
	// A brace inside a string literal closes the capture early.
	src := "int Init() {\n    puts(\"}\");\n    return 0;\n}\nint next;\n"
	_, got := collect(src, "Init")

	require.Len(t, got, 1)
	assert.Equal(t, "int Init() {\n    puts(\"}\");\n", got[0].text)
}

func TestScanCRLF(t *testing.T) {
	src := "int Init()\r\n{\r\n    return 0;\r\n}\r\nx\r\n"
	res, got := collect(src, "Init")

	require.Len(t, got, 1)
	assert.Equal(t, "int Init()\r\n{\r\n    return 0;\r\n}\r\n", got[0].text)
	assert.Equal(t, src, res.Text)
}

func TestScanNoNames(t *testing.T) {
	src := "int Init() {\n}\n"
	res, got := collect(src)
	assert.Empty(t, got)
	assert.Equal(t, src, res.Text)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a\n", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a\n", "\n"}, SplitLines("a\n\n"))
	assert.Equal(t, []string{"a\r\n"}, SplitLines("a\r\n"))
}
