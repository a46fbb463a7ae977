package test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"

	"github.com/esmlink/esmlink/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%v != %v", observed, expected)
	}
}

// Like AssertEqual but compares deeply and prints a line diff on failure.
// Lines prefixed with "-" are observed and lines prefixed with "+" are
// expected.
func AssertEqualWithDiff(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if !reflect.DeepEqual(observed, expected) {
		t.Fatal("\n" + diff.Diff(asLines(observed), asLines(expected)))
	}
}

func asLines(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:          0,
		KeyPath:        logger.Path{Text: "<stdin>"},
		PrettyPath:     "<stdin>",
		Contents:       contents,
		IdentifierName: "stdin",
	}
}

// Renders log messages the way the command line would, without colours.
func MsgsToString(msgs []logger.Msg) string {
	sb := strings.Builder{}
	for _, msg := range msgs {
		sb.WriteString(msg.String(logger.StderrOptions{}, logger.TerminalInfo{}))
	}
	return sb.String()
}
