package logger_test

import (
	"testing"

	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/test"
)

func TestMsgIDs(t *testing.T) {
	for id := logger.MsgID_None + 1; id < logger.MsgID_END; id++ {
		str := logger.MsgIDToString(id)
		if str == "" {
			t.Fatalf("Missing name for message id %d", id)
		}
		back, ok := logger.StringToMsgID(str)
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, back, id)
	}
}

func TestMsgStringWithSource(t *testing.T) {
	source := logger.Source{PrettyPath: "file.js", Contents: "let x = 1;\nfoo(bar)\n"}
	log := logger.NewDeferLog()
	log.AddRangeError(&source, logger.Range{Loc: logger.Loc{Start: 15}, Len: 3}, "Could not find bar")
	msgs := log.Done()

	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqualWithDiff(t,
		msgs[0].String(logger.StderrOptions{IncludeSource: true}, logger.TerminalInfo{}),
		"file.js:2:4: error: Could not find bar\nfoo(bar)\n    ~~~\n")
	test.AssertEqual(t,
		msgs[0].String(logger.StderrOptions{}, logger.TerminalInfo{}),
		"file.js: error: Could not find bar\n")
}

func TestMsgStringWithoutLocation(t *testing.T) {
	msg := logger.Msg{Kind: logger.Warning, Text: "Something odd"}
	test.AssertEqual(t, msg.String(logger.StderrOptions{}, logger.TerminalInfo{}), "warning: Something odd\n")
}

func TestDeferLogSortsByLocation(t *testing.T) {
	a := logger.Source{PrettyPath: "a.js", Contents: "x\ny\n"}
	b := logger.Source{PrettyPath: "b.js", Contents: "z\n"}
	log := logger.NewDeferLog()
	log.AddError(&b, logger.Loc{Start: 0}, "third")
	log.AddError(&a, logger.Loc{Start: 2}, "second")
	log.AddError(&a, logger.Loc{Start: 0}, "first")
	log.AddMsg(logger.Msg{Kind: logger.Warning, Text: "no location"})

	var texts []string
	for _, msg := range log.Done() {
		texts = append(texts, msg.Text)
	}
	test.AssertEqualWithDiff(t, texts, []string{"no location", "first", "second", "third"})
	test.AssertEqual(t, log.HasErrors(), true)
}
