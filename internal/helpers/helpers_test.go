package helpers

import "testing"

func TestQuoteForJSON(t *testing.T) {
	expect := func(input string, asciiOnly bool, expected string) {
		t.Helper()
		if actual := string(QuoteForJSON(input, asciiOnly)); actual != expected {
			t.Fatalf("%q: expected %s, got %s", input, expected, actual)
		}
	}

	expect("", false, `""`)
	expect("abc", false, `"abc"`)
	expect("a\"b\\c", false, `"a\"b\\c"`)
	expect("\n\t\x00", false, `"\n\t\u0000"`)
	expect("é", false, `"é"`)
	expect("é", true, `"\u00E9"`)
	expect("😀", true, `"\uD83D\uDE00"`)

	// A lone surrogate encoded as WTF-8
	expect("\xED\xA0\x80", false, `"\uD800"`)
}

func TestBitSet(t *testing.T) {
	bs := NewBitSet(10)
	bs.SetBit(3)
	bs.SetBit(9)
	for bit := uint(0); bit < 10; bit++ {
		if bs.HasBit(bit) != (bit == 3 || bit == 9) {
			t.Fatalf("Unexpected value for bit %d", bit)
		}
	}
}

func TestTypoDetector(t *testing.T) {
	detector := MakeTypoDetector([]string{"passthrough", "undefined"})
	if corrected, ok := detector.MaybeCorrectTypo("undefned"); !ok || corrected != "undefined" {
		t.Fatalf("Expected a correction, got %q", corrected)
	}
	if _, ok := detector.MaybeCorrectTypo("xyz"); ok {
		t.Fatal("Expected no correction")
	}
}
