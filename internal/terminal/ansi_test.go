package terminal

import "testing"

func TestFindIncompleteEscapeSequenceComplete(t *testing.T) {
	cases := [][]byte{
		[]byte("hello world"),
		[]byte("\x1b[31mred\x1b[0m"),
		[]byte("\x1b]0;title\x07"),
		[]byte("\x1b]0;title\x1b\\"),
		[]byte("\x1bPsome dcs\x1b\\"),
		[]byte("\xe4\xbd\xa0\xe5\xa5\xbd"), // complete UTF-8 (你好)
	}
	for _, data := range cases {
		if idx := findIncompleteEscapeSequence(data); idx != -1 {
			t.Errorf("expected complete, got split at %d for %q", idx, data)
		}
	}
}

func TestFindIncompleteEscapeSequenceIncompleteCSI(t *testing.T) {
	data := []byte("hello\x1b[31")
	idx := findIncompleteEscapeSequence(data)
	if idx != 5 {
		t.Fatalf("expected split at 5, got %d", idx)
	}
}

func TestFindIncompleteEscapeSequenceIncompleteOSC(t *testing.T) {
	data := []byte("hello\x1b]0;untermin")
	idx := findIncompleteEscapeSequence(data)
	if idx != 5 {
		t.Fatalf("expected split at 5, got %d", idx)
	}
}

func TestFindIncompleteEscapeSequenceLoneEsc(t *testing.T) {
	data := []byte("hello\x1b")
	idx := findIncompleteEscapeSequence(data)
	if idx != 5 {
		t.Fatalf("expected split at 5, got %d", idx)
	}
}

func TestFindIncompleteEscapeSequenceUTF8(t *testing.T) {
	// Leading byte of a 2-byte sequence ("é" = 0xC3 0xA9) with the
	// continuation byte not yet arrived.
	data := append([]byte("hello"), 0xc3)
	idx := findIncompleteEscapeSequence(data)
	if idx != 5 {
		t.Fatalf("expected split at 5, got %d", idx)
	}

	// Leading byte of a 3-byte sequence with one continuation byte present.
	data3 := append([]byte("hello"), 0xe4, 0xbd)
	idx3 := findIncompleteEscapeSequence(data3)
	if idx3 != 5 {
		t.Fatalf("expected split at 5, got %d", idx3)
	}

	// Leading byte of a 4-byte sequence with two continuation bytes present.
	data4 := append([]byte("hello"), 0xf0, 0x9f, 0x98)
	idx4 := findIncompleteEscapeSequence(data4)
	if idx4 != 5 {
		t.Fatalf("expected split at 5, got %d", idx4)
	}
}

func TestFindIncompleteEscapeSequenceEmpty(t *testing.T) {
	if idx := findIncompleteEscapeSequence(nil); idx != -1 {
		t.Fatalf("expected -1 for empty input, got %d", idx)
	}
}
