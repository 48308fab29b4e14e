package protocol

import (
	"errors"
	"io"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1}

	e := NewEncoder()
	for _, v := range values {
		e.WriteUvarint(v)
	}

	d := NewDecoder(e.Bytes())
	for _, want := range values {
		got, err := d.ReadUvarint()
		if err != nil {
			t.Fatalf("ReadUvarint: %v", err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
	if !d.EOF() {
		t.Errorf("decoder has %d trailing bytes", d.Remaining())
	}
}

func TestSvarintZigZag(t *testing.T) {
	values := []int64{0, -1, 1, -64, 63, -1 << 40, 1 << 40}

	e := NewEncoder()
	for _, v := range values {
		e.WriteSvarint(v)
	}

	d := NewDecoder(e.Bytes())
	for _, want := range values {
		got, err := d.ReadSvarint()
		if err != nil {
			t.Fatalf("ReadSvarint: %v", err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.WriteString("")
	e.WriteString("héllo, wörld")

	d := NewDecoder(e.Bytes())
	if s, err := d.ReadString(); err != nil || s != "" {
		t.Errorf("empty string: %q, %v", s, err)
	}
	if s, err := d.ReadString(); err != nil || s != "héllo, wörld" {
		t.Errorf("utf8 string: %q, %v", s, err)
	}
}

func TestDecoderTruncatedInput(t *testing.T) {
	e := NewEncoder()
	e.WriteString("hello")
	data := e.Bytes()

	d := NewDecoder(data[:3])
	if _, err := d.ReadString(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestDecoderVarintOverflow(t *testing.T) {
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	d := NewDecoder(data)
	if _, err := d.ReadUvarint(); !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("err = %v, want ErrVarintOverflow", err)
	}
}

func TestCollectionCountGuards(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(MaxCollectionCount + 1)
	d := NewDecoder(e.Bytes())
	if _, err := d.ReadCollectionCount(); !errors.Is(err, ErrCollectionTooLarge) {
		t.Errorf("err = %v, want ErrCollectionTooLarge", err)
	}

	// A large count that passes the cap must still fit in the buffer.
	e = NewEncoder()
	e.WriteUvarint(50_000)
	d = NewDecoder(e.Bytes())
	if _, err := d.ReadCollectionCount(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := &Frame{
		Seq: 7,
		Patches: []Patch{
			{Op: PatchCreateElement, Node: 1, Tag: "div", Attrs: map[string]string{"class": "a"}},
			{Op: PatchCreateText, Node: 2, Value: "hello"},
			{Op: PatchAppend, Node: 2, Parent: 1},
			{Op: PatchSetAttr, Node: 1, Key: "class", Value: "b"},
			{Op: PatchRemoveAttr, Node: 1, Key: "class"},
			{Op: PatchInsertBefore, Node: 2, Parent: 1, Ref: 3},
			{Op: PatchSetText, Node: 2, Value: "bye"},
			{Op: PatchRemove, Node: 2, Parent: 1},
		},
	}

	got, err := DecodeFrame(EncodeFrame(f))
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	if got.Seq != f.Seq {
		t.Errorf("Seq = %d, want %d", got.Seq, f.Seq)
	}
	if len(got.Patches) != len(f.Patches) {
		t.Fatalf("patches = %d, want %d", len(got.Patches), len(f.Patches))
	}
	for i, p := range got.Patches {
		want := f.Patches[i]
		if p.Op != want.Op || p.Node != want.Node || p.Parent != want.Parent ||
			p.Ref != want.Ref || p.Tag != want.Tag || p.Key != want.Key ||
			p.Value != want.Value {
			t.Errorf("patch %d = %+v, want %+v", i, p, want)
		}
	}
	if got.Patches[0].Attrs["class"] != "a" {
		t.Errorf("attrs = %v", got.Patches[0].Attrs)
	}
}

func TestDecodeFrameUnknownOp(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1) // seq
	e.WriteUvarint(1) // count
	e.WriteByte(0x7F) // bogus op
	e.WriteUvarint(5) // node

	if _, err := DecodeFrame(e.Bytes()); err == nil {
		t.Error("unknown op decoded without error")
	}
}

func TestEventRoundTrip(t *testing.T) {
	ev := &Event{Node: 42, Name: "click", Value: "x"}
	got, err := DecodeEvent(EncodeEvent(ev))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if got.Node != 42 || got.Name != "click" || got.Value != "x" {
		t.Errorf("event = %+v", got)
	}
}
