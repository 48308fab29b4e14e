package protocol

import "fmt"

// PatchOp is the type of patch operation. Patches address nodes by the
// integer ID the wire backend assigned at creation time.
type PatchOp uint8

const (
	PatchCreateElement PatchOp = 0x01 // Create element node (ID, tag, attrs)
	PatchCreateText    PatchOp = 0x02 // Create text node (ID, text)
	PatchSetText       PatchOp = 0x03 // Update text content
	PatchSetAttr       PatchOp = 0x04 // Set/update attribute
	PatchRemoveAttr    PatchOp = 0x05 // Remove attribute
	PatchAppend        PatchOp = 0x06 // Append child to parent
	PatchInsertBefore  PatchOp = 0x07 // Insert child before ref
	PatchRemove        PatchOp = 0x08 // Remove child from parent
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchCreateElement:
		return "CreateElement"
	case PatchCreateText:
		return "CreateText"
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchAppend:
		return "Append"
	case PatchInsertBefore:
		return "InsertBefore"
	case PatchRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// Patch represents a single output-tree mutation.
type Patch struct {
	Op     PatchOp
	Node   uint64            // Target node ID
	Parent uint64            // Parent ID for Append/InsertBefore/Remove
	Ref    uint64            // Reference sibling for InsertBefore (0 = append)
	Tag    string            // Tag for CreateElement
	Key    string            // Attribute key
	Value  string            // Text or attribute value
	Attrs  map[string]string // Initial attributes for CreateElement
}

// Frame is a batch of patches with a sequence number, the unit sent per
// scheduler flush.
type Frame struct {
	Seq     uint64
	Patches []Patch
}

// EncodeFrame encodes a frame to bytes.
func EncodeFrame(f *Frame) []byte {
	e := NewEncoder()
	e.WriteUvarint(f.Seq)
	e.WriteUvarint(uint64(len(f.Patches)))

	for i := range f.Patches {
		encodePatch(e, &f.Patches[i])
	}

	return e.Bytes()
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteUvarint(p.Node)

	switch p.Op {
	case PatchCreateElement:
		e.WriteString(p.Tag)
		e.WriteUvarint(uint64(len(p.Attrs)))
		for k, v := range p.Attrs {
			e.WriteString(k)
			e.WriteString(v)
		}

	case PatchCreateText:
		e.WriteString(p.Value)

	case PatchSetText:
		e.WriteString(p.Value)

	case PatchSetAttr:
		e.WriteString(p.Key)
		e.WriteString(p.Value)

	case PatchRemoveAttr:
		e.WriteString(p.Key)

	case PatchAppend:
		e.WriteUvarint(p.Parent)

	case PatchInsertBefore:
		e.WriteUvarint(p.Parent)
		e.WriteUvarint(p.Ref)

	case PatchRemove:
		e.WriteUvarint(p.Parent)
	}
}

// DecodeFrame decodes a frame from bytes.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]Patch, count)
	for i := 0; i < count; i++ {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}

	return &Frame{Seq: seq, Patches: patches}, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(opByte)

	p.Node, err = d.ReadUvarint()
	if err != nil {
		return err
	}

	switch p.Op {
	case PatchCreateElement:
		p.Tag, err = d.ReadString()
		if err != nil {
			return err
		}
		var n int
		n, err = d.ReadCollectionCount()
		if err != nil {
			return err
		}
		if n > 0 {
			p.Attrs = make(map[string]string, n)
		}
		for i := 0; i < n; i++ {
			var k, v string
			k, err = d.ReadString()
			if err != nil {
				return err
			}
			v, err = d.ReadString()
			if err != nil {
				return err
			}
			p.Attrs[k] = v
		}

	case PatchCreateText, PatchSetText:
		p.Value, err = d.ReadString()

	case PatchSetAttr:
		p.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		p.Value, err = d.ReadString()

	case PatchRemoveAttr:
		p.Key, err = d.ReadString()

	case PatchAppend, PatchRemove:
		p.Parent, err = d.ReadUvarint()

	case PatchInsertBefore:
		p.Parent, err = d.ReadUvarint()
		if err != nil {
			return err
		}
		p.Ref, err = d.ReadUvarint()

	default:
		return fmt.Errorf("protocol: unknown patch op 0x%02x", byte(p.Op))
	}

	return err
}
