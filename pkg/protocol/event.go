package protocol

// Event is a client-side interaction forwarded to the server: the node
// it happened on (wire ID), the event name without the "on" prefix, and
// an optional payload such as an input's current value.
type Event struct {
	Node  uint64
	Name  string
	Value string
}

// EncodeEvent encodes an event message.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Node)
	e.WriteString(ev.Name)
	e.WriteString(ev.Value)
	return e.Bytes()
}

// DecodeEvent decodes an event message.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)

	node, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	name, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	value, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	return &Event{Node: node, Name: name, Value: value}, nil
}
