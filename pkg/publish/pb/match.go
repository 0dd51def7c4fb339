// Package pb contains the wire messages published for matched frames.
// The types mirror match.proto.
package pb

import (
	"time"

	"github.com/golang/protobuf/proto"
)

// Field is a named scalar decoded from a frame.
type Field struct {
	Name  string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Value []byte `protobuf:"bytes,2,opt,name=value,proto3" json:"value,omitempty"`
}

// Reset implements proto.Message.
func (m *Field) Reset() { *m = Field{} }

// String implements proto.Message.
func (m *Field) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Field) ProtoMessage() {}

// Match is one frame recognized on a byte stream.
type Match struct {
	Device    string   `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Source    string   `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
	Format    string   `protobuf:"bytes,3,opt,name=format,proto3" json:"format,omitempty"`
	Branch    int32    `protobuf:"varint,4,opt,name=branch,proto3" json:"branch,omitempty"`
	Fields    []*Field `protobuf:"bytes,5,rep,name=fields,proto3" json:"fields,omitempty"`
	Chunks    [][]byte `protobuf:"bytes,6,rep,name=chunks,proto3" json:"chunks,omitempty"`
	Rejected  int32    `protobuf:"varint,7,opt,name=rejected,proto3" json:"rejected,omitempty"`
	Timestamp int64    `protobuf:"varint,8,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// Reset implements proto.Message.
func (m *Match) Reset() { *m = Match{} }

// String implements proto.Message.
func (m *Match) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Match) ProtoMessage() {}

// Time returns the timestamp as time.Time.
func (m *Match) Time() time.Time {
	return time.Unix(0, m.Timestamp)
}

// Field returns the value of a named field.
func (m *Match) Field(name string) ([]byte, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Encode serializes a Match.
func Encode(m *Match) ([]byte, error) {
	return proto.Marshal(m)
}

// Decode parses a Match.
func Decode(data []byte) (*Match, error) {
	m := &Match{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
