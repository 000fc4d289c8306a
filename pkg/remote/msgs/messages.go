package msgs

import (
	"github.com/golang/protobuf/proto"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// Key executes a single-key command, exactly as typed on the serial console.
type Key struct {
	Key string `protobuf:"bytes,1,opt,name=key,proto3" json:"key,omitempty"`
}

// NewMessage implements Message.
func (m *Key) NewMessage() Message { return &Key{} }

// TypeID implements SerializableMessage.
func (m *Key) TypeID() uint32 { return KeyTypeID }

// Serializable implements SerializableMessage.
func (m *Key) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Key) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Key) Reset() { *m = Key{} }

// String implements proto.Message.
func (m *Key) String() string { return proto.CompactTextString(m) }

// Baud changes the symbol rate by one step.
type Baud struct {
	Increase bool `protobuf:"varint,1,opt,name=increase,proto3" json:"increase,omitempty"`
}

// NewMessage implements Message.
func (m *Baud) NewMessage() Message { return &Baud{} }

// TypeID implements SerializableMessage.
func (m *Baud) TypeID() uint32 { return BaudTypeID }

// Serializable implements SerializableMessage.
func (m *Baud) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Baud) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Baud) Reset() { *m = Baud{} }

// String implements proto.Message.
func (m *Baud) String() string { return proto.CompactTextString(m) }

// Toggle toggles the carrier of a channel.
type Toggle struct {
	Channel int32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *Toggle) NewMessage() Message { return &Toggle{} }

// TypeID implements SerializableMessage.
func (m *Toggle) TypeID() uint32 { return ToggleTypeID }

// Serializable implements SerializableMessage.
func (m *Toggle) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Toggle) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Toggle) Reset() { *m = Toggle{} }

// String implements proto.Message.
func (m *Toggle) String() string { return proto.CompactTextString(m) }

// StatusQuery queries the transmitter state, replied with a Result.
type StatusQuery struct {
}

// NewMessage implements Message.
func (m *StatusQuery) NewMessage() Message { return &StatusQuery{} }

// TypeID implements SerializableMessage.
func (m *StatusQuery) TypeID() uint32 { return StatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *StatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *StatusQuery) Reset() { *m = StatusQuery{} }

// String implements proto.Message.
func (m *StatusQuery) String() string { return proto.CompactTextString(m) }

// Result replies Key, Baud, Toggle and StatusQuery.
type Result struct {
	Text    string `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
	Frames  uint32 `protobuf:"varint,2,opt,name=frames,proto3" json:"frames,omitempty"`
	Bps     uint32 `protobuf:"varint,3,opt,name=bps,proto3" json:"bps,omitempty"`
	Enabled uint32 `protobuf:"varint,4,opt,name=enabled,proto3" json:"enabled,omitempty"`
	Reset_  bool   `protobuf:"varint,5,opt,name=reset,proto3" json:"reset,omitempty"`
}

// NewMessage implements Message.
func (m *Result) NewMessage() Message { return &Result{} }

// TypeID implements SerializableMessage.
func (m *Result) TypeID() uint32 { return ResultTypeID }

// Serializable implements SerializableMessage.
func (m *Result) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Result) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Result) Reset() { *m = Result{} }

// String implements proto.Message.
func (m *Result) String() string { return proto.CompactTextString(m) }

// Status is the event published periodically.
type Status struct {
	Frames  uint32 `protobuf:"varint,1,opt,name=frames,proto3" json:"frames,omitempty"`
	Bps     uint32 `protobuf:"varint,2,opt,name=bps,proto3" json:"bps,omitempty"`
	Enabled uint32 `protobuf:"varint,3,opt,name=enabled,proto3" json:"enabled,omitempty"`
	Version string `protobuf:"bytes,4,opt,name=version,proto3" json:"version,omitempty"`
}

// NewMessage implements Message.
func (m *Status) NewMessage() Message { return &Status{} }

// TypeID implements SerializableMessage.
func (m *Status) TypeID() uint32 { return StatusTypeID }

// Serializable implements SerializableMessage.
func (m *Status) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand  uint32 = 0x00000000
	GroupTransmit uint32 = 0x00010000
)

// TypeIDs
const (
	CommandOKTypeID   uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID  uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	KeyTypeID         uint32 = GroupTransmit | 0x0000
	BaudTypeID        uint32 = GroupTransmit | 0x0001
	ToggleTypeID      uint32 = GroupTransmit | 0x0002
	StatusQueryTypeID uint32 = GroupTransmit | 0x0003
	ResultTypeID      uint32 = GroupTransmit | TypeIDMaskReply | 0x0000
	StatusTypeID      uint32 = GroupTransmit | TypeIDKindEvent | 0x0000
)
