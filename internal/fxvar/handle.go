// Package fxvar implements FilterX's variable layer: a process-wide
// name-to-handle directory and the per-context scoped variable table
// that holds the live FilterXVariable slots for one evaluation.
package fxvar

// Handle is a compact integer identifier for a variable name. Bit 31
// (the MSB) distinguishes floating/local scope (1) from message-tied
// scope (0), matching spec.md section 3. Message-tied handles carry
// the underlying message store field identifier in their low 31 bits.
type Handle uint32

const floatingBit Handle = 1 << 31

func (h Handle) IsFloating() bool { return h&floatingBit != 0 }
func (h Handle) IsMessageTied() bool { return h&floatingBit == 0 }

// FieldID extracts the message store field identifier from a
// message-tied handle. Calling it on a floating handle is a caller
// error; FilterX never needs a field id for a local variable.
func (h Handle) FieldID() uint32 { return uint32(h &^ floatingBit) }

func messageTiedHandle(fieldID uint32) Handle {
	return Handle(fieldID) &^ floatingBit
}

func floatingHandle(localIndex uint32) Handle {
	return Handle(localIndex) | floatingBit
}
