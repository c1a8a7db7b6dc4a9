package script

import "fmt"

// Opcode is a single VM instruction byte.
type Opcode byte

// Opcodes emitted or inspected by this package.
const (
	PUSHINT8   Opcode = 0x00
	PUSHINT16  Opcode = 0x01
	PUSHINT32  Opcode = 0x02
	PUSHINT64  Opcode = 0x03
	PUSHINT128 Opcode = 0x04
	PUSHINT256 Opcode = 0x05
	PUSHT      Opcode = 0x08
	PUSHF      Opcode = 0x09
	PUSHA      Opcode = 0x0A
	PUSHNULL   Opcode = 0x0B
	PUSHDATA1  Opcode = 0x0C
	PUSHDATA2  Opcode = 0x0D
	PUSHDATA4  Opcode = 0x0E
	PUSHM1     Opcode = 0x0F
	PUSH0      Opcode = 0x10
	PUSH1      Opcode = 0x11
	PUSH16     Opcode = 0x20

	NOP     Opcode = 0x21
	JMP     Opcode = 0x22
	RET     Opcode = 0x40
	SYSCALL Opcode = 0x41
	ABORT   Opcode = 0x38
	ASSERT  Opcode = 0x39
	THROW   Opcode = 0x3A

	DROP Opcode = 0x45
	SWAP Opcode = 0x50

	PACKMAP    Opcode = 0xBE
	PACKSTRUCT Opcode = 0xBF
	PACK       Opcode = 0xC0
	UNPACK     Opcode = 0xC1
	NEWARRAY0  Opcode = 0xC2
	NEWMAP     Opcode = 0xC8
)

var opcodeNames = map[Opcode]string{
	PUSHINT8: "PUSHINT8", PUSHINT16: "PUSHINT16", PUSHINT32: "PUSHINT32",
	PUSHINT64: "PUSHINT64", PUSHINT128: "PUSHINT128", PUSHINT256: "PUSHINT256",
	PUSHT: "PUSHT", PUSHF: "PUSHF", PUSHA: "PUSHA", PUSHNULL: "PUSHNULL",
	PUSHDATA1: "PUSHDATA1", PUSHDATA2: "PUSHDATA2", PUSHDATA4: "PUSHDATA4",
	PUSHM1: "PUSHM1", NOP: "NOP", JMP: "JMP", RET: "RET", SYSCALL: "SYSCALL",
	ABORT: "ABORT", ASSERT: "ASSERT", THROW: "THROW", DROP: "DROP", SWAP: "SWAP",
	PACKMAP: "PACKMAP", PACKSTRUCT: "PACKSTRUCT", PACK: "PACK", UNPACK: "UNPACK",
	NEWARRAY0: "NEWARRAY0", NEWMAP: "NEWMAP",
}

func (op Opcode) String() string {
	if op >= PUSH0 && op <= PUSH16 {
		return fmt.Sprintf("PUSH%d", int(op-PUSH0))
	}
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", byte(op))
}
