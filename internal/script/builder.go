package script

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

// Builder assembles VM scripts. Emit errors are sticky and reported by Bytes.
type Builder struct {
	w *codec.BinWriter
}

func NewBuilder() *Builder {
	return &Builder{w: codec.NewBinWriter()}
}

func (b *Builder) EmitOpcode(ops ...Opcode) *Builder {
	for _, op := range ops {
		b.w.WriteU8(byte(op))
	}
	return b
}

func (b *Builder) EmitPushInt64(n int64) *Builder {
	return b.EmitPushInt(big.NewInt(n))
}

// EmitPushInt uses the shortest instruction able to hold n.
func (b *Builder) EmitPushInt(n *big.Int) *Builder {
	if n.IsInt64() {
		v := n.Int64()
		if v == -1 {
			return b.EmitOpcode(PUSHM1)
		}
		if v >= 0 && v <= 16 {
			return b.EmitOpcode(PUSH0 + Opcode(v))
		}
	}

	data := types.IntToBytes(n)
	var (
		op   Opcode
		size int
	)
	switch {
	case len(data) <= 1:
		op, size = PUSHINT8, 1
	case len(data) <= 2:
		op, size = PUSHINT16, 2
	case len(data) <= 4:
		op, size = PUSHINT32, 4
	case len(data) <= 8:
		op, size = PUSHINT64, 8
	case len(data) <= 16:
		op, size = PUSHINT128, 16
	case len(data) <= 32:
		op, size = PUSHINT256, 32
	default:
		b.w.SetErr(fmt.Errorf("integer %s does not fit in 256 bits", n))
		return b
	}

	pad := byte(0)
	if n.Sign() < 0 {
		pad = 0xff
	}
	padded := make([]byte, size)
	copy(padded, data)
	for i := len(data); i < size; i++ {
		padded[i] = pad
	}

	b.EmitOpcode(op)
	b.w.WriteBytes(padded)
	return b
}

func (b *Builder) EmitPushBool(v bool) *Builder {
	if v {
		return b.EmitOpcode(PUSHT)
	}
	return b.EmitOpcode(PUSHF)
}

func (b *Builder) EmitPushNull() *Builder {
	return b.EmitOpcode(PUSHNULL)
}

// EmitPushData pushes data with the smallest PUSHDATA variant.
func (b *Builder) EmitPushData(data []byte) *Builder {
	switch n := len(data); {
	case n < 0x100:
		b.EmitOpcode(PUSHDATA1)
		b.w.WriteU8(uint8(n))
	case n < 0x10000:
		b.EmitOpcode(PUSHDATA2)
		b.w.WriteU16LE(uint16(n))
	default:
		b.EmitOpcode(PUSHDATA4)
		b.w.WriteU32LE(uint32(n))
	}
	b.w.WriteBytes(data)
	return b
}

func (b *Builder) EmitPushString(s string) *Builder {
	return b.EmitPushData([]byte(s))
}

func (b *Builder) EmitPushHash160(h types.Uint160) *Builder {
	return b.EmitPushData(h.BytesLE())
}

// EmitPushParam pushes a contract parameter, packing arrays and maps.
func (b *Builder) EmitPushParam(p types.ContractParameter) *Builder {
	switch p.Type {
	case types.AnyType:
		return b.EmitPushNull()
	case types.BoolType:
		v, ok := p.Value.(bool)
		if !ok {
			return b.paramErr(p)
		}
		return b.EmitPushBool(v)
	case types.IntegerType:
		v, ok := p.Value.(*big.Int)
		if !ok {
			return b.paramErr(p)
		}
		return b.EmitPushInt(v)
	case types.ByteArrayType, types.SignatureType:
		v, ok := p.Value.([]byte)
		if !ok {
			return b.paramErr(p)
		}
		return b.EmitPushData(v)
	case types.StringType:
		v, ok := p.Value.(string)
		if !ok {
			return b.paramErr(p)
		}
		return b.EmitPushString(v)
	case types.Hash160Type:
		v, ok := p.Value.(types.Uint160)
		if !ok {
			return b.paramErr(p)
		}
		return b.EmitPushHash160(v)
	case types.Hash256Type:
		v, ok := p.Value.(types.Uint256)
		if !ok {
			return b.paramErr(p)
		}
		return b.EmitPushData(v.BytesLE())
	case types.PublicKeyType:
		v, ok := p.Value.(*crypto.PublicKey)
		if !ok {
			return b.paramErr(p)
		}
		return b.EmitPushData(v.Bytes())
	case types.ArrayType:
		v, ok := p.Value.([]types.ContractParameter)
		if !ok {
			return b.paramErr(p)
		}
		return b.EmitPushArray(v)
	case types.MapType:
		v, ok := p.Value.([]types.ParameterPair)
		if !ok {
			return b.paramErr(p)
		}
		for i := len(v) - 1; i >= 0; i-- {
			b.EmitPushParam(v[i].Value)
			b.EmitPushParam(v[i].Key)
		}
		b.EmitPushInt64(int64(len(v)))
		return b.EmitOpcode(PACKMAP)
	}
	b.w.SetErr(fmt.Errorf("unsupported parameter type %q", p.Type))
	return b
}

// EmitPushArray pushes items as a packed array.
func (b *Builder) EmitPushArray(items []types.ContractParameter) *Builder {
	if len(items) == 0 {
		return b.EmitOpcode(NEWARRAY0)
	}
	for i := len(items) - 1; i >= 0; i-- {
		b.EmitPushParam(items[i])
	}
	b.EmitPushInt64(int64(len(items)))
	return b.EmitOpcode(PACK)
}

func (b *Builder) EmitSyscall(name string) *Builder {
	b.EmitOpcode(SYSCALL)
	b.w.WriteBytes(interopBytes(name))
	return b
}

// EmitContractCall emits a dynamic call of method on the contract with the given hash.
func (b *Builder) EmitContractCall(hash types.Uint160, method string, flags CallFlags, params ...types.ContractParameter) *Builder {
	b.EmitPushArray(params)
	b.EmitPushInt64(int64(flags))
	b.EmitPushString(method)
	b.EmitPushHash160(hash)
	return b.EmitSyscall(SystemContractCall)
}

// EmitRaw appends an already assembled script.
func (b *Builder) EmitRaw(script []byte) *Builder {
	b.w.WriteBytes(script)
	return b
}

func (b *Builder) paramErr(p types.ContractParameter) *Builder {
	b.w.SetErr(fmt.Errorf("%s parameter holds %T", p.Type, p.Value))
	return b
}

func (b *Builder) Len() int {
	return b.w.Len()
}

func (b *Builder) Bytes() ([]byte, error) {
	if b.w.Err != nil {
		return nil, b.w.Err
	}
	return slices.Clip(b.w.Bytes()), nil
}
