package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

type AttributeType byte

const (
	HighPriorityType   AttributeType = 0x01
	OracleResponseType AttributeType = 0x11
	NotValidBeforeType AttributeType = 0x20
	ConflictsType      AttributeType = 0x21
)

// MaxOracleResultSize bounds the result carried by an oracle response.
const MaxOracleResultSize = 0xffff

var oracleCodes = map[byte]string{
	0x00: "Success",
	0x10: "ProtocolNotSupported",
	0x12: "ConsensusUnreachable",
	0x14: "NotFound",
	0x16: "Timeout",
	0x18: "Forbidden",
	0x1a: "ResponseTooLarge",
	0x1c: "InsufficientFunds",
	0x1f: "ContentTypeNotSupported",
	0xff: "Error",
}

func oracleCodeName(code byte) string {
	if name, ok := oracleCodes[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", code)
}

func parseOracleCode(s string) (byte, error) {
	for code, name := range oracleCodes {
		if name == s {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown oracle response code %q", s)
}

func (t AttributeType) String() string {
	switch t {
	case HighPriorityType:
		return "HighPriority"
	case OracleResponseType:
		return "OracleResponse"
	case NotValidBeforeType:
		return "NotValidBefore"
	case ConflictsType:
		return "Conflicts"
	}
	return fmt.Sprintf("0x%02x", byte(t))
}

// Attribute is a transaction attribute. Only the fields used by Type are set.
type Attribute struct {
	Type AttributeType

	// OracleResponse
	OracleID   uint64
	OracleCode byte
	Result     []byte

	// NotValidBefore
	Height uint32

	// Conflicts
	Hash types.Uint256
}

func HighPriority() Attribute {
	return Attribute{Type: HighPriorityType}
}

func NotValidBefore(height uint32) Attribute {
	return Attribute{Type: NotValidBeforeType, Height: height}
}

func Conflicts(hash types.Uint256) Attribute {
	return Attribute{Type: ConflictsType, Hash: hash}
}

func OracleResponse(id uint64, code byte, result []byte) Attribute {
	return Attribute{Type: OracleResponseType, OracleID: id, OracleCode: code, Result: result}
}

func (a *Attribute) EncodeBinary(w *codec.BinWriter) {
	w.WriteU8(byte(a.Type))
	switch a.Type {
	case HighPriorityType:
	case OracleResponseType:
		w.WriteU64LE(a.OracleID)
		w.WriteU8(a.OracleCode)
		w.WriteVarBytes(a.Result)
	case NotValidBeforeType:
		w.WriteU32LE(a.Height)
	case ConflictsType:
		w.WriteBytes(a.Hash[:])
	default:
		w.SetErr(fmt.Errorf("unknown attribute type %s", a.Type))
	}
}

func (a *Attribute) DecodeBinary(r *codec.BinReader) {
	a.Type = AttributeType(r.ReadU8())
	if r.Err != nil {
		return
	}
	switch a.Type {
	case HighPriorityType:
	case OracleResponseType:
		a.OracleID = r.ReadU64LE()
		a.OracleCode = r.ReadU8()
		a.Result = r.ReadVarBytes(MaxOracleResultSize)
	case NotValidBeforeType:
		a.Height = r.ReadU32LE()
	case ConflictsType:
		a.Hash.DecodeBinary(r)
	default:
		r.SetErr(fmt.Errorf("unknown attribute type %s", a.Type))
	}
}

type attributeJSON struct {
	Type   string         `json:"type"`
	ID     *uint64        `json:"id,omitempty"`
	Code   string         `json:"code,omitempty"`
	Result []byte         `json:"result,omitempty"`
	Height *uint32        `json:"height,omitempty"`
	Hash   *types.Uint256 `json:"hash,omitempty"`
}

func (a Attribute) MarshalJSON() ([]byte, error) {
	out := attributeJSON{Type: a.Type.String()}
	switch a.Type {
	case OracleResponseType:
		out.ID, out.Code, out.Result = &a.OracleID, oracleCodeName(a.OracleCode), a.Result
	case NotValidBeforeType:
		out.Height = &a.Height
	case ConflictsType:
		out.Hash = &a.Hash
	}
	return json.Marshal(out)
}

func (a *Attribute) UnmarshalJSON(data []byte) error {
	var raw attributeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Attribute{}
	switch raw.Type {
	case "HighPriority":
		a.Type = HighPriorityType
	case "OracleResponse":
		a.Type = OracleResponseType
		if raw.ID != nil {
			a.OracleID = *raw.ID
		}
		code, err := parseOracleCode(raw.Code)
		if err != nil {
			return err
		}
		a.OracleCode = code
		a.Result = raw.Result
	case "NotValidBefore":
		a.Type = NotValidBeforeType
		if raw.Height != nil {
			a.Height = *raw.Height
		}
	case "Conflicts":
		a.Type = ConflictsType
		if raw.Hash != nil {
			a.Hash = *raw.Hash
		}
	default:
		return fmt.Errorf("unknown attribute type %q", raw.Type)
	}
	return nil
}
