package types

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/epicchainlabs/epicchain-go/internal/crypto"
)

// ParamType names a contract parameter type as used by the RPC interface.
type ParamType string

const (
	AnyType       ParamType = "Any"
	BoolType      ParamType = "Boolean"
	IntegerType   ParamType = "Integer"
	ByteArrayType ParamType = "ByteArray"
	StringType    ParamType = "String"
	Hash160Type   ParamType = "Hash160"
	Hash256Type   ParamType = "Hash256"
	PublicKeyType ParamType = "PublicKey"
	SignatureType ParamType = "Signature"
	ArrayType     ParamType = "Array"
	MapType       ParamType = "Map"
)

// ContractParameter is an argument to a contract method.
//
// Value holds, depending on Type: nil (Any), bool, *big.Int, []byte
// (ByteArray, Signature), string, Uint160, Uint256, *crypto.PublicKey,
// []ContractParameter (Array) or []ParameterPair (Map).
type ContractParameter struct {
	Type  ParamType
	Value any
}

type ParameterPair struct {
	Key   ContractParameter
	Value ContractParameter
}

func NewAnyParameter() ContractParameter {
	return ContractParameter{Type: AnyType}
}

func NewBoolParameter(v bool) ContractParameter {
	return ContractParameter{Type: BoolType, Value: v}
}

func NewIntegerParameter(v *big.Int) ContractParameter {
	return ContractParameter{Type: IntegerType, Value: new(big.Int).Set(v)}
}

func NewInt64Parameter(v int64) ContractParameter {
	return NewIntegerParameter(big.NewInt(v))
}

func NewByteArrayParameter(v []byte) ContractParameter {
	return ContractParameter{Type: ByteArrayType, Value: v}
}

func NewStringParameter(v string) ContractParameter {
	return ContractParameter{Type: StringType, Value: v}
}

func NewHash160Parameter(v Uint160) ContractParameter {
	return ContractParameter{Type: Hash160Type, Value: v}
}

func NewHash256Parameter(v Uint256) ContractParameter {
	return ContractParameter{Type: Hash256Type, Value: v}
}

func NewPublicKeyParameter(v *crypto.PublicKey) ContractParameter {
	return ContractParameter{Type: PublicKeyType, Value: v}
}

func NewSignatureParameter(v []byte) ContractParameter {
	return ContractParameter{Type: SignatureType, Value: v}
}

func NewArrayParameter(items ...ContractParameter) ContractParameter {
	return ContractParameter{Type: ArrayType, Value: items}
}

func NewMapParameter(pairs ...ParameterPair) ContractParameter {
	return ContractParameter{Type: MapType, Value: pairs}
}

type rawParameter struct {
	Type  ParamType       `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type rawPair struct {
	Key   ContractParameter `json:"key"`
	Value ContractParameter `json:"value"`
}

func (p ContractParameter) MarshalJSON() ([]byte, error) {
	var value any
	switch p.Type {
	case AnyType:
		value = nil
	case BoolType:
		value = p.Value
	case IntegerType:
		n, ok := p.Value.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("integer parameter holds %T", p.Value)
		}
		value = n.String()
	case ByteArrayType, SignatureType:
		b, ok := p.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("%s parameter holds %T", p.Type, p.Value)
		}
		value = base64.StdEncoding.EncodeToString(b)
	case StringType:
		value = p.Value
	case Hash160Type:
		h, ok := p.Value.(Uint160)
		if !ok {
			return nil, fmt.Errorf("hash160 parameter holds %T", p.Value)
		}
		value = "0x" + h.String()
	case Hash256Type:
		h, ok := p.Value.(Uint256)
		if !ok {
			return nil, fmt.Errorf("hash256 parameter holds %T", p.Value)
		}
		value = "0x" + h.String()
	case PublicKeyType:
		k, ok := p.Value.(*crypto.PublicKey)
		if !ok {
			return nil, fmt.Errorf("public key parameter holds %T", p.Value)
		}
		value = hex.EncodeToString(k.Bytes())
	case ArrayType:
		items, ok := p.Value.([]ContractParameter)
		if !ok && p.Value != nil {
			return nil, fmt.Errorf("array parameter holds %T", p.Value)
		}
		if items == nil {
			items = []ContractParameter{}
		}
		value = items
	case MapType:
		pairs, ok := p.Value.([]ParameterPair)
		if !ok {
			return nil, fmt.Errorf("map parameter holds %T", p.Value)
		}
		raw := make([]rawPair, len(pairs))
		for i, pair := range pairs {
			raw[i] = rawPair(pair)
		}
		value = raw
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", p.Type)
	}

	if value == nil {
		return json.Marshal(rawParameter{Type: p.Type})
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rawParameter{Type: p.Type, Value: data})
}

func (p *ContractParameter) UnmarshalJSON(data []byte) error {
	var raw rawParameter
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Type = raw.Type
	p.Value = nil

	switch raw.Type {
	case AnyType:
		return nil
	case BoolType:
		var v bool
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			return err
		}
		p.Value = v
	case IntegerType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("invalid integer %q", s)
		}
		p.Value = n
	case ByteArrayType, SignatureType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return err
		}
		p.Value = b
	case StringType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		p.Value = s
	case Hash160Type:
		var h Uint160
		if err := json.Unmarshal(raw.Value, &h); err != nil {
			return err
		}
		p.Value = h
	case Hash256Type:
		var h Uint256
		if err := json.Unmarshal(raw.Value, &h); err != nil {
			return err
		}
		p.Value = h
	case PublicKeyType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		k, err := crypto.NewPublicKeyFromHex(s)
		if err != nil {
			return err
		}
		p.Value = k
	case ArrayType:
		var items []ContractParameter
		if err := json.Unmarshal(raw.Value, &items); err != nil {
			return err
		}
		p.Value = items
	case MapType:
		var pairs []rawPair
		if err := json.Unmarshal(raw.Value, &pairs); err != nil {
			return err
		}
		out := make([]ParameterPair, len(pairs))
		for i, pair := range pairs {
			out[i] = ParameterPair(pair)
		}
		p.Value = out
	default:
		return fmt.Errorf("unsupported parameter type %q", raw.Type)
	}
	return nil
}
