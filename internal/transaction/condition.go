package transaction

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/epicchainlabs/epicchain-go/internal/codec"
	"github.com/epicchainlabs/epicchain-go/internal/crypto"
	"github.com/epicchainlabs/epicchain-go/internal/types"
)

type ConditionType byte

const (
	ConditionBoolean          ConditionType = 0x00
	ConditionNot              ConditionType = 0x01
	ConditionAnd              ConditionType = 0x02
	ConditionOr               ConditionType = 0x03
	ConditionScriptHash       ConditionType = 0x18
	ConditionGroup            ConditionType = 0x19
	ConditionCalledByEntry    ConditionType = 0x20
	ConditionCalledByContract ConditionType = 0x28
	ConditionCalledByGroup    ConditionType = 0x29
)

// MaxConditionNesting is how many composite conditions may be nested.
const MaxConditionNesting = 2

var ErrConditionTooDeep = errors.New("witness condition nested too deeply")

var conditionNames = map[ConditionType]string{
	ConditionBoolean:          "Boolean",
	ConditionNot:              "Not",
	ConditionAnd:              "And",
	ConditionOr:               "Or",
	ConditionScriptHash:       "ScriptHash",
	ConditionGroup:            "Group",
	ConditionCalledByEntry:    "CalledByEntry",
	ConditionCalledByContract: "CalledByContract",
	ConditionCalledByGroup:    "CalledByGroup",
}

func (t ConditionType) String() string {
	if name, ok := conditionNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", byte(t))
}

func parseConditionType(s string) (ConditionType, error) {
	for t, name := range conditionNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown witness condition type %q", s)
}

// WitnessCondition is a node of a witness rule expression. Only the fields
// relevant to Type are set.
type WitnessCondition struct {
	Type        ConditionType
	Value       bool
	Expressions []WitnessCondition
	Hash        types.Uint160
	Group       *crypto.PublicKey
}

func BoolCondition(v bool) WitnessCondition {
	return WitnessCondition{Type: ConditionBoolean, Value: v}
}

func NotCondition(c WitnessCondition) WitnessCondition {
	return WitnessCondition{Type: ConditionNot, Expressions: []WitnessCondition{c}}
}

func AndCondition(cs ...WitnessCondition) WitnessCondition {
	return WitnessCondition{Type: ConditionAnd, Expressions: cs}
}

func OrCondition(cs ...WitnessCondition) WitnessCondition {
	return WitnessCondition{Type: ConditionOr, Expressions: cs}
}

func ScriptHashCondition(h types.Uint160) WitnessCondition {
	return WitnessCondition{Type: ConditionScriptHash, Hash: h}
}

func GroupCondition(pub *crypto.PublicKey) WitnessCondition {
	return WitnessCondition{Type: ConditionGroup, Group: pub}
}

func CalledByEntryCondition() WitnessCondition {
	return WitnessCondition{Type: ConditionCalledByEntry}
}

func CalledByContractCondition(h types.Uint160) WitnessCondition {
	return WitnessCondition{Type: ConditionCalledByContract, Hash: h}
}

func CalledByGroupCondition(pub *crypto.PublicKey) WitnessCondition {
	return WitnessCondition{Type: ConditionCalledByGroup, Group: pub}
}

// Depth returns the number of nested composite conditions.
func (c WitnessCondition) Depth() int {
	switch c.Type {
	case ConditionNot, ConditionAnd, ConditionOr:
		d := 0
		for _, e := range c.Expressions {
			d = max(d, e.Depth())
		}
		return d + 1
	}
	return 0
}

func (c *WitnessCondition) EncodeBinary(w *codec.BinWriter) {
	w.WriteU8(byte(c.Type))
	switch c.Type {
	case ConditionBoolean:
		w.WriteBool(c.Value)
	case ConditionNot:
		if len(c.Expressions) != 1 {
			w.SetErr(errors.New("not condition needs exactly one expression"))
			return
		}
		c.Expressions[0].EncodeBinary(w)
	case ConditionAnd, ConditionOr:
		w.WriteVarUint(uint64(len(c.Expressions)))
		for i := range c.Expressions {
			c.Expressions[i].EncodeBinary(w)
		}
	case ConditionScriptHash, ConditionCalledByContract:
		w.WriteBytes(c.Hash[:])
	case ConditionGroup, ConditionCalledByGroup:
		if c.Group == nil {
			w.SetErr(fmt.Errorf("%s condition without a group key", c.Type))
			return
		}
		w.WriteBytes(c.Group.Bytes())
	case ConditionCalledByEntry:
	default:
		w.SetErr(fmt.Errorf("unknown witness condition type %s", c.Type))
	}
}

func (c *WitnessCondition) DecodeBinary(r *codec.BinReader) {
	c.decode(r, MaxConditionNesting)
}

func (c *WitnessCondition) decode(r *codec.BinReader, depth int) {
	c.Type = ConditionType(r.ReadU8())
	if r.Err != nil {
		return
	}
	switch c.Type {
	case ConditionBoolean:
		c.Value = r.ReadBool()
	case ConditionNot:
		if depth <= 0 {
			r.SetErr(ErrConditionTooDeep)
			return
		}
		var inner WitnessCondition
		inner.decode(r, depth-1)
		c.Expressions = []WitnessCondition{inner}
	case ConditionAnd, ConditionOr:
		if depth <= 0 {
			r.SetErr(ErrConditionTooDeep)
			return
		}
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n == 0 || n > MaxSubitems {
			r.SetErr(fmt.Errorf("%s condition with %d expressions", c.Type, n))
			return
		}
		c.Expressions = make([]WitnessCondition, n)
		for i := range c.Expressions {
			c.Expressions[i].decode(r, depth-1)
		}
	case ConditionScriptHash, ConditionCalledByContract:
		c.Hash.DecodeBinary(r)
	case ConditionGroup, ConditionCalledByGroup:
		b := r.ReadBytes(crypto.PublicKeySize)
		if r.Err != nil {
			return
		}
		pub, err := crypto.NewPublicKeyFromBytes(b)
		if err != nil {
			r.SetErr(err)
			return
		}
		c.Group = pub
	case ConditionCalledByEntry:
	default:
		r.SetErr(fmt.Errorf("unknown witness condition type %s", c.Type))
	}
}

type conditionJSON struct {
	Type        string            `json:"type"`
	Expression  json.RawMessage   `json:"expression,omitempty"`
	Expressions []json.RawMessage `json:"expressions,omitempty"`
	Hash        *types.Uint160    `json:"hash,omitempty"`
	Group       string            `json:"group,omitempty"`
}

func (c WitnessCondition) MarshalJSON() ([]byte, error) {
	out := conditionJSON{Type: c.Type.String()}
	switch c.Type {
	case ConditionBoolean:
		out.Expression, _ = json.Marshal(c.Value)
	case ConditionNot:
		if len(c.Expressions) != 1 {
			return nil, errors.New("not condition needs exactly one expression")
		}
		expr, err := json.Marshal(c.Expressions[0])
		if err != nil {
			return nil, err
		}
		out.Expression = expr
	case ConditionAnd, ConditionOr:
		for _, e := range c.Expressions {
			expr, err := json.Marshal(e)
			if err != nil {
				return nil, err
			}
			out.Expressions = append(out.Expressions, expr)
		}
	case ConditionScriptHash, ConditionCalledByContract:
		h := c.Hash
		out.Hash = &h
	case ConditionGroup, ConditionCalledByGroup:
		if c.Group == nil {
			return nil, fmt.Errorf("%s condition without a group key", c.Type)
		}
		out.Group = c.Group.String()
	}
	return json.Marshal(out)
}

func (c *WitnessCondition) UnmarshalJSON(data []byte) error {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := parseConditionType(raw.Type)
	if err != nil {
		return err
	}
	*c = WitnessCondition{Type: t}

	switch t {
	case ConditionBoolean:
		return json.Unmarshal(raw.Expression, &c.Value)
	case ConditionNot:
		var inner WitnessCondition
		if err := json.Unmarshal(raw.Expression, &inner); err != nil {
			return err
		}
		c.Expressions = []WitnessCondition{inner}
	case ConditionAnd, ConditionOr:
		c.Expressions = make([]WitnessCondition, len(raw.Expressions))
		for i, e := range raw.Expressions {
			if err := json.Unmarshal(e, &c.Expressions[i]); err != nil {
				return err
			}
		}
	case ConditionScriptHash, ConditionCalledByContract:
		if raw.Hash == nil {
			return fmt.Errorf("%s condition without hash", t)
		}
		c.Hash = *raw.Hash
	case ConditionGroup, ConditionCalledByGroup:
		b, err := hex.DecodeString(raw.Group)
		if err != nil {
			return err
		}
		if c.Group, err = crypto.NewPublicKeyFromBytes(b); err != nil {
			return err
		}
	}
	if c.Depth() > MaxConditionNesting {
		return ErrConditionTooDeep
	}
	return nil
}

// WitnessAction is the outcome of a matching witness rule.
type WitnessAction byte

const (
	Deny  WitnessAction = 0
	Allow WitnessAction = 1
)

func (a WitnessAction) String() string {
	switch a {
	case Deny:
		return "Deny"
	case Allow:
		return "Allow"
	}
	return fmt.Sprintf("0x%02x", byte(a))
}

// WitnessRule applies Action when Condition matches the calling context.
type WitnessRule struct {
	Action    WitnessAction
	Condition WitnessCondition
}

func (r *WitnessRule) EncodeBinary(w *codec.BinWriter) {
	w.WriteU8(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

func (r *WitnessRule) DecodeBinary(br *codec.BinReader) {
	action := WitnessAction(br.ReadU8())
	if br.Err == nil && action != Deny && action != Allow {
		br.SetErr(fmt.Errorf("invalid witness action 0x%02x", byte(action)))
		return
	}
	r.Action = action
	r.Condition.DecodeBinary(br)
}

type ruleJSON struct {
	Action    string           `json:"action"`
	Condition WitnessCondition `json:"condition"`
}

func (r WitnessRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(ruleJSON{Action: r.Action.String(), Condition: r.Condition})
}

func (r *WitnessRule) UnmarshalJSON(data []byte) error {
	var raw ruleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Action {
	case "Deny":
		r.Action = Deny
	case "Allow":
		r.Action = Allow
	default:
		return fmt.Errorf("invalid witness action %q", raw.Action)
	}
	r.Condition = raw.Condition
	return nil
}
