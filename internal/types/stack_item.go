package types

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Stack item type names as reported by the node.
const (
	AnyItem              = "Any"
	PointerItem          = "Pointer"
	BooleanItem          = "Boolean"
	IntegerItem          = "Integer"
	ByteStringItem       = "ByteString"
	BufferItem           = "Buffer"
	ArrayItem            = "Array"
	StructItem           = "Struct"
	MapItem              = "Map"
	InteropInterfaceItem = "InteropInterface"
)

var ErrWrongItemType = errors.New("unexpected stack item type")

// StackItem is a VM stack item as returned by invocation RPC methods.
type StackItem struct {
	Type  string
	Value json.RawMessage
}

type MapEntry struct {
	Key   StackItem `json:"key"`
	Value StackItem `json:"value"`
}

type rawStackItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

func (s StackItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawStackItem(s))
}

func (s *StackItem) UnmarshalJSON(data []byte) error {
	var raw rawStackItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = StackItem(raw)
	return nil
}

// Int interprets the item as an integer.
func (s StackItem) Int() (*big.Int, error) {
	switch s.Type {
	case IntegerItem:
		var str string
		if err := json.Unmarshal(s.Value, &str); err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(str, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", str)
		}
		return n, nil
	case BooleanItem:
		b, err := s.Bool()
		if err != nil {
			return nil, err
		}
		if b {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case ByteStringItem, BufferItem:
		b, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		return BytesToInt(b), nil
	}
	return nil, fmt.Errorf("%w: %s is not an integer", ErrWrongItemType, s.Type)
}

// Bool interprets the item as a boolean.
func (s StackItem) Bool() (bool, error) {
	switch s.Type {
	case BooleanItem:
		var b bool
		err := json.Unmarshal(s.Value, &b)
		return b, err
	case IntegerItem:
		n, err := s.Int()
		if err != nil {
			return false, err
		}
		return n.Sign() != 0, nil
	case ByteStringItem, BufferItem:
		b, err := s.Bytes()
		if err != nil {
			return false, err
		}
		for _, c := range b {
			if c != 0 {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("%w: %s is not a boolean", ErrWrongItemType, s.Type)
}

// Bytes interprets the item as a byte string.
func (s StackItem) Bytes() ([]byte, error) {
	switch s.Type {
	case ByteStringItem, BufferItem:
		var str string
		if err := json.Unmarshal(s.Value, &str); err != nil {
			return nil, err
		}
		return base64.StdEncoding.DecodeString(str)
	case IntegerItem:
		n, err := s.Int()
		if err != nil {
			return nil, err
		}
		return IntToBytes(n), nil
	}
	return nil, fmt.Errorf("%w: %s is not a byte string", ErrWrongItemType, s.Type)
}

// Text interprets the item as a UTF-8 string.
func (s StackItem) Text() (string, error) {
	b, err := s.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Array returns the elements of an Array or Struct item.
func (s StackItem) Array() ([]StackItem, error) {
	if s.Type != ArrayItem && s.Type != StructItem {
		return nil, fmt.Errorf("%w: %s is not an array", ErrWrongItemType, s.Type)
	}
	var items []StackItem
	if err := json.Unmarshal(s.Value, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Map returns the entries of a Map item.
func (s StackItem) Map() ([]MapEntry, error) {
	if s.Type != MapItem {
		return nil, fmt.Errorf("%w: %s is not a map", ErrWrongItemType, s.Type)
	}
	var entries []MapEntry
	if err := json.Unmarshal(s.Value, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Notification is a contract event emitted during execution.
type Notification struct {
	Contract  Uint160   `json:"contract"`
	EventName string    `json:"eventname"`
	State     StackItem `json:"state"`
}

// InvocationResult is the outcome of a test invocation.
type InvocationResult struct {
	Script        string         `json:"script"`
	State         string         `json:"state"`
	GasConsumed   string         `json:"gasconsumed"`
	Exception     *string        `json:"exception"`
	Notifications []Notification `json:"notifications,omitempty"`
	Stack         []StackItem    `json:"stack"`
	Session       string         `json:"session,omitempty"`
}

func (r *InvocationResult) HasFault() bool {
	return strings.Contains(r.State, "FAULT")
}

// GasConsumedInt parses GasConsumed.
func (r *InvocationResult) GasConsumedInt() (int64, error) {
	n, ok := new(big.Int).SetString(r.GasConsumed, 10)
	if !ok || !n.IsInt64() {
		return 0, fmt.Errorf("invalid gas consumed value %q", r.GasConsumed)
	}
	return n.Int64(), nil
}

// First returns the first stack item or an error if the stack is empty or the VM faulted.
func (r *InvocationResult) First() (StackItem, error) {
	if r.HasFault() {
		exc := ""
		if r.Exception != nil {
			exc = *r.Exception
		}
		return StackItem{}, fmt.Errorf("invocation faulted: %s", exc)
	}
	if len(r.Stack) == 0 {
		return StackItem{}, errors.New("invocation returned an empty stack")
	}
	return r.Stack[0], nil
}
