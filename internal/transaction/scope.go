package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WitnessScope limits where a signer's witness is valid.
type WitnessScope byte

const (
	None            WitnessScope = 0x00
	CalledByEntry   WitnessScope = 0x01
	CustomContracts WitnessScope = 0x10
	CustomGroups    WitnessScope = 0x20
	WitnessRules    WitnessScope = 0x40
	Global          WitnessScope = 0x80
)

const validScopes = CalledByEntry | CustomContracts | CustomGroups | WitnessRules | Global

var scopeNames = []struct {
	scope WitnessScope
	name  string
}{
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{WitnessRules, "WitnessRules"},
	{Global, "Global"},
}

func (s WitnessScope) Has(flag WitnessScope) bool {
	return s&flag == flag
}

func (s WitnessScope) String() string {
	if s == None {
		return "None"
	}
	var parts []string
	for _, n := range scopeNames {
		if s.Has(n.scope) {
			parts = append(parts, n.name)
		}
	}
	if rest := s &^ validScopes; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", byte(rest)))
	}
	return strings.Join(parts, ", ")
}

// ParseWitnessScope parses a comma separated list of scope names.
func ParseWitnessScope(s string) (WitnessScope, error) {
	var scope WitnessScope
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "None" {
			continue
		}
		found := false
		for _, n := range scopeNames {
			if strings.EqualFold(part, n.name) {
				scope |= n.scope
				found = true
				break
			}
		}
		if !found {
			return None, fmt.Errorf("unknown witness scope %q", part)
		}
	}
	if scope.Has(Global) && scope != Global {
		return None, ErrGlobalScopeCombined
	}
	return scope, nil
}

func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	scope, err := ParseWitnessScope(str)
	if err != nil {
		return err
	}
	*s = scope
	return nil
}
