// Package models provides domain models for the option PnL engine.
package models

import (
	"fmt"
	"strings"
)

// OptionKind represents the right carried by an option contract.
type OptionKind int

const (
	Call OptionKind = iota
	Put

	// NumOptionKinds is the size of kind-indexed lookup tables.
	NumOptionKinds
)

// OptionKinds lists every supported option kind.
var OptionKinds = [...]OptionKind{Call, Put}

var optionKindNames = [NumOptionKinds]string{
	Call: "CALL",
	Put:  "PUT",
}

// Valid reports whether k is one of the supported kinds.
func (k OptionKind) Valid() bool {
	return k >= 0 && k < NumOptionKinds
}

func (k OptionKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("OptionKind(%d)", int(k))
	}
	return optionKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k OptionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unsupported option kind %d", int(k))
	}
	return []byte(optionKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OptionKind) UnmarshalText(text []byte) error {
	parsed, ok := ParseOptionKind(string(text))
	if !ok {
		return fmt.Errorf("unsupported option kind %q", string(text))
	}
	*k = parsed
	return nil
}

// ParseOptionKind parses CALL/PUT and the exchange shorthands CE/PE.
func ParseOptionKind(s string) (OptionKind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CALL", "C", "CE":
		return Call, true
	case "PUT", "P", "PE":
		return Put, true
	}
	return -1, false
}

// PositionSide represents the direction of a position.
type PositionSide int

const (
	Long PositionSide = iota
	Short

	// NumPositionSides is the size of side-indexed lookup tables.
	NumPositionSides
)

// PositionSides lists every supported position side.
var PositionSides = [...]PositionSide{Long, Short}

var positionSideNames = [NumPositionSides]string{
	Long:  "LONG",
	Short: "SHORT",
}

// Valid reports whether s is one of the supported sides.
func (s PositionSide) Valid() bool {
	return s >= 0 && s < NumPositionSides
}

func (s PositionSide) String() string {
	if !s.Valid() {
		return fmt.Sprintf("PositionSide(%d)", int(s))
	}
	return positionSideNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s PositionSide) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unsupported position side %d", int(s))
	}
	return []byte(positionSideNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *PositionSide) UnmarshalText(text []byte) error {
	parsed, ok := ParsePositionSide(string(text))
	if !ok {
		return fmt.Errorf("unsupported position side %q", string(text))
	}
	*s = parsed
	return nil
}

// ParsePositionSide parses LONG/SHORT and the order shorthands BUY/SELL.
func ParsePositionSide(s string) (PositionSide, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "BUY", "B":
		return Long, true
	case "SHORT", "SELL", "S":
		return Short, true
	}
	return -1, false
}

// BoundsPolicy selects how the underlying price axis is sized around strike and spot.
type BoundsPolicy int

const (
	// PolicyAuto picks PutDominant or CallDominant from the option kind.
	PolicyAuto BoundsPolicy = iota
	PolicyPutDominant
	PolicyCallDominant
	// PolicySymmetric is used when the option kind cannot be determined.
	PolicySymmetric
	// PolicyAroundSpot spans +/-15% around the current price only.
	PolicyAroundSpot

	NumBoundsPolicies
)

var boundsPolicyNames = [NumBoundsPolicies]string{
	PolicyAuto:         "auto",
	PolicyPutDominant:  "put",
	PolicyCallDominant: "call",
	PolicySymmetric:    "symmetric",
	PolicyAroundSpot:   "spot",
}

// Valid reports whether p is a known policy.
func (p BoundsPolicy) Valid() bool {
	return p >= 0 && p < NumBoundsPolicies
}

func (p BoundsPolicy) String() string {
	if !p.Valid() {
		return fmt.Sprintf("BoundsPolicy(%d)", int(p))
	}
	return boundsPolicyNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p BoundsPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *BoundsPolicy) UnmarshalText(text []byte) error {
	parsed, ok := ParseBoundsPolicy(string(text))
	if !ok {
		return fmt.Errorf("unknown bounds policy %q", string(text))
	}
	*p = parsed
	return nil
}

// ParseBoundsPolicy parses a policy name. The empty string means auto.
func ParseBoundsPolicy(s string) (BoundsPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PolicyAuto, true
	case "put", "put-dominant":
		return PolicyPutDominant, true
	case "call", "call-dominant":
		return PolicyCallDominant, true
	case "symmetric":
		return PolicySymmetric, true
	case "spot", "around-spot":
		return PolicyAroundSpot, true
	}
	return -1, false
}
