// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"fmt"
	"strings"
)

// Shift is the duty period a record covers. Values are ordered: Morning sorts
// before Night.
type Shift int

const (
	ShiftMorning Shift = iota
	ShiftNight
)

var shiftNames = []string{"Morning", "Night"}

func (s Shift) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Shift(%d)", int(s))
	}
	return shiftNames[s]
}

// IsValid reports whether s is one of the declared shifts.
func (s Shift) IsValid() bool {
	return s >= ShiftMorning && s <= ShiftNight
}

func (s Shift) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid shift %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Shift) UnmarshalText(text []byte) error {
	v, err := ParseShift(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseShift accepts the display name; "Day" is treated as Morning.
func ParseShift(name string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "morning", "day":
		return ShiftMorning, nil
	case "night":
		return ShiftNight, nil
	}
	return 0, fmt.Errorf("unknown shift %q", name)
}

// Block is an organisational unit of the hospital roster. The declaration
// order is the canonical output order.
type Block int

const (
	BlockMainCentre Block = iota
	BlockMainPeriphery
	BlockSurgical
	BlockBurnsAndPlastic
	BlockMCH
)

var blockNames = []string{
	"Main (Centre)",
	"Main (Periphery)",
	"Surgical",
	"Burns & Plastic",
	"MCH",
}

// Blocks lists every block in declaration order.
func Blocks() []Block {
	return []Block{BlockMainCentre, BlockMainPeriphery, BlockSurgical, BlockBurnsAndPlastic, BlockMCH}
}

func (b Block) String() string {
	if !b.IsValid() {
		return fmt.Sprintf("Block(%d)", int(b))
	}
	return blockNames[b]
}

func (b Block) IsValid() bool {
	return b >= BlockMainCentre && b <= BlockMCH
}

func (b Block) MarshalText() ([]byte, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("invalid block %d", int(b))
	}
	return []byte(b.String()), nil
}

func (b *Block) UnmarshalText(text []byte) error {
	v, err := ParseBlock(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func ParseBlock(name string) (Block, error) {
	for i, n := range blockNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Block(i), nil
		}
	}
	return 0, fmt.Errorf("unknown block %q", name)
}

// ResidentType is the resident grade. Senior residents sort before juniors.
type ResidentType int

const (
	ResidentSR ResidentType = iota
	ResidentJR
)

func (t ResidentType) String() string {
	switch t {
	case ResidentSR:
		return "SR"
	case ResidentJR:
		return "JR"
	}
	return fmt.Sprintf("ResidentType(%d)", int(t))
}

func (t ResidentType) IsValid() bool {
	return t == ResidentSR || t == ResidentJR
}

func (t ResidentType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid resident type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *ResidentType) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "SR":
		*t = ResidentSR
	case "JR":
		*t = ResidentJR
	default:
		return fmt.Errorf("unknown resident type %q", string(text))
	}
	return nil
}

// DutyRecord is one resident on duty for one shift in one block.
type DutyRecord struct {
	Shift        Shift        `json:"shift"`
	Block        Block        `json:"block"`
	ResidentType ResidentType `json:"resident_type"`
	ResidentName string       `json:"resident_name"`
}

func (r DutyRecord) String() string {
	return fmt.Sprintf("(%s, %s, %s, %q)", r.Shift, r.Block, r.ResidentType, r.ResidentName)
}

// Table is the ordered record set produced by one extraction run.
type Table []DutyRecord

// Names returns the resident names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, r := range t {
		names[i] = r.ResidentName
	}
	return names
}
