package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-aware lengths as written in the DSL. Everything the
// layout engine stores is in millimetres.

// Unit represents the original unit of a length value as specified in DSL.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, interpreted as millimetres
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

var unitSuffixes = []struct {
	suffix string
	unit   Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

func (u Unit) String() string {
	for _, s := range unitSuffixes {
		if s.unit == u {
			return s.suffix
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// MM converts the length to millimetres.
func (l Length) MM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// PT converts the length to points.
func (l Length) PT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.MM() * MmToPt
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseLengthValue parses "12pt", "1.5cm" or "20" into a Length.
func ParseLengthValue(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := UnitNone
	for _, s := range unitSuffixes {
		if num, ok := strings.CutSuffix(v, s.suffix); ok {
			unit, v = s.unit, strings.TrimSpace(num)
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseLength parses a length and returns it in millimetres.
func ParseLength(value string) (float64, error) {
	l, err := ParseLengthValue(value)
	if err != nil {
		return 0, err
	}
	return l.MM(), nil
}

// ParseInsets parses one to four space separated lengths using the CSS
// shorthand order: top, right, bottom, left.
func ParseInsets(value string) (Insets, error) {
	fields := strings.Fields(value)
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		mm, err := ParseLength(f)
		if err != nil {
			return Insets{}, err
		}
		vals = append(vals, mm)
	}
	switch len(vals) {
	case 1:
		return UniformInsets(vals[0]), nil
	case 2:
		return Insets{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Insets{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return Insets{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
	return Insets{}, fmt.Errorf("expected 1 to 4 lengths, got %q", value)
}

// ParseLineSpacing parses a line-height factor such as "1.2", "1.2x" or "120%".
func ParseLineSpacing(value string) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	scale := 1.0
	if num, ok := strings.CutSuffix(v, "%"); ok {
		v, scale = num, 0.01
	} else {
		v = strings.TrimSuffix(v, "x")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid line spacing %q", value)
	}
	return f * scale, nil
}
