package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	BoolType
	IntType
	FloatType
	BigIntType
	DecimalType
	StringType
	BytesType
	TimeType
	KeywordType
	SeqType
	SetType
	MapType
	RecordType
	TaggedType
)

var typeNames = map[Type]string{
	NullType:    "Null",
	BoolType:    "Bool",
	IntType:     "Int",
	FloatType:   "Float",
	BigIntType:  "BigInt",
	DecimalType: "Decimal",
	StringType:  "String",
	BytesType:   "Bytes",
	TimeType:    "Time",
	KeywordType: "Keyword",
	SeqType:     "Seq",
	SetType:     "Set",
	MapType:     "Map",
	RecordType:  "Record",
	TaggedType:  "Tagged",
}

func (t Type) String() string {
	s, ok := typeNames[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for tt, name := range typeNames {
		if name == string(d) {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

func Types() []Type {
	return []Type{
		NullType,
		BoolType,
		IntType,
		FloatType,
		BigIntType,
		DecimalType,
		StringType,
		BytesType,
		TimeType,
		KeywordType,
		SeqType,
		SetType,
		MapType,
		RecordType,
		TaggedType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case SeqType, SetType, MapType, RecordType, TaggedType:
		return false
	default:
		return true
	}
}

// IsMap reports whether nodes of type t carry Fields/Values entries.
func (t Type) IsMap() bool {
	return t == MapType || t == RecordType
}

// IsNumber reports whether t is one of the numeric variants.
func (t Type) IsNumber() bool {
	switch t {
	case IntType, FloatType, BigIntType, DecimalType:
		return true
	}
	return false
}
