package ir

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func kv(k string, v *Node) KeyVal {
	return KeyVal{Key: Keyword(k), Val: v}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Node
		expected int
	}{
		{"Null < Bool", Null(), FromBool(false), -1},
		{"Bool < Int", FromBool(true), FromInt(1), -1},
		{"Int < Float", FromInt(1), FromFloat(1.0), -1},
		{"Float < Decimal", FromFloat(1.0), FromDecimal(decimal.NewFromInt(1)), -1},
		{"Decimal < String", FromDecimal(decimal.NewFromInt(1)), FromString("a"), -1},
		{"String < Keyword", FromString("a"), Keyword("a"), -1},
		{"Keyword < Bytes", Keyword("a"), FromBytes([]byte("a")), -1},
		{"Bytes < Time", FromBytes(nil), FromTime(time.Unix(0, 0)), -1},
		{"Time < Seq", FromTime(time.Unix(0, 0)), FromSlice(nil), -1},
		{"Seq < Set", FromSlice(nil), FromSet(nil), -1},
		{"Set < Map", FromSet(nil), FromKeyVals(nil), -1},
		{"Map < Tagged", FromKeyVals(nil), Tagged("x", Null()), -1},

		{"false < true", FromBool(false), FromBool(true), -1},
		{"Int < Int", FromInt(1), FromInt(2), -1},
		{"Int == BigInt", FromInt(7), FromBigInt(big.NewInt(7)), 0},
		{"Int < huge BigInt", FromInt(7), FromBigInt(new(big.Int).Lsh(big.NewInt(1), 80)), -1},
		{"Decimal scale ignored", FromDecimal(decimal.RequireFromString("1.50")), FromDecimal(decimal.RequireFromString("1.5")), 0},
		{"Time instant", FromTime(time.Unix(10, 0).UTC()), FromTime(time.Unix(10, 0).In(time.FixedZone("x", 3600))), 0},

		{"Short Seq < Long Seq", FromSlice([]*Node{FromInt(1)}), FromSlice([]*Node{FromInt(1), FromInt(2)}), -1},
		{"Seq order matters", FromSlice([]*Node{FromInt(1), FromInt(2)}), FromSlice([]*Node{FromInt(2), FromInt(1)}), -1},
		{"Set order ignored", FromSet([]*Node{FromInt(1), FromInt(2)}), FromSet([]*Node{FromInt(2), FromInt(1)}), 0},

		{"Map order ignored",
			FromKeyVals([]KeyVal{kv("a", FromInt(1)), kv("b", FromInt(2))}),
			FromKeyVals([]KeyVal{kv("b", FromInt(2)), kv("a", FromInt(1))}),
			0},
		{"Record equals Map",
			FromKeyVals([]KeyVal{kv("a", FromInt(1))}).AsRecord("point"),
			FromKeyVals([]KeyVal{kv("a", FromInt(1))}),
			0},
		{"Map Value Comparison",
			FromKeyVals([]KeyVal{kv("a", FromInt(1))}),
			FromKeyVals([]KeyVal{kv("a", FromInt(2))}),
			-1},
		{"Tagged by tag", Tagged("a", FromInt(9)), Tagged("b", FromInt(1)), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compare() = %v, want %v", got, tt.expected)
			}
			if got := Compare(tt.b, tt.a); got != -tt.expected {
				t.Errorf("Compare(b, a) = %v, want %v", got, -tt.expected)
			}
			if tt.expected == 0 && tt.a.Hash() != tt.b.Hash() {
				t.Errorf("equal nodes hash differently")
			}
		})
	}
}

func TestFromSetDedupes(t *testing.T) {
	s := FromSet([]*Node{FromInt(1), FromBigInt(big.NewInt(1)), FromInt(2), FromInt(1)})
	if s.Len() != 2 {
		t.Fatalf("got %d elements, want 2", s.Len())
	}
}

func TestFromKeyValsReplaces(t *testing.T) {
	m := FromKeyVals([]KeyVal{kv("a", FromInt(1)), kv("b", FromInt(2)), kv("a", FromInt(3))})
	if m.Len() != 2 {
		t.Fatalf("got %d entries, want 2", m.Len())
	}
	if got := GetKey(m, K("a")); !Equal(got, FromInt(3)) {
		t.Errorf("a = %v, want 3", got)
	}
	if m.Fields[0].String != "a" {
		t.Errorf("first key %q, want a", m.Fields[0].String)
	}
}

func TestAssocWithout(t *testing.T) {
	m := FromKeyVals([]KeyVal{kv("a", FromInt(1))})
	m2 := m.Assoc(Keyword("b"), FromInt(2))
	if m.Len() != 1 {
		t.Errorf("Assoc modified receiver")
	}
	if m2.Len() != 2 {
		t.Errorf("got %d entries, want 2", m2.Len())
	}
	m3 := m2.Assoc(Keyword("a"), FromInt(5))
	if got := GetKey(m2, K("a")); !Equal(got, FromInt(1)) {
		t.Errorf("Assoc replaced value in receiver")
	}
	if got := GetKey(m3, K("a")); !Equal(got, FromInt(5)) {
		t.Errorf("a = %v, want 5", got)
	}
	m4 := m3.Without(Keyword("a"))
	if GetKey(m4, K("a")) != nil || GetKey(m3, K("a")) == nil {
		t.Errorf("Without")
	}
}

func TestKey(t *testing.T) {
	if K("a") != K("a") {
		t.Error("keys with the same name differ")
	}
	if K("a") == K("b") {
		t.Error("keys with different names are equal")
	}
	var z Key
	if !z.IsZero() || z.Name() != "" {
		t.Error("zero key")
	}
	if got := Keyword("x").Key(); got != K("x") {
		t.Errorf("got %v", got)
	}
	if K("name").String() != ":name" {
		t.Errorf("got %s", K("name"))
	}
}
