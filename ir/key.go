package ir

import "unique"

// Key identifies a record field. Keys are interned: two keys made from the
// same name are ==, usable as map keys, and cheap to compare.
type Key struct {
	h unique.Handle[string]
}

func K(name string) Key {
	return Key{h: unique.Make(name)}
}

func (k Key) Name() string {
	if k.IsZero() {
		return ""
	}
	return k.h.Value()
}

func (k Key) IsZero() bool {
	return k == Key{}
}

func (k Key) String() string {
	return ":" + k.Name()
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.Name()), nil
}

func (k *Key) UnmarshalText(d []byte) error {
	*k = K(string(d))
	return nil
}
