package parse

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/signadot/dynobj/ir"
)

const (
	InstTag   = "inst"
	UUIDTag   = "uuid"
	Base64Tag = "base64"
)

var builtins = map[string]Reader{
	InstTag:   ReadInst,
	UUIDTag:   ReadUUID,
	Base64Tag: ReadBase64,
}

// ReadInst reads an RFC 3339 timestamp string.
func ReadInst(elem *ir.Node) (*ir.Node, error) {
	if elem.Type != ir.StringType {
		return nil, fmt.Errorf("expected string, got %s", elem.Type)
	}
	t, err := time.Parse(time.RFC3339Nano, elem.String)
	if err != nil {
		return nil, err
	}
	return ir.FromTime(t), nil
}

// ReadUUID validates a UUID string and keeps it as a #uuid tagged string in
// canonical form.
func ReadUUID(elem *ir.Node) (*ir.Node, error) {
	if elem.Type != ir.StringType {
		return nil, fmt.Errorf("expected string, got %s", elem.Type)
	}
	u, err := uuid.Parse(elem.String)
	if err != nil {
		return nil, err
	}
	return ir.Tagged(UUIDTag, ir.FromString(u.String())), nil
}

// ReadBase64 reads standard base64 into a byte string.
func ReadBase64(elem *ir.Node) (*ir.Node, error) {
	if elem.Type != ir.StringType {
		return nil, fmt.Errorf("expected string, got %s", elem.Type)
	}
	d, err := base64.StdEncoding.DecodeString(elem.String)
	if err != nil {
		return nil, err
	}
	return ir.FromBytes(d), nil
}
