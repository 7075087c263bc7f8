package encode

type EncodeOption func(*EncState)

// EncodeWire writes each document on a single line.
func EncodeWire(v bool) EncodeOption {
	return func(es *EncState) { es.wire = v }
}

// Indent sets the number of spaces per nesting level in pretty output.
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}

// EncodeRecordTags controls whether records print with their schema tag.
// Untagged records print as plain maps.
func EncodeRecordTags(v bool) EncodeOption {
	return func(es *EncState) { es.recordTags = v }
}

// Pretty writes multi-line documents indented by n spaces per level.
func Pretty(n int) EncodeOption {
	return func(es *EncState) {
		es.wire = false
		es.indent = n
	}
}
