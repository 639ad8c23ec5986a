package resp

import (
	"strconv"
	"strings"
)

// Encode serializes n in RESP3 wire format.
func Encode(n Node) []byte {
	var b strings.Builder
	encode(&b, n)
	return []byte(b.String())
}

func encode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case SimpleString:
		b.WriteByte(TypeSimple)
		b.WriteString(n.Value)
		b.WriteString(CRLF)
	case Error:
		b.WriteByte(TypeError)
		b.WriteString(n.Message)
		b.WriteString(CRLF)
	case Integer:
		b.WriteByte(TypeInteger)
		b.WriteString(strconv.Itoa(n.Value))
		b.WriteString(CRLF)
	case BlobString:
		b.WriteByte(TypeBlob)
		b.WriteString(strconv.Itoa(len(n.Value)))
		b.WriteString(CRLF)
		b.WriteString(n.Value)
		b.WriteString(CRLF)
	case Boolean:
		b.WriteByte(TypeBoolean)
		if n.Value {
			b.WriteByte('t')
		} else {
			b.WriteByte('f')
		}
		b.WriteString(CRLF)
	case Null:
		b.WriteByte(TypeNull)
		b.WriteString(CRLF)
	case Array:
		aggregate(b, TypeArray, n.Elements)
	case Set:
		aggregate(b, TypeSet, n.Elements)
	}
}

func aggregate(b *strings.Builder, tp byte, elements []Node) {
	b.WriteByte(tp)
	b.WriteString(strconv.Itoa(len(elements)))
	b.WriteString(CRLF)
	for _, e := range elements {
		encode(b, e)
	}
}
