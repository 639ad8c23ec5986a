package resp

import "fmt"

// Reply nodes follow RESP3.
// https://github.com/redis/redis-specifications/blob/master/protocol/RESP3.md

const CRLF string = "\r\n"

const (
	TypeArray   byte = '*'
	TypeBlob    byte = '$'
	TypeSimple  byte = '+'
	TypeError   byte = '-'
	TypeInteger byte = ':'
	TypeNull    byte = '_'
	TypeBoolean byte = '#'
	TypeSet     byte = '~'
)

type Node interface {
	respType() byte
}

type BlobString struct {
	Value string
}

type SimpleString struct {
	Value string
}

type Error struct {
	Message string
}

type Integer struct {
	Value int
}

type Boolean struct {
	Value bool
}

type Null struct {
}

// Array represents an ordered reply.
type Array struct {
	Elements []Node
}

// Set represents an unordered reply of unique elements.
type Set struct {
	Elements []Node
}

func (BlobString) respType() byte   { return TypeBlob }
func (SimpleString) respType() byte { return TypeSimple }
func (Error) respType() byte        { return TypeError }
func (Integer) respType() byte      { return TypeInteger }
func (Boolean) respType() byte      { return TypeBoolean }
func (Null) respType() byte         { return TypeNull }
func (Array) respType() byte        { return TypeArray }
func (Set) respType() byte          { return TypeSet }

var (
	OK = SimpleString{Value: "OK"}
)

// Errorf builds an error reply prefixed with the generic ERR code.
func Errorf(format string, args ...any) Error {
	return Error{Message: "ERR " + fmt.Sprintf(format, args...)}
}

// Blobs wraps each string in a BlobString.
func Blobs(values []string) []Node {
	nodes := make([]Node, len(values))
	for i, v := range values {
		nodes[i] = BlobString{Value: v}
	}
	return nodes
}
