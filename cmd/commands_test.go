package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzft/go-hashset/resp"
)

func newTestShell(t *testing.T) *Shell {
	t.Helper()
	return NewShell(DefaultConfig())
}

func exec(sh *Shell, line string) resp.Node {
	return sh.Execute(strings.Fields(line))
}

func members(t *testing.T, sh *Shell, key string) []string {
	t.Helper()
	reply, ok := exec(sh, "smembers "+key).(resp.Set)
	require.True(t, ok)
	out := make([]string, 0, len(reply.Elements))
	for _, e := range reply.Elements {
		out = append(out, e.(resp.BlobString).Value)
	}
	return out
}

func TestExecuteUnknownAndArity(t *testing.T) {
	sh := newTestShell(t)

	assert.Equal(t, resp.Errorf("unknown command 'nope'"), exec(sh, "nope"))
	assert.Equal(t, resp.Errorf("wrong number of arguments for 'sadd' command"), exec(sh, "SADD k"))
	assert.Equal(t, resp.Errorf("wrong number of arguments for 'scard' command"), exec(sh, "scard a b"))
	assert.Equal(t, resp.Errorf("empty command"), sh.Execute(nil))
}

func TestSetCommands(t *testing.T) {
	sh := newTestShell(t)

	assert.Equal(t, resp.Integer{Value: 3}, exec(sh, "SADD fruit apple pear fig"))
	assert.Equal(t, resp.Integer{Value: 1}, exec(sh, "sadd fruit apple kiwi"))
	assert.Equal(t, resp.Integer{Value: 4}, exec(sh, "scard fruit"))
	assert.Equal(t, resp.Integer{Value: 1}, exec(sh, "sismember fruit fig"))
	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sismember fruit plum"))
	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sismember nothing plum"))
	assert.ElementsMatch(t, []string{"apple", "pear", "fig", "kiwi"}, members(t, sh, "fruit"))

	assert.Equal(t, resp.Integer{Value: 2}, exec(sh, "srem fruit apple plum fig"))
	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "srem nothing apple"))
	assert.ElementsMatch(t, []string{"pear", "kiwi"}, members(t, sh, "fruit"))

	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "scard nothing"))
	assert.Equal(t, resp.Set{}, exec(sh, "smembers nothing"))
}

func TestCapacityAndClear(t *testing.T) {
	sh := newTestShell(t)

	assert.Equal(t, resp.Null{}, exec(sh, "scapacity k"))
	exec(sh, "sadd k a")
	assert.Equal(t, resp.Integer{Value: 5}, exec(sh, "scapacity k"))

	exec(sh, "sadd k b c d e f g h i j")
	grown := exec(sh, "scapacity k").(resp.Integer).Value
	assert.Greater(t, grown, 5)

	assert.Equal(t, resp.OK, exec(sh, "sclear k"))
	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "scard k"))
	assert.Equal(t, resp.Integer{Value: 3}, exec(sh, "scapacity k"))
	assert.Equal(t, resp.OK, exec(sh, "sclear missing"))
}

func TestRemovePrefix(t *testing.T) {
	sh := newTestShell(t)
	exec(sh, "sadd k user:1 user:2 admin:1")

	assert.Equal(t, resp.Integer{Value: 2}, exec(sh, "sremprefix k user:"))
	assert.Equal(t, []string{"admin:1"}, members(t, sh, "k"))
	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sremprefix missing user:"))
}

func TestAlgebraCommands(t *testing.T) {
	sh := newTestShell(t)
	exec(sh, "sadd a 1 2 3 4 5")
	exec(sh, "sadd b 2 4 6")

	assert.Equal(t, resp.Integer{Value: 2}, exec(sh, "sinterwith a b"))
	assert.ElementsMatch(t, []string{"2", "4"}, members(t, sh, "a"))

	assert.Equal(t, resp.Integer{Value: 3}, exec(sh, "sunionwith a b"))
	assert.ElementsMatch(t, []string{"2", "4", "6"}, members(t, sh, "a"))

	exec(sh, "sadd c 6 7")
	assert.Equal(t, resp.Integer{Value: 3}, exec(sh, "sxorwith a c"))
	assert.ElementsMatch(t, []string{"2", "4", "7"}, members(t, sh, "a"))

	assert.Equal(t, resp.Integer{Value: 1}, exec(sh, "sdiffwith a b"))
	assert.Equal(t, []string{"7"}, members(t, sh, "a"))

	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sinterwith a missing"))
	assert.Equal(t, resp.Integer{Value: 3}, exec(sh, "sunionwith fresh b"))
}

func TestAlgebraCommandsOnSelf(t *testing.T) {
	sh := newTestShell(t)
	exec(sh, "sadd a x y z")

	assert.Equal(t, resp.Integer{Value: 3}, exec(sh, "sunionwith a a"))
	assert.Equal(t, resp.Integer{Value: 3}, exec(sh, "sinterwith a a"))
	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sxorwith a a"))

	exec(sh, "sadd a x y z")
	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sdiffwith a a"))
}

func TestPredicateCommands(t *testing.T) {
	sh := newTestShell(t)
	exec(sh, "sadd small 1 2")
	exec(sh, "sadd big 1 2 3")
	exec(sh, "sadd other 8 9")

	yes, no := resp.Boolean{Value: true}, resp.Boolean{Value: false}
	assert.Equal(t, yes, exec(sh, "ssubset small big"))
	assert.Equal(t, yes, exec(sh, "spsubset small big"))
	assert.Equal(t, no, exec(sh, "spsubset small small"))
	assert.Equal(t, yes, exec(sh, "ssuperset big small"))
	assert.Equal(t, yes, exec(sh, "spsuperset big small"))
	assert.Equal(t, no, exec(sh, "spsuperset big big"))
	assert.Equal(t, yes, exec(sh, "soverlaps small big"))
	assert.Equal(t, no, exec(sh, "soverlaps small other"))
	assert.Equal(t, yes, exec(sh, "sequals big big"))
	assert.Equal(t, no, exec(sh, "sequals big small"))

	assert.Equal(t, yes, exec(sh, "ssubset missing big"))
	assert.Equal(t, yes, exec(sh, "sequals missing alsomissing"))
	assert.Equal(t, no, exec(sh, "soverlaps missing big"))
	_, ok := sh.keys.Lookup("missing")
	assert.False(t, ok, "predicates do not create keys")
}

func TestGenericCommands(t *testing.T) {
	sh := newTestShell(t)
	exec(sh, "sadd b 1")
	exec(sh, "sadd a 1 2")

	assert.Equal(t, resp.Array{Elements: resp.Blobs([]string{"a", "b"})}, exec(sh, "keys"))
	assert.Equal(t, resp.Integer{Value: 1}, exec(sh, "del a missing"))
	assert.Equal(t, resp.Array{Elements: resp.Blobs([]string{"b"})}, exec(sh, "keys"))
}

func TestInfoCommand(t *testing.T) {
	sh := newTestShell(t)
	for i := 0; i < 20; i++ {
		exec(sh, "sadd k m"+strings.Repeat("x", i))
	}
	exec(sh, "sadd j m")

	reply, ok := exec(sh, "info").(resp.BlobString)
	require.True(t, ok)
	assert.Contains(t, reply.Value, "# Keyspace\r\nkeys:2\r\nelements:21\r\n")
	assert.Contains(t, reply.Value, "# Tables\r\n")
	assert.Contains(t, reply.Value, "hashset_resizes_total:")
	assert.Contains(t, reply.Value, "hashset_probe_length_count:")
	assert.NotContains(t, reply.Value, "hashset_resizes_total:0\r\n")
}

func TestHelpCommand(t *testing.T) {
	sh := newTestShell(t)

	all, ok := exec(sh, "help").(resp.Array)
	require.True(t, ok)
	assert.Len(t, all.Elements, len(commandTable))
	assert.True(t, strings.HasPrefix(all.Elements[0].(resp.SimpleString).Value, "SADD "))
	last := all.Elements[len(all.Elements)-1].(resp.SimpleString).Value
	assert.Contains(t, last, "[generic]")

	one := exec(sh, "help SISMEMBER nope")
	assert.Equal(t, resp.Array{Elements: []resp.Node{
		resp.SimpleString{Value: "SISMEMBER key member  -- Test membership [set]"},
	}}, one)
}

func TestComplete(t *testing.T) {
	sh := newTestShell(t)
	assert.Equal(t, []string{"SISMEMBER"}, sh.complete("sis"))
	assert.Equal(t, []string{"SCAPACITY", "SCARD", "SCLEAR"}, sh.complete("SC"))
	assert.Nil(t, sh.complete("sadd k"))
}

func TestEmptiedKeysAreDropped(t *testing.T) {
	sh := newTestShell(t)
	exec(sh, "sadd k a b")
	exec(sh, "sadd p user:1")
	exec(sh, "sadd r x")

	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sinterwith nope k"))
	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sdiffwith nope k"))
	assert.Equal(t, resp.Integer{Value: 1}, exec(sh, "sremprefix p user:"))
	assert.Equal(t, resp.Integer{Value: 1}, exec(sh, "srem r x"))
	assert.Equal(t, resp.Array{Elements: resp.Blobs([]string{"k"})}, exec(sh, "keys"))

	assert.Equal(t, resp.Integer{Value: 0}, exec(sh, "sxorwith k k"))
	assert.Equal(t, resp.Array{Elements: []resp.Node{}}, exec(sh, "keys"))
}
