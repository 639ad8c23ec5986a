package cmd

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fzft/go-hashset/hashset"
	"github.com/fzft/go-hashset/log"
	"github.com/fzft/go-hashset/metrics"
	"github.com/fzft/go-hashset/resp"
)

type commandProc func(sh *Shell, args []string) resp.Node

// commandDocs documentation info used for help command.
type commandDocs struct {
	params  string
	summary string
	group   string
}

type command struct {
	name    string
	minArgs int
	maxArgs int // -1 for no limit
	proc    commandProc
	docs    commandDocs
}

const (
	groupSet     = "set"
	groupAlgebra = "algebra"
	groupGeneric = "generic"
)

var groupOrder = map[string]int{groupSet: 0, groupAlgebra: 1, groupGeneric: 2}

var commandTable = map[string]*command{}

func register(name string, minArgs, maxArgs int, proc commandProc, params, summary, group string) {
	commandTable[name] = &command{
		name:    name,
		minArgs: minArgs,
		maxArgs: maxArgs,
		proc:    proc,
		docs:    commandDocs{params: params, summary: summary, group: group},
	}
}

func init() {
	register("sadd", 2, -1, saddCommand, "key member [member ...]", "Add members to a set", groupSet)
	register("srem", 2, -1, sremCommand, "key member [member ...]", "Remove members from a set", groupSet)
	register("sismember", 2, 2, sismemberCommand, "key member", "Test membership", groupSet)
	register("scard", 1, 1, scardCommand, "key", "Number of members", groupSet)
	register("smembers", 1, 1, smembersCommand, "key", "List members in table order", groupSet)
	register("sclear", 1, 1, sclearCommand, "key", "Remove all members and shrink the table", groupSet)
	register("scapacity", 1, 1, scapacityCommand, "key", "Length of the backing table", groupSet)
	register("sremprefix", 2, 2, sremprefixCommand, "key prefix", "Remove members starting with prefix", groupSet)

	register("sunionwith", 2, 2, mutateWith((*hashset.Set[string]).UnionWith), "key source", "Add the members of source", groupAlgebra)
	register("sinterwith", 2, 2, mutateWith((*hashset.Set[string]).IntersectWith), "key source", "Keep only members also in source", groupAlgebra)
	register("sdiffwith", 2, 2, mutateWith((*hashset.Set[string]).ExceptWith), "key source", "Remove the members of source", groupAlgebra)
	register("sxorwith", 2, 2, mutateWith((*hashset.Set[string]).SymmetricExceptWith), "key source", "Toggle the members of source", groupAlgebra)
	register("ssubset", 2, 2, testWith((*hashset.Set[string]).IsSubsetOf), "key source", "Is key a subset of source", groupAlgebra)
	register("spsubset", 2, 2, testWith((*hashset.Set[string]).IsProperSubsetOf), "key source", "Is key a proper subset of source", groupAlgebra)
	register("ssuperset", 2, 2, testWith((*hashset.Set[string]).IsSupersetOf), "key source", "Is key a superset of source", groupAlgebra)
	register("spsuperset", 2, 2, testWith((*hashset.Set[string]).IsProperSupersetOf), "key source", "Is key a proper superset of source", groupAlgebra)
	register("soverlaps", 2, 2, testWith((*hashset.Set[string]).Overlaps), "key source", "Do key and source share a member", groupAlgebra)
	register("sequals", 2, 2, testWith((*hashset.Set[string]).SetEquals), "key source", "Do key and source hold the same members", groupAlgebra)

	register("del", 1, -1, delCommand, "key [key ...]", "Delete sets", groupGeneric)
	register("keys", 0, 0, keysCommand, "", "List set names", groupGeneric)
	register("info", 0, 0, infoCommand, "", "Keyspace and table statistics", groupGeneric)
	register("help", 0, -1, helpCommand, "[command]", "Show help", groupGeneric)
}

// Shell executes commands against a keyspace.
type Shell struct {
	keys     *Keyspace
	registry *prometheus.Registry
}

// NewShell returns a shell whose sets are created with cfg's options.
func NewShell(cfg Config) *Shell {
	collector := metrics.NewCollector(nil)
	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)

	opts := append(cfg.setOptions(),
		hashset.WithObserver(collector),
		hashset.WithLogger(log.Logger.Named("hashset")))
	return &Shell{
		keys:     NewKeyspace(opts...),
		registry: registry,
	}
}

// Execute runs one command line and returns its reply.
func (sh *Shell) Execute(argv []string) resp.Node {
	if len(argv) == 0 {
		return resp.Errorf("empty command")
	}
	name := strings.ToLower(argv[0])
	cmd, ok := commandTable[name]
	if !ok {
		return resp.Errorf("unknown command '%s'", argv[0])
	}
	args := argv[1:]
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return resp.Errorf("wrong number of arguments for '%s' command", name)
	}
	log.Logger.Debug("execute", zap.String("command", name), zap.Int("args", len(args)))
	return cmd.proc(sh, args)
}

// complete offers command names for the line editor.
func (sh *Shell) complete(line string) []string {
	if strings.Contains(line, " ") {
		return nil
	}
	prefix := strings.ToLower(line)
	var out []string
	for name := range commandTable {
		if strings.HasPrefix(name, prefix) {
			out = append(out, strings.ToUpper(name))
		}
	}
	sort.Strings(out)
	return out
}

func errorReply(err error) resp.Node {
	return resp.Errorf("%v", err)
}

func saddCommand(sh *Shell, args []string) resp.Node {
	s := sh.keys.LookupOrCreate(args[0])
	added := 0
	for _, m := range args[1:] {
		ok, err := s.Add(m)
		if err != nil {
			return errorReply(err)
		}
		if ok {
			added++
		}
	}
	return resp.Integer{Value: added}
}

func sremCommand(sh *Shell, args []string) resp.Node {
	s, ok := sh.keys.Lookup(args[0])
	if !ok {
		return resp.Integer{Value: 0}
	}
	removed := 0
	for _, m := range args[1:] {
		ok, err := s.Remove(m)
		if err != nil {
			return errorReply(err)
		}
		if ok {
			removed++
		}
	}
	sh.keys.DropEmpty(args[0])
	return resp.Integer{Value: removed}
}

func sismemberCommand(sh *Shell, args []string) resp.Node {
	s, ok := sh.keys.Lookup(args[0])
	if !ok {
		return resp.Integer{Value: 0}
	}
	found, err := s.Contains(args[1])
	if err != nil {
		return errorReply(err)
	}
	if found {
		return resp.Integer{Value: 1}
	}
	return resp.Integer{Value: 0}
}

func scardCommand(sh *Shell, args []string) resp.Node {
	s, ok := sh.keys.Lookup(args[0])
	if !ok {
		return resp.Integer{Value: 0}
	}
	return resp.Integer{Value: s.Count()}
}

func smembersCommand(sh *Shell, args []string) resp.Node {
	s, ok := sh.keys.Lookup(args[0])
	if !ok {
		return resp.Set{}
	}
	return resp.Set{Elements: resp.Blobs(s.Slice())}
}

func sclearCommand(sh *Shell, args []string) resp.Node {
	if s, ok := sh.keys.Lookup(args[0]); ok {
		s.Clear()
	}
	return resp.OK
}

func scapacityCommand(sh *Shell, args []string) resp.Node {
	s, ok := sh.keys.Lookup(args[0])
	if !ok {
		return resp.Null{}
	}
	return resp.Integer{Value: s.Capacity()}
}

func sremprefixCommand(sh *Shell, args []string) resp.Node {
	s, ok := sh.keys.Lookup(args[0])
	if !ok {
		return resp.Integer{Value: 0}
	}
	prefix := args[1]
	removed := s.RemoveWhere(func(m string) bool {
		return strings.HasPrefix(m, prefix)
	})
	sh.keys.DropEmpty(args[0])
	return resp.Integer{Value: removed}
}

// mutateWith adapts a bulk mutation to a "key source" command replying with
// the new cardinality of key. A key left empty is deleted.
func mutateWith(op func(*hashset.Set[string], iter.Seq[string]) error) commandProc {
	return func(sh *Shell, args []string) resp.Node {
		dst := sh.keys.LookupOrCreate(args[0])
		defer sh.keys.DropEmpty(args[0])
		if err := op(dst, sh.keys.Members(args[1])); err != nil {
			return errorReply(err)
		}
		return resp.Integer{Value: dst.Count()}
	}
}

// testWith adapts a set predicate to a "key source" command. A missing key
// reads as the empty set.
func testWith(op func(*hashset.Set[string], iter.Seq[string]) (bool, error)) commandProc {
	return func(sh *Shell, args []string) resp.Node {
		s, ok := sh.keys.Lookup(args[0])
		if !ok {
			s = hashset.New[string]()
		}
		res, err := op(s, sh.keys.Members(args[1]))
		if err != nil {
			return errorReply(err)
		}
		return resp.Boolean{Value: res}
	}
}

func delCommand(sh *Shell, args []string) resp.Node {
	return resp.Integer{Value: sh.keys.Delete(args...)}
}

func keysCommand(sh *Shell, args []string) resp.Node {
	return resp.Array{Elements: resp.Blobs(sh.keys.Keys())}
}

func infoCommand(sh *Shell, args []string) resp.Node {
	var b strings.Builder
	b.WriteString("# Keyspace\r\n")
	fmt.Fprintf(&b, "keys:%d\r\n", len(sh.keys.sets))
	fmt.Fprintf(&b, "elements:%d\r\n", sh.keys.Elements())

	b.WriteString("# Tables\r\n")
	families, err := sh.registry.Gather()
	if err != nil {
		return errorReply(err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(&b, "%s:%g\r\n", mf.GetName(), m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Fprintf(&b, "%s:%g\r\n", mf.GetName(), m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(&b, "%s_count:%d\r\n", mf.GetName(), h.GetSampleCount())
				fmt.Fprintf(&b, "%s_sum:%g\r\n", mf.GetName(), h.GetSampleSum())
			}
		}
	}
	return resp.BlobString{Value: b.String()}
}

func helpCommand(sh *Shell, args []string) resp.Node {
	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	if len(args) > 0 {
		names = names[:0]
		for _, a := range args {
			if _, ok := commandTable[strings.ToLower(a)]; ok {
				names = append(names, strings.ToLower(a))
			}
		}
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := commandTable[names[i]], commandTable[names[j]]
		if ci.docs.group != cj.docs.group {
			return groupOrder[ci.docs.group] < groupOrder[cj.docs.group]
		}
		return ci.name < cj.name
	})

	lines := make([]resp.Node, 0, len(names))
	for _, name := range names {
		c := commandTable[name]
		lines = append(lines, resp.SimpleString{
			Value: fmt.Sprintf("%s %s  -- %s [%s]",
				strings.ToUpper(c.name), c.docs.params, c.docs.summary, c.docs.group),
		})
	}
	return resp.Array{Elements: lines}
}
