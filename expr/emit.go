package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Mode selects the shape of the emitted Go source.
type Mode int

const (
	// FunctionMode emits a standalone `func NAME(ctx expr.Dispatcher) any { ... }`.
	FunctionMode Mode = iota
	// VariableMode emits bare statements that assume ctx is already in
	// scope and bind the expression's result to NAME, for splicing into
	// a larger hand-written function body.
	VariableMode
)

// Dispatcher is the runtime interface emitted code is compiled against.
// Every DSL operator — arithmetic, comparisons, logic, the ternary
// select, and kernel calls alike — funnels through Call, mirroring how
// the source alpha library's execution context resolves both field
// reads and operator application through one generic entry point
// rather than native host-language operators. This keeps emitted code
// shape-agnostic: Dispatcher decides at runtime whether an operand is a
// scalar or a series and returns a value of the matching shape.
type Dispatcher interface {
	Get(field string) any
	Call(name string, args ...any) any
}

// Canonical operator names routed through Dispatcher.Call for every
// infix/prefix/ternary DSL construct, so the emitted code never uses
// Go's native arithmetic or logical operators directly.
const (
	opAdd    = "ADD"
	opSub    = "SUB"
	opMul    = "MUL"
	opDiv    = "DIV"
	opPow    = "POWER"
	opEq     = "EQ"
	opNe     = "NE"
	opLt     = "LT"
	opGt     = "GT"
	opLe     = "LE"
	opGe     = "GE"
	opAnd    = "AND"
	opOr     = "OR"
	opNeg    = "NEG"
	opSelect = "SELECT"
)

var binaryOpNames = map[string]string{
	"+": opAdd, "-": opSub, "*": opMul, "/": opDiv, "^": opPow,
	"==": opEq, "!=": opNe, "<": opLt, ">": opGt, "<=": opLe, ">=": opGe,
	"&&": opAnd, "||": opOr,
}

// Option adjusts how Compile emits code.
type Option func(*settings)

type settings struct {
	transform func(string) string
}

// WithNameTransform maps every identifier to its field key before
// emission (e.g. strings.ToUpper for a DSL whose data fields are
// canonically uppercase). Identifiers are passed through unchanged when
// no transform is configured.
func WithNameTransform(f func(string) string) Option {
	return func(s *settings) { s.transform = f }
}

// Compile parses src and emits Go source implementing it under the
// given name and Mode.
func Compile(src string, mode Mode, name string, opts ...Option) (string, error) {
	ast, err := Parse(src)
	if err != nil {
		return "", err
	}
	cfg := settings{transform: func(k string) string { return k }}
	for _, opt := range opts {
		opt(&cfg)
	}
	hoisted := hoistCandidates(ast, cfg.transform)

	var body strings.Builder
	locals := map[string]string{}
	for _, key := range hoisted {
		lvar := localVarName(key)
		locals[key] = lvar
		fmt.Fprintf(&body, "%s := ctx.Get(%s)\n", lvar, strconv.Quote(key))
	}
	exprSrc := emitNode(ast, locals, cfg.transform)

	switch mode {
	case FunctionMode:
		var out strings.Builder
		fmt.Fprintf(&out, "func %s(ctx expr.Dispatcher) any {\n", name)
		out.WriteString(indent(body.String()))
		fmt.Fprintf(&out, "\treturn %s\n", exprSrc)
		out.WriteString("}\n")
		return out.String(), nil
	case VariableMode:
		var out strings.Builder
		out.WriteString(body.String())
		fmt.Fprintf(&out, "%s := %s\n", name, exprSrc)
		return out.String(), nil
	default:
		return "", fmt.Errorf("expr: unknown mode %d", mode)
	}
}

func indent(s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "\t" + l
	}
	return strings.Join(lines, "\n") + "\n"
}

// fieldKey returns the dotted/plain key an Ident or Dotted node reads
// through the context, used both for hoist counting and Get() calls.
func fieldKey(n Node) (string, bool) {
	switch v := n.(type) {
	case Ident:
		return v.Name, true
	case Dotted:
		return strings.Join(v.Parts, "."), true
	default:
		return "", false
	}
}

func localVarName(key string) string {
	return "local_" + strings.ReplaceAll(key, ".", "_")
}

// hoistCandidates walks the AST collecting every field-read key, then
// returns the subset read more than once, sorted for deterministic
// output — mirroring the source library's optimizing code generator,
// which hoists repeated context reads into one local each.
func hoistCandidates(n Node, transform func(string) string) []string {
	var keys []string
	var walk func(Node)
	walk = func(n Node) {
		if key, ok := fieldKey(n); ok {
			keys = append(keys, transform(key))
			return
		}
		switch v := n.(type) {
		case Call:
			for _, a := range v.Args {
				walk(a)
			}
		case Unary:
			walk(v.X)
		case Binary:
			walk(v.X)
			walk(v.Y)
		case Ternary:
			walk(v.Cond)
			walk(v.Then)
			walk(v.Else)
		}
	}
	walk(n)

	counts := lo.CountValues(keys)
	var repeated []string
	for k, c := range counts {
		if c > 1 {
			repeated = append(repeated, k)
		}
	}
	sort.Strings(repeated)
	return repeated
}

func emitNode(n Node, locals map[string]string, transform func(string) string) string {
	if key, ok := fieldKey(n); ok {
		key = transform(key)
		if lvar, ok := locals[key]; ok {
			return lvar
		}
		return fmt.Sprintf("ctx.Get(%s)", strconv.Quote(key))
	}
	switch v := n.(type) {
	case NumberLit:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = emitNode(a, locals, transform)
		}
		return fmt.Sprintf("ctx.Call(%s, %s)", strconv.Quote(v.Name), strings.Join(args, ", "))
	case Unary:
		return fmt.Sprintf("ctx.Call(%s, %s)", strconv.Quote(opNeg), emitNode(v.X, locals, transform))
	case Binary:
		opName, ok := binaryOpNames[v.Op]
		if !ok {
			opName = v.Op
		}
		return fmt.Sprintf("ctx.Call(%s, %s, %s)", strconv.Quote(opName),
			emitNode(v.X, locals, transform), emitNode(v.Y, locals, transform))
	case Ternary:
		return fmt.Sprintf("ctx.Call(%s, %s, %s, %s)", strconv.Quote(opSelect),
			emitNode(v.Cond, locals, transform), emitNode(v.Then, locals, transform),
			emitNode(v.Else, locals, transform))
	default:
		return "/* unsupported node */"
	}
}
