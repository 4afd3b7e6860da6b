// Package kernel maps configured operation names onto a closed set of BLAS
// operations and binds them, with operands, to a compute backend.
package kernel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/blas-bench/internal/bench/flops"
)

type Level int

const (
	Level1 Level = iota + 1
	Level2
	Level3
)

var Levels = []Level{Level1, Level2, Level3}

func (l Level) String() string { return fmt.Sprintf("Level %d", int(l)) }

// Kind names the operand classes of the level.
func (l Level) Kind() string {
	switch l {
	case Level1:
		return "Vector-Vector"
	case Level2:
		return "Matrix-Vector"
	case Level3:
		return "Matrix-Matrix"
	default:
		return "Unknown"
	}
}

type Precision string

const (
	Double Precision = "double"
	Single Precision = "single"
)

// Prefix is the BLAS routine prefix of the precision.
func (p Precision) Prefix() string {
	if p == Single {
		return "s"
	}
	return "d"
}

// ElemSize is the operand element size in bytes.
func (p Precision) ElemSize() int64 {
	if p == Single {
		return 4
	}
	return 8
}

var ErrUnknownPrecision = errors.New("unknown precision")

func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "double", "d", "float64", "fp64":
		return Double, nil
	case "single", "s", "float32", "fp32":
		return Single, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPrecision, s)
	}
}

// Op is the closed set of benchmarked operations.
type Op int

const (
	OpUnknown Op = iota
	OpDot
	OpAxpy
	OpScal
	OpGemv
	OpGemm
)

type opInfo struct {
	short string
	level Level
	flops func(Shape) int64
}

var opTable = map[Op]opInfo{
	OpDot:  {short: "dot", level: Level1, flops: func(s Shape) int64 { return flops.Dot(s.N) }},
	OpAxpy: {short: "axpy", level: Level1, flops: func(s Shape) int64 { return flops.Axpy(s.N) }},
	OpScal: {short: "scal", level: Level1, flops: func(s Shape) int64 { return flops.Scal(s.N) }},
	OpGemv: {short: "gemv", level: Level2, flops: func(s Shape) int64 { return flops.Gemv(s.M, s.N) }},
	OpGemm: {short: "gemm", level: Level3, flops: func(s Shape) int64 { return flops.Gemm(s.M, s.N, s.K) }},
}

var levelOps = map[Level][]Op{
	Level1: {OpDot, OpAxpy, OpScal},
	Level2: {OpGemv},
	Level3: {OpGemm},
}

// OpsFor returns the operations recognized at a level, in canonical order.
func OpsFor(l Level) []Op {
	return append([]Op(nil), levelOps[l]...)
}

func (o Op) String() string {
	if info, ok := opTable[o]; ok {
		return info.short
	}
	return "unknown"
}

func (o Op) Level() Level {
	return opTable[o].level
}

// ResultName is the routine name used in reports, e.g. "ddot".
func (o Op) ResultName(p Precision) string {
	return p.Prefix() + o.String()
}

// ConfigName is the name accepted in configuration, e.g. "cblas_ddot".
func (o Op) ConfigName(p Precision) string {
	return "cblas_" + o.ResultName(p)
}

// Flops is the theoretical operation count of o at shape s.
func Flops(o Op, s Shape) int64 {
	info, ok := opTable[o]
	if !ok {
		return 0
	}
	return info.flops(s)
}

var ErrUnrecognizedOperation = errors.New("unrecognized operation")

// Selection is a configured operation name resolved against its level.
type Selection struct {
	Name string `json:"name"`
	Op   Op     `json:"-"`
}

func (s Selection) Recognized() bool { return s.Op != OpUnknown }

// Parse resolves name by exact, case-sensitive match against the operations
// of level in precision p. An unmatched name returns a Selection with
// OpUnknown and ErrUnrecognizedOperation.
func Parse(level Level, p Precision, name string) (Selection, error) {
	for _, op := range OpsFor(level) {
		if op.ConfigName(p) == name {
			return Selection{Name: name, Op: op}, nil
		}
	}
	return Selection{Name: name}, fmt.Errorf("%w: %q at %s (%s precision)", ErrUnrecognizedOperation, name, level, p)
}

// Resolve parses every name, keeping order and unrecognized entries.
func Resolve(level Level, p Precision, names []string) []Selection {
	out := make([]Selection, 0, len(names))
	for _, n := range names {
		sel, _ := Parse(level, p, n)
		out = append(out, sel)
	}
	return out
}

// DefaultNames are the configuration names of every operation at a level.
func DefaultNames(level Level, p Precision) []string {
	ops := OpsFor(level)
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.ConfigName(p))
	}
	return names
}
