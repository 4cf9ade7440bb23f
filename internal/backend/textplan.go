package backend

import (
	"fmt"
	"strings"

	"github.com/vexlang/vexc/internal/types"
)

// TextPlanBackend renders every builder call as one line of a textual
// instruction plan, the "textual IR plan" the module is named for.
// It is the default backend for `--emit=ir` (spec.md §4.13).
type TextPlanBackend struct {
	lines     []string
	valueSeq  int
	curFunc   string
	curBlock  Block
}

// NewTextPlan returns a TextPlanBackend ready to record a compilation.
func NewTextPlan() *TextPlanBackend {
	return &TextPlanBackend{}
}

func (b *TextPlanBackend) Name() string { return "textplan" }

// Render returns the full accumulated instruction plan.
func (b *TextPlanBackend) Render() string {
	return strings.Join(b.lines, "\n") + "\n"
}

func (b *TextPlanBackend) emit(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *TextPlanBackend) nextValue(prefix string) Value {
	b.valueSeq++
	return Value(fmt.Sprintf("%%%s%d", prefix, b.valueSeq))
}

func (b *TextPlanBackend) DeclareFunction(name string, paramTypes []types.Type, ret types.Type) {
	b.curFunc = name
	parts := make([]string, len(paramTypes))
	for i, p := range paramTypes {
		parts[i] = TypeStr(p)
	}
	retStr := TypeStr(ret)
	if ret == nil {
		retStr = "unit"
	}
	b.emit("declare function %s(%s) -> %s", name, strings.Join(parts, ", "), retStr)
}

func (b *TextPlanBackend) DeclareGlobal(name string, t types.Type) {
	b.emit("declare global %s: %s", name, TypeStr(t))
}

func (b *TextPlanBackend) CreateBasicBlock(function, label string) Block {
	blk := Block(fmt.Sprintf("%s.%s", function, label))
	b.emit("block %s:", blk)
	return blk
}

func (b *TextPlanBackend) PositionAt(blk Block) {
	b.curBlock = blk
	b.emit("  ; position %s", blk)
}

func (b *TextPlanBackend) BuildAlloca(t types.Type, name string) Value {
	v := b.nextValue(name)
	b.emit("  %s = alloca %s", v, TypeStr(t))
	return v
}

func (b *TextPlanBackend) BuildLoad(t types.Type, ptr Value, name string) Value {
	v := b.nextValue(name)
	b.emit("  %s = load %s, %s", v, TypeStr(t), ptr)
	return v
}

func (b *TextPlanBackend) BuildStore(ptr, value Value) {
	b.emit("  store %s, %s", value, ptr)
}

func (b *TextPlanBackend) BuildGEP(structType types.Type, base Value, indices []int, name string) Value {
	v := b.nextValue(name)
	b.emit("  %s = gep %s, %s, %v", v, TypeStr(structType), base, indices)
	return v
}

func (b *TextPlanBackend) BuildBranch(target Block) {
	b.emit("  branch %s", target)
}

func (b *TextPlanBackend) BuildCondBranch(cond Value, thenBlock, elseBlock Block) {
	b.emit("  cbranch %s, %s, %s", cond, thenBlock, elseBlock)
}

func (b *TextPlanBackend) BuildSwitch(value Value, cases map[int64]Block, defaultBlock Block) {
	b.emit("  switch %s, default %s, cases %v", value, defaultBlock, cases)
}

func (b *TextPlanBackend) BuildReturn(value Value) {
	if value == "" {
		b.emit("  return")
		return
	}
	b.emit("  return %s", value)
}

func (b *TextPlanBackend) BuildCall(function string, args []Value, name string) Value {
	v := b.nextValue(name)
	strArgs := make([]string, len(args))
	for i, a := range args {
		strArgs[i] = string(a)
	}
	b.emit("  %s = call %s(%s)", v, function, strings.Join(strArgs, ", "))
	return v
}

func (b *TextPlanBackend) BuildBinOp(op BinOp, lhs, rhs Value, name string) Value {
	v := b.nextValue(name)
	b.emit("  %s = %s %s, %s", v, op, lhs, rhs)
	return v
}

func (b *TextPlanBackend) BuildConst(t types.Type, literal any, name string) Value {
	v := b.nextValue(name)
	if s, ok := literal.(string); ok {
		b.emit("  %s = const %s %q", v, TypeStr(t), s)
		return v
	}
	b.emit("  %s = const %s %v", v, TypeStr(t), literal)
	return v
}
