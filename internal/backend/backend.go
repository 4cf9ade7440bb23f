// Package backend defines the abstract IR-emission target described
// in spec.md §4.10 and the two concrete adapters spec.md §4.11 names.
// It mirrors funxy's own split of execution into a narrow Backend
// interface plus swappable implementations
// (internal/backend/backend.go, vmbackend.go in that repo).
package backend

import "github.com/vexlang/vexc/internal/types"

// Value is an opaque SSA value handle, the result of any Build*
// instruction. Its string form is only meaningful to the backend that
// produced it.
type Value string

// Block is an opaque basic-block handle returned by CreateBasicBlock.
type Block string

// BinOp names an arithmetic or comparison primitive (spec.md §4.10:
// "integer/float arithmetic and comparison primitives").
type BinOp string

const (
	OpAdd BinOp = "add"
	OpSub BinOp = "sub"
	OpMul BinOp = "mul"
	OpDiv BinOp = "div"
	OpRem BinOp = "rem"
	OpEq  BinOp = "eq"
	OpNe  BinOp = "ne"
	OpLt  BinOp = "lt"
	OpLe  BinOp = "le"
	OpGt  BinOp = "gt"
	OpGe  BinOp = "ge"
	OpAnd BinOp = "and"
	OpOr  BinOp = "or"
)

// Backend is the IR builder contract of spec.md §4.10: create basic
// blocks, position the cursor, and build one instruction at a time.
// lowering.LoweringProcessor is the only caller; this interface is
// deliberately low-level and sequential (spec.md §5: "the IR builder
// is a sequential resource; only one emission may be in progress").
type Backend interface {
	DeclareFunction(name string, paramTypes []types.Type, ret types.Type)
	DeclareGlobal(name string, t types.Type)

	CreateBasicBlock(function, label string) Block
	PositionAt(b Block)

	BuildAlloca(t types.Type, name string) Value
	BuildLoad(t types.Type, ptr Value, name string) Value
	BuildStore(ptr, value Value)
	BuildGEP(structType types.Type, base Value, indices []int, name string) Value

	BuildBranch(target Block)
	BuildCondBranch(cond Value, thenBlock, elseBlock Block)
	BuildSwitch(value Value, cases map[int64]Block, defaultBlock Block)
	BuildReturn(value Value)

	BuildCall(function string, args []Value, name string) Value
	BuildBinOp(op BinOp, lhs, rhs Value, name string) Value
	BuildConst(t types.Type, literal any, name string) Value

	// Name identifies the backend for CLI/diagnostic reporting.
	Name() string
}

// TypeStr renders t for an instruction operand, tolerating a nil Type
// for call sites where the core could not resolve one (e.g. a
// lowering path reached ahead of full type propagation).
func TypeStr(t types.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}
