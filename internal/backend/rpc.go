package backend

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vexlang/vexc/internal/types"
)

//go:embed irplan.proto
var irPlanSchema string

// RPCBackend forwards every builder call to an external LLVM-binding
// adapter process over gRPC, the one real external boundary spec.md
// §4.11 names. Each call is encoded as a dynamically built protobuf
// message rather than a generated .pb.go type — the exact
// protoparse.Parser + dynamic.NewMessage + grpc.ClientConn.Invoke
// pattern funxy itself uses to talk to arbitrary gRPC services from
// the scripting language, reused here for the compiler's own LLVM
// boundary.
type RPCBackend struct {
	conn   *grpc.ClientConn
	method *desc.MethodDescriptor
}

// DialRPCBackend connects to an adapter at addr and parses the
// embedded irplan.proto schema to obtain the Emit method descriptor.
func DialRPCBackend(addr string) (*RPCBackend, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("backend: dial %s: %w", addr, err)
	}

	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"irplan.proto": irPlanSchema,
		}),
	}
	fds, err := parser.ParseFiles("irplan.proto")
	if err != nil {
		return nil, fmt.Errorf("backend: parse irplan.proto: %w", err)
	}
	svc := fds[0].FindService("vexc.irplan.IrPlanAdapter")
	if svc == nil {
		return nil, fmt.Errorf("backend: service IrPlanAdapter not found in schema")
	}
	method := svc.FindMethodByName("Emit")
	if method == nil {
		return nil, fmt.Errorf("backend: method Emit not found in schema")
	}
	return &RPCBackend{conn: conn, method: method}, nil
}

func (b *RPCBackend) Name() string { return "rpc" }

// Close releases the underlying gRPC connection.
func (b *RPCBackend) Close() error { return b.conn.Close() }

func (b *RPCBackend) call(opcode, function, block string, operands []string, resultType, resultName string) string {
	req := dynamic.NewMessage(b.method.GetInputType())
	req.SetFieldByName("opcode", opcode)
	req.SetFieldByName("function", function)
	req.SetFieldByName("block", block)
	req.SetFieldByName("operands", operands)
	req.SetFieldByName("result_type", resultType)
	req.SetFieldByName("result_name", resultName)

	resp := dynamic.NewMessage(b.method.GetOutputType())
	methodPath := "/vexc.irplan.IrPlanAdapter/Emit"
	if err := b.conn.Invoke(context.Background(), methodPath, req, resp); err != nil {
		return ""
	}
	if v, err := resp.TryGetFieldByName("value"); err == nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (b *RPCBackend) DeclareFunction(name string, paramTypes []types.Type, ret types.Type) {
	operands := typeStrings(paramTypes)
	retStr := TypeStr(ret)
	if ret == nil {
		retStr = "unit"
	}
	b.call("declare_function", name, "", operands, retStr, name)
}

func (b *RPCBackend) DeclareGlobal(name string, t types.Type) {
	b.call("declare_global", "", "", nil, TypeStr(t), name)
}

func (b *RPCBackend) CreateBasicBlock(function, label string) Block {
	b.call("create_basic_block", function, label, nil, "", "")
	return Block(function + "." + label)
}

func (b *RPCBackend) PositionAt(blk Block) {
	b.call("position_at", "", string(blk), nil, "", "")
}

func (b *RPCBackend) BuildAlloca(t types.Type, name string) Value {
	return Value(b.call("build_alloca", "", "", nil, TypeStr(t), name))
}

func (b *RPCBackend) BuildLoad(t types.Type, ptr Value, name string) Value {
	return Value(b.call("build_load", "", "", []string{string(ptr)}, TypeStr(t), name))
}

func (b *RPCBackend) BuildStore(ptr, value Value) {
	b.call("build_store", "", "", []string{string(ptr), string(value)}, "", "")
}

func (b *RPCBackend) BuildGEP(structType types.Type, base Value, indices []int, name string) Value {
	operands := append([]string{string(base)}, intsToStrings(indices)...)
	return Value(b.call("build_gep", "", "", operands, TypeStr(structType), name))
}

func (b *RPCBackend) BuildBranch(target Block) {
	b.call("build_branch", "", "", []string{string(target)}, "", "")
}

func (b *RPCBackend) BuildCondBranch(cond Value, thenBlock, elseBlock Block) {
	b.call("build_conditional_branch", "", "", []string{string(cond), string(thenBlock), string(elseBlock)}, "", "")
}

func (b *RPCBackend) BuildSwitch(value Value, cases map[int64]Block, defaultBlock Block) {
	operands := []string{string(value), string(defaultBlock)}
	for tag, blk := range cases {
		operands = append(operands, fmt.Sprintf("%d=%s", tag, blk))
	}
	b.call("build_switch", "", "", operands, "", "")
}

func (b *RPCBackend) BuildReturn(value Value) {
	b.call("build_return", "", "", []string{string(value)}, "", "")
}

func (b *RPCBackend) BuildCall(function string, args []Value, name string) Value {
	operands := make([]string, len(args))
	for i, a := range args {
		operands[i] = string(a)
	}
	return Value(b.call("build_call", function, "", operands, "", name))
}

func (b *RPCBackend) BuildBinOp(op BinOp, lhs, rhs Value, name string) Value {
	return Value(b.call(string(op), "", "", []string{string(lhs), string(rhs)}, "", name))
}

func (b *RPCBackend) BuildConst(t types.Type, literal any, name string) Value {
	return Value(b.call("build_const", "", "", []string{fmt.Sprint(literal)}, TypeStr(t), name))
}

func typeStrings(ts []types.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = TypeStr(t)
	}
	return out
}

func intsToStrings(is []int) []string {
	out := make([]string, len(is))
	for i, v := range is {
		out[i] = fmt.Sprint(v)
	}
	return out
}
