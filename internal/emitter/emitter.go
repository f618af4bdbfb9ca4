package emitter

import (
	"fmt"
	"strings"

	"github.com/kievzenit/tinybasic/internal/ast"
	"github.com/kievzenit/tinybasic/internal/codegen"
	"tinygo.org/x/go-llvm"
)

// gosubStackDepth bounds GOSUB nesting at run time.
const gosubStackDepth = 64

type UnknownLineError struct {
	Line   int
	Target int
}

func (e *UnknownLineError) GetMessage() string {
	return fmt.Sprintf("line %d branches to undefined line %d", e.Line, e.Target)
}

func (e *UnknownLineError) Error() string {
	return e.GetMessage()
}

type gosubSite struct {
	id           uint64
	continuation llvm.BasicBlock
}

// Emitter lowers a program to an LLVM module with a single main function.
// Every BASIC line becomes a basic block, GOSUB keeps its return sites on an
// explicit stack and RETURN dispatches over them with a switch.
type Emitter struct {
	program *ast.Program

	context llvm.Context
	module  llvm.Module
	builder llvm.Builder

	i32, i64, ptr llvm.Type

	printf llvm.Value
	scanf  llvm.Value

	mainFunc               llvm.Value
	currentAllocBasicBlock llvm.BasicBlock
	exitBasicBlock         llvm.BasicBlock
	failBasicBlock         llvm.BasicBlock
	returnBasicBlock       llvm.BasicBlock

	lineBasicBlocks map[int]llvm.BasicBlock
	nextBasicBlock  llvm.BasicBlock
	currentLine     int

	variablesMap map[byte]llvm.Value
	formatsMap   map[string]llvm.Value

	gosubStack   llvm.Value
	gosubSP      llvm.Value
	gosubSites   []gosubSite
	gosubStackTy llvm.Type

	controlFlowHappen bool
}

func NewEmitter(program *ast.Program) *Emitter {
	context := llvm.NewContext()
	e := &Emitter{
		program: program,

		context: context,
		module:  context.NewModule(program.Name),
		builder: context.NewBuilder(),

		lineBasicBlocks: make(map[int]llvm.BasicBlock),
		variablesMap:    make(map[byte]llvm.Value),
		formatsMap:      make(map[string]llvm.Value),
		gosubSites:      make([]gosubSite, 0),
	}

	e.i32 = context.Int32Type()
	e.i64 = context.Int64Type()
	e.ptr = llvm.PointerType(context.Int8Type(), 0)
	e.gosubStackTy = llvm.ArrayType(e.i32, gosubStackDepth)

	return e
}

func (e *Emitter) Dispose() {
	e.builder.Dispose()
	e.context.Dispose()
}

// EmitIR lowers program, verifies the module and returns its textual IR.
func EmitIR(program *ast.Program) (string, error) {
	e := NewEmitter(program)
	defer e.Dispose()

	module, err := e.Emit()
	if err != nil {
		return "", err
	}

	if err := llvm.VerifyModule(module, llvm.ReturnStatusAction); err != nil {
		return "", fmt.Errorf("llvm module verification: %w", err)
	}

	return module.String(), nil
}

func (e *Emitter) Emit() (llvm.Module, error) {
	e.declareLibcPrototypes()

	mainType := llvm.FunctionType(e.i32, nil, false)
	e.mainFunc = llvm.AddFunction(e.module, "main", mainType)
	e.mainFunc.AddFunctionAttr(e.context.CreateStringAttribute("frame-pointer", "all"))

	e.currentAllocBasicBlock = e.context.AddBasicBlock(e.mainFunc, "alloc")
	for _, line := range e.program.Lines {
		e.lineBasicBlocks[line.Number] = e.context.AddBasicBlock(e.mainFunc, fmt.Sprintf("line_%d", line.Number))
	}
	e.exitBasicBlock = e.context.AddBasicBlock(e.mainFunc, "exit")
	e.failBasicBlock = e.context.AddBasicBlock(e.mainFunc, "fail")
	e.returnBasicBlock = e.context.AddBasicBlock(e.mainFunc, "return")

	e.builder.SetInsertPointAtEnd(e.currentAllocBasicBlock)
	e.gosubStack = e.builder.CreateAlloca(e.gosubStackTy, "gosub_stack")
	e.gosubSP = e.builder.CreateAlloca(e.i32, "gosub_sp")
	e.builder.CreateStore(llvm.ConstInt(e.i32, 0, false), e.gosubSP)

	for i, line := range e.program.Lines {
		e.currentLine = line.Number
		e.nextBasicBlock = e.exitBasicBlock
		if i+1 < len(e.program.Lines) {
			e.nextBasicBlock = e.lineBasicBlocks[e.program.Lines[i+1].Number]
		}

		e.builder.SetInsertPointAtEnd(e.lineBasicBlocks[line.Number])
		if err := e.emitForStmt(line.Stmt); err != nil {
			return llvm.Module{}, err
		}

		if !e.controlFlowHappen {
			e.builder.CreateBr(e.nextBasicBlock)
		}
		e.controlFlowHappen = false
	}

	e.builder.SetInsertPointAtEnd(e.currentAllocBasicBlock)
	if len(e.program.Lines) > 0 {
		e.builder.CreateBr(e.lineBasicBlocks[e.program.Lines[0].Number])
	} else {
		e.builder.CreateBr(e.exitBasicBlock)
	}

	e.builder.SetInsertPointAtEnd(e.exitBasicBlock)
	e.builder.CreateRet(llvm.ConstInt(e.i32, 0, false))

	e.builder.SetInsertPointAtEnd(e.failBasicBlock)
	e.builder.CreateRet(llvm.ConstInt(e.i32, 1, false))

	e.emitReturnDispatch()

	return e.module, nil
}

func (e *Emitter) declareLibcPrototypes() {
	variadic := llvm.FunctionType(e.i32, []llvm.Type{e.ptr}, true)
	e.printf = llvm.AddFunction(e.module, "printf", variadic)
	e.scanf = llvm.AddFunction(e.module, "scanf", variadic)
}

func (e *Emitter) emitForStmt(stmt ast.Stmt) error {
	switch stmt := stmt.(type) {
	case *ast.LetStmt:
		value := e.emitForExpr(stmt.Value)
		e.builder.CreateStore(value, e.variable(stmt.Target.Name))

	case *ast.PrintStmt:
		e.emitForPrintStmt(stmt)

	case *ast.InputStmt:
		format := e.format("%lld")
		for _, target := range stmt.Targets {
			e.builder.CreateCall(e.scanf.GlobalValueType(), e.scanf, []llvm.Value{format, e.variable(target.Name)}, "")
		}

	case *ast.IfStmt:
		return e.emitForIfStmt(stmt)

	case *ast.GotoStmt:
		target, err := e.lineBasicBlock(stmt.Target)
		if err != nil {
			return err
		}
		e.builder.CreateBr(target)
		e.controlFlowHappen = true

	case *ast.GoSubStmt:
		return e.emitForGoSubStmt(stmt)

	case *ast.ReturnStmt:
		e.builder.CreateBr(e.returnBasicBlock)
		e.controlFlowHappen = true

	case *ast.EndStmt:
		e.builder.CreateBr(e.exitBasicBlock)
		e.controlFlowHappen = true

	default:
		panic(fmt.Sprintf("emitForStmt(): unknown statement %T", stmt))
	}

	return nil
}

// emitForPrintStmt folds all items into one printf format.
func (e *Emitter) emitForPrintStmt(stmt *ast.PrintStmt) {
	var format strings.Builder
	args := make([]llvm.Value, 1, len(stmt.Items)+1)

	for _, item := range stmt.Items {
		if str, ok := item.(*ast.StringExpr); ok {
			data := codegen.DecodeString(str.Value)
			format.WriteString(strings.ReplaceAll(string(data), "%", "%%"))
			continue
		}

		format.WriteString("%lld")
		args = append(args, e.emitForExpr(item))
	}
	format.WriteString("\n")

	args[0] = e.format(format.String())
	e.builder.CreateCall(e.printf.GlobalValueType(), e.printf, args, "")
}

func (e *Emitter) emitForIfStmt(stmt *ast.IfStmt) error {
	cond := e.emitForCondition(stmt.Cond)

	thenBasicBlock := e.context.AddBasicBlock(e.mainFunc, fmt.Sprintf("line_%d_then", e.currentLine))
	thenBasicBlock.MoveBefore(e.exitBasicBlock)
	e.builder.CreateCondBr(cond, thenBasicBlock, e.nextBasicBlock)

	e.builder.SetInsertPointAtEnd(thenBasicBlock)
	if err := e.emitForStmt(stmt.Then); err != nil {
		return err
	}

	if !e.controlFlowHappen {
		e.builder.CreateBr(e.nextBasicBlock)
	}
	e.controlFlowHappen = true

	return nil
}

func (e *Emitter) emitForGoSubStmt(stmt *ast.GoSubStmt) error {
	target, err := e.lineBasicBlock(stmt.Target)
	if err != nil {
		return err
	}

	site := gosubSite{
		id:           uint64(len(e.gosubSites)),
		continuation: e.context.AddBasicBlock(e.mainFunc, fmt.Sprintf("line_%d_gosub_ret", e.currentLine)),
	}
	site.continuation.MoveBefore(e.exitBasicBlock)
	e.gosubSites = append(e.gosubSites, site)

	pushBasicBlock := e.context.AddBasicBlock(e.mainFunc, fmt.Sprintf("line_%d_gosub_push", e.currentLine))
	pushBasicBlock.MoveBefore(site.continuation)

	sp := e.builder.CreateLoad(e.i32, e.gosubSP, "sp")
	full := e.builder.CreateICmp(llvm.IntSGE, sp, llvm.ConstInt(e.i32, gosubStackDepth, false), "full")
	e.builder.CreateCondBr(full, e.failBasicBlock, pushBasicBlock)

	e.builder.SetInsertPointAtEnd(pushBasicBlock)
	slot := e.builder.CreateInBoundsGEP(e.gosubStackTy, e.gosubStack, []llvm.Value{llvm.ConstInt(e.i32, 0, false), sp}, "slot")
	e.builder.CreateStore(llvm.ConstInt(e.i32, site.id, false), slot)
	e.builder.CreateStore(e.builder.CreateAdd(sp, llvm.ConstInt(e.i32, 1, false), "sp_next"), e.gosubSP)
	e.builder.CreateBr(target)

	e.builder.SetInsertPointAtEnd(site.continuation)

	return nil
}

// emitReturnDispatch pops a return site and jumps back to it.
func (e *Emitter) emitReturnDispatch() {
	e.builder.SetInsertPointAtEnd(e.returnBasicBlock)

	popBasicBlock := e.context.AddBasicBlock(e.mainFunc, "return_pop")

	sp := e.builder.CreateLoad(e.i32, e.gosubSP, "sp")
	empty := e.builder.CreateICmp(llvm.IntSLE, sp, llvm.ConstInt(e.i32, 0, false), "empty")
	e.builder.CreateCondBr(empty, e.failBasicBlock, popBasicBlock)

	e.builder.SetInsertPointAtEnd(popBasicBlock)
	top := e.builder.CreateSub(sp, llvm.ConstInt(e.i32, 1, false), "sp_top")
	e.builder.CreateStore(top, e.gosubSP)
	slot := e.builder.CreateInBoundsGEP(e.gosubStackTy, e.gosubStack, []llvm.Value{llvm.ConstInt(e.i32, 0, false), top}, "slot")
	id := e.builder.CreateLoad(e.i32, slot, "site")

	dispatch := e.builder.CreateSwitch(id, e.failBasicBlock, len(e.gosubSites))
	for _, site := range e.gosubSites {
		dispatch.AddCase(llvm.ConstInt(e.i32, site.id, false), site.continuation)
	}
}

func (e *Emitter) emitForCondition(cond *ast.RelationalExpr) llvm.Value {
	left := e.emitForExpr(cond.Left)
	right := e.emitForExpr(cond.Right)

	var predicate llvm.IntPredicate
	switch cond.Op {
	case ast.Less:
		predicate = llvm.IntSLT
	case ast.LessEqual:
		predicate = llvm.IntSLE
	case ast.Equal:
		predicate = llvm.IntEQ
	case ast.NotEqual:
		predicate = llvm.IntNE
	case ast.Greater:
		predicate = llvm.IntSGT
	case ast.GreaterEqual:
		predicate = llvm.IntSGE
	default:
		panic(fmt.Sprintf("emitForCondition(): unknown operator %d", cond.Op))
	}

	return e.builder.CreateICmp(predicate, left, right, "cmptmp")
}

func (e *Emitter) emitForExpr(expr ast.Expr) llvm.Value {
	switch expr := expr.(type) {
	case *ast.NumberExpr:
		return llvm.ConstInt(e.i64, uint64(expr.Value), true)

	case *ast.IdentExpr:
		return e.builder.CreateLoad(e.i64, e.variable(expr.Name), "loadtmp")

	case *ast.UnaryExpr:
		operand := e.emitForExpr(expr.Operand)
		if expr.Op == ast.UnaryMinus {
			return e.builder.CreateNeg(operand, "negtmp")
		}
		return operand

	case *ast.ArithmeticExpr:
		left := e.emitForExpr(expr.Left)
		right := e.emitForExpr(expr.Right)

		switch expr.Op {
		case ast.Add:
			return e.builder.CreateAdd(left, right, "addtmp")
		case ast.Sub:
			return e.builder.CreateSub(left, right, "subtmp")
		case ast.Mul:
			return e.builder.CreateMul(left, right, "multmp")
		case ast.Div:
			return e.builder.CreateSDiv(left, right, "divtmp")
		default:
			panic(fmt.Sprintf("emitForExpr(): unknown operator %d", expr.Op))
		}

	default:
		panic(fmt.Sprintf("emitForExpr(): %T is not an arithmetic expression", expr))
	}
}

// variable returns the stack slot of name, allocating it in the alloc block
// on first use.
func (e *Emitter) variable(name byte) llvm.Value {
	if slot, ok := e.variablesMap[name]; ok {
		return slot
	}

	currBasicBlock := e.builder.GetInsertBlock()
	e.builder.SetInsertPointAtEnd(e.currentAllocBasicBlock)
	slot := e.builder.CreateAlloca(e.i64, string(name))
	e.builder.CreateStore(llvm.ConstInt(e.i64, 0, false), slot)
	e.builder.SetInsertPointAtEnd(currBasicBlock)

	e.variablesMap[name] = slot
	return slot
}

func (e *Emitter) format(text string) llvm.Value {
	if value, ok := e.formatsMap[text]; ok {
		return value
	}

	value := e.builder.CreateGlobalStringPtr(text, fmt.Sprintf("fmt%d", len(e.formatsMap)))
	e.formatsMap[text] = value
	return value
}

func (e *Emitter) lineBasicBlock(number int) (llvm.BasicBlock, error) {
	block, ok := e.lineBasicBlocks[number]
	if !ok {
		return llvm.BasicBlock{}, &UnknownLineError{Line: e.currentLine, Target: number}
	}
	return block, nil
}
