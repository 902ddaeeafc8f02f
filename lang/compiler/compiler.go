// Package compiler turns a type-checked AST into a compiled top-level
// objects.Function plus the objects.GlobalStore it and every nested
// function reference. It is a single recursive-descent pass: no separate
// optimization or peephole stage, matching the "no optimization passes"
// non-goal.
//
// A funcCompiler chain mirrors lexical function nesting, with emit/patch
// helpers for forward jumps. The opcode set, the global/local/
// inherited-local resolution order, and the closure soft-trunc mechanism
// are Vif-specific and are documented inline where they're implemented.
package compiler

import (
	"github.com/vif-lang/vif/lang/ast"
	"github.com/vif-lang/vif/lang/native"
	"github.com/vif-lang/vif/lang/objects"
	"github.com/vif-lang/vif/lang/viferr"
)

// localVar is the compiler's bookkeeping for one declared local: its stack
// slot, the block nesting depth it was declared at (for shadow scoping),
// and its mutability.
type localVar struct {
	name    string
	slot    int
	depth   int
	mutable bool
}

// loopCtx tracks enough state to compile break/continue inside a while
// loop: start is the absolute chunk offset to Goto for continue;
// condJumpPos is the position of the loop's own JumpIfFalse, patched once
// the loop's exit offset is known; breakGotos collects the positions of
// every break's Goto, each patched to the same absolute exit offset.
type loopCtx struct {
	start       int
	condJumpPos int
	breakGotos  []int
}

// globalVarInfo records how a module-level name is bound: its stable
// GlobalStore index and whether it may be reassigned.
type globalVarInfo struct {
	index   int
	mutable bool
}

// funcCompiler compiles one function body (or the implicit top-level
// program, for which enclosing is nil). depth>0 bindings correspond to
// any funcCompiler with a non-nil enclosing.
type funcCompiler struct {
	enclosing  *funcCompiler
	fn         *objects.Function
	locals     []localVar
	blockDepth int
	nextSlot   int
	loops      []loopCtx
}

func (fc *funcCompiler) isTop() bool { return fc.enclosing == nil }

func (fc *funcCompiler) here() int { return len(fc.fn.Chunk) }

func (fc *funcCompiler) emit(kind objects.OpKind, a int, span objects.Span) int {
	fc.fn.Chunk = append(fc.fn.Chunk, objects.OpCode{Kind: kind, A: a, Span: span})
	return len(fc.fn.Chunk) - 1
}

func (fc *funcCompiler) emit2(kind objects.OpKind, a, b int, span objects.Span) int {
	fc.fn.Chunk = append(fc.fn.Chunk, objects.OpCode{Kind: kind, A: a, B: b, Span: span})
	return len(fc.fn.Chunk) - 1
}

// patchRelative turns the placeholder JumpIfFalse/Jump at pos into a
// relative forward offset from pos to the chunk's current length.
func (fc *funcCompiler) patchRelative(pos int) {
	fc.fn.Chunk[pos].A = len(fc.fn.Chunk) - pos - 1
}

func (fc *funcCompiler) declareLocal(name string, mutable bool) int {
	slot := fc.nextSlot
	fc.nextSlot++
	fc.locals = append(fc.locals, localVar{name: name, slot: slot, depth: fc.blockDepth, mutable: mutable})
	fc.fn.Locals = append(fc.fn.Locals, objects.LocalDecl{Name: name, Depth: fc.blockDepth, Mutable: mutable})
	if slot+1 > fc.fn.MaxLocalSlots {
		fc.fn.MaxLocalSlots = slot + 1
	}
	return slot
}

func (fc *funcCompiler) resolveLocal(name string) (localVar, bool) {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return fc.locals[i], true
		}
	}
	return localVar{}, false
}

// resolveInherited walks the enclosing chain looking for name among already
//-declared locals, returning the InheritedLocal descriptor on the first
// match (innermost enclosing frame wins).
func (fc *funcCompiler) resolveInherited(name string) (objects.InheritedLocal, bool) {
	depth := 0
	for enc := fc.enclosing; enc != nil; enc = enc.enclosing {
		depth++
		if lv, ok := enc.resolveLocal(name); ok {
			return objects.InheritedLocal{Name: name, Depth: depth, Pos: lv.slot, Mutable: lv.mutable}, true
		}
	}
	return objects.InheritedLocal{}, false
}

func (fc *funcCompiler) recordInherited(il objects.InheritedLocal) {
	for _, e := range fc.fn.InheritedLocals {
		if e.Name == il.Name {
			return
		}
	}
	fc.fn.InheritedLocals = append(fc.fn.InheritedLocals, il)
}

func (fc *funcCompiler) beginBlock() { fc.blockDepth++ }

func (fc *funcCompiler) endBlock() {
	fc.blockDepth--
	for len(fc.locals) > 0 && fc.locals[len(fc.locals)-1].depth > fc.blockDepth {
		fc.locals = fc.locals[:len(fc.locals)-1]
	}
}

// Compiler drives compilation of the whole program, owning the GlobalStore
// shared by every function.
type Compiler struct {
	globals    *objects.GlobalStore
	globalVars map[string]globalVarInfo
	fc         *funcCompiler
}

// Compile compiles a statically-checked top-level *ast.Function into a
// runtime *objects.Function plus the GlobalStore it references.
func Compile(top *ast.Function) (*objects.Function, *objects.GlobalStore, error) {
	c := &Compiler{
		globals:    objects.NewGlobalStore(),
		globalVars: make(map[string]globalVarInfo),
	}
	fn := &objects.Function{Arity: objects.FixedArity(0), Name: ""}
	c.fc = &funcCompiler{fn: fn}

	if err := c.seedNatives(); err != nil {
		return nil, nil, err
	}
	if err := c.compileBody(top.Body); err != nil {
		return nil, nil, err
	}
	c.finishChunk(c.fc)
	return fn, c.globals, nil
}

// finishChunk enforces the invariant that every chunk ends with Return.
func (c *Compiler) finishChunk(fc *funcCompiler) {
	if n := len(fc.fn.Chunk); n == 0 || fc.fn.Chunk[n-1].Kind != objects.OpReturn {
		sp := objects.Span{}
		if n > 0 {
			sp = fc.fn.Chunk[n-1].Span
		}
		fc.emit(objects.OpNone, 0, sp)
		fc.emit(objects.OpReturn, 0, sp)
	}
}

// seedNatives pre-declares print, get_time and sleep in the global
// namespace, indistinguishable to compiled code from any other
// global variable: resolution goes through the same globalVars map and the
// same GetGlobal opcode, with the VM falling back to a Global's Native
// payload when the variable store has never been assigned for that name.
func (c *Compiler) seedNatives() error {
	for _, name := range native.Names() {
		nf, _ := native.Lookup(name)
		idx, err := c.globals.Add(objects.NewNativeGlobal(name, nf))
		if err != nil {
			return viferr.New(viferr.KindConstantNotFound, objects.Span{}, "%v", err)
		}
		c.globalVars[name] = globalVarInfo{index: idx, mutable: false}
	}
	return nil
}

func (c *Compiler) compileBody(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return err
		}
	}
	return nil
}
