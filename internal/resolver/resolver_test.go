package resolver

import (
	"testing"

	"github.com/tangzhangming/riva/internal/ast"
	"github.com/tangzhangming/riva/internal/parser"
)

// recordingBinder 收集深度条目的测试替身
type recordingBinder map[ast.NodeID]int

func (b recordingBinder) Resolve(id ast.NodeID, depth int) {
	b[id] = depth
}

func resolveSource(t *testing.T, source string, warnUnused bool) (*Resolver, recordingBinder) {
	t.Helper()

	p := parser.New(source, "test.riva")
	statements := p.Parse()
	if p.HasErrors() {
		t.Fatalf("parser errors: %v", p.Errors())
	}

	binder := make(recordingBinder)
	r := New(binder, warnUnused)
	r.Resolve(statements)
	return r, binder
}

func TestResolveLocalDepths(t *testing.T) {
	source := `
var g = 1;
{
  var a = g;
  {
    var b = a;
    b = b + a;
  }
}`

	r, binder := resolveSource(t, source, false)
	if r.HasErrors() {
		t.Fatalf("resolver errors: %v", r.Errors())
	}

	// g 是全局：初始化器里的 g 引用没有深度条目。
	// a 在内层块中的引用深度 1，b 的引用深度 0。
	depths := make(map[int]int)
	for _, d := range binder {
		depths[d]++
	}
	if depths[0] < 2 {
		t.Errorf("expected at least two depth-0 entries (b uses), got %d", depths[0])
	}
	if depths[1] != 2 {
		t.Errorf("expected two depth-1 entries (a uses), got %d", depths[1])
	}
}

func TestResolveGlobalsHaveNoEntry(t *testing.T) {
	source := `var x = 1; print x; x = 2;`

	r, binder := resolveSource(t, source, false)
	if r.HasErrors() {
		t.Fatalf("resolver errors: %v", r.Errors())
	}
	if len(binder) != 0 {
		t.Errorf("globals must not get depth entries, got %d", len(binder))
	}
}

func TestResolveClosureCapturesDeclarationScope(t *testing.T) {
	// 块中先定义 show 再遮蔽 a，show 始终指向全局 a
	source := `
var a = "global";
{
  fun show() {
    print a;
  }
  show();
  var a = "block";
  show();
}`

	r, binder := resolveSource(t, source, false)
	if r.HasErrors() {
		t.Fatalf("resolver errors: %v", r.Errors())
	}

	// show 体内的 a 没有条目（解析为全局）；
	// 两次 show() 调用引用的是块内的函数绑定，深度 0。
	zeroDepth := 0
	for _, d := range binder {
		if d == 0 {
			zeroDepth++
		}
	}
	if zeroDepth < 2 {
		t.Errorf("expected the two show() references at depth 0, got %d", zeroDepth)
	}
}

func TestResolveReadInOwnInitializer(t *testing.T) {
	source := `{
  var a = 1;
  {
    var a = a;
  }
}`

	r, _ := resolveSource(t, source, false)
	if !r.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := r.Errors()[0].Message; got != "Can't read local variable in its own initializer." {
		t.Errorf("message mismatch: got %q", got)
	}
}

func TestResolveDuplicateDeclaration(t *testing.T) {
	source := `{
  var a = 1;
  var a = 2;
}`

	r, _ := resolveSource(t, source, false)
	if !r.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := r.Errors()[0].Message; got != "Already a variable with this name in this scope." {
		t.Errorf("message mismatch: got %q", got)
	}
}

func TestResolveGlobalRedeclarationAllowed(t *testing.T) {
	// 全局在作用域栈之外，重复声明合法（交互模式依赖这一点）
	source := `var a = 1; var a = 2;`

	r, _ := resolveSource(t, source, false)
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %v", r.Errors())
	}
}

func TestResolveReturnOutsideFunction(t *testing.T) {
	r, _ := resolveSource(t, `return 1;`, false)
	if !r.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := r.Errors()[0].Message; got != "Can't return from top-level code." {
		t.Errorf("message mismatch: got %q", got)
	}
}

func TestResolveReturnValueFromInitializer(t *testing.T) {
	source := `class C { init() { return 1; } }`

	r, _ := resolveSource(t, source, false)
	if !r.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := r.Errors()[0].Message; got != "Can't return a value from an initializer." {
		t.Errorf("message mismatch: got %q", got)
	}
}

func TestResolveBareReturnFromInitializerAllowed(t *testing.T) {
	source := `class C { init() { return; } }`

	r, _ := resolveSource(t, source, false)
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %v", r.Errors())
	}
}

func TestResolveSelfInheritance(t *testing.T) {
	r, _ := resolveSource(t, `class A < A {}`, false)
	if !r.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := r.Errors()[0].Message; got != "A class can't inherit from itself." {
		t.Errorf("message mismatch: got %q", got)
	}
}

func TestResolveThisOutsideClass(t *testing.T) {
	r, _ := resolveSource(t, `print this;`, false)
	if !r.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := r.Errors()[0].Message; got != "Can't use 'this' outside of a class." {
		t.Errorf("message mismatch: got %q", got)
	}
}

func TestResolveSuperOutsideClass(t *testing.T) {
	r, _ := resolveSource(t, `fun f() { return super.m; }`, false)
	if !r.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := r.Errors()[0].Message; got != "Can't use 'super' outside of a class." {
		t.Errorf("message mismatch: got %q", got)
	}
}

func TestResolveSuperWithoutSuperclass(t *testing.T) {
	r, _ := resolveSource(t, `class A { m() { return super.m; } }`, false)
	if !r.HasErrors() {
		t.Fatal("expected an error")
	}
	if got := r.Errors()[0].Message; got != "Can't use 'super' in a class with no superclass." {
		t.Errorf("message mismatch: got %q", got)
	}
}

func TestResolveThisAndSuperDepths(t *testing.T) {
	source := `
class A {
  m() {
    return 1;
  }
}
class B < A {
  m() {
    return super.m() + this.x;
  }
}`

	r, binder := resolveSource(t, source, false)
	if r.HasErrors() {
		t.Fatalf("resolver errors: %v", r.Errors())
	}

	// 方法体内：this 深度 1（函数作用域 → this 作用域），
	// super 深度 2（再外一层）。
	var sawDepth1, sawDepth2 bool
	for _, d := range binder {
		if d == 1 {
			sawDepth1 = true
		}
		if d == 2 {
			sawDepth2 = true
		}
	}
	if !sawDepth1 {
		t.Error("expected a depth-1 entry for 'this'")
	}
	if !sawDepth2 {
		t.Error("expected a depth-2 entry for 'super'")
	}
}

func TestResolveUnusedVariableWarning(t *testing.T) {
	source := `{
  var unused = 1;
  var used = 2;
  print used;
}`

	r, _ := resolveSource(t, source, true)
	if r.HasErrors() {
		t.Fatalf("warnings must not be errors: %v", r.Errors())
	}
	if len(r.Warnings()) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(r.Warnings()))
	}
	w := r.Warnings()[0]
	if w.Message != "Unused variable." {
		t.Errorf("message mismatch: got %q", w.Message)
	}
	if w.Token.Literal != "unused" {
		t.Errorf("expected warning on 'unused', got %q", w.Token.Literal)
	}
}

func TestResolveUnusedFunctionDoesNotWarn(t *testing.T) {
	// 只有值变量参与未使用警告
	source := `{
  fun helper() { return 1; }
  class Helper {}
  print 1;
}`

	r, _ := resolveSource(t, source, true)
	if len(r.Warnings()) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings())
	}
}

func TestResolveWarnUnusedDisabled(t *testing.T) {
	source := `{
  var unused = 1;
  print 2;
}`

	r, _ := resolveSource(t, source, false)
	if len(r.Warnings()) != 0 {
		t.Errorf("expected no warnings when disabled, got %v", r.Warnings())
	}
}
