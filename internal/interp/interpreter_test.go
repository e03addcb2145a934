package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tangzhangming/riva/internal/parser"
	"github.com/tangzhangming/riva/internal/resolver"
)

// runSource 跑完整流水线，返回 stdout 和第一个运行时错误
func runSource(t *testing.T, source string) (string, *RuntimeError) {
	t.Helper()

	p := parser.New(source, "test.riva")
	statements := p.Parse()
	if p.HasErrors() {
		t.Fatalf("parser errors: %v", p.Errors())
	}

	var out bytes.Buffer
	in := New(&out)

	res := resolver.New(in, false)
	res.Resolve(statements)
	if res.HasErrors() {
		t.Fatalf("resolver errors: %v", res.Errors())
	}

	err := in.Interpret(statements)
	return out.String(), err
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(t, source)
	if err != nil {
		t.Fatalf("unexpected runtime error: %s", err.Message)
	}
	if out != expected {
		t.Errorf("output mismatch:\ngot:  %q\nwant: %q", out, expected)
	}
}

func expectRuntimeError(t *testing.T, source, message string) {
	t.Helper()
	_, err := runSource(t, source)
	if err == nil {
		t.Fatalf("expected runtime error %q, got none", message)
	}
	if err.Message != message {
		t.Errorf("message mismatch:\ngot:  %q\nwant: %q", err.Message, message)
	}
}

// ============================================================================
// 表达式语义
// ============================================================================

func TestArithmetic(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{`print 1 + 2 * 3;`, "7\n"},
		{`print (1 + 2) * 3;`, "9\n"},
		{`print 10 / 4;`, "2.5\n"},
		{`print -5 + 3;`, "-2\n"},
		{`print 0.1 + 0.2 == 0.3;`, "false\n"},
	}

	for _, tt := range tests {
		expectOutput(t, tt.source, tt.expected)
	}
}

func TestStringConcatenation(t *testing.T) {
	expectOutput(t, `print "foo" + "bar";`, "foobar\n")
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{`print !nil;`, "true\n"},
		{`print !false;`, "true\n"},
		{`print !0;`, "false\n"},   // 0 为真
		{`print !"";`, "false\n"},  // "" 为真
		{`print !true;`, "false\n"},
	}

	for _, tt := range tests {
		expectOutput(t, tt.source, tt.expected)
	}
}

func TestEquality(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{`print nil == nil;`, "true\n"},
		{`print nil == 0;`, "false\n"},
		{`print nil == false;`, "false\n"},
		{`print 1 == 1;`, "true\n"},
		{`print "a" == "a";`, "true\n"},
		{`print 1 == "1";`, "false\n"},
		{`print 1 != 2;`, "true\n"},
	}

	for _, tt := range tests {
		expectOutput(t, tt.source, tt.expected)
	}
}

func TestComparisonsWithNil(t *testing.T) {
	// nil 视为严格最小
	tests := []struct {
		source   string
		expected string
	}{
		{`print nil < 1;`, "true\n"},
		{`print nil <= 1;`, "true\n"},
		{`print nil > 1;`, "false\n"},
		{`print nil >= 1;`, "false\n"},
		{`print 1 < nil;`, "false\n"},
		{`print 1 >= nil;`, "true\n"},
		{`print nil < "s";`, "true\n"},
		{`print "a" < "b";`, "true\n"},
		{`print "b" <= "a";`, "false\n"},
	}

	for _, tt := range tests {
		expectOutput(t, tt.source, tt.expected)
	}
}

func TestNilVersusNilComparisonIsError(t *testing.T) {
	// nil 只与非 nil 可比；nil 与 nil 比较是运行时错误
	sources := []string{
		`print nil < nil;`,
		`print nil <= nil;`,
		`print nil > nil;`,
		`print nil >= nil;`,
	}

	for _, source := range sources {
		expectRuntimeError(t, source, "Operands must both be a number or a string.")
	}
}

func TestLogicalOperatorsReturnOperand(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{`print "a" or "b";`, "a\n"},
		{`print nil or "b";`, "b\n"},
		{`print nil and "b";`, "nil\n"},
		{`print "a" and "b";`, "b\n"},
	}

	for _, tt := range tests {
		expectOutput(t, tt.source, tt.expected)
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	source := `
fun boom() {
  print "evaluated";
  return true;
}
var r = false and boom();
print r;`
	expectOutput(t, source, "false\n")
}

func TestTernaryLazyBranches(t *testing.T) {
	source := `
fun side(tag, v) {
  print tag;
  return v;
}
print true ? side("then", 1) : side("else", 2);`
	expectOutput(t, source, "then\n1\n")
}

func TestCommaEvaluatesLeftDiscardsIt(t *testing.T) {
	source := `
var log = "";
fun note(s, v) {
  log = log + s;
  return v;
}
print (note("l", 1), note("r", 2));
print log;`
	expectOutput(t, source, "2\nlr\n")
}

func TestStringify(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{`print nil;`, "nil\n"},
		{`print 7;`, "7\n"},
		{`print 2.5;`, "2.5\n"},
		{`print true;`, "true\n"},
		{`print "str";`, "str\n"},
		{`fun f() {} print f;`, "<fn f>\n"},
		{`print fun (x) {};`, "<fn lambda>\n"},
		{`class C {} print C;`, "C\n"},
		{`class C {} print C();`, "C instance\n"},
		{`print stringify(7) + "!";`, "7!\n"},
	}

	for _, tt := range tests {
		expectOutput(t, tt.source, tt.expected)
	}
}

// ============================================================================
// 运行时错误
// ============================================================================

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{`print -"s";`, "Operand must be a number."},
		{`print 1 - "s";`, "Operands must both be a number."},
		{`print 1 + "s";`, "Operands must be two numbers or two strings."},
		{`print 1 < "s";`, "Operands must both be a number or a string."},
		{`print true < false;`, "Operands must both be a number or a string."},
		{`print 1 / 0;`, "Division by zero"},
		{`print missing;`, "Undefined variable 'missing'."},
		{`missing = 1;`, "Undefined variable 'missing'."},
		{`"not callable"();`, "Can only call functions and class methods"},
		{`fun f(a) {} f(1, 2);`, "Expected 1 arguments but got 2."},
		{`var x = 1; print x.field;`, "Only class instances have properties."},
		{`var x = 1; x.field = 2;`, "Only class instances have fields."},
		{`class C {} print C().missing;`, "Undefined property 'missing'."},
		{`var NotAClass = 1; class C < NotAClass {}`, "Superclass must be a class."},
	}

	for _, tt := range tests {
		expectRuntimeError(t, tt.source, tt.message)
	}
}

func TestRuntimeErrorStopsInterpret(t *testing.T) {
	out, err := runSource(t, `print "ok"; print 1 / 0; print "unreached";`)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if out != "ok\n" {
		t.Errorf("output mismatch: got %q", out)
	}
	if err.Token.Pos.Line != 1 {
		t.Errorf("error line mismatch: got %d", err.Token.Pos.Line)
	}
}

// ============================================================================
// 变量与闭包
// ============================================================================

func TestLexicalScoping(t *testing.T) {
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
	expectOutput(t, source, "global\nglobal\n")
}

func TestClosureObservesMutation(t *testing.T) {
	// 闭包按引用捕获环境：声明作用域结束后仍观察到更新
	source := `
fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
var c = makeCounter();
print c();
print c();
var c2 = makeCounter();
print c2();`
	expectOutput(t, source, "1\n2\n1\n")
}

func TestVarWithoutInitializerIsNil(t *testing.T) {
	expectOutput(t, `var x; print x;`, "nil\n")
}

func TestAssignReturnsValue(t *testing.T) {
	expectOutput(t, `var x = 1; print x = 2;`, "2\n")
}

// ============================================================================
// 控制流
// ============================================================================

func TestWhileBreakContinue(t *testing.T) {
	source := `
var i = 0;
while (true) {
  i = i + 1;
  if (i == 2) continue;
  if (i > 4) break;
  print i;
}`
	expectOutput(t, source, "1\n3\n4\n")
}

func TestForContinueRunsIncrement(t *testing.T) {
	source := `
for (var i = 0; i < 3; i = i + 1) {
  if (i == 1) continue;
  print i;
}`
	expectOutput(t, source, "0\n2\n")
}

func TestForWithoutIncrementContinue(t *testing.T) {
	source := `
var i = 0;
for (; i < 3;) {
  i = i + 1;
  if (i == 2) continue;
  print i;
}`
	expectOutput(t, source, "1\n3\n")
}

func TestNestedLoopsBreakInner(t *testing.T) {
	source := `
for (var i = 0; i < 2; i = i + 1) {
  for (var j = 0; j < 5; j = j + 1) {
    if (j == 1) break;
    print i * 10 + j;
  }
}`
	expectOutput(t, source, "0\n10\n")
}

func TestNestedLoopsContinueTargetsInnermost(t *testing.T) {
	source := `
var out = "";
for (var i = 0; i < 2; i = i + 1) {
  var j = 0;
  while (j < 3) {
    j = j + 1;
    if (j == 2) continue;
    out = out + stringify(i) + stringify(j) + " ";
  }
}
print out;`
	expectOutput(t, source, "01 03 11 13 \n")
}

func TestReturnUnwindsToCall(t *testing.T) {
	source := `
fun find() {
  for (var i = 0; i < 10; i = i + 1) {
    if (i == 3) return i;
  }
  return -1;
}
print find();`
	expectOutput(t, source, "3\n")
}

// ============================================================================
// 函数
// ============================================================================

func TestFunctionNaturalCompletionReturnsNil(t *testing.T) {
	expectOutput(t, `fun f() {} print f();`, "nil\n")
}

func TestArgumentsEvaluateLeftToRight(t *testing.T) {
	source := `
var log = "";
fun note(s) {
  log = log + s;
  return s;
}
fun f(a, b, c) {}
f(note("1"), note("2"), note("3"));
print log;`
	expectOutput(t, source, "123\n")
}

func TestRecursion(t *testing.T) {
	source := `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 2) + fib(n - 1);
}
print fib(10);`
	expectOutput(t, source, "55\n")
}

func TestLambdaClosesOverEnvironment(t *testing.T) {
	source := `
var base = 10;
var add = fun (n) {
  return base + n;
};
print add(5);
base = 20;
print add(5);`
	expectOutput(t, source, "15\n25\n")
}

// ============================================================================
// 类
// ============================================================================

func TestClassFieldsAndMethods(t *testing.T) {
	source := `
class Point {
  init(x, y) {
    this.x = x;
    this.y = y;
  }

  sum() {
    return this.x + this.y;
  }
}
var p = Point(3, 4);
print p.sum();
p.x = 30;
print p.sum();`
	expectOutput(t, source, "7\n34\n")
}

func TestMethodBindingKeepsThis(t *testing.T) {
	source := `
class Speaker {
  init(word) {
    this.word = word;
  }
  say() {
    print this.word;
  }
}
var m = Speaker("hi").say;
m();`
	expectOutput(t, source, "hi\n")
}

func TestInheritanceAndSuper(t *testing.T) {
	source := `
class A {
  hi() {
    print "A";
  }
}
class B < A {
  hi() {
    super.hi();
    print "B";
  }
}
B().hi();`
	expectOutput(t, source, "A\nB\n")
}

func TestInheritedMethodLookup(t *testing.T) {
	source := `
class A {
  greet() {
    print "from A";
  }
}
class B < A {}
B().greet();`
	expectOutput(t, source, "from A\n")
}

func TestSuperMethodNotFound(t *testing.T) {
	expectRuntimeError(t, `
class A {}
class B < A {
  m() {
    super.nope();
  }
}
B().m();`, "Undefined property 'nope'.")
}

func TestInitializerReturnsInstance(t *testing.T) {
	// init 里裸 return 仍返回构造的实例
	source := `
class P {
  init(x) {
    this.x = x;
    return;
  }
}
print P(7).x;`
	expectOutput(t, source, "7\n")
}

func TestClassArityFromInit(t *testing.T) {
	expectRuntimeError(t, `
class P {
  init(x) {
    this.x = x;
  }
}
P();`, "Expected 1 arguments but got 0.")
}

func TestClassWithoutInitArityZero(t *testing.T) {
	expectRuntimeError(t, `class C {} C(1);`, "Expected 0 arguments but got 1.")
}

func TestInitInheritedBySubclass(t *testing.T) {
	source := `
class A {
  init(x) {
    this.x = x;
  }
}
class B < A {}
print B(9).x;`
	expectOutput(t, source, "9\n")
}

func TestClassMethodClosesOverClassName(t *testing.T) {
	// 方法闭包绑定类名本身：允许环状引用
	source := `
class Node {
  clone() {
    return Node();
  }
}
print Node().clone();`
	expectOutput(t, source, "Node instance\n")
}

// ============================================================================
// 内置函数
// ============================================================================

func TestClockIsNumber(t *testing.T) {
	out, err := runSource(t, `print clock() > 0;`)
	if err != nil {
		t.Fatalf("unexpected runtime error: %s", err.Message)
	}
	if strings.TrimSpace(out) != "true" {
		t.Errorf("clock() should return a positive number, got %q", out)
	}
}

func TestGlobalEnvironmentPersistsAcrossInterpretCalls(t *testing.T) {
	// 交互模式：同一求值器多次 Interpret，全局保持存活
	var out bytes.Buffer
	in := New(&out)

	run := func(source string) {
		p := parser.New(source, "<repl>")
		stmts := p.Parse()
		if p.HasErrors() {
			t.Fatalf("parser errors: %v", p.Errors())
		}
		res := resolver.New(in, false)
		res.Resolve(stmts)
		if res.HasErrors() {
			t.Fatalf("resolver errors: %v", res.Errors())
		}
		if err := in.Interpret(stmts); err != nil {
			t.Fatalf("runtime error: %s", err.Message)
		}
	}

	run(`var x = 1;`)
	run(`x = x + 1;`)
	run(`print x;`)

	if out.String() != "2\n" {
		t.Errorf("output mismatch: got %q", out.String())
	}
}
