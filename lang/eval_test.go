// Copyright © 2018 The ELPS authors

package lang_test

import (
	"testing"

	"github.com/tanndlin/tanscript/tanstest"
)

func TestArithmetic(t *testing.T) {
	tests := tanstest.TestSuite{
		{"precedence", tanstest.TestSequence{
			{`1 + 2 * 3;`, `7`, ``},
			{`(1 + 2) * 3;`, `9`, ``},
			{`10 - 4 - 3;`, `3`, ``},
			{`2 * 3 + 4 * 5;`, `26`, ``},
			{`-2 * 3;`, `-6`, ``},
			{`-(2 + 3);`, `-5`, ``},
		}},
		{"division", tanstest.TestSequence{
			{`7 / 2;`, `3.5`, ``},
			{`7 // 2;`, `3`, ``},
			{`-7 // 2;`, `-3`, ``},
			{`7 % 3;`, `1`, ``},
			{`-7 % 3;`, `-1`, ``},
			{`1 / 0;`, `test:1:1: runtime-error: division by zero`, ``},
			{`1 // 0;`, `test:1:1: runtime-error: integer division by zero`, ``},
			{`1 % 0;`, `test:1:1: runtime-error: modulo by zero`, ``},
		}},
		{"concatenation", tanstest.TestSequence{
			{`"a" + "b";`, `"ab"`, ``},
			{`"a" + 1;`, `"a1"`, ``},
			{`1 + "a";`, `"1a"`, ``},
			{`"ok: " + true;`, `"ok: true"`, ``},
			{`[1, 2] + [3];`, `[1, 2, 3]`, ``},
			{`[] + [];`, `[]`, ``},
			{`let a = [1]; let b = a + [2]; a;`, `[1]`, ``},
			{`b;`, `[1, 2]`, ``},
		}},
		{"type errors", tanstest.TestSequence{
			{`"a" - 1;`, `test:1:1: type-error: invalid operands for -: string and number`, ``},
			{`[1] + 1;`, `test:1:1: type-error: invalid operands for +: list and number`, ``},
			{`true * 2;`, `test:1:1: type-error: invalid operands for *: boolean and number`, ``},
		}},
	}
	tanstest.RunTestSuite(t, tests)
}

func TestComparisonAndLogic(t *testing.T) {
	tests := tanstest.TestSuite{
		{"comparison", tanstest.TestSequence{
			{`1 < 2;`, `true`, ``},
			{`2 <= 2;`, `true`, ``},
			{`3 > 4;`, `false`, ``},
			{`"a" < "b";`, `true`, ``},
			{`1 == 1;`, `true`, ``},
			{`1 == "1";`, `false`, ``},
			{`[1, 2] == [1, 2];`, `true`, ``},
			{`({a: 1}) != {a: 2};`, `true`, ``},
			{`2 + 3 > 4 && 1 < 2;`, `true`, ``},
			{`1 < "a";`, `test:1:1: type-error: cannot compare number and string with <`, ``},
		}},
		{"truthiness", tanstest.TestSequence{
			{`!0;`, `true`, ``},
			{`!"";`, `true`, ``},
			{`![];`, `true`, ``},
			{`!"x";`, `false`, ``},
			{`0 || "x";`, `true`, ``},
			{`[] && true;`, `false`, ``},
			{`[0] && 1;`, `true`, ``},
		}},
		{"short circuit", tanstest.TestSequence{
			{`false && undefined;`, `false`, ``},
			{`true || print("never");`, `true`, ``},
			{`true && print("once");`, `true`, "once\n"},
		}},
	}
	tanstest.RunTestSuite(t, tests)
}

func TestScope(t *testing.T) {
	tests := tanstest.TestSuite{
		{"declarations", tanstest.TestSequence{
			{`let x = 1;`, `1`, ``},
			{`let x = 2;`, `test:1:1: internal-consistency-error: x is already declared in this scope`, ``},
			{`{ let x = 5; x; }`, `5`, ``},
			{`x;`, `1`, ``},
			{`{ x = 7; }`, `7`, ``},
			{`x;`, `7`, ``},
			{`{ let inner = 1; } inner;`, `test:1:20: undeclared-variable: variable inner is not declared`, ``},
			{`y = 1;`, `test:1:1: use-before-declaration: variable y is assigned before it is declared`, ``},
			{`y;`, `test:1:1: undeclared-variable: variable y is not declared`, ``},
		}},
		{"update operators", tanstest.TestSequence{
			{`let n = 10;`, `10`, ``},
			{`n += 5;`, `15`, ``},
			{`n -= 3;`, `12`, ``},
			{`n *= 2;`, `24`, ``},
			{`n /= 4;`, `6`, ``},
			{`n %= 4;`, `2`, ``},
			{`n++;`, `3`, ``},
			{`n--; n--;`, `1`, ``},
		}},
		{"objects", tanstest.TestSequence{
			{`let o = {a: 1, b: {c: "x"}};`, `{a: 1, b: {c: "x"}}`, ``},
			{`o.b.c;`, `"x"`, ``},
			{`{b: 1, a: 2, b: 3};`, `test:1:3: parser-error: unexpected token ':', expected ';'`, ``},
			{`let d = {b: 1, a: 2, b: 3}; d;`, `{a: 2, b: 3}`, ``},
			{`o.z;`, `test:1:3: runtime-error: object has no attribute z`, ``},
			{`let n = 1; n.a;`, `test:1:14: type-error: cannot access attribute a of number`, ``},
		}},
	}
	tanstest.RunTestSuite(t, tests)
}

func TestControlFlow(t *testing.T) {
	tests := tanstest.TestSuite{
		{"if", tanstest.TestSequence{
			{`if (1 < 2) { "yes"; } else { "no"; }`, `"yes"`, ``},
			{`if (1 > 2) { "yes"; } else { "no"; }`, `"no"`, ``},
			{`if (false) { "yes"; }`, `void`, ``},
			{`let g = 75; if (g > 90) { "A"; } else if (g > 70) { "B"; } else { "C"; }`, `"B"`, ``},
			{`if (1) {}`, `test:1:5: type-error: condition must be a boolean, got number`, ``},
		}},
		{"while", tanstest.TestSequence{
			{`let n = 0;`, `0`, ``},
			{`while (n < 3) { n++; }`, `3`, ``},
			{`n;`, `3`, ``},
			{`while (false) { n++; }`, `void`, ``},
			{`while (n) {}`, `test:1:8: type-error: condition must be a boolean, got number`, ``},
		}},
		{"for", tanstest.TestSequence{
			{`for (let i = 0; i < 3; i++) { print(i); }`, `2`, "0\n1\n2\n"},
			{`i;`, `test:1:1: undeclared-variable: variable i is not declared`, ``},
			{`let total = 0; for (let i = 1; i <= 4; i++) { total += i; } total;`, `10`, ``},
			{`let j = 0; for (j = 5; j < 7; j++) {} j;`, `7`, ``},
			{`for (let k = 0; k < 2; k++) { let sq = k * k; }`, `1`, ``},
		}},
		{"foreach", tanstest.TestSequence{
			{`let xs = [1, 2, 3];`, `[1, 2, 3]`, ``},
			{`let sum = 0; foreach (e in xs) { sum += e; } sum;`, `6`, ``},
			{`e;`, `test:1:1: undeclared-variable: variable e is not declared`, ``},
			{`foreach (s in ["a", "b"]) { print(s); }`, `"b"`, "a\nb\n"},
			{`foreach (e in []) { print(e); }`, `void`, ``},
			{`let n = 3;`, `3`, ``},
			{`foreach (e in n) {}`, `test:1:15: type-error: foreach over number: n is not a list`, ``},
			{`foreach (e in nothing) {}`, `test:1:15: undeclared-variable: variable nothing is not declared`, ``},
		}},
	}
	tanstest.RunTestSuite(t, tests)
}

func TestFunctions(t *testing.T) {
	tests := tanstest.TestSuite{
		{"calls", tanstest.TestSequence{
			{`function add(a, b) { return a + b; }`, `void`, ``},
			{`add(2, 3);`, `5`, ``},
			{`add(1);`, `test:1:1: arity-error: add expects 2 argument(s), got 1`, ``},
			{`nope(1);`, `test:1:1: undeclared-function: function nope is not declared`, ``},
			{`add;`, `test:1:1: type-error: add is a function and cannot be used as a value`, ``},
			{`function noreturn() { 1 + 1; }`, `void`, ``},
			{`noreturn();`, `2`, ``},
			{`function early() { return; }`, `void`, ``},
			{`early();`, `void`, ``},
		}},
		{"recursion", tanstest.TestSequence{
			{`function fib(n) { if (n < 2) { return n; } return fib(n - 1) + fib(n - 2); }`, `void`, ``},
			{`fib(10);`, `55`, ``},
			{`function fact(n) { if (n <= 1) { return 1; } return n * fact(n - 1); } fact(5);`, `120`, ``},
		}},
		{"isolation", tanstest.TestSequence{
			{`let g = 10;`, `10`, ``},
			{`function readGlobal() { return g; }`, `void`, ``},
			{`readGlobal();`, `10`, ``},
			{`function inner() { return hidden; }`, `void`, ``},
			{`function outer() { let hidden = 1; return inner(); }`, `void`, ``},
			{`outer();`, `test:1:27: undeclared-variable: inner: variable hidden is not declared`, ``},
			{`{ let local = 1; function peek() { return local; } peek(); }`, `test:1:43: undeclared-variable: peek: variable local is not declared`, ``},
		}},
		{"call by value", tanstest.TestSequence{
			{`function grow(xs) { xs = xs + [4]; return len(xs); }`, `void`, ``},
			{`let xs = [1, 2, 3];`, `[1, 2, 3]`, ``},
			{`grow(xs);`, `4`, ``},
			{`xs;`, `[1, 2, 3]`, ``},
			{`let a = 1; function setA(a) { a = 5; return a; } setA(2);`, `5`, ``},
			{`a;`, `1`, ``},
		}},
		{"globals", tanstest.TestSequence{
			{`let counter = 0; function inc() { counter++; return counter; }`, `void`, ``},
			{`inc(); inc();`, `2`, ``},
			{`counter;`, `2`, ``},
		}},
		{"return unwinding", tanstest.TestSequence{
			{`function find(xs, target) { foreach (x in xs) { if (x == target) { return "found"; } } return "missing"; }`, `void`, ``},
			{`find([1, 2, 3], 2);`, `"found"`, ``},
			{`find([1, 2], 5);`, `"missing"`, ``},
			{`function firstOver(n) { let i = 0; while (true) { { i++; if (i > n) { return i; } } } }`, `void`, ``},
			{`firstOver(3);`, `4`, ``},
			{`function loop() { for (let i = 0; ; i++) { if (i == 2) { return i * 10; } } } loop();`, `20`, ``},
			{`return 5; print(1);`, `5`, ``},
		}},
		{"redefinition", tanstest.TestSequence{
			{`function f() { return 1; } function f() { return 2; } f();`, `2`, ``},
			{`let h = 1;`, `1`, ``},
			{`function h() {}`, `test:1:1: internal-consistency-error: function h collides with a variable declared in this scope`, ``},
			{`function print(x) { return 0; }`, `void`, ``},
			{`print(1);`, `1`, "1\n"},
			{`function self(self) { return self; } self(3);`, `3`, ``},
		}},
	}
	tanstest.RunTestSuite(t, tests)
}

func TestSignals(t *testing.T) {
	tests := tanstest.TestSuite{
		{"round trip", tanstest.TestSequence{
			{`x #= 1;`, `1`, ``},
			{`y $= #x + 2;`, `3`, ``},
			{`x #= 4;`, `4`, ``},
			{`$y;`, `6`, ``},
			{`#y;`, `6`, ``},
		}},
		{"chained", tanstest.TestSequence{
			{`x #= 1; y $= #x + 2; z $= $y * 2;`, `6`, ``},
			{`$y;`, `3`, ``},
			{`#x += 1;`, `2`, ``},
			{`$z;`, `8`, ``},
			{`#x++; $y;`, `5`, ``},
		}},
		{"override and rebind", tanstest.TestSequence{
			{`x #= 1; y $= #x * 10; z $= $y + 1;`, `11`, ``},
			{`$y += 5;`, `15`, ``},
			{`$z;`, `16`, ``},
			{`x #= 2; $y;`, `20`, ``},
			{`y $= #x * 100;`, `200`, ``},
			{`$z;`, `201`, ``},
			{`y $= $y + 1;`, `test:1:1: runtime-error: computed signal y depends on itself`, ``},
		}},
		{"lookup", tanstest.TestSequence{
			{`#missing;`, `test:1:1: undeclared-signal: signal missing is not declared`, ``},
			{`y $= #missing + 1;`, `test:1:1: undeclared-signal: signal missing is not declared`, ``},
			{`s #= 1; { #s; }`, `1`, ``},
			{`{ t #= 1; } #t;`, `test:1:13: undeclared-signal: signal t is not declared`, ``},
			{`function readS() { return #s; } readS();`, `test:1:27: undeclared-signal: readS: signal s is not declared`, ``},
		}},
	}
	tanstest.RunTestSuite(t, tests)
}

func TestBuiltins(t *testing.T) {
	tests := tanstest.TestSuite{
		{"print", tanstest.TestSequence{
			{`print("hello");`, `"hello"`, "hello\n"},
			{`print([1, "a", true]);`, `[1, "a", true]`, "[1, \"a\", true]\n"},
			{`print({b: 2, a: 1});`, `{a: 1, b: 2}`, "{a: 1, b: 2}\n"},
			{`print(0.5);`, `0.5`, "0.5\n"},
			{`print();`, `test:1:1: arity-error: print expects 1 argument(s), got 0`, ``},
		}},
		{"math", tanstest.TestSequence{
			{`sqrt(16);`, `4`, ``},
			{`sqrt(2) * sqrt(2) > 1.99;`, `true`, ``},
			{`abs(-3);`, `3`, ``},
			{`floor(2.7);`, `2`, ``},
			{`ceil(2.1);`, `3`, ``},
			{`round(2.5);`, `3`, ``},
			{`pow(2, 10);`, `1024`, ``},
			{`min(3, 1, 2);`, `1`, ``},
			{`max([4, 9, 2]);`, `9`, ``},
			{`sqrt("x");`, `test:1:1: type-error: sqrt expects argument of type number, got string`, ``},
			{`min();`, `test:1:1: arity-error: min expects at least 1 argument(s), got 0`, ``},
			{`max([]);`, `test:1:1: runtime-error: max of an empty list`, ``},
		}},
		{"collections", tanstest.TestSequence{
			{`len([1, 2]);`, `2`, ``},
			{`len("héllo");`, `5`, ``},
			{`len({a: 1});`, `1`, ``},
			{`range(3);`, `[0, 1, 2]`, ``},
			{`range(1, 3);`, `[1, 2]`, ``},
			{`range(0);`, `[]`, ``},
			{`range(1, 2, 3);`, `test:1:1: arity-error: range expects 1 or 2 arguments, got 3`, ``},
			{`let l = [1]; push(l, 2);`, `[1, 2]`, ``},
			{`l;`, `[1]`, ``},
			{`keys({b: 1, a: 2});`, `["a", "b"]`, ``},
			{`keys([]);`, `test:1:1: type-error: keys expects argument of type object, got list`, ``},
		}},
		{"conversion", tanstest.TestSequence{
			{`str(12);`, `"12"`, ``},
			{`str([1, "a"]);`, `"[1, \"a\"]"`, ``},
			{`num("3.5");`, `3.5`, ``},
			{`num(true);`, `1`, ``},
			{`num("abc");`, `test:1:1: runtime-error: num: cannot parse "abc" as a number`, ``},
			{`type([]);`, `"list"`, ``},
			{`type(print("x"));`, `"string"`, "x\n"},
			{`function v() { return; } type(v());`, `"void"`, ``},
		}},
	}
	tanstest.RunTestSuite(t, tests)
}

func BenchmarkFib(b *testing.B) {
	tanstest.RunBenchmark(b, `
	function fib(n) { if (n < 2) { return n; } return fib(n - 1) + fib(n - 2); }
	fib(15);
	`)
}

func BenchmarkSignals(b *testing.B) {
	tanstest.RunBenchmark(b, `
	x #= 0;
	y $= #x * 2;
	z $= $y + #x;
	for (let i = 0; i < 1000; i++) { #x++; $z; }
	`)
}

func TestFixtures(t *testing.T) {
	(&tanstest.Runner{}).RunFixtureDir(t, "testdata")
}
