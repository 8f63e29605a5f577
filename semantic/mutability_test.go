package semantic

import "testing"

func TestConstMutation(t *testing.T) {
	expect(t, `(program
  (const limit i32 10)
  (fn main (params (n i32)) ()
    (block
      (var x i32 1)
      (assign = x 2)
      (assign += n 1)
      (assign = limit 3))))`,
		errorText(msgConstMutation, "x"),
		errorText(msgConstMutation, "n"),
		errorText(msgConstMutation, "limit"))
}

func TestConstIsNeverMutable(t *testing.T) {
	expect(t, `(program (const mut c i32 1) (assign = c 2))`,
		errorText(msgConstMutation, "c"))
}

func TestMutableFlow(t *testing.T) {
	expect(t, `(program
  (fn main (params (mut n i32)) ()
    (block
      (var mut x i32 1)
      (var r (ref mut i32) (ref mut x))
      (assign = (deref r) 5)
      (assign = r 6)
      (assign += x 1)
      (assign *= n 2))))`)
}

func TestBorrowImmutableMutably(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block
      (var x i32 1)
      (var r (ref mut i32) (ref mut x)))))`,
		errorText(msgBorrowImmutable, "x"))
}

func TestBorrowFieldOfImmutable(t *testing.T) {
	expect(t, `(program
  (struct P (field x i32))
  (fn main (params (p P) (q (ref mut P))) ()
    (block
      (var a (ref mut i32) (ref mut (dot p x)))
      (var b (ref mut i32) (ref mut (dot q x))))))`,
		errorText(msgBorrowImmutable, "p"))
}

func TestImmutableReference(t *testing.T) {
	expect(t, `(program
  (struct P (field x i32))
  (fn main (params (r (ref i32)) (p (ref P))) ()
    (block
      (assign = (deref r) 2)
      (assign = r 3)
      (assign = (dot p x) 4))))`,
		errorText(msgImmutableRef, "r"),
		errorText(msgImmutableRef, "r"),
		errorText(msgImmutableRef, "p"))
}

func TestFieldStore(t *testing.T) {
	expect(t, `(program
  (struct P (field x i32) (field y i32))
  (fn main (params) ()
    (block
      (var p P (lit P {x: 1, y: 2}))
      (var mut q P (lit P {x: 1, y: 2}))
      (assign = (dot p x) 3)
      (assign = (dot q x) 3)
      (dot q (assign = y 4))
      (assign = (dot q z) 5)
      (assign = (dot q y) true))))`,
		errorText(msgConstMutation, "p"),
		errorText(msgNoField, "z", "P"),
		errorText(msgMismatch, "i32", "bool"))
}

func TestPointerStoreIsAlwaysWritable(t *testing.T) {
	expect(t, `(program
  (struct P (field x i32))
  (fn main (params (p (ptr P)) (a (ptr u8))) ()
    (block
      (assign = (dot p x) 1)
      (assign = (deref a) 2)
      (assign = (index a 3) 4))))`)
}

func TestArrayElementStore(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block
      (var a (array 2 i32) (array 1 2))
      (var mut b (array 2 i32) (array 1 2))
      (assign = (index a 0) 5)
      (assign = (index b 1) 5))))`,
		errorText(msgConstMutation, "a"))
}

func TestCompoundAssignmentNeedsNumbers(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block (var mut s str "a") (assign += s "b"))))`,
		errorText(msgOperand, "+=", "str"))
}

func TestCompoundAssignmentWarnsWhenUninitialized(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block (var mut x i32) (assign += x 1))))`,
		warningText(msgUninitialized, "x"))
}

func TestInvalidAssignmentTarget(t *testing.T) {
	expect(t, `(program (fn main (params) () (block (assign = 1 2))))`,
		errorText(msgAssignTarget))
}

func TestAssignToNonVariable(t *testing.T) {
	expect(t, `(program
  (fn f (params) () (block))
  (fn main (params) () (block (assign = f 1) (assign = g 1))))`,
		errorText(msgExpected, "variable", "function", "f"),
		errorText(msgNotFound, "g"))
}

func TestModuleStatic(t *testing.T) {
	expect(t, `(program
  (module m (static mut count i32) (static fixed i32 1))
  (fn main (params) ()
    (block
      (assign += m::count 1)
      (path m (assign = count 2))
      (path m (assign = fixed 3))
      (var n i32 m::count))))`,
		errorText(msgConstMutation, "fixed"))
}

func TestUnionFieldNeedsUnsafe(t *testing.T) {
	expect(t, `(program
  (union U (field i i32) (field f f32))
  (fn get (params (u U)) i32 (block (return (dot u i)))))`,
		errorText(msgUnionField, "i", "U"))
}

func TestUnionFieldInsideUnsafe(t *testing.T) {
	expect(t, `(program
  (union U (field i i32) (field f f32))
  (fn ^{unsafe: true} a (params (u U)) i32 (block (return (dot u i))))
  (fn b (params (u U)) i32 (block (unsafe (return (dot u i)))))
  (fn c (params (mut u U)) () (block (unsafe (assign = (dot u f) (float "1.0"))))))`)
}

func TestUnionStoreNeedsUnsafe(t *testing.T) {
	expect(t, `(program
  (union U (field i i32))
  (fn c (params (mut u U)) () (block (assign = (dot u i) 1))))`,
		errorText(msgUnionField, "i", "U"))
}

func TestUnionLiteralNeedsUnsafe(t *testing.T) {
	expect(t, `(program
  (union U (field i i32) (field f f32))
  (fn main (params) ()
    (block
      (var a U (lit U {i: 1}))
      (unsafe (var b U (lit U {f: (float "2.0")}))))))`,
		errorText(msgUnionLiteral, "U"))
}

func TestUnsafeCall(t *testing.T) {
	expect(t, `(program
  (fn ^{unsafe: true} danger (params) () (block))
  (fn main (params) () (block (call danger) (unsafe (call danger))))
  (fn ^{unsafe: true} wrapper (params) () (block (call danger))))`,
		errorText(msgUnsafeCall, "danger"))
}

func TestUnsafeDoesNotLeakOutOfBlock(t *testing.T) {
	expect(t, `(program
  (fn ^{unsafe: true} danger (params) () (block))
  (fn main (params) () (block (unsafe (block (call danger))) (call danger))))`,
		errorText(msgUnsafeCall, "danger"))
}

func TestFirstAssignmentInitializesOnce(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block
      (var x i32)
      (assign = x 4)
      (assign = x 5)
      (var y i32)
      (assign += y 1))))`,
		errorText(msgConstMutation, "x"),
		errorText(msgConstMutation, "y"))
}
