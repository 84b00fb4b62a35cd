package types

import "testing"

func TestBasicSubtyping(t *testing.T) {
	if !Error.SubtypeOf(Int) || !Int.SubtypeOf(Error) {
		t.Fatalf("Error must be both top and bottom")
	}
	if Int.SubtypeOf(Bool) {
		t.Fatalf("Int must not be a subtype of Bool")
	}
	if !Int.SubtypeOf(Int) {
		t.Fatalf("subtype must be reflexive")
	}
}

func TestNullSubtyping(t *testing.T) {
	a := NewClass("A", nil)
	if !Null.SubtypeOf(a) {
		t.Fatalf("Null must be a subtype of every class")
	}
	if a.SubtypeOf(Null) {
		t.Fatalf("a class must not be a subtype of Null")
	}
	if !Null.SubtypeOf(Null) {
		t.Fatalf("Null must be a subtype of itself")
	}
}

func TestClassSubtypingChain(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)
	c := NewClass("C", b)
	if !c.SubtypeOf(a) || !c.SubtypeOf(b) || !c.SubtypeOf(c) {
		t.Fatalf("C <= B <= A chain broken")
	}
	if a.SubtypeOf(c) {
		t.Fatalf("A must not be a subtype of its own descendant C")
	}
}

func TestArrayInvariance(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)
	arrA := NewArray(a)
	arrB := NewArray(b)
	if arrB.SubtypeOf(arrA) {
		t.Fatalf("arrays must be invariant in their element type")
	}
	if !arrA.SubtypeOf(NewArray(a)) {
		t.Fatalf("an array type must be a subtype of itself")
	}
}

func TestFunctionSubtypingVariance(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)

	// F = (A)=>B accepts a broader argument and returns a narrower result
	// than G = (B)=>A, so F <= G (contravariant args, covariant return).
	f := NewFunction(b, []Type{a})
	g := NewFunction(a, []Type{b})

	if !f.SubtypeOf(g) {
		t.Fatalf("expected (A)=>B <= (B)=>A")
	}
	if g.SubtypeOf(f) {
		t.Fatalf("expected (B)=>A NOT <= (A)=>B")
	}
}

func TestJoinClasses(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)
	c := NewClass("C", a)

	got := Join([]Type{b, c})
	if !got.Eq(a) {
		t.Fatalf("Join(B,C) = %v, want A", got)
	}
}

func TestJoinWithNull(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)

	got := Join([]Type{Null, b})
	if !got.Eq(b) {
		t.Fatalf("Join(Null,B) = %v, want B", got)
	}
}

func TestJoinAllNull(t *testing.T) {
	got := Join([]Type{Null, Null})
	if !got.Eq(Null) {
		t.Fatalf("Join(Null,Null) = %v, want Null", got)
	}
}

func TestMeetClasses(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)
	c := NewClass("C", b)

	got := Meet([]Type{a, c})
	if !got.Eq(c) {
		t.Fatalf("Meet(A,C) = %v, want C", got)
	}
}

func TestMeetUnrelatedClassesIsError(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)
	c := NewClass("C", a)

	got := Meet([]Type{b, c})
	if !got.HasError() {
		t.Fatalf("Meet(B,C) of unrelated siblings should be Error, got %v", got)
	}
}

func TestJoinBaseMismatchIsError(t *testing.T) {
	got := Join([]Type{Int, Bool})
	if !got.HasError() {
		t.Fatalf("Join(Int,Bool) should be Error, got %v", got)
	}
}

func TestJoinFunctions(t *testing.T) {
	a := NewClass("A", nil)
	b := NewClass("B", a)

	f1 := NewFunction(b, []Type{a})
	f2 := NewFunction(b, []Type{b})

	got := Join([]Type{f1, f2})
	gotF, ok := got.(*Function)
	if !ok {
		t.Fatalf("Join of two Functions must be a Function, got %v", got)
	}
	if !gotF.Ret.Eq(b) {
		t.Fatalf("joined return type = %v, want B", gotF.Ret)
	}
	if !gotF.Args[0].Eq(b) {
		t.Fatalf("joined arg type = %v, want B (meet of A and B)", gotF.Args[0])
	}
}
