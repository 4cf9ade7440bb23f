package types

import "testing"

func TestIsMoveTypeTotalAndClassified(t *testing.T) {
	cases := []struct {
		name string
		ty   Type
		move bool
	}{
		{"i32 is copy", Prim(I32), false},
		{"bool is copy", Prim(Bool), false},
		{"string is move", Prim(Str), true},
		{"reference is copy", Reference{Referent: Prim(I32)}, false},
		{"box is copy", Box{Elem: Prim(I32)}, false},
		{"vec is move", Vec{Elem: Prim(I32)}, true},
		{"option is move", Option{Elem: Prim(I32)}, true},
		{"named struct is move", Named{Name: "Point"}, true},
		{"tuple of copies is copy", Tuple{Elems: []Type{Prim(I32), Prim(Bool)}}, false},
		{"tuple with a move element is move", Tuple{Elems: []Type{Prim(I32), Prim(Str)}}, true},
		{"function is copy", Function{Params: []Type{Prim(I32)}, Ret: Prim(Bool)}, false},
		{"unknown is non-copy for safety", Unknown{Var: "t0"}, true},
		{"never is copy", Prim(Never), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsMoveType(c.ty); got != c.move {
				t.Errorf("IsMoveType(%v) = %v, want %v", c.ty, got, c.move)
			}
		})
	}
}

func TestUnifyStructuralDescent(t *testing.T) {
	// Vec<Unknown> unifies with Vec<i32> by recursing into element types.
	unknown := Unknown{Var: "t0"}
	sub, result := Unify(Vec{Elem: unknown}, Vec{Elem: Prim(I32)})
	if result != UnifyOK {
		t.Fatalf("expected UnifyOK, got %v", result)
	}
	bound, ok := sub["t0"]
	if !ok || !Equal(bound, Prim(I32)) {
		t.Fatalf("expected t0 bound to i32, got %v", bound)
	}
}

func TestUnifyMismatch(t *testing.T) {
	_, result := Unify(Prim(I32), Prim(Bool))
	if result != UnifyMismatch {
		t.Fatalf("expected UnifyMismatch, got %v", result)
	}
}

func TestUnifyDeferredWhenBothUnknown(t *testing.T) {
	_, result := Unify(Unknown{Var: "a"}, Unknown{Var: "b"})
	if result != UnifyDeferred {
		t.Fatalf("expected UnifyDeferred, got %v", result)
	}
}

func TestContainsUnknown(t *testing.T) {
	nested := Result{Ok: Vec{Elem: Unknown{Var: "t1"}}, Err: Prim(Str)}
	if !ContainsUnknown(nested) {
		t.Fatal("expected nested Unknown to be detected")
	}
	resolved := Result{Ok: Vec{Elem: Prim(I32)}, Err: Prim(Str)}
	if ContainsUnknown(resolved) {
		t.Fatal("did not expect Unknown in fully resolved type")
	}
}
