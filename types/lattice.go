package types

// Join computes the least upper bound of a non-empty type list; Meet
// computes the greatest lower bound. Both ignore Null when
// picking the pivot that decides which case (base/void/array/class/
// function) applies, then fold Null back in via its subtyping relation to
// every class.
//
// This corrects a bug in the algorithm this package is modeled on: its
// class-chain walk breaks out of the loop unconditionally on the first
// iteration instead of only when a suitable ancestor is found. The version
// here walks the full super chain.
func Join(ts []Type) Type {
	return joinOrMeet(ts, true)
}

func Meet(ts []Type) Type {
	return joinOrMeet(ts, false)
}

func joinOrMeet(ts []Type, join bool) Type {
	if len(ts) == 0 {
		return Error
	}
	for _, t := range ts {
		if t.HasError() {
			return Error
		}
	}
	pivot := firstNonNull(ts)
	if pivot == nil {
		return Null
	}
	switch {
	case pivot.IsClassType():
		if join {
			return classJoin(ts)
		}
		return classMeet(ts)
	case pivot.IsFuncType():
		return funcJoinOrMeet(ts, join)
	default:
		return eqAllOrError(ts, pivot)
	}
}

func firstNonNull(ts []Type) Type {
	for _, t := range ts {
		if b, ok := t.(*basic); ok && b == Null {
			continue
		}
		return t
	}
	return nil
}

func eqAllOrError(ts []Type, pivot Type) Type {
	for _, t := range ts {
		if !t.Eq(pivot) {
			return Error
		}
	}
	return pivot
}

// classJoin walks the pivot class's super chain looking for the first
// ancestor that every input is a subtype of (Null is a subtype of every
// class, so it never blocks the search).
func classJoin(ts []Type) Type {
	var pivot *Class
	for _, t := range ts {
		if c, ok := t.(*Class); ok {
			pivot = c
			break
		}
	}
	if pivot == nil {
		return Null
	}
	for cand := pivot; cand != nil; cand = cand.Super {
		ok := true
		for _, t := range ts {
			if !t.SubtypeOf(cand) {
				ok = false
				break
			}
		}
		if ok {
			return cand
		}
	}
	return Error
}

// classMeet looks for the deepest input that is a subtype of every other
// input; with single inheritance at most one input (or Null) can qualify.
func classMeet(ts []Type) Type {
	for _, cand := range ts {
		ok := true
		for _, t := range ts {
			if !cand.SubtypeOf(t) {
				ok = false
				break
			}
		}
		if ok {
			return cand
		}
	}
	return Error
}

func funcJoinOrMeet(ts []Type, join bool) Type {
	var fns []*Function
	for _, t := range ts {
		f, ok := t.(*Function)
		if !ok {
			return Error
		}
		fns = append(fns, f)
	}
	arity := fns[0].Arity()
	for _, f := range fns {
		if f.Arity() != arity {
			return Error
		}
	}

	rets := make([]Type, len(fns))
	for i, f := range fns {
		rets[i] = f.Ret
	}

	var retType Type
	if join {
		retType = Join(rets)
	} else {
		retType = Meet(rets)
	}
	if retType.HasError() {
		return Error
	}

	args := make([]Type, arity)
	for i := 0; i < arity; i++ {
		col := make([]Type, len(fns))
		for j, f := range fns {
			col[j] = f.Args[i]
		}
		// Contravariance flips the recursion: the join of functions takes
		// the meet of their argument types, and vice versa.
		var argType Type
		if join {
			argType = Meet(col)
		} else {
			argType = Join(col)
		}
		if argType.HasError() {
			return Error
		}
		args[i] = argType
	}

	return NewFunction(retType, args)
}
