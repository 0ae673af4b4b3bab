package pubgrub

import "fmt"

func termAllowedSet(term Term) (VersionSet, bool) {
	if !term.Positive {
		return nil, false
	}

	switch cond := term.Condition.(type) {
	case nil:
		return (&VersionIntervalSet{}).Full(), true
	case EqualsCondition:
		return (&VersionIntervalSet{}).Singleton(cond.Version), true
	case *EqualsCondition:
		if cond == nil {
			return (&VersionIntervalSet{}).Full(), true
		}
		return (&VersionIntervalSet{}).Singleton(cond.Version), true
	case *VersionSetCondition:
		if cond == nil || cond.Set == nil {
			return (&VersionIntervalSet{}).Full(), true
		}
		return cond.Set, true
	case VersionSetConverter:
		if set := cond.ToVersionSet(); set != nil {
			return set, true
		}
		return (&VersionIntervalSet{}).Full(), true
	default:
		return nil, false
	}
}

func termForbiddenSet(term Term) (VersionSet, bool) {
	if term.Positive {
		return nil, false
	}

	switch cond := term.Condition.(type) {
	case nil:
		return (&VersionIntervalSet{}).Full(), true
	case EqualsCondition:
		return (&VersionIntervalSet{}).Singleton(cond.Version), true
	case *EqualsCondition:
		if cond == nil {
			return (&VersionIntervalSet{}).Full(), true
		}
		return (&VersionIntervalSet{}).Singleton(cond.Version), true
	case *VersionSetCondition:
		if cond == nil || cond.Set == nil {
			return (&VersionIntervalSet{}).Full(), true
		}
		return cond.Set, true
	case VersionSetConverter:
		if set := cond.ToVersionSet(); set != nil {
			return set, true
		}
		return (&VersionIntervalSet{}).Full(), true
	default:
		return nil, false
	}
}

func applyTermToAllowed(current VersionSet, term Term) (VersionSet, error) {
	if current == nil {
		current = (&VersionIntervalSet{}).Full()
	}

	if term.Positive {
		allowed, ok := termAllowedSet(term)
		if !ok {
			return nil, fmt.Errorf("term %s does not support positive conversion", term)
		}
		return current.Intersection(allowed), nil
	}

	forbidden, ok := termForbiddenSet(term)
	if !ok {
		return nil, fmt.Errorf("term %s does not support negative conversion", term)
	}
	return current.Intersection(forbidden.Complement()), nil
}

func termFromAllowedSet(name Name, set VersionSet) Term {
	if set == nil {
		set = (&VersionIntervalSet{}).Full()
	}

	if version, ok := singletonVersionFromSet(set); ok {
		return Term{
			Name:      name,
			Condition: EqualsCondition{Version: version},
			Positive:  true,
		}
	}

	return Term{
		Name:      name,
		Condition: NewVersionSetCondition(set),
		Positive:  true,
	}
}

func termFromForbiddenSet(name Name, set VersionSet) Term {
	if set == nil {
		set = (&VersionIntervalSet{}).Full()
	}

	return Term{
		Name:      name,
		Condition: NewVersionSetCondition(set),
		Positive:  false,
	}
}

func setsEqual(a, b VersionSet) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsSubset(b) && b.IsSubset(a)
}

// conditionSet returns the VersionSet a condition denotes, independent of
// the term's polarity. A nil condition denotes every version.
func conditionSet(cond Condition) VersionSet {
	switch c := cond.(type) {
	case nil:
		return FullVersionSet()
	case EqualsCondition:
		return (&VersionIntervalSet{}).Singleton(c.Version)
	case *EqualsCondition:
		if c == nil {
			return FullVersionSet()
		}
		return (&VersionIntervalSet{}).Singleton(c.Version)
	case *VersionSetCondition:
		if c == nil || c.Set == nil {
			return FullVersionSet()
		}
		return c.Set
	case VersionSetConverter:
		return c.ToVersionSet()
	default:
		return FullVersionSet()
	}
}

// trueSet returns the set of versions for which the term evaluates true:
// the condition's set for a positive term, its complement for a negative
// one.
func trueSet(t Term) VersionSet {
	set := conditionSet(t.Condition)
	if t.Positive {
		return set
	}
	return set.Complement()
}
