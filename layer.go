package anchor

// MergeStates composes states ordered from strongest to weakest. A key
// present in a stronger state keeps its value; its dependent map is merged
// key by key with the weaker ones so dependents the stronger state does not
// mention are kept. Source metadata follows the winning value.
func MergeStates(layers ...State) State {
	merged := State{}
	for i := len(layers) - 1; i >= 0; i-- {
		for key, entry := range layers[i] {
			merged[key] = mergeEntry(entry, merged[key])
		}
	}
	return merged
}

func mergeEntry(strong, weak Entry) Entry {
	out := strong
	switch {
	case strong.Dependents == nil:
		out.Dependents = weak.Dependents.Clone()
	case weak.Dependents == nil:
		out.Dependents = strong.Dependents.Clone()
	default:
		deps := weak.Dependents.Clone()
		for key, value := range strong.Dependents {
			deps[key] = value
		}
		out.Dependents = deps
	}
	return out
}
