package document

// Clone produces a deep copy of a Value.
//
// The clone is typed over the sealed Value set rather than an any-typed
// reflection walk: every branch is known at compile time, so a clone can
// never produce a value outside the snapshot document model.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	default:
		// Null, String, Int, Bool are immutable value types.
		return val
	}
}

// CloneObject is a convenience wrapper for cloning a document root.
func CloneObject(obj Object) Object {
	return Clone(obj).(Object)
}
