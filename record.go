package sitestat

// Record is the result of one extraction: a mapping from field name to a
// string, a list ([]string or []Record) or a nested Record.
//
// A Record is owned by a single invocation and is filled monotonically by
// the phases of its chain.
type Record map[string]any

// NewChild stores an empty nested record under key and returns it.
func (r Record) NewChild(key string) Record {
	child := Record{}
	r[key] = child
	return child
}

// Child returns the nested record stored under key, creating it when the
// key is absent or holds a non-record value.
func (r Record) Child(key string) Record {
	if child, ok := r[key].(Record); ok {
		return child
	}
	return r.NewChild(key)
}

// AppendString appends s to the string list stored under key.
func (r Record) AppendString(key, s string) {
	list, _ := r[key].([]string)
	r[key] = append(list, s)
}

// AppendRecord appends v to the record list stored under key.
func (r Record) AppendRecord(key string, v Record) {
	list, _ := r[key].([]Record)
	r[key] = append(list, v)
}

// String returns the string at the given path of nested keys.
func (r Record) String(path ...string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	cur := r
	for _, key := range path[:len(path)-1] {
		child, ok := cur[key].(Record)
		if !ok {
			return "", false
		}
		cur = child
	}
	s, ok := cur[path[len(path)-1]].(string)
	return s, ok
}

// Records returns the record list stored under key.
func (r Record) Records(key string) []Record {
	list, _ := r[key].([]Record)
	return list
}
