package stack

// Stack is a LIFO over a growable slice. It does no locking; owners that share
// one across goroutines guard it themselves.
type Stack[T any] struct {
	s []T
}

func New[T any](initialSize int) *Stack[T] {
	return &Stack[T]{make([]T, 0, initialSize)}
}

func (s *Stack[T]) Push(value T) {
	s.s = append(s.s, value)
}

// Pop removes the top value. ok is false on an empty stack.
func (s *Stack[T]) Pop() (value T, ok bool) {
	l := len(s.s)
	if l == 0 {
		return value, false
	}

	value = s.s[l-1]
	var zero T
	s.s[l-1] = zero
	s.s = s.s[:l-1]
	return value, true
}

func (s *Stack[T]) Top() (value T, ok bool) {
	l := len(s.s)
	if l == 0 {
		return value, false
	}
	return s.s[l-1], true
}

func (s *Stack[T]) Size() int {
	return len(s.s)
}

// Reset drops every element but keeps the backing array.
func (s *Stack[T]) Reset() {
	clear(s.s)
	s.s = s.s[:0]
}
