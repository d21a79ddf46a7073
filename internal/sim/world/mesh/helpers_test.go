package mesh

import "github.com/gammazero/deque"

func newTodo() *deque.Deque[lightStep] { return new(deque.Deque[lightStep]) }
