package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaitQueueFIFO(t *testing.T) {
	assrt := assert.New(t)
	var q WaitQueue[int]

	a := NewSignal(new(int))
	b := NewSignal(new(int))
	q.PushBack(a)
	q.PushBack(b)
	assrt.Equal(2, q.Len())

	assrt.Same(a, q.PopFront())
	assrt.Same(b, q.PopFront())
	assrt.Nil(q.PopFront())
	assrt.True(q.Empty())
}

func TestWaitQueueRemove(t *testing.T) {
	assrt := assert.New(t)
	var q WaitQueue[int]

	a := NewSignal(new(int))
	b := NewSignal(new(int))
	c := NewSignal(new(int))
	q.PushBack(a)
	q.PushBack(b)
	q.PushBack(c)

	assrt.True(q.Remove(b))
	assrt.False(q.Remove(b), "removing twice must fail the second time")
	assrt.Equal(2, q.Len())

	assrt.Same(a, q.PopFront())
	assrt.Same(c, q.PopFront())
}

func TestWaitQueueRemoveLosesRaceToPop(t *testing.T) {
	assrt := assert.New(t)
	var q WaitQueue[int]

	a := NewSignal(new(int))
	q.PushBack(a)

	popped := q.PopFront()
	assrt.Same(a, popped)
	// a is no longer in the queue: a concurrent owner's Remove must now
	// report false, forcing it onto the unconditional Wait path.
	assrt.False(q.Remove(a))
}

func TestWaitQueueDrainTerminate(t *testing.T) {
	assrt := assert.New(t)
	var q WaitQueue[int]

	a := NewSignal(new(int))
	b := NewSignal(new(int))
	q.PushBack(a)
	q.PushBack(b)

	q.DrainTerminate()
	assrt.True(q.Empty())

	okA, timedOutA := a.Wait(context.Background())
	assrt.False(okA)
	assrt.False(timedOutA)

	okB, terminated := b.State()
	assrt.False(okB)
	assrt.True(terminated)
}
