package application

import (
	"container/list"
	"fmt"

	"github.com/bnema/pairline/internal/domain"
)

// waitingQueue keeps identities in arrival order. The element index gives
// O(1) removal from anywhere without disturbing the order of the rest.
// Not safe for concurrent use; the Matchmaker lock guards it.
type waitingQueue struct {
	order *list.List
	index map[domain.Name]*list.Element
}

func newWaitingQueue() *waitingQueue {
	return &waitingQueue{
		order: list.New(),
		index: make(map[domain.Name]*list.Element),
	}
}

func (q *waitingQueue) enqueue(id *identity) error {
	if _, ok := q.index[id.name]; ok {
		return fmt.Errorf("%w: %q is already waiting", domain.ErrInvariantViolation, id.name)
	}

	q.index[id.name] = q.order.PushBack(id)
	return nil
}

// restore puts a dequeued pair back at the head, in their original order.
func (q *waitingQueue) restore(first, second *identity) {
	for _, id := range []*identity{second, first} {
		if _, ok := q.index[id.name]; ok {
			continue
		}
		q.index[id.name] = q.order.PushFront(id)
	}
}

func (q *waitingQueue) tryDequeuePair() (*identity, *identity, bool) {
	if q.order.Len() < 2 {
		return nil, nil, false
	}

	first := q.order.Remove(q.order.Front()).(*identity)
	second := q.order.Remove(q.order.Front()).(*identity)
	delete(q.index, first.name)
	delete(q.index, second.name)

	return first, second, true
}

func (q *waitingQueue) remove(name domain.Name) bool {
	elem, ok := q.index[name]
	if !ok {
		return false
	}

	q.order.Remove(elem)
	delete(q.index, name)
	return true
}

func (q *waitingQueue) contains(name domain.Name) bool {
	_, ok := q.index[name]
	return ok
}

func (q *waitingQueue) len() int {
	return q.order.Len()
}

func (q *waitingQueue) names() []domain.Name {
	names := make([]domain.Name, 0, q.order.Len())
	for elem := q.order.Front(); elem != nil; elem = elem.Next() {
		names = append(names, elem.Value.(*identity).name)
	}
	return names
}
