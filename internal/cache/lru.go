package cache

// lruNode is a node in a doubly-linked LRU list. It carries its key so an
// evicted node can be removed from the map in O(1).
type lruNode[V any] struct {
	key   string
	entry entry[V]
	prev  *lruNode[V]
	next  *lruNode[V]
}

// lruList is a doubly-linked list ordered by recency. The head is the most
// recently used node. The list is not thread-safe.
type lruList[V any] struct {
	head *lruNode[V]
	tail *lruNode[V]
	len  int
}

func (l *lruList[V]) pushFront(node *lruNode[V]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList[V]) moveToFront(node *lruNode[V]) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.pushFront(node)
}

// oldest returns the least recently used node, or nil.
func (l *lruList[V]) oldest() *lruNode[V] {
	return l.tail
}

func (l *lruList[V]) unlink(node *lruNode[V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
