// Package sortedlist implements the shared ordered list the benchmark workers
// operate on: a singly linked chain of int keys kept strictly increasing with
// no duplicates.
//
// A SortedList does no locking of its own. Callers hold a reader-writer lock in
// read mode for Member, Len, Keys and String, and in write mode for Insert,
// Delete and Clear.
package sortedlist

import (
	"strconv"
	"strings"
)

type node struct {
	key  int
	next *node
}

// SortedList is a strictly increasing, duplicate-free singly linked list.
// The zero value is an empty list ready to use.
type SortedList struct {
	head *node
	size int
}

// New returns an empty list.
func New() *SortedList {
	return &SortedList{}
}

// locate returns the first node whose key is >= key and its predecessor.
// Either may be nil.
func (l *SortedList) locate(key int) (pred, curr *node) {
	curr = l.head
	for curr != nil && curr.key < key {
		pred = curr
		curr = curr.next
	}
	return pred, curr
}

// Insert links key in sorted position. It returns false, leaving the list
// unchanged, if key is already present.
func (l *SortedList) Insert(key int) bool {
	pred, curr := l.locate(key)
	if curr != nil && curr.key == key {
		return false
	}
	n := &node{key: key, next: curr}
	if pred == nil {
		l.head = n
	} else {
		pred.next = n
	}
	l.size++
	return true
}

// Member reports whether key is present.
func (l *SortedList) Member(key int) bool {
	_, curr := l.locate(key)
	return curr != nil && curr.key == key
}

// Delete unlinks key. It returns false, leaving the list unchanged, if key is
// not present.
func (l *SortedList) Delete(key int) bool {
	pred, curr := l.locate(key)
	if curr == nil || curr.key != key {
		return false
	}
	if pred == nil {
		l.head = curr.next
	} else {
		pred.next = curr.next
	}
	curr.next = nil
	l.size--
	return true
}

// Len returns the number of keys.
func (l *SortedList) Len() int { return l.size }

// IsEmpty reports whether the list holds no keys.
func (l *SortedList) IsEmpty() bool { return l.head == nil }

// Keys returns the keys in list order.
func (l *SortedList) Keys() []int {
	keys := make([]int, 0, l.size)
	for n := l.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// IsSorted walks the chain and reports whether the keys are strictly
// increasing and the cached size matches the node count.
func (l *SortedList) IsSorted() bool {
	count := 0
	for n := l.head; n != nil; n = n.next {
		count++
		if n.next != nil && n.next.key <= n.key {
			return false
		}
	}
	return count == l.size
}

// Clear drops every node.
func (l *SortedList) Clear() {
	l.head = nil
	l.size = 0
}

// String renders the list as "list = k1 k2 ...".
func (l *SortedList) String() string {
	var b strings.Builder
	b.WriteString("list =")
	for n := l.head; n != nil; n = n.next {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(n.key))
	}
	return b.String()
}
