package cache

import (
	"container/list"
)

// lruTracker 维护存活键的访问新旧顺序，链表前端为最近使用。
// 自身不加锁，必须在 Cache 的互斥锁保护下访问，
// 且键集合与 entries 保持完全一致。
type lruTracker struct {
	ll    *list.List
	index map[string]*list.Element
}

func newLRUTracker() *lruTracker {
	return &lruTracker{
		ll:    list.New(),
		index: make(map[string]*list.Element),
	}
}

// touch 将键标记为最近使用，不存在时插入
func (t *lruTracker) touch(key string) {
	if elem, ok := t.index[key]; ok {
		t.ll.MoveToFront(elem)
		return
	}
	t.index[key] = t.ll.PushFront(key)
}

// remove 移除键，键不存在时为空操作
func (t *lruTracker) remove(key string) {
	if elem, ok := t.index[key]; ok {
		t.ll.Remove(elem)
		delete(t.index, key)
	}
}

// victim 返回最久未使用的键但不移除它
func (t *lruTracker) victim() (string, bool) {
	elem := t.ll.Back()
	if elem == nil {
		return "", false
	}
	return elem.Value.(string), true
}

// keys 按最近使用到最久未使用的顺序返回所有键
func (t *lruTracker) keys() []string {
	keys := make([]string, 0, t.ll.Len())
	for elem := t.ll.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(string))
	}
	return keys
}

func (t *lruTracker) len() int {
	return t.ll.Len()
}

func (t *lruTracker) clear() {
	t.ll.Init()
	t.index = make(map[string]*list.Element)
}
