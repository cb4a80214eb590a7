package saga

import "sync"

// keyedLock 给每个 saga id 提供独立的互斥锁，保证"同一个 saga id 至多
// 一个在途 handler"（见 §5 Per-saga serialization）。与
// state_store_memory.go 的 mutex+map 风格一致，只是这里锁的是逻辑键
// 而不是整份存储。
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[string]*sync.Mutex)}
}

// Lock 获取指定 key 的锁，返回的 unlock 函数必须被调用一次。
func (k *keyedLock) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
