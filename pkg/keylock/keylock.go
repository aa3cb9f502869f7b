package keylock

import (
	"context"
	"sort"
	"sync"
)

// Locker набор мьютексов по строковому ключу внутри одного процесса
// Записи удаляются, когда ключ больше никто не держит и не ждёт
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// New создает Locker
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock захватывает все ключи в отсортированном порядке и возвращает функцию освобождения
// Единый порядок захвата исключает взаимную блокировку при пересекающихся наборах ключей
// При отмене контекста уже захваченные ключи освобождаются
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = Normalize(keys)
	acquired := make([]string, 0, len(keys))

	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			l.unlock(acquired[i])
		}
	}

	for _, key := range keys {
		if err := l.lock(ctx, key); err != nil {
			release()
			return nil, err
		}
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *Locker) lock(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.release(key, e)
		return ctx.Err()
	}
}

func (l *Locker) unlock(key string) {
	l.mu.Lock()
	e, ok := l.locks[key]
	l.mu.Unlock()
	if !ok {
		return
	}

	<-e.sem
	l.release(key, e)
}

func (l *Locker) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// size количество ключей, которые сейчас кто-то держит или ждёт
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Normalize сортирует ключи и убирает дубликаты
func Normalize(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}

	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	result := sorted[:1]
	for _, k := range sorted[1:] {
		if k != result[len(result)-1] {
			result = append(result, k)
		}
	}
	return result
}
