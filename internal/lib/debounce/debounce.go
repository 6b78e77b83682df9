// Package debounce реализует перезапускаемый таймер с trailing-семантикой:
// из серии быстрых срабатываний по одному ключу выполняется только последнее,
// после паузы заданной длительности. Используется для отложенной проверки
// расписания при редактировании черновика абонемента.
package debounce

import (
	"sync"
	"time"
)

// Debouncer хранит по одному отложенному вызову на ключ.
// Повторный Trigger по тому же ключу отменяет ещё не сработавший таймер
// и запускает отсчёт заново — выполняется только последний вызов.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// New создает новый Debouncer с указанной задержкой срабатывания.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// Trigger планирует выполнение fn через задержку, отменяя предыдущий
// незавершённый вызов по тому же ключу. После Stop вызовы игнорируются.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel отменяет незавершённый вызов по ключу, если он есть.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
		delete(d.timers, key)
	}
}

// Stop отменяет все незавершённые вызовы и переводит Debouncer
// в закрытое состояние: новые Trigger не планируются.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
