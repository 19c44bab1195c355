package model

import (
	"fmt"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

// Action — тип изменения коллекции.
type Action string

const (
	ActionAdded    Action = "added"
	ActionUpdated  Action = "updated"
	ActionRemoved  Action = "removed"
	ActionReplaced Action = "replaced"
)

// ChangeEvent описывает одно успешное изменение агрегата.
type ChangeEvent struct {
	Kind   domain.Kind
	Action Action
	// Key — идентичность затронутой записи; пуст для ActionReplaced.
	Key string
	// PreviousKey — ключ записи до правки; заполняется только для ActionUpdated.
	PreviousKey string
	// Размер коллекции после изменения.
	Count int
}

// ChangeListener получает события синхронно, в потоке, выполнившем мутацию.
// Слушатель не должен изменять агрегат.
type ChangeListener func(ChangeEvent)

type subscription struct {
	id int
	fn ChangeListener
}

// Subscribe регистрирует слушателя изменений. Возвращённая функция снимает подписку.
func (r *Rhrh) Subscribe(listener ChangeListener) (func(), error) {
	if listener == nil {
		return nil, fmt.Errorf("subscribe: %w", domain.ErrNilArgument)
	}
	r.nextListenerID++
	id := r.nextListenerID
	r.listeners = append(r.listeners, subscription{id: id, fn: listener})

	return func() {
		for i, sub := range r.listeners {
			if sub.id == id {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}, nil
}

func (r *Rhrh) notify(event ChangeEvent) {
	for _, sub := range r.listeners {
		sub.fn(event)
	}
}
