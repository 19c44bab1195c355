// Package model содержит in-memory агрегат rhrh: пять коллекций без дубликатов
// и единую точку их изменения.
//
// Пакет не синхронизирует доступ. Все мутации должен выполнять один владелец;
// при конкурентном доступе вызывающий код оборачивает агрегат во внешний мьютекс.
package model

import (
	"encoding/binary"
	"fmt"
	"iter"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

// UniqueList — упорядоченная коллекция сущностей одного вида, в которой нет
// двух элементов с одинаковой идентичностью. Порядок вставки сохраняется.
// Элементы копируются через Clone на входе и на выходе, поэтому срезы
// внутри хранимых записей недоступны снаружи.
type UniqueList[E domain.Entity[E]] struct {
	name  string
	items []E
}

// NewUniqueList создаёт пустую коллекцию; name попадает в тексты ошибок.
func NewUniqueList[E domain.Entity[E]](name string) *UniqueList[E] {
	return &UniqueList[E]{name: name}
}

// Contains сообщает, есть ли элемент с той же идентичностью, что и e.
func (l *UniqueList[E]) Contains(e E) bool {
	return l.indexOf(e) >= 0
}

// Add добавляет e в конец или возвращает ErrDuplicateEntity.
func (l *UniqueList[E]) Add(e E) error {
	if l.Contains(e) {
		return l.errorf(e, domain.ErrDuplicateEntity)
	}
	l.items = append(l.items, e.Clone())
	return nil
}

// SetOne заменяет target на replacement, сохраняя позицию.
// replacement может совпадать по идентичности только с самим target.
func (l *UniqueList[E]) SetOne(target, replacement E) error {
	idx := l.indexOf(target)
	if idx < 0 {
		return l.errorf(target, domain.ErrEntityNotFound)
	}
	if !l.items[idx].SameIdentity(replacement) && l.Contains(replacement) {
		return l.errorf(replacement, domain.ErrDuplicateEntity)
	}
	l.items[idx] = replacement.Clone()
	return nil
}

// SetAll целиком заменяет содержимое копией list. Если в list есть
// дубликаты, коллекция не меняется.
func (l *UniqueList[E]) SetAll(list []E) error {
	if err := l.checkUnique(list); err != nil {
		return err
	}
	l.items = domain.CloneAll(list)
	return nil
}

// Remove удаляет элемент с идентичностью e или возвращает ErrEntityNotFound.
func (l *UniqueList[E]) Remove(e E) error {
	idx := l.indexOf(e)
	if idx < 0 {
		return l.errorf(e, domain.ErrEntityNotFound)
	}
	l.items = slices.Delete(l.items, idx, idx+1)
	return nil
}

// Find ищет элемент по строковому ключу идентичности.
func (l *UniqueList[E]) Find(key string) (E, bool) {
	for _, item := range l.items {
		if item.Key() == key {
			return item.Clone(), true
		}
	}
	var zero E
	return zero, false
}

// Len возвращает количество элементов.
func (l *UniqueList[E]) Len() int {
	return len(l.items)
}

// View возвращает живое представление только для чтения:
// последующие изменения коллекции в нём видны.
func (l *UniqueList[E]) View() domain.View[E] {
	return listView[E]{list: l}
}

// Equal: та же длина и попарное полное равенство в том же порядке.
func (l *UniqueList[E]) Equal(other *UniqueList[E]) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil || len(l.items) != len(other.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

// Hash зависит от порядка элементов и согласован с Equal.
func (l *UniqueList[E]) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, item := range l.items {
		binary.LittleEndian.PutUint64(buf[:], item.Fingerprint())
		_, _ = d.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(len(l.items)))
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

func (l *UniqueList[E]) indexOf(e E) int {
	for i, item := range l.items {
		if item.SameIdentity(e) {
			return i
		}
	}
	return -1
}

func (l *UniqueList[E]) checkUnique(list []E) error {
	return checkUnique(l.name, list)
}

func (l *UniqueList[E]) errorf(e E, sentinel error) error {
	return fmt.Errorf("%s %q: %w", l.name, e.Key(), sentinel)
}

// checkUnique ищет пару элементов с одинаковой идентичностью.
// Сравнение попарное: идентичность не обязана сводиться к ключу map.
func checkUnique[E domain.Entity[E]](name string, list []E) error {
	for i := 0; i < len(list)-1; i++ {
		for j := i + 1; j < len(list); j++ {
			if list[i].SameIdentity(list[j]) {
				return fmt.Errorf("%s %q: %w", name, list[j].Key(), domain.ErrDuplicateEntity)
			}
		}
	}
	return nil
}

type listView[E domain.Entity[E]] struct {
	list *UniqueList[E]
}

func (v listView[E]) Len() int { return len(v.list.items) }
func (v listView[E]) At(i int) E { return v.list.items[i].Clone() }
func (v listView[E]) Slice() []E { return domain.CloneAll(v.list.items) }
func (v listView[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, item := range v.list.items {
			if !yield(i, item.Clone()) {
				return
			}
		}
	}
}
