package domain

import (
	"encoding/binary"
	"iter"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Kind обозначает вид сущности и одновременно пространство имён уникальности.
type Kind string

const (
	KindPerson      Kind = "person"
	KindCustomer    Kind = "customer"
	KindEmployee    Kind = "employee"
	KindSupplier    Kind = "supplier"
	KindReservation Kind = "reservation"
)

// Kinds возвращает все виды сущностей в каноническом порядке хранилища.
func Kinds() []Kind {
	return []Kind{KindPerson, KindCustomer, KindEmployee, KindSupplier, KindReservation}
}

// Entity описывает запись, которую хранилище сравнивает двумя способами:
// по идентичности (та же ли это запись реального мира) и по полному равенству атрибутов.
type Entity[E any] interface {
	// SameIdentity используется для поиска дубликатов и цели редактирования.
	SameIdentity(other E) bool
	// Equal сравнивает все атрибуты; на нём построены равенство и хеш коллекций.
	Equal(other E) bool
	// Key — идентичность в виде строки (логи, события, адресация в HTTP API).
	Key() string
	// Fingerprint согласован с Equal.
	Fingerprint() uint64
	// Clone возвращает копию, не делящую срезы с оригиналом.
	Clone() E
}

// View — упорядоченное представление коллекции только для чтения.
type View[E any] interface {
	Len() int
	At(i int) E
	All() iter.Seq2[int, E]
	// Slice возвращает копию элементов; её изменение не влияет на источник.
	Slice() []E
}

// SliceView оборачивает обычный срез в View. Элементы отдаются копиями.
type SliceView[E Entity[E]] []E

func (v SliceView[E]) Len() int { return len(v) }
func (v SliceView[E]) At(i int) E { return v[i].Clone() }
func (v SliceView[E]) Slice() []E { return CloneAll(v) }
func (v SliceView[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, item := range v {
			if !yield(i, item.Clone()) {
				return
			}
		}
	}
}

// CloneAll копирует срез поэлементно через Clone; nil остаётся nil.
func CloneAll[E Entity[E]](items []E) []E {
	if items == nil {
		return nil
	}
	out := make([]E, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// fingerprint накапливает поля сущности в xxhash.
type fingerprint struct {
	d *xxhash.Digest
}

func newFingerprint(kind Kind) *fingerprint {
	f := &fingerprint{d: xxhash.New()}
	f.str(string(kind))
	return f
}

func (f *fingerprint) str(s string) *fingerprint {
	_, _ = f.d.WriteString(s)
	_, _ = f.d.Write([]byte{0})
	return f
}

func (f *fingerprint) int(v int64) *fingerprint {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = f.d.Write(buf[:])
	return f
}

// set хеширует множество: порядок и повторы не влияют на результат.
func (f *fingerprint) set(items []string) *fingerprint {
	for _, item := range normalizeSet(items) {
		f.str(item)
	}
	return f.str("")
}

func (f *fingerprint) sum() uint64 {
	return f.d.Sum64()
}

// normalizeSet сортирует и убирает повторы, не трогая исходный срез.
func normalizeSet(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := append([]string(nil), items...)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

func sameSet(a, b []string) bool {
	na, nb := normalizeSet(a), normalizeSet(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

func stringsOf[T ~string](items []T) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item)
	}
	return out
}
