package domain

import (
	"slices"
	"time"
)

// ReservationKeyLayout — формат времени в строковом ключе бронирования.
// Точность до наносекунды: разные моменты времени дают разные ключи.
const ReservationKeyLayout = time.RFC3339Nano

// Reservation описывает бронирование столика. Живёт в отдельном от персон
// пространстве имён: персона и бронь никогда не конфликтуют.
type Reservation struct {
	Phone          string
	NumberOfPeople int
	DateTime       time.Time
	Remark         string
	Tags           []Tag
}

// SameIdentity: одна бронь означает тот же телефон на то же время.
func (r Reservation) SameIdentity(other Reservation) bool {
	return r.Phone == other.Phone && r.DateTime.Equal(other.DateTime)
}

func (r Reservation) Equal(other Reservation) bool {
	return r.SameIdentity(other) &&
		r.NumberOfPeople == other.NumberOfPeople &&
		r.Remark == other.Remark &&
		sameSet(stringsOf(r.Tags), stringsOf(other.Tags))
}

// Key возвращает "телефон@время" в UTC. Ключи совпадают ровно тогда,
// когда совпадает идентичность.
func (r Reservation) Key() string {
	return r.Phone + "@" + r.DateTime.UTC().Format(ReservationKeyLayout)
}

func (r Reservation) Clone() Reservation {
	r.Tags = slices.Clone(r.Tags)
	return r
}

func (r Reservation) Fingerprint() uint64 {
	return newFingerprint(KindReservation).
		str(r.Phone).
		int(r.DateTime.UnixNano()).
		int(int64(r.NumberOfPeople)).
		str(r.Remark).
		set(stringsOf(r.Tags)).
		sum()
}

// Validate проверяет, корректно ли заполнены ключевые поля бронирования.
func (r Reservation) Validate() []error {
	var errs []error

	if !isValidPhone(r.Phone) {
		errs = append(errs, ErrPhoneInvalid)
	}
	if r.NumberOfPeople <= 0 {
		errs = append(errs, ErrReservationPeopleInvalid)
	}
	if r.DateTime.IsZero() {
		errs = append(errs, ErrReservationTimeRequired)
	}
	for _, tag := range r.Tags {
		if !isAlphanumeric(string(tag)) {
			errs = append(errs, ErrTagInvalid)
			break
		}
	}

	return errs
}
