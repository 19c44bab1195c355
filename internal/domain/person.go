package domain

import (
	"slices"
	"strings"
	"unicode"
)

// Tag — произвольная метка записи (например, "vip" или "regular").
type Tag string

// Person — базовая контактная запись. Customer, Employee и Supplier
// встраивают её и добавляют атрибуты своей роли.
type Person struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Tags    []Tag
}

// SameIdentity считает записи одной персоной, если совпадают имена.
func (p Person) SameIdentity(other Person) bool {
	return p.Name == other.Name
}

// Equal сравнивает все поля; теги сравниваются как множество.
func (p Person) Equal(other Person) bool {
	return p.Name == other.Name &&
		p.Phone == other.Phone &&
		p.Email == other.Email &&
		p.Address == other.Address &&
		sameSet(stringsOf(p.Tags), stringsOf(other.Tags))
}

func (p Person) Key() string { return p.Name }

func (p Person) Clone() Person {
	p.Tags = slices.Clone(p.Tags)
	return p
}

func (p Person) Fingerprint() uint64 {
	return p.writeTo(newFingerprint(KindPerson)).sum()
}

func (p Person) writeTo(f *fingerprint) *fingerprint {
	return f.str(p.Name).str(p.Phone).str(p.Email).str(p.Address).set(stringsOf(p.Tags))
}

// Validate проверяет контактные поля; хранилище само поля не валидирует.
func (p Person) Validate() []error {
	var errs []error

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		errs = append(errs, ErrNameRequired)
	case !isValidName(name):
		errs = append(errs, ErrNameInvalid)
	}
	if !isValidPhone(p.Phone) {
		errs = append(errs, ErrPhoneInvalid)
	}
	if p.Email != "" && !isValidEmail(p.Email) {
		errs = append(errs, ErrEmailInvalid)
	}
	for _, tag := range p.Tags {
		if !isAlphanumeric(string(tag)) {
			errs = append(errs, ErrTagInvalid)
			break
		}
	}

	return errs
}

func isValidName(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return false
		}
	}
	return true
}

// isValidPhone принимает только цифры, минимум три.
func isValidPhone(phone string) bool {
	if len(phone) < 3 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isValidEmail(email string) bool {
	local, domainPart, ok := strings.Cut(email, "@")
	if !ok || local == "" || domainPart == "" {
		return false
	}
	if strings.ContainsAny(domainPart, "@ ") || strings.HasPrefix(domainPart, ".") || strings.HasSuffix(domainPart, ".") {
		return false
	}
	return !strings.ContainsRune(local, ' ')
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
