package domain

import "strings"

// Supplier — поставщик продуктов или расходников.
type Supplier struct {
	Person
	SupplyType string
	// DeliveryDetails хранит договорённость о доставке в свободной форме ("каждый вторник, 9:00").
	DeliveryDetails string
}

func (s Supplier) SameIdentity(other Supplier) bool {
	return s.Person.SameIdentity(other.Person)
}

func (s Supplier) Equal(other Supplier) bool {
	return s.Person.Equal(other.Person) &&
		s.SupplyType == other.SupplyType &&
		s.DeliveryDetails == other.DeliveryDetails
}

func (s Supplier) Key() string { return s.Name }

func (s Supplier) Clone() Supplier {
	s.Person = s.Person.Clone()
	return s
}

func (s Supplier) Fingerprint() uint64 {
	return s.Person.writeTo(newFingerprint(KindSupplier)).
		str(s.SupplyType).
		str(s.DeliveryDetails).
		sum()
}

func (s Supplier) Validate() []error {
	errs := s.Person.Validate()
	if strings.TrimSpace(s.SupplyType) == "" {
		errs = append(errs, ErrSupplyTypeRequired)
	}
	return errs
}
