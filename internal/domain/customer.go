package domain

import "slices"

// Allergy — аллерген, о котором нужно помнить при обслуживании клиента.
type Allergy string

// SpecialRequest — постоянная просьба клиента (столик у окна, детский стул и т.п.).
type SpecialRequest string

// Customer — постоянный гость ресторана.
type Customer struct {
	Person
	RewardPoints    int
	Allergies       []Allergy
	SpecialRequests []SpecialRequest
}

// SameIdentity для клиентов, как и для базовой записи, определяется именем.
func (c Customer) SameIdentity(other Customer) bool {
	return c.Person.SameIdentity(other.Person)
}

func (c Customer) Equal(other Customer) bool {
	return c.Person.Equal(other.Person) &&
		c.RewardPoints == other.RewardPoints &&
		sameSet(stringsOf(c.Allergies), stringsOf(other.Allergies)) &&
		sameSet(stringsOf(c.SpecialRequests), stringsOf(other.SpecialRequests))
}

func (c Customer) Key() string { return c.Name }

func (c Customer) Clone() Customer {
	c.Person = c.Person.Clone()
	c.Allergies = slices.Clone(c.Allergies)
	c.SpecialRequests = slices.Clone(c.SpecialRequests)
	return c
}

func (c Customer) Fingerprint() uint64 {
	return c.Person.writeTo(newFingerprint(KindCustomer)).
		int(int64(c.RewardPoints)).
		set(stringsOf(c.Allergies)).
		set(stringsOf(c.SpecialRequests)).
		sum()
}

func (c Customer) Validate() []error {
	errs := c.Person.Validate()
	if c.RewardPoints < 0 {
		errs = append(errs, ErrRewardPointsNegative)
	}
	return errs
}
