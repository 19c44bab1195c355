package model

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

const (
	personsName      = "persons"
	customersName    = "customers"
	employeesName    = "employees"
	suppliersName    = "suppliers"
	reservationsName = "reservations"
)

// Rhrh — агрегат ресторана: по одной коллекции на каждый вид сущности.
// Уникальность проверяется внутри коллекции, а не глобально: одно и то же
// имя может одновременно быть клиентом и сотрудником.
type Rhrh struct {
	persons      *UniqueList[domain.Person]
	customers    *UniqueList[domain.Customer]
	employees    *UniqueList[domain.Employee]
	suppliers    *UniqueList[domain.Supplier]
	reservations *UniqueList[domain.Reservation]

	listeners      []subscription
	nextListenerID int
}

// Counts — размеры коллекций в каноническом порядке.
type Counts struct {
	Persons      int
	Customers    int
	Employees    int
	Suppliers    int
	Reservations int
}

// NewRhrh создаёт пустой агрегат.
func NewRhrh() *Rhrh {
	return &Rhrh{
		persons:      NewUniqueList[domain.Person](personsName),
		customers:    NewUniqueList[domain.Customer](customersName),
		employees:    NewUniqueList[domain.Employee](employeesName),
		suppliers:    NewUniqueList[domain.Supplier](suppliersName),
		reservations: NewUniqueList[domain.Reservation](reservationsName),
	}
}

// NewRhrhFrom создаёт агрегат с копией данных source.
func NewRhrhFrom(source domain.ReadOnlyRhrh) (*Rhrh, error) {
	r := NewRhrh()
	if err := r.ResetData(source); err != nil {
		return nil, err
	}
	return r, nil
}

// ResetData заменяет все пять коллекций данными newData в порядке
// persons, customers, employees, suppliers, reservations.
//
// Замена не атомарна между коллекциями: если коллекция k содержит дубликаты,
// коллекции до k уже заменены, а k и последующие остаются прежними.
// Для замены "всё или ничего" сначала вызовите ValidateSnapshot.
func (r *Rhrh) ResetData(newData domain.ReadOnlyRhrh) error {
	if domain.IsNilSource(newData) {
		return fmt.Errorf("reset data: %w", domain.ErrNilArgument)
	}
	if err := setAll(r, domain.KindPerson, r.persons, newData.PersonList().Slice()); err != nil {
		return err
	}
	if err := setAll(r, domain.KindCustomer, r.customers, newData.CustomerList().Slice()); err != nil {
		return err
	}
	if err := setAll(r, domain.KindEmployee, r.employees, newData.EmployeeList().Slice()); err != nil {
		return err
	}
	if err := setAll(r, domain.KindSupplier, r.suppliers, newData.SupplierList().Slice()); err != nil {
		return err
	}
	return setAll(r, domain.KindReservation, r.reservations, newData.ReservationList().Slice())
}

// ValidateSnapshot проверяет уникальность внутри каждого списка data, ничего не меняя.
// Первая найденная ошибка возвращается в том же порядке, в котором её вернул бы ResetData.
func ValidateSnapshot(data domain.ReadOnlyRhrh) error {
	if domain.IsNilSource(data) {
		return fmt.Errorf("validate snapshot: %w", domain.ErrNilArgument)
	}
	if err := checkUnique(personsName, data.PersonList().Slice()); err != nil {
		return err
	}
	if err := checkUnique(customersName, data.CustomerList().Slice()); err != nil {
		return err
	}
	if err := checkUnique(employeesName, data.EmployeeList().Slice()); err != nil {
		return err
	}
	if err := checkUnique(suppliersName, data.SupplierList().Slice()); err != nil {
		return err
	}
	return checkUnique(reservationsName, data.ReservationList().Slice())
}

// Персоны.

func (r *Rhrh) HasPerson(p domain.Person) bool { return r.persons.Contains(p) }

func (r *Rhrh) AddPerson(p domain.Person) error {
	return add(r, domain.KindPerson, r.persons, p)
}

func (r *Rhrh) SetPerson(target, edited domain.Person) error {
	return setOne(r, domain.KindPerson, r.persons, target, edited)
}

func (r *Rhrh) SetPersons(persons []domain.Person) error {
	return setAll(r, domain.KindPerson, r.persons, persons)
}

func (r *Rhrh) RemovePerson(p domain.Person) error {
	return remove(r, domain.KindPerson, r.persons, p)
}

func (r *Rhrh) FindPerson(key string) (domain.Person, bool) { return r.persons.Find(key) }

func (r *Rhrh) PersonList() domain.View[domain.Person] { return r.persons.View() }

// Клиенты.

func (r *Rhrh) HasCustomer(c domain.Customer) bool { return r.customers.Contains(c) }

func (r *Rhrh) AddCustomer(c domain.Customer) error {
	return add(r, domain.KindCustomer, r.customers, c)
}

func (r *Rhrh) SetCustomer(target, edited domain.Customer) error {
	return setOne(r, domain.KindCustomer, r.customers, target, edited)
}

func (r *Rhrh) SetCustomers(customers []domain.Customer) error {
	return setAll(r, domain.KindCustomer, r.customers, customers)
}

func (r *Rhrh) RemoveCustomer(c domain.Customer) error {
	return remove(r, domain.KindCustomer, r.customers, c)
}

func (r *Rhrh) FindCustomer(key string) (domain.Customer, bool) { return r.customers.Find(key) }

func (r *Rhrh) CustomerList() domain.View[domain.Customer] { return r.customers.View() }

// Сотрудники.

func (r *Rhrh) HasEmployee(e domain.Employee) bool { return r.employees.Contains(e) }

func (r *Rhrh) AddEmployee(e domain.Employee) error {
	return add(r, domain.KindEmployee, r.employees, e)
}

func (r *Rhrh) SetEmployee(target, edited domain.Employee) error {
	return setOne(r, domain.KindEmployee, r.employees, target, edited)
}

func (r *Rhrh) SetEmployees(employees []domain.Employee) error {
	return setAll(r, domain.KindEmployee, r.employees, employees)
}

func (r *Rhrh) RemoveEmployee(e domain.Employee) error {
	return remove(r, domain.KindEmployee, r.employees, e)
}

func (r *Rhrh) FindEmployee(key string) (domain.Employee, bool) { return r.employees.Find(key) }

func (r *Rhrh) EmployeeList() domain.View[domain.Employee] { return r.employees.View() }

// Поставщики.

func (r *Rhrh) HasSupplier(s domain.Supplier) bool { return r.suppliers.Contains(s) }

func (r *Rhrh) AddSupplier(s domain.Supplier) error {
	return add(r, domain.KindSupplier, r.suppliers, s)
}

func (r *Rhrh) SetSupplier(target, edited domain.Supplier) error {
	return setOne(r, domain.KindSupplier, r.suppliers, target, edited)
}

func (r *Rhrh) SetSuppliers(suppliers []domain.Supplier) error {
	return setAll(r, domain.KindSupplier, r.suppliers, suppliers)
}

func (r *Rhrh) RemoveSupplier(s domain.Supplier) error {
	return remove(r, domain.KindSupplier, r.suppliers, s)
}

func (r *Rhrh) FindSupplier(key string) (domain.Supplier, bool) { return r.suppliers.Find(key) }

func (r *Rhrh) SupplierList() domain.View[domain.Supplier] { return r.suppliers.View() }

// Бронирования.

func (r *Rhrh) HasReservation(res domain.Reservation) bool { return r.reservations.Contains(res) }

func (r *Rhrh) AddReservation(res domain.Reservation) error {
	return add(r, domain.KindReservation, r.reservations, res)
}

func (r *Rhrh) SetReservation(target, edited domain.Reservation) error {
	return setOne(r, domain.KindReservation, r.reservations, target, edited)
}

func (r *Rhrh) SetReservations(reservations []domain.Reservation) error {
	return setAll(r, domain.KindReservation, r.reservations, reservations)
}

func (r *Rhrh) RemoveReservation(res domain.Reservation) error {
	return remove(r, domain.KindReservation, r.reservations, res)
}

func (r *Rhrh) FindReservation(key string) (domain.Reservation, bool) {
	return r.reservations.Find(key)
}

func (r *Rhrh) ReservationList() domain.View[domain.Reservation] { return r.reservations.View() }

// Counts возвращает размеры всех коллекций.
func (r *Rhrh) Counts() Counts {
	return Counts{
		Persons:      r.persons.Len(),
		Customers:    r.customers.Len(),
		Employees:    r.employees.Len(),
		Suppliers:    r.suppliers.Len(),
		Reservations: r.reservations.Len(),
	}
}

// String — диагностическая сводка с количеством записей в каждой коллекции.
func (r *Rhrh) String() string {
	c := r.Counts()
	return fmt.Sprintf("%d persons\n%d customers\n%d employees\n%d suppliers\n%d reservations\n",
		c.Persons, c.Customers, c.Employees, c.Suppliers, c.Reservations)
}

// Equal: все пять коллекций попарно равны.
func (r *Rhrh) Equal(other *Rhrh) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	return r.persons.Equal(other.persons) &&
		r.customers.Equal(other.customers) &&
		r.employees.Equal(other.employees) &&
		r.suppliers.Equal(other.suppliers) &&
		r.reservations.Equal(other.reservations)
}

// Hash комбинирует хеши коллекций в порядке persons..reservations.
func (r *Rhrh) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, h := range []uint64{
		r.persons.Hash(),
		r.customers.Hash(),
		r.employees.Hash(),
		r.suppliers.Hash(),
		r.reservations.Hash(),
	} {
		binary.LittleEndian.PutUint64(buf[:], h)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

func add[E domain.Entity[E]](r *Rhrh, kind domain.Kind, l *UniqueList[E], e E) error {
	if err := l.Add(e); err != nil {
		return err
	}
	r.notify(ChangeEvent{Kind: kind, Action: ActionAdded, Key: e.Key(), Count: l.Len()})
	return nil
}

func setOne[E domain.Entity[E]](r *Rhrh, kind domain.Kind, l *UniqueList[E], target, edited E) error {
	if err := l.SetOne(target, edited); err != nil {
		return err
	}
	r.notify(ChangeEvent{Kind: kind, Action: ActionUpdated, Key: edited.Key(), PreviousKey: target.Key(), Count: l.Len()})
	return nil
}

func setAll[E domain.Entity[E]](r *Rhrh, kind domain.Kind, l *UniqueList[E], list []E) error {
	if err := l.SetAll(list); err != nil {
		return err
	}
	r.notify(ChangeEvent{Kind: kind, Action: ActionReplaced, Count: l.Len()})
	return nil
}

func remove[E domain.Entity[E]](r *Rhrh, kind domain.Kind, l *UniqueList[E], e E) error {
	if err := l.Remove(e); err != nil {
		return err
	}
	r.notify(ChangeEvent{Kind: kind, Action: ActionRemoved, Key: e.Key(), Count: l.Len()})
	return nil
}

var _ domain.ReadOnlyRhrh = (*Rhrh)(nil)
