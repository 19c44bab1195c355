package book

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
	"github.com/vladislavdragonenkov/rhrh/internal/model"
)

type entity[E any] interface {
	domain.Entity[E]
	Validate() []error
}

// collection связывает вид сущности с методами агрегата для него.
type collection[E entity[E]] struct {
	kind   domain.Kind
	name   string
	has    func(*model.Rhrh, E) bool
	add    func(*model.Rhrh, E) error
	set    func(*model.Rhrh, E, E) error
	setAll func(*model.Rhrh, []E) error
	remove func(*model.Rhrh, E) error
	find   func(*model.Rhrh, string) (E, bool)
	list   func(*model.Rhrh) domain.View[E]
}

var (
	persons = collection[domain.Person]{
		kind: domain.KindPerson, name: "persons", has: (*model.Rhrh).HasPerson,
		add: (*model.Rhrh).AddPerson, set: (*model.Rhrh).SetPerson, setAll: (*model.Rhrh).SetPersons,
		remove: (*model.Rhrh).RemovePerson, find: (*model.Rhrh).FindPerson, list: (*model.Rhrh).PersonList,
	}
	customers = collection[domain.Customer]{
		kind: domain.KindCustomer, name: "customers", has: (*model.Rhrh).HasCustomer,
		add: (*model.Rhrh).AddCustomer, set: (*model.Rhrh).SetCustomer, setAll: (*model.Rhrh).SetCustomers,
		remove: (*model.Rhrh).RemoveCustomer, find: (*model.Rhrh).FindCustomer, list: (*model.Rhrh).CustomerList,
	}
	employees = collection[domain.Employee]{
		kind: domain.KindEmployee, name: "employees", has: (*model.Rhrh).HasEmployee,
		add: (*model.Rhrh).AddEmployee, set: (*model.Rhrh).SetEmployee, setAll: (*model.Rhrh).SetEmployees,
		remove: (*model.Rhrh).RemoveEmployee, find: (*model.Rhrh).FindEmployee, list: (*model.Rhrh).EmployeeList,
	}
	suppliers = collection[domain.Supplier]{
		kind: domain.KindSupplier, name: "suppliers", has: (*model.Rhrh).HasSupplier,
		add: (*model.Rhrh).AddSupplier, set: (*model.Rhrh).SetSupplier, setAll: (*model.Rhrh).SetSuppliers,
		remove: (*model.Rhrh).RemoveSupplier, find: (*model.Rhrh).FindSupplier, list: (*model.Rhrh).SupplierList,
	}
	reservations = collection[domain.Reservation]{
		kind: domain.KindReservation, name: "reservations", has: (*model.Rhrh).HasReservation,
		add: (*model.Rhrh).AddReservation, set: (*model.Rhrh).SetReservation, setAll: (*model.Rhrh).SetReservations,
		remove: (*model.Rhrh).RemoveReservation, find: (*model.Rhrh).FindReservation, list: (*model.Rhrh).ReservationList,
	}
)

func listOf[E entity[E]](s *Service, c collection[E]) []E {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.list(s.store).Slice()
}

func lookup[E entity[E]](s *Service, c collection[E], key string) (E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := c.find(s.store, key)
	if !ok {
		return e, fmt.Errorf("%s %q: %w", c.name, key, domain.ErrEntityNotFound)
	}
	return e, nil
}

func has[E entity[E]](s *Service, c collection[E], e E) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.has(s.store, e)
}

func add[E entity[E]](ctx context.Context, s *Service, c collection[E], e E) error {
	if err := validate(c.kind, e); err != nil {
		s.metrics.RecordMutation(c.kind, "add", err)
		return err
	}
	return s.mutate(ctx, c.kind, "add", func(r *model.Rhrh) error {
		return c.add(r, e)
	})
}

// edit заменяет запись с ключом key; новая запись может сменить идентичность.
func edit[E entity[E]](ctx context.Context, s *Service, c collection[E], key string, replacement E) error {
	if err := validate(c.kind, replacement); err != nil {
		s.metrics.RecordMutation(c.kind, "edit", err)
		return err
	}
	return s.mutate(ctx, c.kind, "edit", func(r *model.Rhrh) error {
		target, ok := c.find(r, key)
		if !ok {
			return fmt.Errorf("%s %q: %w", c.name, key, domain.ErrEntityNotFound)
		}
		return c.set(r, target, replacement)
	})
}

func replaceAll[E entity[E]](ctx context.Context, s *Service, c collection[E], items []E) error {
	if err := validateAll(c.kind, items); err != nil {
		s.metrics.RecordMutation(c.kind, "replace", err)
		return err
	}
	return s.mutate(ctx, c.kind, "replace", func(r *model.Rhrh) error {
		return c.setAll(r, items)
	})
}

func deleteByKey[E entity[E]](ctx context.Context, s *Service, c collection[E], key string) error {
	return s.mutate(ctx, c.kind, "delete", func(r *model.Rhrh) error {
		target, ok := c.find(r, key)
		if !ok {
			return fmt.Errorf("%s %q: %w", c.name, key, domain.ErrEntityNotFound)
		}
		return c.remove(r, target)
	})
}

// Персоны.

func (s *Service) ListPersons() []domain.Person { return listOf(s, persons) }

func (s *Service) HasPerson(p domain.Person) bool { return has(s, persons, p) }

func (s *Service) LookupPerson(key string) (domain.Person, error) { return lookup(s, persons, key) }

func (s *Service) AddPerson(ctx context.Context, p domain.Person) error {
	return add(ctx, s, persons, p)
}

func (s *Service) EditPerson(ctx context.Context, key string, p domain.Person) error {
	return edit(ctx, s, persons, key, p)
}

func (s *Service) SetPersons(ctx context.Context, list []domain.Person) error {
	return replaceAll(ctx, s, persons, list)
}

func (s *Service) DeletePerson(ctx context.Context, key string) error {
	return deleteByKey(ctx, s, persons, key)
}

// Клиенты.

func (s *Service) ListCustomers() []domain.Customer { return listOf(s, customers) }

func (s *Service) HasCustomer(c domain.Customer) bool { return has(s, customers, c) }

func (s *Service) LookupCustomer(key string) (domain.Customer, error) {
	return lookup(s, customers, key)
}

func (s *Service) AddCustomer(ctx context.Context, c domain.Customer) error {
	return add(ctx, s, customers, c)
}

func (s *Service) EditCustomer(ctx context.Context, key string, c domain.Customer) error {
	return edit(ctx, s, customers, key, c)
}

func (s *Service) SetCustomers(ctx context.Context, list []domain.Customer) error {
	return replaceAll(ctx, s, customers, list)
}

func (s *Service) DeleteCustomer(ctx context.Context, key string) error {
	return deleteByKey(ctx, s, customers, key)
}

// Сотрудники.

func (s *Service) ListEmployees() []domain.Employee { return listOf(s, employees) }

func (s *Service) HasEmployee(e domain.Employee) bool { return has(s, employees, e) }

func (s *Service) LookupEmployee(key string) (domain.Employee, error) {
	return lookup(s, employees, key)
}

func (s *Service) AddEmployee(ctx context.Context, e domain.Employee) error {
	return add(ctx, s, employees, e)
}

func (s *Service) EditEmployee(ctx context.Context, key string, e domain.Employee) error {
	return edit(ctx, s, employees, key, e)
}

func (s *Service) SetEmployees(ctx context.Context, list []domain.Employee) error {
	return replaceAll(ctx, s, employees, list)
}

func (s *Service) DeleteEmployee(ctx context.Context, key string) error {
	return deleteByKey(ctx, s, employees, key)
}

// Поставщики.

func (s *Service) ListSuppliers() []domain.Supplier { return listOf(s, suppliers) }

func (s *Service) HasSupplier(sup domain.Supplier) bool { return has(s, suppliers, sup) }

func (s *Service) LookupSupplier(key string) (domain.Supplier, error) {
	return lookup(s, suppliers, key)
}

func (s *Service) AddSupplier(ctx context.Context, sup domain.Supplier) error {
	return add(ctx, s, suppliers, sup)
}

func (s *Service) EditSupplier(ctx context.Context, key string, sup domain.Supplier) error {
	return edit(ctx, s, suppliers, key, sup)
}

func (s *Service) SetSuppliers(ctx context.Context, list []domain.Supplier) error {
	return replaceAll(ctx, s, suppliers, list)
}

func (s *Service) DeleteSupplier(ctx context.Context, key string) error {
	return deleteByKey(ctx, s, suppliers, key)
}

// Бронирования.

func (s *Service) ListReservations() []domain.Reservation { return listOf(s, reservations) }

func (s *Service) HasReservation(r domain.Reservation) bool { return has(s, reservations, r) }

func (s *Service) LookupReservation(key string) (domain.Reservation, error) {
	return lookup(s, reservations, key)
}

func (s *Service) AddReservation(ctx context.Context, r domain.Reservation) error {
	return add(ctx, s, reservations, r)
}

func (s *Service) EditReservation(ctx context.Context, key string, r domain.Reservation) error {
	return edit(ctx, s, reservations, key, r)
}

func (s *Service) SetReservations(ctx context.Context, list []domain.Reservation) error {
	return replaceAll(ctx, s, reservations, list)
}

func (s *Service) DeleteReservation(ctx context.Context, key string) error {
	return deleteByKey(ctx, s, reservations, key)
}
