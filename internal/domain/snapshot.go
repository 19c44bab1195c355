package domain

import "reflect"

// ReadOnlyRhrh — единственная поверхность, через которую персистентность и
// представление наблюдают агрегат. Путей для мутации здесь нет.
type ReadOnlyRhrh interface {
	PersonList() View[Person]
	CustomerList() View[Customer]
	EmployeeList() View[Employee]
	SupplierList() View[Supplier]
	ReservationList() View[Reservation]
}

// Snapshot — снимок пяти коллекций в виде обычных срезов.
// Его строят слои хранения после десериализации и передают в ResetData.
type Snapshot struct {
	Persons      []Person
	Customers    []Customer
	Employees    []Employee
	Suppliers    []Supplier
	Reservations []Reservation
}

func (s Snapshot) PersonList() View[Person] { return SliceView[Person](s.Persons) }
func (s Snapshot) CustomerList() View[Customer] { return SliceView[Customer](s.Customers) }
func (s Snapshot) EmployeeList() View[Employee] { return SliceView[Employee](s.Employees) }
func (s Snapshot) SupplierList() View[Supplier] { return SliceView[Supplier](s.Suppliers) }
func (s Snapshot) ReservationList() View[Reservation] { return SliceView[Reservation](s.Reservations) }

// SnapshotOf копирует текущее содержимое source; дальнейшие изменения source
// на снимок не влияют.
func SnapshotOf(source ReadOnlyRhrh) Snapshot {
	if IsNilSource(source) {
		return Snapshot{}
	}
	return Snapshot{
		Persons:      source.PersonList().Slice(),
		Customers:    source.CustomerList().Slice(),
		Employees:    source.EmployeeList().Slice(),
		Suppliers:    source.SupplierList().Slice(),
		Reservations: source.ReservationList().Slice(),
	}
}

// IsNilSource распознаёт и nil-интерфейс, и типизированный nil-указатель
// (например, (*model.Rhrh)(nil)), на котором аксессоры упали бы.
func IsNilSource(source ReadOnlyRhrh) bool {
	if source == nil {
		return true
	}
	v := reflect.ValueOf(source)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

var _ ReadOnlyRhrh = Snapshot{}
