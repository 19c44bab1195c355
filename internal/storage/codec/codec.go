// Package codec описывает сериализуемое представление снимка rhrh.
// Одни и те же DTO используют файловое хранилище и JSONB-колонки postgres.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

// SnapshotDTO — JSON-документ со всеми пятью коллекциями.
type SnapshotDTO struct {
	Persons      []PersonDTO      `json:"persons"`
	Customers    []CustomerDTO    `json:"customers"`
	Employees    []EmployeeDTO    `json:"employees"`
	Suppliers    []SupplierDTO    `json:"suppliers"`
	Reservations []ReservationDTO `json:"reservations"`
}

type PersonDTO struct {
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Email   string   `json:"email,omitempty"`
	Address string   `json:"address,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type CustomerDTO struct {
	PersonDTO
	RewardPoints    int      `json:"rewardPoints"`
	Allergies       []string `json:"allergies,omitempty"`
	SpecialRequests []string `json:"specialRequests,omitempty"`
}

type EmployeeDTO struct {
	PersonDTO
	JobTitle string `json:"jobTitle"`
	Salary   int64  `json:"salary"`
	Leaves   int    `json:"leaves"`
	// Shifts в виде "Monday-0".
	Shifts []string `json:"shifts,omitempty"`
}

type SupplierDTO struct {
	PersonDTO
	SupplyType      string `json:"supplyType"`
	DeliveryDetails string `json:"deliveryDetails,omitempty"`
}

type ReservationDTO struct {
	Phone          string    `json:"phone"`
	NumberOfPeople int       `json:"numberOfPeople"`
	DateTime       time.Time `json:"dateTime"`
	Remark         string    `json:"remark,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
}

// FromSnapshot строит DTO по текущему содержимому source.
func FromSnapshot(source domain.ReadOnlyRhrh) SnapshotDTO {
	dto := SnapshotDTO{
		Persons:      make([]PersonDTO, 0, source.PersonList().Len()),
		Customers:    make([]CustomerDTO, 0, source.CustomerList().Len()),
		Employees:    make([]EmployeeDTO, 0, source.EmployeeList().Len()),
		Suppliers:    make([]SupplierDTO, 0, source.SupplierList().Len()),
		Reservations: make([]ReservationDTO, 0, source.ReservationList().Len()),
	}
	for _, p := range source.PersonList().All() {
		dto.Persons = append(dto.Persons, PersonFrom(p))
	}
	for _, c := range source.CustomerList().All() {
		dto.Customers = append(dto.Customers, CustomerFrom(c))
	}
	for _, e := range source.EmployeeList().All() {
		dto.Employees = append(dto.Employees, EmployeeFrom(e))
	}
	for _, s := range source.SupplierList().All() {
		dto.Suppliers = append(dto.Suppliers, SupplierFrom(s))
	}
	for _, r := range source.ReservationList().All() {
		dto.Reservations = append(dto.Reservations, ReservationFrom(r))
	}
	return dto
}

// ToSnapshot переводит DTO обратно в доменный снимок.
// Уникальность здесь не проверяется: это делает агрегат при ResetData.
func (d SnapshotDTO) ToSnapshot() (domain.Snapshot, error) {
	var snap domain.Snapshot
	for _, p := range d.Persons {
		snap.Persons = append(snap.Persons, p.ToDomain())
	}
	for _, c := range d.Customers {
		snap.Customers = append(snap.Customers, c.ToDomain())
	}
	for i, e := range d.Employees {
		employee, err := e.ToDomain()
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("employees[%d]: %w", i, err)
		}
		snap.Employees = append(snap.Employees, employee)
	}
	for _, s := range d.Suppliers {
		snap.Suppliers = append(snap.Suppliers, s.ToDomain())
	}
	for _, r := range d.Reservations {
		snap.Reservations = append(snap.Reservations, r.ToDomain())
	}
	return snap, nil
}

// Marshal сериализует снимок в JSON с отступами.
func Marshal(source domain.ReadOnlyRhrh) ([]byte, error) {
	return json.MarshalIndent(FromSnapshot(source), "", "  ")
}

// Unmarshal разбирает JSON, записанный Marshal.
func Unmarshal(data []byte) (domain.Snapshot, error) {
	var dto SnapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return dto.ToSnapshot()
}

func PersonFrom(p domain.Person) PersonDTO {
	return PersonDTO{
		Name:    p.Name,
		Phone:   p.Phone,
		Email:   p.Email,
		Address: p.Address,
		Tags:    toStrings(p.Tags),
	}
}

func (d PersonDTO) ToDomain() domain.Person {
	return domain.Person{
		Name:    d.Name,
		Phone:   d.Phone,
		Email:   d.Email,
		Address: d.Address,
		Tags:    fromStrings[domain.Tag](d.Tags),
	}
}

func CustomerFrom(c domain.Customer) CustomerDTO {
	return CustomerDTO{
		PersonDTO:       PersonFrom(c.Person),
		RewardPoints:    c.RewardPoints,
		Allergies:       toStrings(c.Allergies),
		SpecialRequests: toStrings(c.SpecialRequests),
	}
}

func (d CustomerDTO) ToDomain() domain.Customer {
	return domain.Customer{
		Person:          d.PersonDTO.ToDomain(),
		RewardPoints:    d.RewardPoints,
		Allergies:       fromStrings[domain.Allergy](d.Allergies),
		SpecialRequests: fromStrings[domain.SpecialRequest](d.SpecialRequests),
	}
}

func EmployeeFrom(e domain.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		PersonDTO: PersonFrom(e.Person),
		JobTitle:  e.JobTitle,
		Salary:    e.SalaryMinor,
		Leaves:    e.Leaves,
	}
	for _, s := range e.Shifts {
		dto.Shifts = append(dto.Shifts, s.String())
	}
	return dto
}

// ToDomain возвращает ошибку, если какая-то смена записана в неизвестном формате.
func (d EmployeeDTO) ToDomain() (domain.Employee, error) {
	e := domain.Employee{
		Person:      d.PersonDTO.ToDomain(),
		JobTitle:    d.JobTitle,
		SalaryMinor: d.Salary,
		Leaves:      d.Leaves,
	}
	for _, raw := range d.Shifts {
		shift, err := domain.ParseShift(raw)
		if err != nil {
			return domain.Employee{}, err
		}
		e.Shifts = append(e.Shifts, shift)
	}
	return e, nil
}

func SupplierFrom(s domain.Supplier) SupplierDTO {
	return SupplierDTO{
		PersonDTO:       PersonFrom(s.Person),
		SupplyType:      s.SupplyType,
		DeliveryDetails: s.DeliveryDetails,
	}
}

func (d SupplierDTO) ToDomain() domain.Supplier {
	return domain.Supplier{
		Person:          d.PersonDTO.ToDomain(),
		SupplyType:      d.SupplyType,
		DeliveryDetails: d.DeliveryDetails,
	}
}

func ReservationFrom(r domain.Reservation) ReservationDTO {
	return ReservationDTO{
		Phone:          r.Phone,
		NumberOfPeople: r.NumberOfPeople,
		DateTime:       r.DateTime.UTC(),
		Remark:         r.Remark,
		Tags:           toStrings(r.Tags),
	}
}

func (d ReservationDTO) ToDomain() domain.Reservation {
	return domain.Reservation{
		Phone:          d.Phone,
		NumberOfPeople: d.NumberOfPeople,
		DateTime:       d.DateTime,
		Remark:         d.Remark,
		Tags:           fromStrings[domain.Tag](d.Tags),
	}
}

func toStrings[T ~string](items []T) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item)
	}
	return out
}

func fromStrings[T ~string](items []string) []T {
	if len(items) == 0 {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = T(item)
	}
	return out
}
