package domain

import "errors"

var (
	// ErrDuplicateEntity — операция привела бы к двум записям с одинаковой идентичностью в одной коллекции.
	ErrDuplicateEntity = errors.New("duplicate entity")
	// ErrEntityNotFound — в коллекции нет записи с такой идентичностью.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrNilArgument — вместо обязательного значения передан nil.
	ErrNilArgument = errors.New("required argument is nil")
	// ErrSnapshotNotFound возвращается хранилищем, если сохранённого снимка ещё нет.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// Ошибка пустого имени.
	ErrNameRequired = errors.New("name is required")
	// Ошибка имени с недопустимыми символами.
	ErrNameInvalid = errors.New("name must contain only letters, digits and spaces")
	// Ошибка телефона: только цифры, не короче трёх.
	ErrPhoneInvalid = errors.New("phone must contain at least 3 digits and nothing else")
	// Ошибка формата email.
	ErrEmailInvalid = errors.New("email must look like local@domain")
	// Ошибка формата тега.
	ErrTagInvalid = errors.New("tag must be alphanumeric")
	// Ошибка отрицательного баланса бонусов клиента.
	ErrRewardPointsNegative = errors.New("reward points must be non-negative")
	// Ошибка пустой должности сотрудника.
	ErrJobTitleRequired = errors.New("job title is required")
	// Ошибка отрицательного оклада.
	ErrSalaryNegative = errors.New("salary must be non-negative")
	// Ошибка отрицательного остатка отпускных дней.
	ErrLeavesNegative = errors.New("leaves must be non-negative")
	// Ошибка формата смены.
	ErrShiftInvalid = errors.New("shift must look like Monday-0 or Monday-1")
	// Ошибка пустого типа поставки.
	ErrSupplyTypeRequired = errors.New("supply type is required")
	// Ошибка количества гостей в брони.
	ErrReservationPeopleInvalid = errors.New("reservation number of people must be greater than zero")
	// Ошибка отсутствующего времени брони.
	ErrReservationTimeRequired = errors.New("reservation date and time are required")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsDuplicate проверяет, является ли ошибка нарушением уникальности.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEntity)
}

// IsNotFound проверяет, указывает ли ошибка на отсутствующую запись.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}
