package domain

import (
	"testing"
	"time"
)

func dinner() time.Time {
	return time.Date(2026, time.March, 14, 19, 30, 0, 0, time.UTC)
}

func TestReservation_Validate(t *testing.T) {
	tests := []struct {
		name        string
		reservation Reservation
		wantErr     bool
		errCount    int
	}{
		{
			name: "valid reservation",
			reservation: Reservation{
				Phone:          "98765432",
				NumberOfPeople: 4,
				DateTime:       dinner(),
				Tags:           []Tag{"birthday"},
			},
			wantErr:  false,
			errCount: 0,
		},
		{
			name: "invalid phone",
			reservation: Reservation{
				Phone:          "98-76",
				NumberOfPeople: 4,
				DateTime:       dinner(),
			},
			wantErr:  true,
			errCount: 1,
		},
		{
			name: "zero people",
			reservation: Reservation{
				Phone:    "98765432",
				DateTime: dinner(),
			},
			wantErr:  true,
			errCount: 1,
		},
		{
			name: "missing time",
			reservation: Reservation{
				Phone:          "98765432",
				NumberOfPeople: 2,
			},
			wantErr:  true,
			errCount: 1,
		},
		{
			name:        "all fields invalid",
			reservation: Reservation{Phone: "1", Tags: []Tag{"two words"}},
			wantErr:     true,
			errCount:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.reservation.Validate()
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("Validate() errors = %v, wantErr %v", errs, tt.wantErr)
			}
			if len(errs) != tt.errCount {
				t.Errorf("Validate() error count = %d, want %d", len(errs), tt.errCount)
			}
		})
	}
}

func TestReservation_IdentityIgnoresOtherFields(t *testing.T) {
	base := Reservation{Phone: "98765432", NumberOfPeople: 2, DateTime: dinner(), Remark: "window"}
	edited := Reservation{Phone: "98765432", NumberOfPeople: 6, DateTime: dinner().In(time.FixedZone("SGT", 8*3600)), Remark: "patio"}

	if !base.SameIdentity(edited) {
		t.Fatal("expected same identity for same phone and instant")
	}
	if base.Equal(edited) {
		t.Fatal("expected reservations with different remark to be unequal")
	}
	if base.Key() != edited.Key() {
		t.Fatalf("expected equal keys, got %s and %s", base.Key(), edited.Key())
	}

	later := base
	later.DateTime = dinner().Add(time.Hour)
	if base.SameIdentity(later) {
		t.Fatal("expected different identity for different time")
	}
}

func TestReservation_FingerprintFollowsEqual(t *testing.T) {
	a := Reservation{Phone: "98765432", NumberOfPeople: 2, DateTime: dinner(), Tags: []Tag{"vip", "quiet"}}
	b := Reservation{Phone: "98765432", NumberOfPeople: 2, DateTime: dinner(), Tags: []Tag{"quiet", "vip", "vip"}}

	if !a.Equal(b) {
		t.Fatal("expected tag order and repeats to be ignored")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("expected equal reservations to share a fingerprint")
	}

	b.NumberOfPeople = 3
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("expected fingerprint to change with number of people")
	}
}

func TestReservation_KeyDistinguishesSeconds(t *testing.T) {
	onTime := Reservation{Phone: "98765432", NumberOfPeople: 2, DateTime: dinner()}
	late := Reservation{Phone: "98765432", NumberOfPeople: 4, DateTime: dinner().Add(30 * time.Second)}

	if onTime.SameIdentity(late) {
		t.Fatal("expected different identity for times 30s apart")
	}
	if onTime.Key() == late.Key() {
		t.Fatalf("expected distinct keys, both are %s", onTime.Key())
	}
	if want := "98765432@2026-03-14T19:30:30Z"; late.Key() != want {
		t.Fatalf("unexpected key %s, want %s", late.Key(), want)
	}

	nano := onTime
	nano.DateTime = dinner().Add(time.Nanosecond)
	if nano.Key() == onTime.Key() {
		t.Fatal("expected nanosecond difference to be visible in key")
	}
}

func TestClone_DoesNotShareSlices(t *testing.T) {
	res := Reservation{Phone: "98765432", NumberOfPeople: 2, DateTime: dinner(), Tags: []Tag{"vip"}}
	resCopy := res.Clone()
	resCopy.Tags[0] = "changed"
	if res.Tags[0] != "vip" {
		t.Fatalf("reservation tags changed through clone: %v", res.Tags)
	}

	c := Customer{
		Person:          Person{Name: "Alex Yeoh", Phone: "87438807", Tags: []Tag{"regular"}},
		Allergies:       []Allergy{"nuts"},
		SpecialRequests: []SpecialRequest{"window"},
	}
	cc := c.Clone()
	cc.Tags[0], cc.Allergies[0], cc.SpecialRequests[0] = "x", "x", "x"
	if !c.Equal(Customer{
		Person:          Person{Name: "Alex Yeoh", Phone: "87438807", Tags: []Tag{"regular"}},
		Allergies:       []Allergy{"nuts"},
		SpecialRequests: []SpecialRequest{"window"},
	}) {
		t.Fatalf("customer changed through clone: %+v", c)
	}

	e := Employee{Person: Person{Name: "Bernice Yu"}, Shifts: []Shift{{Day: time.Monday, Slot: ShiftMorning}}}
	ec := e.Clone()
	ec.Shifts[0].Slot = ShiftEvening
	if e.Shifts[0].Slot != ShiftMorning {
		t.Fatal("employee shifts changed through clone")
	}

	s := Supplier{Person: Person{Name: "Rice Co", Tags: []Tag{"grain"}}}
	sc := s.Clone()
	sc.Tags[0] = "x"
	if s.Tags[0] != "grain" {
		t.Fatal("supplier tags changed through clone")
	}

	if (Person{}).Clone().Tags != nil {
		t.Fatal("nil tags must stay nil")
	}
}

func TestSnapshotOf_IsDeepCopy(t *testing.T) {
	source := Snapshot{Persons: []Person{{Name: "Alex Yeoh", Phone: "87438807", Tags: []Tag{"friend"}}}}

	copied := SnapshotOf(source)
	copied.Persons[0].Tags[0] = "changed"
	source.PersonList().At(0).Tags[0] = "changed"

	if source.Persons[0].Tags[0] != "friend" {
		t.Fatalf("source changed through snapshot copy: %v", source.Persons[0].Tags)
	}
}
