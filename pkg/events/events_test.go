package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

func TestSubject(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

	if got := Subject("klinik.appointment.changed", id); got != "klinik.appointment.changed.550e8400-e29b-41d4-a716-446655440000" {
		t.Errorf("Subject() = %q", got)
	}
	if got := Wildcard("klinik.appointment.changed"); got != "klinik.appointment.changed.*" {
		t.Errorf("Wildcard() = %q", got)
	}
}

func TestDecode(t *testing.T) {
	clinicID := uuid.New()
	body, _ := json.Marshal(Event{ClinicID: clinicID, EntityID: uuid.New(), Kind: KindUpdated, Dates: []string{"2026-10-19"}})

	tests := []struct {
		name    string
		msg     *nats.Msg
		wantErr bool
	}{
		{"valid", &nats.Msg{Subject: Subject("klinik.appointment.changed", clinicID), Data: body}, false},
		{"clinic mismatch", &nats.Msg{Subject: Subject("klinik.appointment.changed", uuid.New()), Data: body}, true},
		{"bad token", &nats.Msg{Subject: "klinik.appointment.changed.nope", Data: body}, true},
		{"no token", &nats.Msg{Subject: "changed", Data: body}, true},
		{"bad json", &nats.Msg{Subject: Subject("klinik.appointment.changed", clinicID), Data: []byte("{")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(tt.msg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.ClinicID != clinicID || len(ev.Dates) != 1 {
				t.Errorf("Decode() = %+v", ev)
			}
		})
	}
}
