package override

import "testing"

type setting struct {
	Role    string
	Enabled bool
}

func TestResolve(t *testing.T) {
	base := setting{Role: "DOCTOR", Enabled: true}

	tests := []struct {
		name     string
		override *setting
		want     setting
	}{
		{"nil override keeps base", nil, base},
		{"override wins", &setting{Role: "RECEPTION", Enabled: false}, setting{Role: "RECEPTION", Enabled: false}},
		{"zero override still wins", &setting{}, setting{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(base, tt.override)
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	items := []int{1, 4, 9, 16}

	got := Find(items, func(v int) bool { return v > 5 })
	if got == nil || *got != 9 {
		t.Fatalf("Find() = %v, want 9", got)
	}

	// the pointer aliases the slice element
	*got = 10
	if items[2] != 10 {
		t.Errorf("items[2] = %d, want 10", items[2])
	}

	if Find(items, func(v int) bool { return v > 100 }) != nil {
		t.Error("Find() on no match should return nil")
	}
}

func TestMap(t *testing.T) {
	if Map[int, string](nil, func(int) string { return "x" }) != nil {
		t.Error("Map(nil) should be nil")
	}

	v := 3
	got := Map(&v, func(i int) int { return i * 2 })
	if got == nil || *got != 6 {
		t.Errorf("Map() = %v, want 6", got)
	}
}
