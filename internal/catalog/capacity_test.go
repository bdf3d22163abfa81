package catalog

import "testing"

func TestParseCapacity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Capacity
		wantErr bool
	}{
		{
			name:  "spaced gigabytes",
			input: "300 GB",
			want:  Capacity{Amount: 300, Unit: UnitGB},
		},
		{
			name:  "attached unit",
			input: "2TB",
			want:  Capacity{Amount: 2, Unit: UnitTB},
		},
		{
			name:  "lowercase unit",
			input: "1.5 tb",
			want:  Capacity{Amount: 1.5, Unit: UnitTB},
		},
		{
			name:  "leading and trailing whitespace",
			input: "  100 gb  ",
			want:  Capacity{Amount: 100, Unit: UnitGB},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "missing unit",
			input:   "300",
			wantErr: true,
		},
		{
			name:    "missing amount",
			input:   "GB",
			wantErr: true,
		},
		{
			name:    "unknown unit",
			input:   "300 PB",
			wantErr: true,
		},
		{
			name:    "negative amount",
			input:   "-5 GB",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCapacity(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCapacity(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCapacity(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCapacity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCapacityCanonicalGB(t *testing.T) {
	tests := []struct {
		name string
		cap  Capacity
		want float64
	}{
		{"gigabytes pass through", Capacity{Amount: 300, Unit: UnitGB}, 300},
		{"terabytes scale by 1024", Capacity{Amount: 1, Unit: UnitTB}, 1024},
		{"fractional terabytes", Capacity{Amount: 1.5, Unit: UnitTB}, 1536},
		{"zero", Capacity{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cap.CanonicalGB(); got != tt.want {
				t.Errorf("CanonicalGB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapacityStringRoundTrip(t *testing.T) {
	caps := []Capacity{
		{Amount: 100, Unit: UnitGB},
		{Amount: 1.5, Unit: UnitTB},
		{Amount: 5, Unit: UnitTB},
		{Amount: 0.25, Unit: UnitGB},
	}

	for _, c := range caps {
		parsed, err := ParseCapacity(c.String())
		if err != nil {
			t.Fatalf("ParseCapacity(%q) error = %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("round trip of %v produced %v", c, parsed)
		}
	}
}
