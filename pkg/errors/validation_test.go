package errors

import (
	"math"
	"testing"
)

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"valid", 10, false},
		{"valid small", 0.5, false},
		{"max", MaxDimension, false},

		{"zero", 0, true},
		{"negative", -3, true},
		{"too large", MaxDimension + 1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension("width", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%g) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFloor) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFloor)
			}
		})
	}
}

func TestValidateMainDoor(t *testing.T) {
	tests := []struct {
		name    string
		edge    string
		offset  float64
		width   float64
		wantErr bool
	}{
		{"valid", "W", 1, 0.9, false},
		{"flush to end", "N", 9.1, 0.9, false},

		{"bad edge", "X", 1, 0.9, true},
		{"lowercase edge", "w", 1, 0.9, true},
		{"negative offset", "S", -1, 0.9, true},
		{"zero width", "S", 1, 0, true},
		{"past edge", "S", 9.5, 0.9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMainDoor(tt.edge, tt.offset, tt.width, 10)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMainDoor() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWallThickness(t *testing.T) {
	tests := []struct {
		name    string
		t       float64
		wantErr bool
	}{
		{"default", 0.2, false},
		{"zero", 0, false},
		{"negative", -0.1, true},
		{"eats interior", 2.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWallThickness(tt.t, 10, 5)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWallThickness(%g) error = %v, wantErr %v", tt.t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRoomID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "r1", false},
		{"uuid", "3f1c2a9e-8d2b-4c55-9a10-2f7f0b6f1a11", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"newline", "r\n1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoomID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoomID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRoomType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"living", "living", false},
		{"wc", "wc", false},
		{"extended", "home_office", false},

		{"empty", "", true},
		{"uppercase", "Bed", true},
		{"space", "bed room", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoomType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoomType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDoorSpec(t *testing.T) {
	tests := []struct {
		name    string
		side    string
		width   float64
		ratio   float64
		wantErr bool
	}{
		{"valid", "N", 0.9, 0.5, false},
		{"ratio bounds", "E", 0.8, 1, false},

		{"bad side", "NE", 0.9, 0.5, true},
		{"zero width", "N", 0, 0.5, true},
		{"ratio above one", "N", 0.9, 1.5, true},
		{"ratio negative", "N", 0.9, -0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDoorSpec(tt.side, tt.width, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDoorSpec() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/presets.json", false},
		{"http", "http://localhost:8080/presets.json", false},

		{"empty", "", true},
		{"file", "file:///etc/passwd", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
