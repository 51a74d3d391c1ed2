package config

import (
	"errors"
	"testing"
)

func TestParseChecks(t *testing.T) {
	tests := []struct {
		input   string
		want    Check
		wantErr bool
	}{
		{input: "characters|length", want: CheckCharacters | CheckLength},
		{input: "EMPTY", want: CheckEmpty},
		{input: "empty, length", want: CheckEmpty | CheckLength},
		{input: "all", want: AllChecks},
		{input: "none", want: NoCheck},
		{input: "", want: NoCheck},
		{input: "characters|bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChecks(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("ParseChecks(%q) error = %v, want ErrInvalidValue", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChecks(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseChecks(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestCheck_StringRoundTrip(t *testing.T) {
	for c := NoCheck; c <= AllChecks; c++ {
		got, err := ParseChecks(c.String())
		if err != nil {
			t.Fatalf("ParseChecks(%q) error = %v", c.String(), err)
		}
		if got != c {
			t.Errorf("ParseChecks(%q) = %s, want %s", c.String(), got, c)
		}
	}
}

func TestCheck_Has(t *testing.T) {
	c := CheckCharacters | CheckLength
	if !c.Has(CheckLength) {
		t.Error("expected length to be enabled")
	}
	if c.Has(CheckEmpty) {
		t.Error("empty should not be enabled")
	}
	if c.Has(NoCheck) {
		t.Error("Has(NoCheck) should be false")
	}
}

func TestResolveChecks(t *testing.T) {
	on, off := true, false

	tests := []struct {
		name  string
		flags CheckFlags
		want  Check
	}{
		{name: "no flag keeps base", flags: CheckFlags{}, want: DefaultChecks},
		{name: "check all", flags: CheckFlags{All: true}, want: AllChecks},
		{name: "positive selects only", flags: CheckFlags{Empty: &on}, want: CheckEmpty},
		{name: "two positives", flags: CheckFlags{Empty: &on, Length: &on}, want: CheckEmpty | CheckLength},
		{name: "negative removes from all", flags: CheckFlags{Characters: &off}, want: CheckEmpty | CheckLength},
		{name: "positive wins over negative", flags: CheckFlags{Empty: &on, Length: &off}, want: CheckEmpty},
		{name: "all negative", flags: CheckFlags{Empty: &off, Characters: &off, Length: &off}, want: NoCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveChecks(DefaultChecks, tt.flags); got != tt.want {
				t.Errorf("ResolveChecks() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseDryRun(t *testing.T) {
	tests := []struct {
		input   string
		want    DryRun
		wantErr bool
	}{
		{input: "off", want: DryRun{}},
		{input: "", want: DryRun{}},
		{input: "on", want: DryRun{Enabled: true}},
		{input: "true", want: DryRun{Enabled: true}},
		{input: "5", want: DryRun{Enabled: true, Limit: 5}},
		{input: "limit:12", want: DryRun{Enabled: true, Limit: 12}},
		{input: "0", wantErr: true},
		{input: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDryRun(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDryRun(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDryRun(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCollision(t *testing.T) {
	if c, err := ParseCollision("Skip"); err != nil || c != CollisionSkip {
		t.Errorf("ParseCollision(Skip) = %q, %v", c, err)
	}
	if _, err := ParseCollision("overwrite"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ParseCollision(overwrite) error = %v, want ErrInvalidValue", err)
	}
}
