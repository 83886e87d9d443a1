package validation

import "testing"

func TestValidNRIC(t *testing.T) {
	valid := []string{"S1234567A", "s1234567a", "T7654321Z", "F0000000X", "G1234567B", " S1234567A "}
	for _, v := range valid {
		if !ValidNRIC(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	invalid := []string{"S123456A", "X1234567A", "S12345678A", "S1234567", "", "1234567AA"}
	for _, v := range invalid {
		if ValidNRIC(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestValidUEN(t *testing.T) {
	valid := []string{"53312345A", "201912345k", "12345678Z"}
	for _, v := range valid {
		if !ValidUEN(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	invalid := []string{"1234567A", "12345678901A", "T08LL1234A", "123456789"}
	for _, v := range invalid {
		if ValidUEN(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"91234567", "9123-4567", "8123 4567", "61234567"}
	for _, v := range valid {
		if !ValidPhone(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	invalid := []string{"51234567", "9123456", "912345678", "", "+65 9123 4567"}
	for _, v := range invalid {
		if ValidPhone(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("9123-4567"); got != "91234567" {
		t.Fatalf("expected 91234567, got %q", got)
	}
	if got := NormalizePhone("(+65) 9123 4567"); got != "6591234567" {
		t.Fatalf("expected 6591234567, got %q", got)
	}
}

func TestValidPostalCode(t *testing.T) {
	if !ValidPostalCode("018956") {
		t.Fatal("expected 018956 to be valid")
	}
	for _, v := range []string{"18956", "0189567", "01895A", ""} {
		if ValidPostalCode(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"91234567":        "+65 9123 4567",
		"9123-4567":       "+65 9123 4567",
		"+65 91234567":    "+65 9123 4567",
		"12345":           "12345",
		"not a number at": "not a number at",
	}
	for in, want := range cases {
		if got := FormatPhone(in); got != want {
			t.Errorf("FormatPhone(%q) = %q, want %q", in, got, want)
		}
	}
}
