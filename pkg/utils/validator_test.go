package util

import "testing"

type sample struct {
	ID       string `validate:"required,objectid"`
	Month    string `validate:"required,yearmonth"`
	Password string `validate:"required,hasuppercase"`
}

func TestValidateStruct(t *testing.T) {
	ok := sample{ID: "507f1f77bcf86cd799439011", Month: "2024-06", Password: "Secret"}
	if errs := ValidateStruct(ok); errs != nil {
		t.Fatalf("expected no errors, got %+v", errs[0])
	}

	bad := sample{ID: "nope", Month: "2024-13", Password: "secret"}
	errs := ValidateStruct(bad)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	tags := map[string]bool{}
	for _, e := range errs {
		tags[e.Tag] = true
	}
	for _, tag := range []string{"objectid", "yearmonth", "hasuppercase"} {
		if !tags[tag] {
			t.Fatalf("missing %s error in %+v", tag, tags)
		}
	}
}

func TestMaskAccount(t *testing.T) {
	if got := MaskAccount("1234567890"); got != "******7890" {
		t.Fatalf("got %s", got)
	}
	if got := MaskAccount("12"); got != "12" {
		t.Fatalf("short numbers stay visible, got %s", got)
	}
}

func TestTempPasswordPassesRules(t *testing.T) {
	pw, err := TempPassword()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !upperCase.MatchString(pw) || len(pw) < 8 {
		t.Fatalf("weak temp password %q", pw)
	}
}
