package helper

import "testing"

func TestValidateEmail(t *testing.T) {
	for _, s := range []string{"a@b.dk", "ole.hansen@example.com", " x@y.io "} {
		if !ValidateEmail(s) {
			t.Fatalf("should accept %q", s)
		}
	}
	for _, s := range []string{"", "abc", "a@b", "a b@c.dk", "@b.dk"} {
		if ValidateEmail(s) {
			t.Fatalf("should reject %q", s)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hemmeligt")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !CheckPassword("hemmeligt", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("forkert", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestCtypeHelpers(t *testing.T) {
	if !CtypeDigit("0123") || CtypeDigit("") || CtypeDigit("12a") {
		t.Fatal("CtypeDigit broken")
	}
	if !CtypeAlnum("abc123") || CtypeAlnum("") || CtypeAlnum("a-b") {
		t.Fatal("CtypeAlnum broken")
	}
}

func TestValidateMobile(t *testing.T) {
	for _, s := range []string{"20123456", "+4520123456", "91234567"} {
		if !ValidateMobile(s) {
			t.Fatalf("should accept %q", s)
		}
	}
	for _, s := range []string{"", "1234567", "123456789", "10123456", "+4420123456"} {
		if ValidateMobile(s) {
			t.Fatalf("should reject %q", s)
		}
	}
}

func TestMaskPhone(t *testing.T) {
	if got := MaskPhone("20123456"); got != "20****56" {
		t.Fatalf("mask: %q", got)
	}
	if got := MaskPhone("+4520123456"); got != "20****56" {
		t.Fatalf("mask with prefix: %q", got)
	}
	if got := MaskPhone("123"); got != "Xxxx" {
		t.Fatalf("invalid length: %q", got)
	}
}

func TestMaskName(t *testing.T) {
	if MaskName("") != "" || MaskName("O") != "*" || MaskName("Ole") != "O**" {
		t.Fatal("MaskName broken")
	}
}
