package helper

import (
	"strings"
	"testing"
)

func TestIsJSONContentType(t *testing.T) {
	for _, ct := range []string{"application/json", "application/json; charset=utf-8", "APPLICATION/JSON"} {
		if !IsJSONContentType(ct) {
			t.Fatalf("should be json: %q", ct)
		}
	}
	for _, ct := range []string{"", "text/plain", "application/x-www-form-urlencoded"} {
		if IsJSONContentType(ct) {
			t.Fatalf("should not be json: %q", ct)
		}
	}
}

func TestIsMoneyFormat(t *testing.T) {
	valid := []string{"0", "1", "100", "100.5", "100.50", "0.01", " 20 "}
	for _, s := range valid {
		if !IsMoneyFormat(s) {
			t.Fatalf("should accept %q", s)
		}
	}
	invalid := []string{"", "-1", "1.234", "01", "1.", ".5", "abc", "1,00"}
	for _, s := range invalid {
		if IsMoneyFormat(s) {
			t.Fatalf("should reject %q", s)
		}
	}
}

func TestParseNumbersCSV(t *testing.T) {
	nums, ok := parseNumbersCSV("1, 4,9 ,12,16")
	if !ok || len(nums) != 5 || nums[0] != 1 || nums[4] != 16 {
		t.Fatalf("parse failed: %v ok=%v", nums, ok)
	}
	for _, s := range []string{"", "1,a,3", "1,,3"} {
		if _, ok := parseNumbersCSV(s); ok {
			t.Fatalf("should reject %q", s)
		}
	}
}

func TestValidatePurchase(t *testing.T) {
	good := PurchaseParsed{RoundId: "r1", Numbers: []int{1, 2, 3, 4, 5}, IdempotencyKey: "k1"}
	if ok, msg := ValidatePurchase(&good); !ok {
		t.Fatalf("valid rejected: %s", msg)
	}

	bad := []PurchaseParsed{
		{Numbers: []int{1}, IdempotencyKey: "k"},              // 缺 round_id
		{RoundId: "r", IdempotencyKey: "k"},                   // 缺号码
		{RoundId: "r", Numbers: []int{1}},                     // 缺幂等键
		{RoundId: strings.Repeat("x", 65), Numbers: []int{1}, IdempotencyKey: "k"},
		{RoundId: "r", Numbers: []int{1}, IdempotencyKey: "k", RepeatRounds: 101},
		{RoundId: "r", Numbers: []int{1}, IdempotencyKey: "k", RepeatRounds: -1},
	}
	for i := range bad {
		if ok, _ := ValidatePurchase(&bad[i]); ok {
			t.Fatalf("case %d should be rejected", i)
		}
	}
}

func TestValidatePublish(t *testing.T) {
	good := PublishParsed{RoundId: "r1", Numbers: []int{3, 9, 16}}
	if ok, msg := ValidatePublish(&good); !ok {
		t.Fatalf("valid rejected: %s", msg)
	}
	twoNums := PublishParsed{RoundId: "r1", Numbers: []int{3, 9}}
	if ok, _ := ValidatePublish(&twoNums); ok {
		t.Fatal("2 numbers should be rejected")
	}
	fourNums := PublishParsed{RoundId: "r1", Numbers: []int{3, 9, 16, 1}}
	if ok, _ := ValidatePublish(&fourNums); ok {
		t.Fatal("4 numbers should be rejected")
	}
}

func TestValidateDeposit(t *testing.T) {
	good := DepositParsed{PayRef: "MP-2026-0001", Amount: "250.00"}
	if ok, msg := ValidateDeposit(&good); !ok {
		t.Fatalf("valid rejected: %s", msg)
	}
	bad := []DepositParsed{
		{Amount: "100"},                      // 缺参考号
		{PayRef: "x", Amount: ""},            // 缺金额
		{PayRef: "x", Amount: "-5"},          // 负数
		{PayRef: "x", Amount: "1.234"},       // 超过两位小数
		{PayRef: strings.Repeat("x", 65), Amount: "1"},
	}
	for i := range bad {
		if ok, _ := ValidateDeposit(&bad[i]); ok {
			t.Fatalf("case %d should be rejected", i)
		}
	}
}

func TestValidateDepositReview(t *testing.T) {
	good := DepositReviewParsed{DepositId: "d1", Action: "Approve"}
	if ok, msg := ValidateDepositReview(&good); !ok {
		t.Fatalf("valid rejected: %s", msg)
	}
	if good.Action != "approve" {
		t.Fatalf("action should be normalized, got %q", good.Action)
	}
	bad := DepositReviewParsed{DepositId: "d1", Action: "cancel"}
	if ok, _ := ValidateDepositReview(&bad); ok {
		t.Fatal("unknown action should be rejected")
	}
}

func TestValidatePlayerCreate(t *testing.T) {
	good := PlayerCreateParsed{FirstName: "Anna", LastName: "Jensen", Email: "anna@example.dk", Phone: "20123456", Password: "s3cret-pass"}
	if ok, msg := ValidatePlayerCreate(&good); !ok {
		t.Fatalf("valid rejected: %s", msg)
	}

	onlyLastName := PlayerCreateParsed{LastName: "Jensen", Email: "j@example.dk", Password: "s3cret-pass"}
	if ok, msg := ValidatePlayerCreate(&onlyLastName); !ok {
		t.Fatalf("last name only rejected: %s", msg)
	}

	bad := []PlayerCreateParsed{
		{Email: "a@b.dk", Password: "p"},                                    // 无姓名
		{FirstName: "A", Password: "p"},                                     // 缺邮箱
		{FirstName: "A", Email: "a@b.dk"},                                   // 缺密码
		{FirstName: strings.Repeat("x", 65), Email: "a@b.dk", Password: "p"},
		{FirstName: "A", Email: "a@b.dk", Phone: strings.Repeat("9", 17), Password: "p"},
	}
	for i := range bad {
		if ok, _ := ValidatePlayerCreate(&bad[i]); ok {
			t.Fatalf("case %d should be rejected", i)
		}
	}
}

func TestValidatePlayerStatus(t *testing.T) {
	good := PlayerStatusParsed{PlayerId: "p1", Action: "Disable"}
	if ok, msg := ValidatePlayerStatus(&good); !ok {
		t.Fatalf("valid rejected: %s", msg)
	}
	if good.Action != "disable" {
		t.Fatalf("action should be normalized, got %q", good.Action)
	}
	bad := PlayerStatusParsed{PlayerId: "p1", Action: "delete"}
	if ok, _ := ValidatePlayerStatus(&bad); ok {
		t.Fatal("unknown action should be rejected")
	}
	noID := PlayerStatusParsed{Action: "enable"}
	if ok, _ := ValidatePlayerStatus(&noID); ok {
		t.Fatal("missing player_id should be rejected")
	}
}

func TestValidateOperatorCreate(t *testing.T) {
	good := OperatorCreateParsed{Username: "ops2", Password: "s3cret-pass"}
	if ok, msg := ValidateOperatorCreate(&good); !ok {
		t.Fatalf("valid rejected: %s", msg)
	}
	noName := OperatorCreateParsed{Password: "p"}
	if ok, _ := ValidateOperatorCreate(&noName); ok {
		t.Fatal("missing username should be rejected")
	}
	noPass := OperatorCreateParsed{Username: "ops2"}
	if ok, _ := ValidateOperatorCreate(&noPass); ok {
		t.Fatal("missing password should be rejected")
	}
}

func TestValidateLogin(t *testing.T) {
	player := LoginParsed{Email: "a@b.dk", Password: "secret"}
	if ok, msg := ValidateLogin(&player); !ok {
		t.Fatalf("player login rejected: %s", msg)
	}
	if player.Role != "player" {
		t.Fatalf("role should default to player, got %q", player.Role)
	}

	admin := LoginParsed{Role: "admin", Username: "ops", Password: "secret"}
	if ok, msg := ValidateLogin(&admin); !ok {
		t.Fatalf("admin login rejected: %s", msg)
	}

	noEmail := LoginParsed{Role: "player", Password: "secret"}
	if ok, _ := ValidateLogin(&noEmail); ok {
		t.Fatal("player without email should be rejected")
	}
	badRole := LoginParsed{Role: "root", Username: "ops", Password: "secret"}
	if ok, _ := ValidateLogin(&badRole); ok {
		t.Fatal("unknown role should be rejected")
	}
}
