package response

import "testing"

func TestErrorMessagesCoverBusinessCodes(t *testing.T) {
	codes := []int{
		CodeBadRequest,
		CodeDuplicateInFlight,
		CodeDuplicateKey,
		CodeInvalidState,
		CodeRoundClosed,
		CodeInvalidSelection,
		CodeInsufficientBalance,
		CodeAlreadyPublished,
		CodeRoundNotDrawn,
		CodeNotEnoughRounds,
		CodeDuplicatePayRef,
		CodeDepositFinal,
		CodeInvalidCredentials,
		CodeAccountDisabled,
		CodeInvalidWinning,
		CodeDuplicateEmail,
		CodeNotFound,
		CodeSystemError,
	}
	for _, code := range codes {
		if msg, ok := ErrorMessages[code]; !ok || msg == "" {
			t.Fatalf("code %d has no message", code)
		}
	}
}

func TestWinningCodeDistinctFromSelectionCode(t *testing.T) {
	// 开奖号码不合法与购彩号码不合法是两类错误，码值与文案都要分开
	if CodeInvalidWinning == CodeInvalidSelection {
		t.Fatalf("codes must differ")
	}
	if ErrorMessages[CodeInvalidWinning] == ErrorMessages[CodeInvalidSelection] {
		t.Fatalf("messages must differ")
	}
}

func TestGetErrorMessageFallback(t *testing.T) {
	if got := getErrorMessage(-42); got != "未知错误" {
		t.Fatalf("fallback message: %q", got)
	}
	if got := getErrorMessage(CodeInvalidWinning); got != "开奖号码不合法" {
		t.Fatalf("message: %q", got)
	}
}
