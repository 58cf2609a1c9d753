package state

import "testing"

func TestNextStateLegalTransitions(t *testing.T) {
	cases := []struct {
		cur, evt, want string
	}{
		{StateOpen, EvtPublish, StatePublished},
		{StatePublished, EvtSettle, StateSettled},
		// 已结算可重复结算（整期重写）
		{StateSettled, EvtSettle, StateSettled},
	}
	for _, c := range cases {
		got, err := NextState(c.cur, c.evt)
		if err != nil {
			t.Fatalf("%s --%s-->: unexpected error: %v", c.cur, c.evt, err)
		}
		if got != c.want {
			t.Fatalf("%s --%s--> %s, want %s", c.cur, c.evt, got, c.want)
		}
	}
}

func TestNextStateIllegalTransitions(t *testing.T) {
	cases := []struct {
		cur, evt string
	}{
		{StateOpen, EvtSettle},          // 未开奖不能结算
		{StatePublished, EvtPublish},    // 不能重复开奖
		{StateSettled, EvtPublish},      // 已结算不能改开奖
		{"", EvtPublish},                // 未知状态
		{StateOpen, "unknown"},          // 未知事件
	}
	for _, c := range cases {
		if _, err := NextState(c.cur, c.evt); err == nil {
			t.Fatalf("%s --%s-->: expected error", c.cur, c.evt)
		}
	}
}

func TestFromStatusCode(t *testing.T) {
	if FromStatusCode(1) != StateOpen || FromStatusCode(2) != StatePublished || FromStatusCode(3) != StateSettled {
		t.Fatal("status code mapping broken")
	}
	if FromStatusCode(0) != "" || FromStatusCode(9) != "" {
		t.Fatal("unknown code should map to empty string")
	}
}
