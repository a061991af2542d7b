package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/daviddao/voiceagent_viewer/internal/client"
	"github.com/daviddao/voiceagent_viewer/internal/conversation"
	"github.com/daviddao/voiceagent_viewer/internal/format"
	"github.com/daviddao/voiceagent_viewer/internal/viewstate"
)

var jst = format.New(time.FixedZone("JST", 9*60*60))

func strPtr(s string) *string { return &s }

func listState(sums []conversation.Summary, err error) viewstate.State {
	s, tk := viewstate.New().Init()
	return s.ApplyList(tk, sums, err)
}

func detailState(t *testing.T, d *conversation.Detail) viewstate.State {
	t.Helper()
	s := listState([]conversation.Summary{d.Summary}, nil)
	s, tk, err := s.Select(d.ID)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	return s.ApplyDetail(tk, d, nil)
}

func TestProjectLoading(t *testing.T) {
	s, _ := viewstate.New().Init()
	scr := Project(s, jst)

	if !scr.Loading {
		t.Error("expected Loading")
	}
	if scr.List != nil || scr.Detail != nil {
		t.Error("loading should suppress the body")
	}
	if scr.Empty {
		t.Error("loading should not show the empty indicator")
	}
}

func TestProjectLoadingWhileSelecting(t *testing.T) {
	s := listState([]conversation.Summary{{ID: "a"}}, nil)
	s, _, _ = s.Select("a")
	scr := Project(s, jst)
	if !scr.Loading || scr.List != nil {
		t.Errorf("detail fetch in flight should show loading only: %+v", scr)
	}
}

// An empty list with no error shows headers and the empty text.
func TestProjectEmptyList(t *testing.T) {
	scr := Project(listState([]conversation.Summary{}, nil), jst)

	if !scr.Empty {
		t.Error("expected empty indicator")
	}
	if scr.Banner != "" {
		t.Errorf("Banner = %q, want none", scr.Banner)
	}
	if scr.List == nil || len(scr.List.Headers) != 4 {
		t.Error("headers should still render")
	}
}

// A null order id renders as "-".
func TestProjectNullOrderID(t *testing.T) {
	sums := []conversation.Summary{{
		ID:          "a",
		Timestamp:   "2025-03-01T10:15:30",
		ActionTypes: []string{"確認"},
		OrderID:     nil,
		UserID:      strPtr("u-1"),
	}}
	scr := Project(listState(sums, nil), jst)

	if len(scr.List.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(scr.List.Rows))
	}
	row := scr.List.Rows[0]
	if row.OrderID != "-" {
		t.Errorf("OrderID = %q, want \"-\"", row.OrderID)
	}
	if row.UserID != "u-1" {
		t.Errorf("UserID = %q, want u-1", row.UserID)
	}
	if row.Time != "2025年03月01日 10:15:30" {
		t.Errorf("Time = %q", row.Time)
	}
}

func TestProjectRowOrder(t *testing.T) {
	ids := []string{"z", "a", "m", "b"}
	sums := make([]conversation.Summary, len(ids))
	for i, id := range ids {
		sums[i] = conversation.Summary{ID: id}
	}
	scr := Project(listState(sums, nil), jst)

	for i, id := range ids {
		if scr.List.Rows[i].ID != id {
			t.Fatalf("row %d = %q, want %q (rows must keep received order)", i, scr.List.Rows[i].ID, id)
		}
	}
}

func TestProjectBadges(t *testing.T) {
	sums := []conversation.Summary{{ID: "a", ActionTypes: []string{"キャンセル", "確認", "その他"}}}
	row := Project(listState(sums, nil), jst).List.Rows[0]

	want := []Badge{
		{"キャンセル", format.ActionCancel},
		{"確認", format.ActionConfirm},
		{"その他", format.ActionOther},
	}
	if len(row.Badges) != len(want) {
		t.Fatalf("badges = %v", row.Badges)
	}
	for i := range want {
		if row.Badges[i] != want[i] {
			t.Errorf("badge %d = %+v, want %+v", i, row.Badges[i], want[i])
		}
	}
}

// A failed list fetch shows the banner and no empty text.
func TestProjectListFailure(t *testing.T) {
	fail := &client.FetchError{Op: client.OpList, Err: errors.New("dial tcp: connection refused")}
	s := listState(nil, fail)
	scr := Project(s, jst)

	if scr.Banner == "" {
		t.Error("banner should be non-empty")
	}
	if s.Loading || len(s.Summaries) != 0 {
		t.Errorf("state after failure: %+v", s)
	}
	if scr.Empty {
		t.Error("empty indicator should not show alongside an error")
	}
	if scr.List == nil || len(scr.List.Rows) != 0 {
		t.Error("list body with headers should still render under the banner")
	}
}

func TestProjectDetail(t *testing.T) {
	d := &conversation.Detail{
		Summary: conversation.Summary{
			ID:          "c1",
			Timestamp:   "2025-03-01T09:00:00",
			ActionTypes: []string{"変更"},
			OrderID:     strPtr("12345"),
			EndTime:     strPtr("2025-03-01T09:04:12"),
			Summary:     strPtr("数量変更"),
		},
		History: []conversation.Message{
			{Role: "agent", Content: "ご用件は？", Timestamp: "2025-03-01T09:00:01"},
			{Role: "user", Content: "数量を変えたい", Timestamp: "2025-03-01T09:00:09"},
			{Role: "assistant", Content: "承知しました"},
		},
		ExecutedFunctions: []conversation.ExecutedFunction{
			{Function: "update_order_quantity", Arguments: map[string]any{"order_id": "12345", "quantity": 3.0}, Timestamp: "2025-03-01T09:01:00"},
			{Function: "send_survey", Arguments: map[string]any{}, Timestamp: "2025-03-01T09:04:00"},
		},
	}
	scr := Project(detailState(t, d), jst)

	if scr.Mode != viewstate.ModeDetail || scr.Detail == nil {
		t.Fatalf("expected detail screen, got %+v", scr)
	}
	if scr.List != nil || scr.Loading {
		t.Error("detail screen should not carry the list or loading")
	}
	v := scr.Detail
	if v.Time != "2025年03月01日 09:00:00" || v.EndTime != "2025年03月01日 09:04:12" {
		t.Errorf("times = %q / %q", v.Time, v.EndTime)
	}
	if v.OrderID != "12345" || v.UserID != "-" {
		t.Errorf("ids = %q / %q", v.OrderID, v.UserID)
	}
	if v.Summary != "数量変更" {
		t.Errorf("Summary = %q", v.Summary)
	}

	// Transcript order and alignment.
	if len(v.Messages) != 3 {
		t.Fatalf("messages = %d", len(v.Messages))
	}
	if v.Messages[0].Content != "ご用件は？" || v.Messages[2].Content != "承知しました" {
		t.Error("messages must keep received order")
	}
	if v.Messages[1].Align != AlignRight {
		t.Error("user message should be right-aligned")
	}
	if v.Messages[2].Time != "" {
		t.Errorf("message without timestamp Time = %q, want blank", v.Messages[2].Time)
	}

	// Actions.
	if len(v.Actions) != 2 {
		t.Fatalf("actions = %d", len(v.Actions))
	}
	if v.Actions[0].Name != "注文変更" || v.Actions[0].Raw != "update_order_quantity" {
		t.Errorf("action 0 = %+v", v.Actions[0])
	}
	if v.Actions[1].Name != "send_survey" {
		t.Errorf("unknown function should pass through, got %q", v.Actions[1].Name)
	}
	if !strings.Contains(v.Actions[0].Args, `"quantity": 3`) {
		t.Errorf("args dump = %q", v.Actions[0].Args)
	}
}

// A conversation with no executed functions has no actions block.
func TestProjectDetailNoActions(t *testing.T) {
	d := &conversation.Detail{
		Summary:           conversation.Summary{ID: "c1"},
		ExecutedFunctions: []conversation.ExecutedFunction{},
	}
	scr := Project(detailState(t, d), jst)
	if scr.Detail.Actions != nil {
		t.Errorf("Actions = %v, want nil", scr.Detail.Actions)
	}
	if scr.Detail.Time != "-" {
		t.Errorf("missing timestamp should render as placeholder, got %q", scr.Detail.Time)
	}
}

// Agent turns sit on the left, user turns on the right.
func TestProjectAgentBubble(t *testing.T) {
	d := &conversation.Detail{
		Summary: conversation.Summary{ID: "c1"},
		History: []conversation.Message{
			{Role: "agent", Content: "こんにちは"},
			{Role: "user", Content: "テスト"},
		},
	}
	v := Project(detailState(t, d), jst).Detail
	if v.Messages[0].Align != AlignLeft {
		t.Error("agent message should be left-aligned")
	}
	if v.Messages[0].Align == v.Messages[1].Align {
		t.Error("agent and user bubbles must be styled differently")
	}
}

func TestProjectInvalidTimestamp(t *testing.T) {
	sums := []conversation.Summary{{ID: "a", Timestamp: "not-a-time"}}
	scr := Project(listState(sums, nil), jst)

	if got := scr.List.Rows[0].Time; got != "not-a-time (invalid)" {
		t.Errorf("Time = %q", got)
	}
	if len(scr.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want one", scr.Warnings)
	}
	var tsErr *format.TimestampError
	if !errors.As(scr.Warnings[0], &tsErr) || tsErr.Value != "not-a-time" {
		t.Errorf("warning = %v", scr.Warnings[0])
	}
}

func TestProjectAfterGoBack(t *testing.T) {
	d := &conversation.Detail{Summary: conversation.Summary{ID: "c1"}}
	s, err := detailState(t, d).GoBack()
	if err != nil {
		t.Fatalf("GoBack: %v", err)
	}
	scr := Project(s, jst)
	if scr.Detail != nil || scr.List == nil || len(scr.List.Rows) != 1 {
		t.Errorf("after GoBack screen = %+v", scr)
	}
}
