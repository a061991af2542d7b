// Package render projects a viewstate.State into a display structure.
//
// Project is pure: it reads the state and the formatter and nothing else.
// The terminal UI paints the returned Screen; tests inspect it directly.
package render

import (
	"errors"

	"github.com/daviddao/voiceagent_viewer/internal/conversation"
	"github.com/daviddao/voiceagent_viewer/internal/format"
	"github.com/daviddao/voiceagent_viewer/internal/viewstate"
)

// Fixed UI text.
const (
	LoadingText  = "読み込み中..."
	EmptyText    = "会話履歴がありません"
	DetailTitle  = "会話詳細"
	HistoryTitle = "会話履歴"
	ActionsTitle = "実行されたアクション"
)

const invalidSuffix = " (invalid)"

// ListHeaders are the list table's columns.
var ListHeaders = []string{"日時", "問い合わせ分類", "注文ID", "ユーザーID"}

// Align is the side a message bubble sits on.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Badge is one action-type label with its class.
type Badge struct {
	Label string
	Style format.ActionStyle
}

// Row is one conversation in the list.
type Row struct {
	ID      string
	Time    string
	Badges  []Badge
	OrderID string
	UserID  string
}

// ListView is the list body. Headers are present even with no rows.
type ListView struct {
	Headers []string
	Rows    []Row
}

// Bubble is one transcript message.
type Bubble struct {
	Align   Align
	Role    string
	Content string
	Time    string // blank when the message has no timestamp
}

// ActionCard is one executed backend function.
type ActionCard struct {
	Name string // operator-facing label
	Raw  string // backend identifier
	Time string
	Args string
}

// DetailView is the detail body.
type DetailView struct {
	ID       string
	Time     string
	EndTime  string // empty when unknown
	Summary  string // empty when unknown
	Badges   []Badge
	OrderID  string
	UserID   string
	Messages []Bubble
	Actions  []ActionCard // nil when nothing was executed
}

// Screen is everything the UI shows for one state.
type Screen struct {
	Mode    viewstate.Mode
	Loading bool
	Banner  string
	Empty   bool
	List    *ListView
	Detail  *DetailView

	// Warnings lists values that could not be formatted. They are shown
	// in place as the raw value marked invalid.
	Warnings []error
}

// Project builds the Screen for s.
func Project(s viewstate.State, f format.Formatter) Screen {
	p := projector{f: f}
	scr := Screen{Mode: s.Mode}

	if s.Err != "" && !s.Loading {
		scr.Banner = s.Err
	}

	switch s.Mode {
	case viewstate.ModeDetail:
		if s.Detail != nil {
			scr.Detail = p.detail(s.Detail)
		}
	default:
		if s.Loading {
			scr.Loading = true
			break
		}
		scr.List = p.list(s.Summaries)
		scr.Empty = len(s.Summaries) == 0 && scr.Banner == ""
	}

	scr.Warnings = p.warnings
	return scr
}

type projector struct {
	f        format.Formatter
	warnings []error
}

// time formats a timestamp, falling back to the raw value on parse failure.
func (p *projector) time(value string) string {
	out, err := p.f.Timestamp(value)
	if err != nil {
		var tsErr *format.TimestampError
		if !errors.As(err, &tsErr) {
			tsErr = &format.TimestampError{Value: value}
		}
		p.warnings = append(p.warnings, tsErr)
		return value + invalidSuffix
	}
	return out
}

func badges(labels []string) []Badge {
	out := make([]Badge, len(labels))
	for i, l := range labels {
		out[i] = Badge{Label: l, Style: format.ClassifyAction(l)}
	}
	return out
}

func (p *projector) list(sums []conversation.Summary) *ListView {
	rows := make([]Row, len(sums))
	for i, s := range sums {
		rows[i] = Row{
			ID:      s.ID,
			Time:    p.time(s.Timestamp),
			Badges:  badges(s.ActionTypes),
			OrderID: format.OrPlaceholder(s.OrderID),
			UserID:  format.OrPlaceholder(s.UserID),
		}
	}
	return &ListView{Headers: ListHeaders, Rows: rows}
}

func (p *projector) detail(d *conversation.Detail) *DetailView {
	v := &DetailView{
		ID:      d.ID,
		Time:    p.time(d.Timestamp),
		Badges:  badges(d.ActionTypes),
		OrderID: format.OrPlaceholder(d.OrderID),
		UserID:  format.OrPlaceholder(d.UserID),
	}
	if d.EndTime != nil && *d.EndTime != "" {
		v.EndTime = p.time(*d.EndTime)
	}
	if d.Summary.Summary != nil {
		v.Summary = *d.Summary.Summary
	}

	v.Messages = make([]Bubble, len(d.History))
	for i, m := range d.History {
		b := Bubble{Align: AlignLeft, Role: m.Role, Content: m.Content}
		if conversation.IsUser(m.Role) {
			b.Align = AlignRight
		}
		if m.Timestamp != "" {
			b.Time = p.time(m.Timestamp)
		}
		v.Messages[i] = b
	}

	if len(d.ExecutedFunctions) > 0 {
		v.Actions = make([]ActionCard, len(d.ExecutedFunctions))
		for i, fn := range d.ExecutedFunctions {
			v.Actions[i] = ActionCard{
				Name: format.FunctionName(fn.Function),
				Raw:  fn.Function,
				Time: p.time(fn.Timestamp),
				Args: format.Arguments(fn.Arguments),
			}
		}
	}
	return v
}
