package format

// ActionStyle is the badge class of an inquiry category.
type ActionStyle int

const (
	ActionOther ActionStyle = iota
	ActionConfirm
	ActionChange
	ActionCancel
)

// Category labels as the agent records them.
const (
	LabelConfirm = "確認"
	LabelChange  = "変更"
	LabelCancel  = "キャンセル"
)

func (s ActionStyle) String() string {
	switch s {
	case ActionConfirm:
		return "confirm"
	case ActionChange:
		return "change"
	case ActionCancel:
		return "cancel"
	}
	return "other"
}

// ClassifyAction maps a category label to its badge class. Unknown labels
// are ActionOther.
func ClassifyAction(label string) ActionStyle {
	switch label {
	case LabelConfirm:
		return ActionConfirm
	case LabelChange:
		return ActionChange
	case LabelCancel:
		return ActionCancel
	default:
		return ActionOther
	}
}

var functionNames = map[string]string{
	"check_order_details":   "注文詳細確認",
	"cancel_order":          "注文キャンセル",
	"update_order_quantity": "注文変更",
}

// FunctionName returns the operator-facing label of a backend function.
// Unknown names are returned unchanged.
func FunctionName(name string) string {
	if label, ok := functionNames[name]; ok {
		return label
	}
	return name
}
