package conversation

import "github.com/zamontech/yaqinbot/internal/entity"

// ActionKind tags the shape of one inbound user action.
type ActionKind int

const (
	ActionText ActionKind = iota
	ActionCommand
	ActionCallback
	ActionLocation
	ActionContact
)

var actionKindNames = map[ActionKind]string{
	ActionText:     "text",
	ActionCommand:  "command",
	ActionCallback: "callback",
	ActionLocation: "location",
	ActionContact:  "contact",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Action is one inbound user action delivered by the transport.
type Action struct {
	UserID       int64
	Kind         ActionKind
	Text         string // message text, command name, or callback data
	Location     *entity.LatLng
	ContactPhone string
}

// Callback data values understood by the result view.
const (
	callbackBack      = "back"
	callbackNewSearch = "menu"
	callbackNext      = "pg|next"
	callbackPrev      = "pg|prev"
)

// ReplyButton is one key of a reply keyboard.
type ReplyButton struct {
	Label           string
	RequestContact  bool
	RequestLocation bool
}

// ReplyKeyboard replaces the user's input keyboard.
type ReplyKeyboard struct {
	Rows    [][]ReplyButton
	OneTime bool
}

// InlineButton is attached to a message; either URL or Data is set.
type InlineButton struct {
	Label string
	URL   string
	Data  string
}

// InlineKeyboard is a grid of inline buttons under a message.
type InlineKeyboard struct {
	Rows [][]InlineButton
}

// Reply is one outbound screen element the transport should deliver.
type Reply struct {
	Text           string
	HTML           bool
	PhotoURL       string
	Location       *entity.LatLng
	ReplyKeyboard  *ReplyKeyboard
	InlineKeyboard *InlineKeyboard
	RemoveKeyboard bool
}
