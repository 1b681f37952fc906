package conversation

// State is one step of the fixed conversation flow.
type State int

const (
	StateLangSelect State = iota
	StateNameEntry
	StateSurnameEntry
	StatePhoneEntry
	StateMainMenu
	StateLocationModeSelect
	StateLocationAwaitGeo
	StateLocationAwaitText
	StateCategorySelect
	StateResultView
)

var stateNames = map[State]string{
	StateLangSelect:         "lang_select",
	StateNameEntry:          "name_entry",
	StateSurnameEntry:       "surname_entry",
	StatePhoneEntry:         "phone_entry",
	StateMainMenu:           "main_menu",
	StateLocationModeSelect: "location_mode_select",
	StateLocationAwaitGeo:   "location_await_geo",
	StateLocationAwaitText:  "location_await_text",
	StateCategorySelect:     "category_select",
	StateResultView:         "result_view",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
