package conversation

import "github.com/zamontech/yaqinbot/internal/locale"

func langKeyboard() *ReplyKeyboard {
	rows := make([][]ReplyButton, 0, 3)
	for _, label := range locale.PickerLabels() {
		rows = append(rows, []ReplyButton{{Label: label}})
	}
	return &ReplyKeyboard{Rows: rows, OneTime: true}
}

func contactKeyboard(b *locale.Bundle, lang string) *ReplyKeyboard {
	return &ReplyKeyboard{
		Rows: [][]ReplyButton{
			{{Label: b.Get(lang, "share_phone_button"), RequestContact: true}},
		},
		OneTime: true,
	}
}

func mainMenuKeyboard(b *locale.Bundle, lang string) *ReplyKeyboard {
	return &ReplyKeyboard{
		Rows: [][]ReplyButton{
			{{Label: b.Get(lang, "find_places_button")}},
			{{Label: b.Get(lang, "change_language_button")}},
		},
	}
}

func locationModeKeyboard(b *locale.Bundle, lang string) *ReplyKeyboard {
	return &ReplyKeyboard{
		Rows: [][]ReplyButton{
			{{Label: b.Get(lang, "send_location_button"), RequestLocation: true}},
			{{Label: b.Get(lang, "type_place_button")}},
			{{Label: b.Get(lang, "back")}},
		},
	}
}

func geoKeyboard(b *locale.Bundle, lang string) *ReplyKeyboard {
	return &ReplyKeyboard{
		Rows: [][]ReplyButton{
			{{Label: b.Get(lang, "send_location_button"), RequestLocation: true}},
			{{Label: b.Get(lang, "back")}},
		},
	}
}

func backKeyboard(b *locale.Bundle, lang string) *ReplyKeyboard {
	return &ReplyKeyboard{
		Rows: [][]ReplyButton{
			{{Label: b.Get(lang, "back")}},
		},
	}
}

func categoriesKeyboard(b *locale.Bundle, lang string) *ReplyKeyboard {
	labels := b.Categories(lang)
	rows := make([][]ReplyButton, 0, len(labels)+1)
	for _, label := range labels {
		rows = append(rows, []ReplyButton{{Label: label}})
	}
	rows = append(rows, []ReplyButton{{Label: b.Get(lang, "back")}})
	return &ReplyKeyboard{Rows: rows}
}
