package conversation

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/zamontech/yaqinbot/internal/entity"
	"github.com/zamontech/yaqinbot/internal/locale"
	"github.com/zamontech/yaqinbot/internal/service"
)

// PhotoResolver turns a provider photo reference into a fetchable image URL.
type PhotoResolver interface {
	PhotoURL(ctx context.Context, photoRef string, maxHeightPx int) (string, error)
}

// CardRenderer formats one place as a result card: HTML caption, map links,
// paging controls and a best-effort photo.
type CardRenderer struct {
	locales *locale.Bundle
	photos  PhotoResolver
	now     func() time.Time
}

// NewCardRenderer builds a renderer. photos may be nil, in which case cards
// are text-only.
func NewCardRenderer(locales *locale.Bundle, photos PhotoResolver) *CardRenderer {
	return &CardRenderer{locales: locales, photos: photos, now: time.Now}
}

// Render builds the reply for one result card. index is zero-based.
func (r *CardRenderer) Render(ctx context.Context, place entity.Place, lang string, origin entity.LatLng, index, total int) Reply {
	reply := Reply{
		Text:           r.caption(place, lang, origin, index, total),
		HTML:           true,
		InlineKeyboard: r.keyboard(place, lang, index, total),
	}

	if r.photos != nil && place.PhotoRef != "" {
		photoURL, err := r.photos.PhotoURL(ctx, place.PhotoRef, 0)
		if err != nil {
			log.Printf("event=photo_resolve_failed ref=%s error=%q", place.PhotoRef, err)
		} else {
			reply.PhotoURL = photoURL
		}
	}
	return reply
}

func (r *CardRenderer) caption(place entity.Place, lang string, origin entity.LatLng, index, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<i>%s</i>\n", fmt.Sprintf(r.locales.Get(lang, "result_counter"), index+1, total))
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(place.DisplayName))

	if place.Rating != nil {
		fmt.Fprintf(&b, "⭐ %.1f (%d)\n", *place.Rating, place.RatingCount)
	} else {
		b.WriteString(r.locales.Get(lang, "no_rating") + "\n")
	}

	switch place.Open {
	case entity.OpenNow:
		b.WriteString(r.locales.Get(lang, "open_now"))
	case entity.ClosedNow:
		b.WriteString(r.locales.Get(lang, "closed_now"))
	default:
		b.WriteString(r.locales.Get(lang, "hours_unknown"))
	}
	if today := r.todayHours(place.WeekdayHours); today != "" {
		b.WriteString(" · " + html.EscapeString(today))
	}
	b.WriteString("\n")

	if place.FormattedAddress != "" {
		fmt.Fprintf(&b, "📍 %s\n", html.EscapeString(place.FormattedAddress))
	}
	if place.Phone != "" {
		fmt.Fprintf(&b, "📞 %s\n", html.EscapeString(place.Phone))
	}
	if place.Website != "" {
		fmt.Fprintf(&b, "🌐 %s\n", html.EscapeString(place.Website))
	}

	distance := service.FormatDistanceKm(service.HaversineKm(origin, place.Location))
	fmt.Fprintf(&b, "🧭 %s", fmt.Sprintf(r.locales.Get(lang, "distance_away"), distance))

	return b.String()
}

// todayHours picks today's line out of the provider's weekday descriptions,
// which always start with the English weekday name.
func (r *CardRenderer) todayHours(weekdayHours []string) string {
	if len(weekdayHours) == 0 {
		return ""
	}
	today := r.now().Weekday().String()
	for _, line := range weekdayHours {
		if strings.HasPrefix(line, today) {
			return line
		}
	}
	return ""
}

func (r *CardRenderer) keyboard(place entity.Place, lang string, index, total int) *InlineKeyboard {
	kb := &InlineKeyboard{}

	kb.Rows = append(kb.Rows, []InlineButton{
		{Label: r.locales.Get(lang, "google_maps_button"), URL: googleMapsURL(place.Location)},
		{Label: r.locales.Get(lang, "yandex_maps_button"), URL: yandexMapsURL(place.Location)},
	})

	if total > 1 {
		var paging []InlineButton
		if index > 0 {
			paging = append(paging, InlineButton{Label: r.locales.Get(lang, "prev_button"), Data: callbackPrev})
		}
		if index < total-1 {
			paging = append(paging, InlineButton{Label: r.locales.Get(lang, "next_button"), Data: callbackNext})
		}
		kb.Rows = append(kb.Rows, paging)
	}

	kb.Rows = append(kb.Rows, []InlineButton{
		{Label: r.locales.Get(lang, "new_search_button"), Data: callbackNewSearch},
		{Label: r.locales.Get(lang, "back"), Data: callbackBack},
	})
	return kb
}

func googleMapsURL(point entity.LatLng) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%f,%f", point.Latitude, point.Longitude)
}

func yandexMapsURL(point entity.LatLng) string {
	return fmt.Sprintf("https://yandex.com/maps/?rtext=~%f,%f&rtt=auto", point.Latitude, point.Longitude)
}
