package conversation

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/zamontech/yaqinbot/internal/entity"
	"github.com/zamontech/yaqinbot/internal/locale"
	"github.com/zamontech/yaqinbot/internal/places"
	"github.com/zamontech/yaqinbot/internal/repository"
	"github.com/zamontech/yaqinbot/internal/service"
)

// ReverseGeocoder names a point for the "you are here" line.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, point entity.LatLng, lang string) (string, error)
}

// Deps wires the machine to the services it drives.
type Deps struct {
	Sessions  *SessionStore
	Profiles  repository.ProfilesRepository
	Locales   *locale.Bundle
	Collector *service.ProfileCollector
	Resolver  *service.LocationResolver
	Search    *service.CategorySearch
	Renderer  *CardRenderer
	Reverse   ReverseGeocoder // optional
}

type handlerFunc func(ctx context.Context, s *Session, act Action) []Reply

// Machine drives the conversation flow. Every inbound action resolves to a
// localized screen; failures never leak as errors to the transport.
type Machine struct {
	sessions  *SessionStore
	profiles  repository.ProfilesRepository
	locales   *locale.Bundle
	collector *service.ProfileCollector
	resolver  *service.LocationResolver
	search    *service.CategorySearch
	renderer  *CardRenderer
	reverse   ReverseGeocoder

	dispatch map[State]map[ActionKind]handlerFunc
}

// NewMachine builds the machine and its dispatch table.
func NewMachine(deps Deps) *Machine {
	m := &Machine{
		sessions:  deps.Sessions,
		profiles:  deps.Profiles,
		locales:   deps.Locales,
		collector: deps.Collector,
		resolver:  deps.Resolver,
		search:    deps.Search,
		renderer:  deps.Renderer,
		reverse:   deps.Reverse,
	}

	m.dispatch = map[State]map[ActionKind]handlerFunc{
		StateLangSelect: {
			ActionText: m.onLanguage,
		},
		StateNameEntry: {
			ActionText: m.onFirstName,
		},
		StateSurnameEntry: {
			ActionText: m.onLastName,
		},
		StatePhoneEntry: {
			ActionText:    m.onPhoneText,
			ActionContact: m.onContact,
		},
		StateMainMenu: {
			ActionText: m.onMainMenu,
		},
		StateLocationModeSelect: {
			ActionText:     m.onLocationMode,
			ActionLocation: m.onGeo,
		},
		StateLocationAwaitGeo: {
			ActionLocation: m.onGeo,
		},
		StateLocationAwaitText: {
			ActionText:     m.onLocationText,
			ActionLocation: m.onGeo,
		},
		StateCategorySelect: {
			ActionText: m.onCategory,
		},
		StateResultView: {
			ActionCallback: m.onResultCallback,
		},
	}
	return m
}

// Handle processes one action and returns the screens to deliver. Actions
// for the same user serialize on the session lock, so a second tap queues
// behind the one in flight.
func (m *Machine) Handle(ctx context.Context, act Action) []Reply {
	s := m.sessions.Get(act.UserID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if act.Kind == ActionCommand {
		return m.handleCommand(ctx, s, act)
	}

	if m.isBack(s, act) {
		return m.handleBack(ctx, s)
	}

	if handlers, ok := m.dispatch[s.State]; ok {
		if h, ok := handlers[act.Kind]; ok {
			return h(ctx, s, act)
		}
	}

	log.Printf("event=unhandled_action user=%d state=%s kind=%s", s.UserID, s.State, act.Kind)
	return m.promptFor(ctx, s)
}

func (m *Machine) lang(s *Session) string {
	if locale.Supported(s.Profile.Language) {
		return s.Profile.Language
	}
	return locale.DefaultLanguage
}

// isBack recognizes the back reply-keyboard label and the back callback in
// any state so navigation never depends on the dispatch table.
func (m *Machine) isBack(s *Session, act Action) bool {
	switch act.Kind {
	case ActionCallback:
		return act.Text == callbackBack
	case ActionText:
		return strings.TrimSpace(act.Text) == m.locales.Get(m.lang(s), "back")
	}
	return false
}

// handleBack pops the nav stack; with nothing to pop the current screen is
// repeated, so Back at the main menu is a no-op.
func (m *Machine) handleBack(ctx context.Context, s *Session) []Reply {
	s.back()
	return m.promptFor(ctx, s)
}

func (m *Machine) handleCommand(ctx context.Context, s *Session, act Action) []Reply {
	switch act.Text {
	case "start", "restart":
		s.reset()

		profile, err := m.profiles.FindByID(ctx, s.UserID)
		switch {
		case err == nil && profile.Complete():
			s.Profile = *profile
			s.ProfileCommitted = true
			s.resetNav(StateMainMenu)
		case errors.Is(err, repository.ErrProfileNotFound):
			// new user, stay at language selection
		case err != nil:
			log.Printf("event=profile_lookup_failed user=%d error=%q", s.UserID, err)
		}
		return m.promptFor(ctx, s)
	default:
		return m.promptFor(ctx, s)
	}
}

func (m *Machine) onLanguage(ctx context.Context, s *Session, act Action) []Reply {
	code := locale.DetectLanguage(act.Text)
	if code == "" {
		return m.promptFor(ctx, s)
	}
	s.Profile.Language = code

	if s.ProfileCommitted {
		saved, err := m.collector.UpdateLanguage(ctx, s.Profile, code)
		if err != nil {
			log.Printf("event=language_update_failed user=%d error=%q", s.UserID, err)
		} else {
			s.Profile = *saved
		}
		s.resetNav(StateMainMenu)
		replies := []Reply{{Text: m.locales.Get(code, "saved")}}
		return append(replies, m.promptFor(ctx, s)...)
	}

	s.transitionTo(StateNameEntry)
	return m.promptFor(ctx, s)
}

func (m *Machine) onFirstName(ctx context.Context, s *Session, act Action) []Reply {
	name, err := m.collector.SubmitName(act.Text)
	if err != nil {
		return m.rejectAndPrompt(ctx, s, "empty_field")
	}
	s.Profile.FirstName = name
	s.transitionTo(StateSurnameEntry)
	return m.promptFor(ctx, s)
}

func (m *Machine) onLastName(ctx context.Context, s *Session, act Action) []Reply {
	name, err := m.collector.SubmitName(act.Text)
	if err != nil {
		return m.rejectAndPrompt(ctx, s, "empty_field")
	}
	s.Profile.LastName = name
	s.transitionTo(StatePhoneEntry)
	return m.promptFor(ctx, s)
}

func (m *Machine) onPhoneText(ctx context.Context, s *Session, act Action) []Reply {
	phone, err := m.collector.SubmitPhoneText(act.Text)
	if err != nil {
		return m.rejectAndPrompt(ctx, s, "invalid_phone")
	}
	s.Profile.Phone = phone
	return m.completeOnboarding(ctx, s)
}

func (m *Machine) onContact(ctx context.Context, s *Session, act Action) []Reply {
	phone := m.collector.SubmitSharedContact(act.ContactPhone)
	if phone == "" {
		return m.rejectAndPrompt(ctx, s, "invalid_phone")
	}
	s.Profile.Phone = phone
	return m.completeOnboarding(ctx, s)
}

// completeOnboarding commits the profile and lands on the main menu. A
// persistence failure is reported but does not block the user; the in-memory
// profile stays usable for the rest of the session.
func (m *Machine) completeOnboarding(ctx context.Context, s *Session) []Reply {
	lang := m.lang(s)
	s.Profile.UserID = s.UserID

	var replies []Reply
	saved, err := m.collector.Commit(ctx, s.Profile)
	if err != nil {
		log.Printf("event=profile_commit_failed user=%d error=%q", s.UserID, err)
		replies = append(replies, Reply{Text: m.locales.Get(lang, "profile_save_failed")})
	} else {
		s.Profile = *saved
	}
	s.ProfileCommitted = true
	s.resetNav(StateMainMenu)

	replies = append(replies, Reply{Text: m.locales.Get(lang, "saved")})
	return append(replies, m.promptFor(ctx, s)...)
}

func (m *Machine) onMainMenu(ctx context.Context, s *Session, act Action) []Reply {
	lang := m.lang(s)
	switch strings.TrimSpace(act.Text) {
	case m.locales.Get(lang, "find_places_button"):
		s.transitionTo(StateLocationModeSelect)
		return m.promptFor(ctx, s)
	case m.locales.Get(lang, "change_language_button"):
		s.transitionTo(StateLangSelect)
		return m.promptFor(ctx, s)
	default:
		return m.promptFor(ctx, s)
	}
}

func (m *Machine) onLocationMode(ctx context.Context, s *Session, act Action) []Reply {
	lang := m.lang(s)
	switch strings.TrimSpace(act.Text) {
	case m.locales.Get(lang, "send_location_button"):
		s.transitionTo(StateLocationAwaitGeo)
		return m.promptFor(ctx, s)
	case m.locales.Get(lang, "type_place_button"):
		s.transitionTo(StateLocationAwaitText)
		return m.promptFor(ctx, s)
	default:
		return m.promptFor(ctx, s)
	}
}

func (m *Machine) onGeo(ctx context.Context, s *Session, act Action) []Reply {
	if act.Location == nil {
		return m.promptFor(ctx, s)
	}
	point := m.resolver.ResolveGeo(*act.Location)
	return m.afterLocationResolved(ctx, s, point)
}

func (m *Machine) onLocationText(ctx context.Context, s *Session, act Action) []Reply {
	query := strings.TrimSpace(act.Text)
	if query == "" {
		return m.rejectAndPrompt(ctx, s, "empty_field")
	}

	point, err := m.resolver.ResolveText(ctx, query)
	if err != nil {
		if errors.Is(err, places.ErrNoMatch) {
			return m.rejectAndPrompt(ctx, s, "no_results")
		}
		log.Printf("event=geocode_failed user=%d query=%q error=%q", s.UserID, query, err)
		return m.rejectAndPrompt(ctx, s, "search_failed")
	}
	return m.afterLocationResolved(ctx, s, point)
}

// afterLocationResolved stores the search origin, echoes it back and moves on
// to category selection.
func (m *Machine) afterLocationResolved(ctx context.Context, s *Session, point entity.LatLng) []Reply {
	lang := m.lang(s)
	s.Search.Origin = point
	s.Search.HasOrigin = true

	here := m.locales.Get(lang, "you_are_here")
	if m.reverse != nil {
		if addr, err := m.reverse.ReverseGeocode(ctx, point, lang); err != nil {
			log.Printf("event=reverse_geocode_failed user=%d error=%q", s.UserID, err)
		} else {
			here = here + " " + addr
		}
	}

	replies := []Reply{
		{Text: here},
		{Location: &entity.LatLng{Latitude: point.Latitude, Longitude: point.Longitude}},
	}
	s.transitionTo(StateCategorySelect)
	return append(replies, m.promptFor(ctx, s)...)
}

func (m *Machine) onCategory(ctx context.Context, s *Session, act Action) []Reply {
	lang := m.lang(s)

	index := -1
	for i, label := range m.locales.Categories(lang) {
		if strings.TrimSpace(act.Text) == label {
			index = i
			break
		}
	}
	category, ok := service.CategoryAt(index)
	if !ok {
		return m.promptFor(ctx, s)
	}

	replies := []Reply{{Text: m.locales.Get(lang, "searching")}}

	results, err := m.search.Search(ctx, s.Search.Origin, category)
	if err != nil {
		log.Printf("event=search_failed user=%d category=%s error=%q", s.UserID, category, err)
		return append(replies, Reply{Text: m.locales.Get(lang, "search_failed")})
	}
	if len(results) == 0 {
		return append(replies, Reply{Text: m.locales.Get(lang, "no_results")})
	}

	s.Search.Category = category
	s.setResults(results)
	s.transitionTo(StateResultView)
	return append(replies, m.renderCurrent(ctx, s)...)
}

func (m *Machine) onResultCallback(ctx context.Context, s *Session, act Action) []Reply {
	if s.pager == nil {
		s.resetNav(StateMainMenu)
		return m.promptFor(ctx, s)
	}

	switch act.Text {
	case callbackNext:
		s.pager.Next()
		return m.renderCurrent(ctx, s)
	case callbackPrev:
		s.pager.Previous()
		return m.renderCurrent(ctx, s)
	case callbackNewSearch:
		s.clearResults()
		s.Search = SearchContext{}
		s.resetNav(StateMainMenu)
		return m.promptFor(ctx, s)
	default:
		return m.renderCurrent(ctx, s)
	}
}

func (m *Machine) renderCurrent(ctx context.Context, s *Session) []Reply {
	place, ok := s.pager.Current()
	if !ok {
		s.resetNav(StateMainMenu)
		return m.promptFor(ctx, s)
	}
	card := m.renderer.Render(ctx, place, m.lang(s), s.Search.Origin, s.pager.Cursor(), s.pager.Len())
	return []Reply{card}
}

// rejectAndPrompt delivers a rejection notice and repeats the current
// prompt; the state does not change.
func (m *Machine) rejectAndPrompt(ctx context.Context, s *Session, key string) []Reply {
	replies := []Reply{{Text: m.locales.Get(m.lang(s), key)}}
	return append(replies, m.promptFor(ctx, s)...)
}

// promptFor renders the screen for the session's current state.
func (m *Machine) promptFor(ctx context.Context, s *Session) []Reply {
	lang := m.lang(s)
	b := m.locales

	switch s.State {
	case StateLangSelect:
		return []Reply{{Text: b.Get(lang, "lang_prompt"), ReplyKeyboard: langKeyboard()}}
	case StateNameEntry:
		return []Reply{{Text: b.Get(lang, "ask_name"), RemoveKeyboard: true}}
	case StateSurnameEntry:
		return []Reply{{Text: b.Get(lang, "ask_surname")}}
	case StatePhoneEntry:
		return []Reply{{Text: b.Get(lang, "ask_contact"), ReplyKeyboard: contactKeyboard(b, lang)}}
	case StateMainMenu:
		return []Reply{{Text: b.Get(lang, "main_menu"), ReplyKeyboard: mainMenuKeyboard(b, lang)}}
	case StateLocationModeSelect:
		return []Reply{{Text: b.Get(lang, "ask_location_mode"), ReplyKeyboard: locationModeKeyboard(b, lang)}}
	case StateLocationAwaitGeo:
		return []Reply{{Text: b.Get(lang, "ask_location_geo"), ReplyKeyboard: geoKeyboard(b, lang)}}
	case StateLocationAwaitText:
		return []Reply{{Text: b.Get(lang, "ask_location_text"), ReplyKeyboard: backKeyboard(b, lang)}}
	case StateCategorySelect:
		return []Reply{{Text: b.Get(lang, "choose_category"), ReplyKeyboard: categoriesKeyboard(b, lang)}}
	case StateResultView:
		if s.pager == nil {
			s.resetNav(StateMainMenu)
			return m.promptFor(ctx, s)
		}
		return m.renderCurrent(ctx, s)
	default:
		s.resetNav(StateLangSelect)
		return m.promptFor(ctx, s)
	}
}
