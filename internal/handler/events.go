// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"gatherly/internal/middleware"
	"gatherly/internal/model"
	"gatherly/internal/render"
	"gatherly/internal/service"
	"gatherly/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// EventHandler handles event creation, management, discovery and registration.
type EventHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	audit          *service.AuditService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *EventHandler {
	return &EventHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		audit:          service.NewAuditService(db),
	}
}

// CreateForm renders the event creation form.
// GET /create
func (h *EventHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "create", render.TemplateData{
		Title: "Create Event",
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render create form", "error", err)
	}
}

// Create handles the event creation form submission.
// POST /create
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, RouteCreate) {
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	eventType := r.FormValue("eventType")
	venue := r.FormValue("venue")

	if name == "" || venue == "" {
		flashError(w, r, h.renderer, RouteCreate, "Event name and venue are required")
		return
	}

	eventDate, err := time.Parse(dateLayout, r.FormValue("date"))
	if err != nil {
		flashError(w, r, h.renderer, RouteCreate, "Invalid event date")
		return
	}

	eventTime := r.FormValue("time")
	if _, err := time.Parse(timeLayout, eventTime); err != nil {
		flashError(w, r, h.renderer, RouteCreate, "Invalid event time")
		return
	}

	deadline, err := time.Parse(dateLayout, r.FormValue("deadline"))
	if err != nil {
		flashError(w, r, h.renderer, RouteCreate, "Invalid registration deadline")
		return
	}
	if deadline.After(eventDate) {
		flashError(w, r, h.renderer, RouteCreate, "Registration deadline must not be after the event date")
		return
	}

	fee := int64(0)
	if raw := r.FormValue("fee"); raw != "" {
		fee, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || fee < 0 {
			flashError(w, r, h.renderer, RouteCreate, "Invalid fee")
			return
		}
	}

	now := time.Now()
	event, err := h.queries.CreateEvent(r.Context(), store.CreateEventParams{
		Name:                 name,
		Description:          description,
		EventType:            eventType,
		Venue:                venue,
		Fee:                  fee,
		OrganizerID:          user.ID,
		EventDate:            eventDate,
		EventTime:            eventTime,
		RegistrationDeadline: deadline,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		slog.Error("failed to create event", "error", err, "organizer_id", user.ID)
		flashError(w, r, h.renderer, RouteCreate, "Could not create event. Please try again.")
		return
	}

	_ = h.audit.LogEventEvent(r.Context(), model.AuditLevelInfo, "Event created", user.ID, getClientIP(r), map[string]any{"event_id": event.ID, "name": event.Name})

	flashSuccess(w, r, h.renderer, redirectManage, "Event created")
}

// ManageData holds the organizer event list view model.
type ManageData struct {
	Events []model.Event
}

// Manage renders the organizer's event list.
// GET /manage
func (h *EventHandler) Manage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	events, err := h.queries.ListEventsByOrganizer(r.Context(), user.ID)
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err, "organizer_id", user.ID)
		return
	}

	if err := h.renderer.Render(w, r, "manage", render.TemplateData{
		Title: "Manage Events",
		User:  user,
		Data:  ManageData{Events: events},
	}); err != nil {
		logAndInternalError(w, "failed to render manage page", "error", err)
	}
}

// EventDetailData holds the organizer event detail view model.
type EventDetailData struct {
	Event             model.Event
	RegistrationCount int64
}

// Detail renders a single event with its registration count.
// GET /manage/{id}
func (h *EventHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectManage, "Invalid event ID")
		return
	}

	event, ok := requireEntityWithRedirect(w, r, h.renderer, redirectManage, "event", id,
		func(id int64) (model.Event, error) { return h.queries.GetEventByID(r.Context(), id) })
	if !ok {
		return
	}

	// Organizers can only inspect their own events
	if event.OrganizerID != user.ID {
		flashError(w, r, h.renderer, redirectManage, "event not found")
		return
	}

	count, err := h.queries.CountRegistrationsByEvent(r.Context(), event.ID)
	if err != nil {
		logAndInternalError(w, "failed to count registrations", "error", err, "event_id", event.ID)
		return
	}

	if err := h.renderer.Render(w, r, "event", render.TemplateData{
		Title: event.Name,
		User:  user,
		Data:  EventDetailData{Event: event, RegistrationCount: count},
	}); err != nil {
		logAndInternalError(w, "failed to render event detail", "error", err)
	}
}

// Cancel marks an event as cancelled. Only the owning organizer may cancel.
// POST /manage/{id}/cancel
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectManage, "Invalid event ID")
		return
	}

	event, ok := requireEntityWithRedirect(w, r, h.renderer, redirectManage, "event", id,
		func(id int64) (model.Event, error) { return h.queries.GetEventByID(r.Context(), id) })
	if !ok {
		return
	}

	if event.OrganizerID != user.ID {
		flashError(w, r, h.renderer, redirectManage, "event not found")
		return
	}

	if event.Status == model.EventStatusCancelled || event.Status == model.EventStatusCompleted {
		flashError(w, r, h.renderer, fmt.Sprintf(redirectManageID, event.ID), "Event can no longer be cancelled")
		return
	}

	if err := h.queries.UpdateEventStatus(r.Context(), store.UpdateEventStatusParams{
		Status:    model.EventStatusCancelled,
		UpdatedAt: time.Now(),
		ID:        event.ID,
	}); err != nil {
		slog.Error("failed to cancel event", "error", err, "event_id", event.ID)
		flashError(w, r, h.renderer, redirectManage, "Could not cancel event")
		return
	}

	_ = h.audit.LogEventEvent(r.Context(), model.AuditLevelInfo, "Event cancelled", user.ID, getClientIP(r), map[string]any{"event_id": event.ID, "name": event.Name})

	flashSuccess(w, r, h.renderer, redirectManage, "Event cancelled")
}

// FindData holds the attendee search view model.
type FindData struct {
	Events     []model.Event
	Search     string
	Registered map[int64]bool
}

// Find renders open events for attendees, with optional search.
// GET /find?q=...
func (h *EventHandler) Find(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	search := r.URL.Query().Get("q")

	events, err := h.queries.ListOpenEvents(r.Context(), store.ListOpenEventsParams{
		Now:    time.Now(),
		Search: search,
	})
	if err != nil {
		logAndInternalError(w, "failed to list open events", "error", err)
		return
	}

	// Mark events the attendee already registered for
	regs, err := h.queries.ListRegistrationsByAttendee(r.Context(), user.ID)
	if err != nil {
		logAndInternalError(w, "failed to list registrations", "error", err, "user_id", user.ID)
		return
	}
	registered := make(map[int64]bool, len(regs))
	for _, reg := range regs {
		registered[reg.Registration.EventID] = true
	}

	if err := h.renderer.Render(w, r, "find", render.TemplateData{
		Title: "Find Events",
		User:  user,
		Data:  FindData{Events: events, Search: search, Registered: registered},
	}); err != nil {
		logAndInternalError(w, "failed to render find page", "error", err)
	}
}

// Register signs the attendee up for an event.
// POST /find/{id}/register
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, redirectFind, "Invalid event ID")
		return
	}

	event, ok := requireEntityWithRedirect(w, r, h.renderer, redirectFind, "event", id,
		func(id int64) (model.Event, error) { return h.queries.GetEventByID(r.Context(), id) })
	if !ok {
		return
	}

	now := time.Now()
	if !event.RegistrationOpen(now) {
		flashError(w, r, h.renderer, redirectFind, "Registration for this event has closed")
		return
	}

	if _, err := h.queries.GetRegistration(r.Context(), store.GetRegistrationParams{
		AttendeeID: user.ID,
		EventID:    event.ID,
	}); err == nil {
		flashError(w, r, h.renderer, redirectFind, "You are already registered for this event")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logAndInternalError(w, "failed to check registration", "error", err, "event_id", event.ID)
		return
	}

	paymentStatus := model.PaymentStatusPending
	if event.IsFree() {
		paymentStatus = model.PaymentStatusWaived
	}

	reg, err := h.queries.CreateRegistration(r.Context(), store.CreateRegistrationParams{
		Reference:        uuid.NewString(),
		AttendeeID:       user.ID,
		EventID:          event.ID,
		RegistrationDate: now,
		PaymentStatus:    paymentStatus,
	})
	if err != nil {
		// The unique index closes the race between the check above and this insert
		if store.IsUniqueViolation(err) {
			flashError(w, r, h.renderer, redirectFind, "You are already registered for this event")
			return
		}
		slog.Error("failed to create registration", "error", err, "event_id", event.ID, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectFind, "Could not register. Please try again.")
		return
	}

	_ = h.audit.LogRegistrationEvent(r.Context(), model.AuditLevelInfo, "Attendee registered for event", user.ID, getClientIP(r), map[string]any{"event_id": event.ID, "reference": reg.Reference})

	flashSuccess(w, r, h.renderer, redirectDashboard, "Registered for "+event.Name)
}

// HistoryData holds the per-role history view model.
type HistoryData struct {
	Events        []model.Event                 // organizer view
	Registrations []store.RegistrationWithEvent // attendee view
}

// History renders past events: hosted ones for organizers, attended ones for
// attendees.
// GET /history
func (h *EventHandler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	now := time.Now()
	var data HistoryData

	switch user.Role {
	case model.RoleOrganizer:
		events, err := h.queries.ListPastEventsByOrganizer(r.Context(), store.ListPastEventsByOrganizerParams{
			OrganizerID: user.ID,
			Now:         now,
		})
		if err != nil {
			logAndInternalError(w, "failed to list past events", "error", err, "organizer_id", user.ID)
			return
		}
		data.Events = events
	default:
		regs, err := h.queries.ListPastRegistrationsByAttendee(r.Context(), store.ListPastRegistrationsByAttendeeParams{
			AttendeeID: user.ID,
			Now:        now,
		})
		if err != nil {
			logAndInternalError(w, "failed to list past registrations", "error", err, "user_id", user.ID)
			return
		}
		data.Registrations = regs
	}

	if err := h.renderer.Render(w, r, "history", render.TemplateData{
		Title: "History",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render history page", "error", err)
	}
}

// ViewData holds the public upcoming events view model.
type ViewData struct {
	Events []model.Event
}

// View renders all upcoming events. Public route, no session required.
// GET /view
func (h *EventHandler) View(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListUpcomingEvents(r.Context(), time.Now())
	if err != nil {
		logAndInternalError(w, "failed to list upcoming events", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "view", render.TemplateData{
		Title: "Upcoming Events",
		User:  middleware.GetUser(r),
		Data:  ViewData{Events: events},
	}); err != nil {
		logAndInternalError(w, "failed to render view page", "error", err)
	}
}
